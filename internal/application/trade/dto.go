package trade

import (
	"strings"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// Default page sizes
const (
	DefaultPurchasesPerPage = 10
	DefaultCustomersPerPage = 10
)

// dateLayout is the format of the from/to customer filters
const dateLayout = "2006-01-02"

// PurchaseListParams are the raw query parameters of the purchases page
type PurchaseListParams struct {
	Page     string `form:"page"`
	PerPage  string `form:"per_page"`
	Sort     string `form:"sort"`
	Store    string `form:"store"`
	Statuses string `form:"status"`
}

func (p PurchaseListParams) toQuery(email string) (trade.PurchaseQuery, shared.PageRequest) {
	return trade.PurchaseQuery{
		Email:    email,
		Store:    strings.TrimSpace(p.Store),
		Statuses: trade.FilterPaymentStatuses(shared.SplitList(p.Statuses)),
		Sort:     shared.ParseSort(p.Sort, "createdAt", shared.SortDesc),
	}, shared.ParsePageRequest(p.Page, p.PerPage, DefaultPurchasesPerPage)
}

// StoreOrderListParams are the raw query parameters of a store's orders page
type StoreOrderListParams struct {
	Page     string `form:"page"`
	PerPage  string `form:"per_page"`
	Sort     string `form:"sort"`
	Email    string `form:"email"`
	Statuses string `form:"status"`
}

func (p StoreOrderListParams) toQuery(storeID int64) (trade.StoreOrderQuery, shared.PageRequest) {
	return trade.StoreOrderQuery{
		StoreID:  storeID,
		Email:    strings.TrimSpace(p.Email),
		Statuses: trade.FilterPaymentStatuses(shared.SplitList(p.Statuses)),
		Sort:     shared.ParseSort(p.Sort, "createdAt", shared.SortDesc),
	}, shared.ParsePageRequest(p.Page, p.PerPage, DefaultPurchasesPerPage)
}

// CustomerListParams are the raw query parameters of a store's customers page.
// From and To are dates (YYYY-MM-DD) and only apply together.
type CustomerListParams struct {
	Page    string `form:"page"`
	PerPage string `form:"per_page"`
	Sort    string `form:"sort"`
	Email   string `form:"email"`
	From    string `form:"from"`
	To      string `form:"to"`
}

func (p CustomerListParams) toQuery(storeID int64) (trade.CustomerQuery, shared.PageRequest) {
	q := trade.CustomerQuery{
		StoreID: storeID,
		Email:   strings.TrimSpace(p.Email),
		Sort:    shared.ParseSort(p.Sort, "createdAt", shared.SortAsc),
	}
	from, fromErr := time.Parse(dateLayout, strings.TrimSpace(p.From))
	to, toErr := time.Parse(dateLayout, strings.TrimSpace(p.To))
	if fromErr == nil && toErr == nil {
		// the whole "to" day is included
		end := to.Add(24*time.Hour - time.Nanosecond)
		q.From, q.To = &from, &end
	}
	return q, shared.ParsePageRequest(p.Page, p.PerPage, DefaultCustomersPerPage)
}

// OrderItemResponse is one order line
type OrderItemResponse struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// PurchaseResponse represents an order row in listings
type PurchaseResponse struct {
	ID        int64               `json:"id"`
	Email     string              `json:"email"`
	Items     []OrderItemResponse `json:"items"`
	Quantity  int                 `json:"quantity"`
	Amount    decimal.Decimal     `json:"amount"`
	Status    string              `json:"status"`
	StoreID   int64               `json:"store_id"`
	StoreName string              `json:"store_name"`
	CreatedAt time.Time           `json:"created_at"`
}

// ToPurchaseResponse converts a purchase row
func ToPurchaseResponse(p trade.Purchase) PurchaseResponse {
	items := make([]OrderItemResponse, 0, len(p.Items))
	qty := 0
	for _, item := range p.Items {
		items = append(items, OrderItemResponse{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price})
		qty += item.Quantity
	}
	return PurchaseResponse{
		ID:        p.ID,
		Email:     p.Email,
		Items:     items,
		Quantity:  qty,
		Amount:    p.Amount,
		Status:    string(p.Status),
		StoreID:   p.StoreID,
		StoreName: p.StoreName,
		CreatedAt: p.CreatedAt,
	}
}

// CustomerResponse represents a customer aggregate
type CustomerResponse struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	OrderPlaced int64           `json:"order_placed"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToCustomerResponse converts a customer aggregate
func ToCustomerResponse(c trade.CustomerSummary) CustomerResponse {
	return CustomerResponse{
		Name:        c.Name,
		Email:       c.Email,
		OrderPlaced: c.OrderPlaced,
		TotalSpent:  c.TotalSpent,
		CreatedAt:   c.CreatedAt,
	}
}

// PaymentIntentInput is the part of a payment intent needed to record an order.
// Metadata carries store_id, items, email and name set at checkout.
type PaymentIntentInput struct {
	ID       string
	Status   string
	Amount   decimal.Decimal
	Email    string
	Metadata map[string]string
}

package models

import (
	"time"

	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order domain entity.
// store_id carries no foreign key so sales history outlives a deleted store.
type OrderModel struct {
	BaseModel
	StoreID                   int64           `gorm:"not null;index"`
	Email                     string          `gorm:"type:varchar(191);not null;index"`
	Name                      string          `gorm:"type:varchar(191);not null;default:''"`
	Items                     string          `gorm:"type:text;not null"`
	Amount                    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	StripePaymentIntentID     string          `gorm:"type:varchar(191);not null;uniqueIndex"`
	StripePaymentIntentStatus string          `gorm:"type:varchar(64);not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() (*trade.Order, error) {
	items, err := trade.ParseOrderItems(m.Items)
	if err != nil {
		return nil, err
	}
	return &trade.Order{
		BaseEntity:            m.BaseModel.ToDomain(),
		StoreID:               m.StoreID,
		Email:                 m.Email,
		Name:                  m.Name,
		Items:                 items,
		Amount:                m.Amount,
		StripePaymentIntentID: m.StripePaymentIntentID,
		PaymentStatus:         trade.PaymentStatus(m.StripePaymentIntentStatus),
	}, nil
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.StoreID = o.StoreID
	m.Email = o.Email
	m.Name = o.Name
	m.Items = o.ItemsJSON()
	m.Amount = o.Amount
	m.StripePaymentIntentID = o.StripePaymentIntentID
	m.StripePaymentIntentStatus = string(o.PaymentStatus)
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// PurchaseRow is the scan target of order listings joined with stores.
type PurchaseRow struct {
	ID        int64
	Email     string
	Items     string
	Amount    decimal.Decimal
	Status    string
	StoreID   int64
	StoreName *string
	CreatedAt time.Time
}

// ToDomain converts the row to a trade.Purchase. Undecodable items yield an
// empty list rather than failing the whole page.
func (r *PurchaseRow) ToDomain() trade.Purchase {
	items, err := trade.ParseOrderItems(r.Items)
	if err != nil {
		items = []trade.OrderItem{}
	}
	p := trade.Purchase{
		ID:        r.ID,
		Email:     r.Email,
		Items:     items,
		Amount:    r.Amount,
		Status:    trade.PaymentStatus(r.Status),
		StoreID:   r.StoreID,
		CreatedAt: r.CreatedAt,
	}
	if r.StoreName != nil {
		p.StoreName = *r.StoreName
	}
	return p
}

// CustomerRow is the scan target of the grouped customer listing.
type CustomerRow struct {
	Email       string
	Name        string
	OrderPlaced int64
	TotalSpent  decimal.NullDecimal
	CreatedAt   time.Time
}

// ToDomain converts the row to a trade.CustomerSummary
func (r *CustomerRow) ToDomain() trade.CustomerSummary {
	total := decimal.Zero
	if r.TotalSpent.Valid {
		total = r.TotalSpent.Decimal
	}
	return trade.CustomerSummary{
		Name:        r.Name,
		Email:       r.Email,
		OrderPlaced: r.OrderPlaced,
		TotalSpent:  total.Round(2),
		CreatedAt:   r.CreatedAt,
	}
}

package trade

import (
	"encoding/json"
	"strings"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentStatus mirrors the payment-intent status reported by the payments provider
type PaymentStatus string

const (
	PaymentStatusRequiresPaymentMethod PaymentStatus = "requires_payment_method"
	PaymentStatusRequiresConfirmation  PaymentStatus = "requires_confirmation"
	PaymentStatusRequiresAction        PaymentStatus = "requires_action"
	PaymentStatusProcessing            PaymentStatus = "processing"
	PaymentStatusRequiresCapture       PaymentStatus = "requires_capture"
	PaymentStatusCanceled              PaymentStatus = "canceled"
	PaymentStatusSucceeded             PaymentStatus = "succeeded"
)

var paymentStatuses = []PaymentStatus{
	PaymentStatusRequiresPaymentMethod,
	PaymentStatusRequiresConfirmation,
	PaymentStatusRequiresAction,
	PaymentStatusProcessing,
	PaymentStatusRequiresCapture,
	PaymentStatusCanceled,
	PaymentStatusSucceeded,
}

// IsValid reports whether s is a known payment-intent status
func (s PaymentStatus) IsValid() bool {
	for _, known := range paymentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status can follow s
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSucceeded || s == PaymentStatusCanceled
}

// FilterPaymentStatuses keeps only the known statuses from raw
func FilterPaymentStatuses(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if PaymentStatus(s).IsValid() {
			out = append(out, s)
		}
	}
	return out
}

// OrderItem is one line of an order
type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// ParseOrderItems decodes the JSON line items stored with an order
func ParseOrderItems(raw string) ([]OrderItem, error) {
	if strings.TrimSpace(raw) == "" {
		return []OrderItem{}, nil
	}
	var items []OrderItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Order items must be a JSON array")
	}
	return items, nil
}

// Order is a purchase record tied to a payment intent. It belongs to exactly one store.
type Order struct {
	shared.BaseEntity
	StoreID               int64
	Email                 string
	Name                  string
	Items                 []OrderItem
	Amount                decimal.Decimal
	StripePaymentIntentID string
	PaymentStatus         PaymentStatus
}

// NewOrder creates an order for a payment intent
func NewOrder(storeID int64, email, name string, items []OrderItem, amount decimal.Decimal, intentID string, status PaymentStatus) (*Order, error) {
	if storeID <= 0 {
		return nil, shared.NewDomainError("INVALID_STORE", "Order must belong to a store")
	}
	if strings.TrimSpace(intentID) == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_INTENT", "Payment intent ID is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order amount cannot be negative")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown payment status: "+string(status))
	}
	if items == nil {
		items = []OrderItem{}
	}

	return &Order{
		BaseEntity:            shared.NewBaseEntity(),
		StoreID:               storeID,
		Email:                 strings.ToLower(strings.TrimSpace(email)),
		Name:                  strings.TrimSpace(name),
		Items:                 items,
		Amount:                amount.Round(2),
		StripePaymentIntentID: intentID,
		PaymentStatus:         status,
	}, nil
}

// UpdatePaymentStatus records a new payment-intent status and reports whether
// the order changed. Once an order is succeeded or canceled, later statuses
// are ignored so out-of-order deliveries cannot move it backwards.
func (o *Order) UpdatePaymentStatus(status PaymentStatus) (bool, error) {
	if !status.IsValid() {
		return false, shared.NewDomainError("INVALID_STATUS", "Unknown payment status: "+string(status))
	}
	if o.PaymentStatus == status || o.PaymentStatus.IsTerminal() {
		return false, nil
	}
	o.PaymentStatus = status
	o.Touch()
	return true, nil
}

// ItemsJSON encodes the line items for storage
func (o *Order) ItemsJSON() string {
	b, err := json.Marshal(o.Items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Quantity returns the total number of units ordered
func (o *Order) Quantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

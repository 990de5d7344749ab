package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerSummary aggregates the orders a customer placed with one store
type CustomerSummary struct {
	Name        string
	Email       string
	OrderPlaced int64
	TotalSpent  decimal.Decimal
	CreatedAt   time.Time
}

// Purchase is an order row as seen by the buyer, with the store name
type Purchase struct {
	ID        int64
	Email     string
	Items     []OrderItem
	Amount    decimal.Decimal
	Status    PaymentStatus
	StoreID   int64
	StoreName string
	CreatedAt time.Time
}

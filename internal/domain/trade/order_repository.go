package trade

import (
	"context"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Sort columns accepted by order listings
var OrderSortColumns = []string{"createdAt", "amount", "status", "email", "id", "storeId"}

// Sort columns accepted by the customer listing
var CustomerSortColumns = []string{"name", "email", "totalSpent", "orderPlaced", "createdAt"}

// PurchaseQuery filters the orders placed by one buyer
type PurchaseQuery struct {
	Email    string
	Store    string
	Statuses []string
	Sort     shared.SortParam
}

// StoreOrderQuery filters the orders received by one store
type StoreOrderQuery struct {
	StoreID  int64
	Email    string
	Statuses []string
	Sort     shared.SortParam
}

// CustomerQuery filters the customers of one store
type CustomerQuery struct {
	StoreID int64
	Email   string
	From    *time.Time
	To      *time.Time
	Sort    shared.SortParam
}

// HasDateRange reports whether both date bounds are set; a single bound is ignored
func (q CustomerQuery) HasDateRange() bool {
	return q.From != nil && q.To != nil
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// QueryPurchases returns one page of a buyer's orders plus the total match count
	QueryPurchases(ctx context.Context, q PurchaseQuery, page shared.PageRequest) (shared.Page[Purchase], error)

	// QueryStoreOrders returns one page of a store's orders plus the total match count
	QueryStoreOrders(ctx context.Context, q StoreOrderQuery, page shared.PageRequest) (shared.Page[Purchase], error)

	// QueryCustomers returns one page of customer aggregates plus the number of customers
	QueryCustomers(ctx context.Context, q CustomerQuery, page shared.PageRequest) (shared.Page[CustomerSummary], error)

	// FindByPaymentIntentID finds the order created for a payment intent
	FindByPaymentIntentID(ctx context.Context, intentID string) (*Order, error)

	// Create inserts a new order and assigns its ID
	Create(ctx context.Context, order *Order) error

	// Save updates an existing order
	Save(ctx context.Context, order *Order) error
}

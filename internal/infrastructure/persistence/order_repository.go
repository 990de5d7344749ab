package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const purchaseColumns = "orders.id, orders.email, orders.items, orders.amount, orders.stripe_payment_intent_status AS status, orders.store_id, stores.name AS store_name, orders.created_at"

const customerColumns = "orders.email, orders.name, COUNT(*) AS order_placed, SUM(orders.amount) AS total_spent, MIN(orders.created_at) AS created_at"

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)

// QueryPurchases returns one page of a buyer's orders plus the total match count
func (r *GormOrderRepository) QueryPurchases(ctx context.Context, q trade.PurchaseQuery, page shared.PageRequest) (shared.Page[trade.Purchase], error) {
	build := func(tx *gorm.DB) *gorm.DB {
		query := tx.Table("orders").
			Joins("LEFT JOIN stores ON stores.id = orders.store_id").
			Where("orders.email = ?", strings.ToLower(q.Email))
		if store := strings.TrimSpace(q.Store); store != "" {
			query = query.Where("LOWER(stores.name) LIKE ?", "%"+strings.ToLower(store)+"%")
		}
		return whereStatuses(query, q.Statuses)
	}
	return r.queryOrders(ctx, build, q.Sort, page)
}

// QueryStoreOrders returns one page of a store's orders plus the total match count
func (r *GormOrderRepository) QueryStoreOrders(ctx context.Context, q trade.StoreOrderQuery, page shared.PageRequest) (shared.Page[trade.Purchase], error) {
	build := func(tx *gorm.DB) *gorm.DB {
		query := tx.Table("orders").
			Joins("LEFT JOIN stores ON stores.id = orders.store_id").
			Where("orders.store_id = ?", q.StoreID)
		if email := strings.TrimSpace(q.Email); email != "" {
			query = query.Where("LOWER(orders.email) LIKE ?", "%"+strings.ToLower(email)+"%")
		}
		return whereStatuses(query, q.Statuses)
	}
	return r.queryOrders(ctx, build, q.Sort, page)
}

func (r *GormOrderRepository) queryOrders(ctx context.Context, build func(*gorm.DB) *gorm.DB, sort shared.SortParam, page shared.PageRequest) (shared.Page[trade.Purchase], error) {
	var (
		rows  []models.PurchaseRow
		total int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := build(tx).
			Select(purchaseColumns).
			Order(orderClause(sort, OrderSortFields, defaultOrderSort, "orders.id")).
			Limit(page.Limit()).
			Offset(page.Offset()).
			Scan(&rows).Error; err != nil {
			return err
		}
		return build(tx).Count(&total).Error
	})
	if err != nil {
		return shared.Page[trade.Purchase]{}, err
	}

	items := make([]trade.Purchase, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPage(items, total, page), nil
}

// QueryCustomers groups a store's orders by (email, name). The total is the
// number of groups, counted over the grouped statement as a subquery.
func (r *GormOrderRepository) QueryCustomers(ctx context.Context, q trade.CustomerQuery, page shared.PageRequest) (shared.Page[trade.CustomerSummary], error) {
	build := func(tx *gorm.DB) *gorm.DB {
		query := tx.Table("orders").Where("orders.store_id = ?", q.StoreID)
		if email := strings.TrimSpace(q.Email); email != "" {
			query = query.Where("LOWER(orders.email) LIKE ?", "%"+strings.ToLower(email)+"%")
		}
		if q.HasDateRange() {
			query = query.Where("orders.created_at >= ? AND orders.created_at <= ?", *q.From, *q.To)
		}
		return query.Group("orders.email, orders.name")
	}

	var (
		rows  []models.CustomerRow
		total int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := build(tx).
			Select(customerColumns).
			Order(orderClause(q.Sort, CustomerSortFields, defaultCustomerSort, "orders.email", "orders.name")).
			Limit(page.Limit()).
			Offset(page.Offset()).
			Scan(&rows).Error; err != nil {
			return err
		}
		groups := build(tx).Select("orders.email, orders.name")
		return tx.Table("(?) AS customers", groups).Count(&total).Error
	})
	if err != nil {
		return shared.Page[trade.CustomerSummary]{}, err
	}

	items := make([]trade.CustomerSummary, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPage(items, total, page), nil
}

// FindByPaymentIntentID finds the order created for a payment intent
func (r *GormOrderRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("stripe_payment_intent_id = ?", intentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Create inserts a new order and assigns its ID
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	order.ID = model.ID
	return nil
}

// Save updates the mutable fields of an existing order
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"stripe_payment_intent_status": string(order.PaymentStatus),
			"updated_at":                   order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func whereStatuses(query *gorm.DB, statuses []string) *gorm.DB {
	if len(statuses) == 0 {
		return query
	}
	return query.Where("orders.stripe_payment_intent_status IN ?", statuses)
}

package trade

import (
	"context"

	"github.com/marketplace/backend/internal/domain/merchant"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) QueryPurchases(ctx context.Context, q trade.PurchaseQuery, page shared.PageRequest) (shared.Page[trade.Purchase], error) {
	args := m.Called(ctx, q, page)
	return args.Get(0).(shared.Page[trade.Purchase]), args.Error(1)
}

func (m *MockOrderRepository) QueryStoreOrders(ctx context.Context, q trade.StoreOrderQuery, page shared.PageRequest) (shared.Page[trade.Purchase], error) {
	args := m.Called(ctx, q, page)
	return args.Get(0).(shared.Page[trade.Purchase]), args.Error(1)
}

func (m *MockOrderRepository) QueryCustomers(ctx context.Context, q trade.CustomerQuery, page shared.PageRequest) (shared.Page[trade.CustomerSummary], error) {
	args := m.Called(ctx, q, page)
	return args.Get(0).(shared.Page[trade.CustomerSummary]), args.Error(1)
}

func (m *MockOrderRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*trade.Order, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockStoreRepository is a mock implementation of StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Query(ctx context.Context, q merchant.StoreQuery, page shared.PageRequest) (shared.Page[merchant.StoreWithCount], error) {
	args := m.Called(ctx, q, page)
	return args.Get(0).(shared.Page[merchant.StoreWithCount]), args.Error(1)
}

func (m *MockStoreRepository) ListByOwner(ctx context.Context, userID string) ([]merchant.StoreWithCount, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]merchant.StoreWithCount), args.Error(1)
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id int64) (*merchant.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchant.Store), args.Error(1)
}

func (m *MockStoreRepository) CountByOwner(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStoreRepository) Create(ctx context.Context, store *merchant.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) Save(ctx context.Context, store *merchant.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

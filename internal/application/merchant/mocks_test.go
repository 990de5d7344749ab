package merchant

import (
	"context"

	"github.com/marketplace/backend/internal/domain/billing"
	"github.com/marketplace/backend/internal/domain/merchant"
	"github.com/marketplace/backend/internal/domain/shared"
	infrabilling "github.com/marketplace/backend/internal/infrastructure/billing"
	"github.com/stretchr/testify/mock"
)

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

// MockPlanResolver is a mock implementation of PlanResolver
type MockPlanResolver struct {
	mock.Mock
}

func (m *MockPlanResolver) GetSubscriptionPlan(ctx context.Context, userID string) (*billing.SubscriptionPlan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SubscriptionPlan), args.Error(1)
}

// MockAccountReader is a mock implementation of AccountReader
type MockAccountReader struct {
	mock.Mock
}

func (m *MockAccountReader) GetAccountStatus(ctx context.Context, accountID string) (*infrabilling.AccountStatus, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infrabilling.AccountStatus), args.Error(1)
}

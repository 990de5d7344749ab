package handler

import (
	"context"

	billingapp "github.com/marketplace/backend/internal/application/billing"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	merchantapp "github.com/marketplace/backend/internal/application/merchant"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockCatalogReader is a mock implementation of CatalogReader
type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) ListStorefront(ctx context.Context, params catalogapp.ProductListParams) (*catalogapp.StorefrontResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.StorefrontResponse), args.Error(1)
}

func (m *MockCatalogReader) ListSubcategory(ctx context.Context, category, subcategory string, params catalogapp.ProductListParams) (*catalogapp.SubcategoryPageResponse, error) {
	args := m.Called(ctx, category, subcategory, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.SubcategoryPageResponse), args.Error(1)
}

func (m *MockCatalogReader) ListStoreProducts(ctx context.Context, storeID int64, params catalogapp.ProductListParams) (shared.Page[catalogapp.ProductListItemResponse], error) {
	args := m.Called(ctx, storeID, params)
	return args.Get(0).(shared.Page[catalogapp.ProductListItemResponse]), args.Error(1)
}

func (m *MockCatalogReader) Get(ctx context.Context, id int64) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockCatalogReader) Categories() []catalog.CategoryInfo {
	args := m.Called()
	return args.Get(0).([]catalog.CategoryInfo)
}

// MockStoreDirectory is a mock implementation of StoreDirectory
type MockStoreDirectory struct {
	mock.Mock
}

func (m *MockStoreDirectory) ListPublic(ctx context.Context, params merchantapp.StoreListParams) (shared.Page[merchantapp.StoreResponse], error) {
	args := m.Called(ctx, params)
	return args.Get(0).(shared.Page[merchantapp.StoreResponse]), args.Error(1)
}

func (m *MockStoreDirectory) Get(ctx context.Context, id int64) (*merchantapp.StoreResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantapp.StoreResponse), args.Error(1)
}

// MockStoreManager is a mock implementation of StoreManager
type MockStoreManager struct {
	mock.Mock
}

func (m *MockStoreManager) ListDashboard(ctx context.Context, userID string) (*merchantapp.DashboardStoresResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantapp.DashboardStoresResponse), args.Error(1)
}

func (m *MockStoreManager) GetOwned(ctx context.Context, userID string, storeID int64) (*merchantapp.StoreResponse, error) {
	args := m.Called(ctx, userID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantapp.StoreResponse), args.Error(1)
}

func (m *MockStoreManager) Create(ctx context.Context, userID string, req merchantapp.CreateStoreRequest) (*merchantapp.StoreResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantapp.StoreResponse), args.Error(1)
}

func (m *MockStoreManager) Update(ctx context.Context, userID string, storeID int64, req merchantapp.UpdateStoreRequest) (*merchantapp.StoreResponse, error) {
	args := m.Called(ctx, userID, storeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantapp.StoreResponse), args.Error(1)
}

func (m *MockStoreManager) Delete(ctx context.Context, userID string, storeID int64) error {
	args := m.Called(ctx, userID, storeID)
	return args.Error(0)
}

func (m *MockStoreManager) PaymentAccountStatus(ctx context.Context, userID string, storeID int64) (*merchantapp.PaymentAccountResponse, error) {
	args := m.Called(ctx, userID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantapp.PaymentAccountResponse), args.Error(1)
}

func (m *MockStoreManager) ConnectPaymentAccount(ctx context.Context, userID string, storeID int64, req merchantapp.ConnectAccountRequest) (*merchantapp.PaymentAccountResponse, error) {
	args := m.Called(ctx, userID, storeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantapp.PaymentAccountResponse), args.Error(1)
}

func (m *MockStoreManager) DisconnectPaymentAccount(ctx context.Context, userID string, storeID int64) error {
	args := m.Called(ctx, userID, storeID)
	return args.Error(0)
}

// MockProductManager is a mock implementation of ProductManager
type MockProductManager struct {
	mock.Mock
}

func (m *MockProductManager) ListForStore(ctx context.Context, userID string, storeID int64, params catalogapp.ProductListParams) (shared.Page[catalogapp.ProductListItemResponse], error) {
	args := m.Called(ctx, userID, storeID, params)
	return args.Get(0).(shared.Page[catalogapp.ProductListItemResponse]), args.Error(1)
}

func (m *MockProductManager) GetForStore(ctx context.Context, userID string, storeID, productID int64) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, userID, storeID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductManager) Create(ctx context.Context, userID string, storeID int64, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, userID, storeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductManager) Update(ctx context.Context, userID string, storeID, productID int64, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, userID, storeID, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductManager) Delete(ctx context.Context, userID string, storeID, productID int64) error {
	args := m.Called(ctx, userID, storeID, productID)
	return args.Error(0)
}

// MockOrderReader is a mock implementation of OrderReader
type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) ListPurchases(ctx context.Context, email string, params tradeapp.PurchaseListParams) (shared.Page[tradeapp.PurchaseResponse], error) {
	args := m.Called(ctx, email, params)
	return args.Get(0).(shared.Page[tradeapp.PurchaseResponse]), args.Error(1)
}

func (m *MockOrderReader) ListStoreOrders(ctx context.Context, userID string, storeID int64, params tradeapp.StoreOrderListParams) (shared.Page[tradeapp.PurchaseResponse], error) {
	args := m.Called(ctx, userID, storeID, params)
	return args.Get(0).(shared.Page[tradeapp.PurchaseResponse]), args.Error(1)
}

func (m *MockOrderReader) ListCustomers(ctx context.Context, userID string, storeID int64, params tradeapp.CustomerListParams) (shared.Page[tradeapp.CustomerResponse], error) {
	args := m.Called(ctx, userID, storeID, params)
	return args.Get(0).(shared.Page[tradeapp.CustomerResponse]), args.Error(1)
}

// MockBillingReader is a mock implementation of BillingReader
type MockBillingReader struct {
	mock.Mock
}

func (m *MockBillingReader) GetBillingOverview(ctx context.Context, userID string) (*billingapp.BillingOverviewResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.BillingOverviewResponse), args.Error(1)
}

// MockWebhookProcessor is a mock implementation of WebhookProcessor
type MockWebhookProcessor struct {
	mock.Mock
}

func (m *MockWebhookProcessor) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*billingapp.WebhookResult, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.WebhookResult), args.Error(1)
}

// MockPinger is a mock implementation of Pinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

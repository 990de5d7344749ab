package merchant

import (
	"context"
	"fmt"

	"github.com/marketplace/backend/internal/domain/billing"
	"github.com/marketplace/backend/internal/domain/merchant"
	"github.com/marketplace/backend/internal/domain/shared"
	infrabilling "github.com/marketplace/backend/internal/infrastructure/billing"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrPaymentsUnavailable is returned when no payments provider is configured
var ErrPaymentsUnavailable = shared.NewDomainError("PAYMENTS_UNAVAILABLE", "Payments provider is not configured")

// PlanResolver returns the effective subscription plan of a user
type PlanResolver interface {
	GetSubscriptionPlan(ctx context.Context, userID string) (*billing.SubscriptionPlan, error)
}

// AccountReader reads connected account state from the payments provider
type AccountReader interface {
	GetAccountStatus(ctx context.Context, accountID string) (*infrabilling.AccountStatus, error)
}

// StoreService handles store-related business operations
type StoreService struct {
	storeRepo merchant.StoreRepository
	plans     PlanResolver
	catalog   *billing.Catalog
	accounts  AccountReader
	metrics   *telemetry.BusinessMetrics
	logger    *zap.Logger
}

// StoreServiceConfig contains the dependencies of StoreService.
// Accounts and Metrics are optional.
type StoreServiceConfig struct {
	StoreRepo merchant.StoreRepository
	Plans     PlanResolver
	Catalog   *billing.Catalog
	Accounts  AccountReader
	Metrics   *telemetry.BusinessMetrics
	Logger    *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(cfg StoreServiceConfig) *StoreService {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &StoreService{
		storeRepo: cfg.StoreRepo,
		plans:     cfg.Plans,
		catalog:   cfg.Catalog,
		accounts:  cfg.Accounts,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}
}

// ListPublic returns the stores page
func (s *StoreService) ListPublic(ctx context.Context, params StoreListParams) (shared.Page[StoreResponse], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "store", "list_public")
	defer span.End()

	q, page := params.toQuery()
	result, err := s.storeRepo.Query(ctx, q, page)
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Page[StoreResponse]{}, err
	}
	return shared.MapPage(result, ToStoreWithCountResponse), nil
}

// Get returns a store by ID
func (s *StoreService) Get(ctx context.Context, storeID int64) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	return &resp, nil
}

// GetOwned returns a store of the signed-in user
func (s *StoreService) GetOwned(ctx context.Context, userID string, storeID int64) (*StoreResponse, error) {
	store, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID)
	if err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	resp.UserID = store.UserID
	return &resp, nil
}

// ListDashboard returns the user's stores with their plan, limits and the
// path the "create store" action should lead to
func (s *StoreService) ListDashboard(ctx context.Context, userID string) (*DashboardStoresResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "store", "list_dashboard", attribute.String("user_id", userID))
	defer span.End()

	stores, err := s.storeRepo.ListByOwner(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	plan, err := s.plans.GetSubscriptionPlan(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	items := make([]StoreResponse, 0, len(stores))
	for _, st := range stores {
		resp := ToStoreWithCountResponse(st)
		resp.UserID = st.UserID
		items = append(items, resp)
	}

	return &DashboardStoresResponse{
		Stores:       items,
		Plan:         plan,
		Features:     plan.Limits,
		RedirectPath: s.catalog.DashboardRedirectPath(int64(len(stores)), plan),
	}, nil
}

// Create creates a store when the user's plan allows another one
func (s *StoreService) Create(ctx context.Context, userID string, req CreateStoreRequest) (*StoreResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "store", "create", attribute.String("user_id", userID))
	defer span.End()

	count, err := s.storeRepo.CountByOwner(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	plan, err := s.plans.GetSubscriptionPlan(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if limit := plan.Limits.MaxStoreCount; count >= int64(limit) {
		return nil, shared.NewDomainError(shared.ErrPlanLimitExceeded.Code,
			fmt.Sprintf("The %s plan allows up to %d stores", plan.Title, limit))
	}

	store, err := merchant.NewStore(userID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordStoreCreated(ctx)
	s.logger.Info("Store created",
		zap.Int64("store_id", store.ID),
		zap.String("user_id", userID))
	telemetry.SetOK(span)

	resp := ToStoreResponse(store)
	resp.UserID = userID
	return &resp, nil
}

// Update changes the name and description of an owned store
func (s *StoreService) Update(ctx context.Context, userID string, storeID int64, req UpdateStoreRequest) (*StoreResponse, error) {
	store, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID)
	if err != nil {
		return nil, err
	}
	if err := store.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	resp := ToStoreResponse(store)
	resp.UserID = userID
	return &resp, nil
}

// Delete removes an owned store together with its products
func (s *StoreService) Delete(ctx context.Context, userID string, storeID int64) error {
	if _, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID); err != nil {
		return err
	}
	if err := s.storeRepo.Delete(ctx, storeID); err != nil {
		return err
	}
	s.logger.Info("Store deleted", zap.Int64("store_id", storeID), zap.String("user_id", userID))
	return nil
}

// PaymentAccountStatus returns the onboarding state of the store's connected account
func (s *StoreService) PaymentAccountStatus(ctx context.Context, userID string, storeID int64) (*PaymentAccountResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "store", "payment_account_status", attribute.Int64("store_id", storeID))
	defer span.End()

	store, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID)
	if err != nil {
		return nil, err
	}

	resp := &PaymentAccountResponse{StoreID: store.ID, Connected: store.Active()}
	if !store.Active() {
		return resp, nil
	}
	if s.accounts == nil {
		return nil, ErrPaymentsUnavailable
	}

	status, err := s.accounts.GetAccountStatus(ctx, *store.StripeAccountID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp.Account = status
	resp.Ready = status.IsReady()
	return resp, nil
}

// ConnectPaymentAccount links an owned store to a connected account after
// checking the account exists
func (s *StoreService) ConnectPaymentAccount(ctx context.Context, userID string, storeID int64, req ConnectAccountRequest) (*PaymentAccountResponse, error) {
	store, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID)
	if err != nil {
		return nil, err
	}
	if s.accounts == nil {
		return nil, ErrPaymentsUnavailable
	}

	status, err := s.accounts.GetAccountStatus(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if err := store.ConnectAccount(status.AccountID); err != nil {
		return nil, err
	}
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}

	s.logger.Info("Store payment account connected",
		zap.Int64("store_id", storeID),
		zap.String("account_id", status.AccountID))
	return &PaymentAccountResponse{StoreID: store.ID, Connected: true, Ready: status.IsReady(), Account: status}, nil
}

// DisconnectPaymentAccount unlinks the store's connected account
func (s *StoreService) DisconnectPaymentAccount(ctx context.Context, userID string, storeID int64) error {
	store, err := merchant.FindOwnedStore(ctx, s.storeRepo, storeID, userID)
	if err != nil {
		return err
	}
	if !store.Active() {
		return nil
	}
	store.DisconnectAccount()
	return s.storeRepo.Save(ctx, store)
}

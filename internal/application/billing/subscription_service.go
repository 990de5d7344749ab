package billing

import (
	"context"
	"errors"
	"time"

	"github.com/marketplace/backend/internal/domain/billing"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	infrabilling "github.com/marketplace/backend/internal/infrastructure/billing"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultPlanCacheTTL is used when no cache TTL is configured
const DefaultPlanCacheTTL = 5 * time.Minute

// SubscriptionReader reads live subscription state from the payments provider
type SubscriptionReader interface {
	GetSubscription(ctx context.Context, subscriptionID string) (*infrabilling.SubscriptionStatus, error)
}

// SubscriptionService resolves the effective subscription plan of a user
type SubscriptionService struct {
	repo     identity.UserSubscriptionRepository
	catalog  *billing.Catalog
	reader   SubscriptionReader
	cache    billing.SubscriptionCache
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// SubscriptionServiceConfig contains the dependencies of SubscriptionService.
// Reader and Cache are optional.
type SubscriptionServiceConfig struct {
	Repo     identity.UserSubscriptionRepository
	Catalog  *billing.Catalog
	Reader   SubscriptionReader
	Cache    billing.SubscriptionCache
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(cfg SubscriptionServiceConfig) *SubscriptionService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultPlanCacheTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &SubscriptionService{
		repo:     cfg.Repo,
		catalog:  cfg.Catalog,
		reader:   cfg.Reader,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		logger:   cfg.Logger,
		now:      time.Now,
	}
}

// Catalog returns the plan catalog
func (s *SubscriptionService) Catalog() *billing.Catalog {
	return s.catalog
}

// GetSubscriptionPlan returns the plan the user is entitled to.
// Users without a stored subscription get the free plan.
func (s *SubscriptionService) GetSubscriptionPlan(ctx context.Context, userID string) (*billing.SubscriptionPlan, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "subscription", "get_plan", attribute.String("user_id", userID))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("Subscription cache read failed", zap.String("user_id", userID), zap.Error(err))
		} else if cached != nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cached, nil
		}
	}

	rec, err := s.loadRecord(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.now()
	canceled, live := false, true
	if rec.IsSubscribed(now) && rec.StripeSubscriptionID != "" && s.reader != nil {
		status, err := s.reader.GetSubscription(ctx, rec.StripeSubscriptionID)
		if err != nil {
			// serve the stored plan but do not cache it
			s.logger.Warn("Failed to read subscription from payments provider",
				zap.String("user_id", userID),
				zap.String("subscription_id", rec.StripeSubscriptionID),
				zap.Error(err))
			live = false
		} else {
			canceled = status.CancelAtPeriodEnd
		}
	}

	plan := s.catalog.Resolve(rec, canceled, now)
	if live && s.cache != nil {
		if err := s.cache.Set(ctx, userID, plan, s.cacheTTL); err != nil {
			s.logger.Warn("Subscription cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	span.SetAttributes(attribute.String("plan", string(plan.ID)), attribute.Bool("active", plan.IsActive))
	telemetry.SetOK(span)
	return plan, nil
}

func (s *SubscriptionService) loadRecord(ctx context.Context, userID string) (*billing.SubscriptionRecord, error) {
	sub, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub.SubscriptionRecord, nil
}

// GetBillingOverview returns the user's plan with the full plan list
func (s *SubscriptionService) GetBillingOverview(ctx context.Context, userID string) (*BillingOverviewResponse, error) {
	plan, err := s.GetSubscriptionPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BillingOverviewResponse{
		Plan:     plan,
		Plans:    s.catalog.Plans(),
		Features: plan.Limits,
	}, nil
}

// InvalidateUser drops the cached plan of a user
func (s *SubscriptionService) InvalidateUser(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("Failed to invalidate cached subscription plan",
			zap.String("user_id", userID), zap.Error(err))
	}
}

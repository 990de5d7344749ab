package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	infrabilling "github.com/marketplace/backend/internal/infrastructure/billing"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrInvalidSignature is returned when a webhook payload fails verification
var ErrInvalidSignature = shared.NewDomainError("INVALID_SIGNATURE", "Webhook signature verification failed")

// MetadataUserID is the subscription metadata key holding the identity-provider user id
const MetadataUserID = "user_id"

// EventVerifier verifies and decodes webhook payloads
type EventVerifier interface {
	ConstructEvent(payload []byte, signature string) (stripe.Event, error)
}

// PaymentRecorder records orders from payment intents
type PaymentRecorder interface {
	RecordPaymentIntent(ctx context.Context, in tradeapp.PaymentIntentInput) (bool, error)
}

// PlanInvalidator drops cached subscription plans
type PlanInvalidator interface {
	InvalidateUser(ctx context.Context, userID string)
}

// WebhookService handles Stripe webhook events
type WebhookService struct {
	verifier    EventVerifier
	payments    PaymentRecorder
	subRepo     identity.UserSubscriptionRepository
	plans       PlanInvalidator
	idempotency shared.IdempotencyStore
	metrics     *telemetry.BusinessMetrics
	logger      *zap.Logger
}

// WebhookServiceConfig contains configuration for WebhookService.
// Idempotency, Plans and Metrics are optional.
type WebhookServiceConfig struct {
	Verifier    EventVerifier
	Payments    PaymentRecorder
	SubRepo     identity.UserSubscriptionRepository
	Plans       PlanInvalidator
	Idempotency shared.IdempotencyStore
	Metrics     *telemetry.BusinessMetrics
	Logger      *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(cfg WebhookServiceConfig) *WebhookService {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &WebhookService{
		verifier:    cfg.Verifier,
		payments:    cfg.Payments,
		subRepo:     cfg.SubRepo,
		plans:       cfg.Plans,
		idempotency: cfg.Idempotency,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
}

// ProcessWebhook verifies the payload and applies the event.
// Events already processed are acknowledged without being applied again.
func (s *WebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.verifier.ConstructEvent(payload, signature)
	if err != nil {
		s.logger.Warn("Rejected webhook payload", zap.Error(err))
		return nil, ErrInvalidSignature
	}
	return s.HandleEvent(ctx, event)
}

// HandleEvent applies a verified event
func (s *WebhookService) HandleEvent(ctx context.Context, event stripe.Event) (*WebhookResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "webhook", "handle_event",
		attribute.String("event_id", event.ID),
		attribute.String("event_type", string(event.Type)))
	defer span.End()

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	if s.idempotency != nil && event.ID != "" {
		first, err := s.idempotency.MarkProcessed(ctx, event.ID, shared.DefaultIdempotencyTTL)
		if err != nil {
			s.logger.Warn("Idempotency check failed, processing anyway",
				zap.String("event_id", event.ID), zap.Error(err))
		} else if !first {
			s.logger.Info("Duplicate webhook event skipped", zap.String("event_id", event.ID))
			s.metrics.RecordWebhookEvent(ctx, result.EventType, telemetry.WebhookOutcomeDuplicate)
			result.Processed = false
			result.Message = "Event already processed"
			return result, nil
		}
	}

	s.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	var err error
	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded,
		stripe.EventTypePaymentIntentProcessing,
		stripe.EventTypePaymentIntentPaymentFailed,
		stripe.EventTypePaymentIntentCanceled:
		err = s.handlePaymentIntent(ctx, event, result)
	case stripe.EventTypeCustomerSubscriptionCreated,
		stripe.EventTypeCustomerSubscriptionUpdated,
		stripe.EventTypeCustomerSubscriptionDeleted:
		err = s.handleSubscription(ctx, event, result)
	default:
		s.logger.Debug("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
		result.Processed = false
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		s.release(ctx, event.ID)
		s.metrics.RecordWebhookEvent(ctx, result.EventType, telemetry.WebhookOutcomeFailed)
		telemetry.RecordError(span, err)
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	outcome := telemetry.WebhookOutcomeProcessed
	if !result.Processed {
		outcome = telemetry.WebhookOutcomeIgnored
	}
	s.metrics.RecordWebhookEvent(ctx, result.EventType, outcome)
	telemetry.SetOK(span)
	return result, nil
}

// release lets a failed event be retried by the provider
func (s *WebhookService) release(ctx context.Context, eventID string) {
	if s.idempotency == nil || eventID == "" {
		return
	}
	if err := s.idempotency.Release(ctx, eventID); err != nil {
		s.logger.Warn("Failed to release idempotency key", zap.String("event_id", eventID), zap.Error(err))
	}
}

func (s *WebhookService) handlePaymentIntent(ctx context.Context, event stripe.Event, result *WebhookResult) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}

	created, err := s.payments.RecordPaymentIntent(ctx, tradeapp.PaymentIntentInput{
		ID:       intent.ID,
		Status:   string(intent.Status),
		Amount:   decimal.New(intent.Amount, -2),
		Email:    intent.ReceiptEmail,
		Metadata: intent.Metadata,
	})
	if errors.Is(err, tradeapp.ErrNotMarketplaceIntent) {
		s.logger.Info("Payment intent has no store metadata, skipping", zap.String("payment_intent_id", intent.ID))
		result.Processed = false
		result.Message = "Payment intent is not a marketplace order"
		return nil
	}
	if err != nil {
		return err
	}
	if created {
		result.Message = "Order created"
	} else {
		result.Message = "Order updated"
	}
	return nil
}

func (s *WebhookService) handleSubscription(ctx context.Context, event stripe.Event, result *WebhookResult) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}

	userID := sub.Metadata[MetadataUserID]
	if userID == "" {
		s.logger.Warn("Subscription has no user_id metadata, skipping",
			zap.String("subscription_id", sub.ID))
		result.Processed = false
		result.Message = "Subscription has no user_id metadata"
		return nil
	}

	record, err := s.subRepo.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("failed to load subscription record: %w", err)
		}
		record = identity.NewUserSubscription(userID)
	}

	status := infrabilling.SubscriptionStatusFrom(&sub)
	if event.Type == stripe.EventTypeCustomerSubscriptionDeleted {
		record.Clear()
		if status.CustomerID != "" {
			record.StripeCustomerID = status.CustomerID
		}
	} else {
		var periodEnd *time.Time
		if !status.CurrentPeriodEnd.IsZero() {
			end := status.CurrentPeriodEnd
			periodEnd = &end
		}
		record.Apply(status.CustomerID, status.SubscriptionID, status.PriceID, periodEnd)
	}

	if err := s.subRepo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to save subscription record: %w", err)
	}
	if s.plans != nil {
		s.plans.InvalidateUser(ctx, userID)
	}

	s.logger.Info("Subscription record updated",
		zap.String("user_id", userID),
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(sub.Status)))
	result.Message = "Subscription updated"
	return nil
}

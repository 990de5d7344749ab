package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/account"
	"github.com/stripe/stripe-go/v81/subscription"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// ErrWebhookNotConfigured is returned when no webhook secret is set
var ErrWebhookNotConfigured = errors.New("stripe: webhook secret is not configured")

// SubscriptionStatus is the part of a Stripe subscription the marketplace reads
type SubscriptionStatus struct {
	SubscriptionID    string
	CustomerID        string
	Status            stripe.SubscriptionStatus
	PriceID           string
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
}

// AccountStatus is the onboarding state of a connected account
type AccountStatus struct {
	AccountID        string `json:"account_id"`
	DetailsSubmitted bool   `json:"details_submitted"`
	ChargesEnabled   bool   `json:"charges_enabled"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
}

// IsReady reports whether the account can accept payments and receive payouts
func (s *AccountStatus) IsReady() bool {
	return s.DetailsSubmitted && s.ChargesEnabled && s.PayoutsEnabled
}

// StripeAdapter reads subscription and account state from Stripe and
// verifies webhook payloads
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// GetSubscription retrieves the current state of a subscription
func (a *StripeAdapter) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionStatus, error) {
	a.logger.Debug("Getting Stripe subscription", zap.String("subscription_id", subscriptionID))

	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := subscription.Get(subscriptionID, params)
	if err != nil {
		a.logger.Error("Failed to get Stripe subscription",
			zap.String("subscription_id", subscriptionID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to get subscription: %w", err)
	}

	return SubscriptionStatusFrom(sub), nil
}

// SubscriptionStatusFrom flattens a Stripe subscription object
func SubscriptionStatusFrom(sub *stripe.Subscription) *SubscriptionStatus {
	out := &SubscriptionStatus{
		SubscriptionID:    sub.ID,
		Status:            sub.Status,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		out.CurrentPeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		out.PriceID = sub.Items.Data[0].Price.ID
	}
	return out
}

// GetAccountStatus retrieves the onboarding state of a connected account
func (a *StripeAdapter) GetAccountStatus(ctx context.Context, accountID string) (*AccountStatus, error) {
	a.logger.Debug("Getting Stripe account", zap.String("account_id", accountID))

	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := account.GetByID(accountID, params)
	if err != nil {
		a.logger.Error("Failed to get Stripe account",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to get account: %w", err)
	}

	return &AccountStatus{
		AccountID:        acct.ID,
		DetailsSubmitted: acct.DetailsSubmitted,
		ChargesEnabled:   acct.ChargesEnabled,
		PayoutsEnabled:   acct.PayoutsEnabled,
	}, nil
}

// ConstructEvent verifies the Stripe-Signature header and decodes the event
func (a *StripeAdapter) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	if a.config.WebhookSecret == "" {
		return stripe.Event{}, ErrWebhookNotConfigured
	}
	event, err := webhook.ConstructEvent(payload, signature, a.config.WebhookSecret)
	if err != nil {
		a.logger.Warn("Failed to verify webhook signature", zap.Error(err))
		return stripe.Event{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return event, nil
}

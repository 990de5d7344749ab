package identity

import (
	"context"
	"strings"
	"time"

	"github.com/marketplace/backend/internal/domain/billing"
	"github.com/marketplace/backend/internal/domain/shared"
)

// User is the signed-in identity as asserted by the identity provider's session
type User struct {
	ID    string
	Email string
	Name  string
}

// NewUser validates the session identity
func NewUser(id, email, name string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.ErrUnauthorized
	}
	return &User{
		ID:    id,
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  strings.TrimSpace(name),
	}, nil
}

// HasEmail reports whether the session carried an email address
func (u *User) HasEmail() bool {
	return u.Email != ""
}

// UserSubscription is the payments-provider state stored for a user
type UserSubscription struct {
	UserID string
	billing.SubscriptionRecord
	UpdatedAt time.Time
}

// NewUserSubscription creates an empty subscription record for a user
func NewUserSubscription(userID string) *UserSubscription {
	return &UserSubscription{UserID: userID, UpdatedAt: time.Now()}
}

// Apply copies the latest provider state into the record
func (s *UserSubscription) Apply(customerID, subscriptionID, priceID string, periodEnd *time.Time) {
	if customerID != "" {
		s.StripeCustomerID = customerID
	}
	s.StripeSubscriptionID = subscriptionID
	s.StripePriceID = priceID
	s.StripeCurrentPeriodEnd = periodEnd
	s.UpdatedAt = time.Now()
}

// Clear drops the subscription but keeps the customer reference
func (s *UserSubscription) Clear() {
	s.StripeSubscriptionID = ""
	s.StripePriceID = ""
	s.StripeCurrentPeriodEnd = nil
	s.UpdatedAt = time.Now()
}

// UserSubscriptionRepository persists subscription records
type UserSubscriptionRepository interface {
	// FindByUserID returns the record of a user or shared.ErrNotFound
	FindByUserID(ctx context.Context, userID string) (*UserSubscription, error)

	// Upsert inserts or replaces the record of a user
	Upsert(ctx context.Context, sub *UserSubscription) error
}

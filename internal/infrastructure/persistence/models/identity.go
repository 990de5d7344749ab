package models

import (
	"time"

	"github.com/marketplace/backend/internal/domain/billing"
	"github.com/marketplace/backend/internal/domain/identity"
)

// UserSubscriptionModel stores the payments-provider subscription state of a user.
type UserSubscriptionModel struct {
	UserID                 string     `gorm:"type:varchar(191);primaryKey"`
	StripeCustomerID       string     `gorm:"type:varchar(191);not null;default:''"`
	StripeSubscriptionID   string     `gorm:"type:varchar(191);not null;default:''"`
	StripePriceID          string     `gorm:"type:varchar(191);not null;default:''"`
	StripeCurrentPeriodEnd *time.Time `gorm:""`
	UpdatedAt              time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserSubscriptionModel) TableName() string {
	return "user_subscriptions"
}

// ToDomain converts the persistence model to a domain UserSubscription.
func (m *UserSubscriptionModel) ToDomain() *identity.UserSubscription {
	return &identity.UserSubscription{
		UserID: m.UserID,
		SubscriptionRecord: billing.SubscriptionRecord{
			StripeCustomerID:       m.StripeCustomerID,
			StripeSubscriptionID:   m.StripeSubscriptionID,
			StripePriceID:          m.StripePriceID,
			StripeCurrentPeriodEnd: m.StripeCurrentPeriodEnd,
		},
		UpdatedAt: m.UpdatedAt,
	}
}

// UserSubscriptionModelFromDomain creates a persistence model from a domain UserSubscription.
func UserSubscriptionModelFromDomain(s *identity.UserSubscription) *UserSubscriptionModel {
	return &UserSubscriptionModel{
		UserID:                 s.UserID,
		StripeCustomerID:       s.StripeCustomerID,
		StripeSubscriptionID:   s.StripeSubscriptionID,
		StripePriceID:          s.StripePriceID,
		StripeCurrentPeriodEnd: s.StripeCurrentPeriodEnd,
		UpdatedAt:              s.UpdatedAt,
	}
}

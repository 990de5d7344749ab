package billing

import "time"

// gracePeriod keeps a subscription usable for a day past its period end
const gracePeriod = 24 * time.Hour

// SubscriptionRecord is the stored payments-provider state of a user
type SubscriptionRecord struct {
	StripeCustomerID       string
	StripeSubscriptionID   string
	StripePriceID          string
	StripeCurrentPeriodEnd *time.Time
}

// SubscriptionPlan is a plan resolved for a specific user
type SubscriptionPlan struct {
	Plan
	StripeCustomerID       string     `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID   string     `json:"stripe_subscription_id,omitempty"`
	StripeCurrentPeriodEnd *time.Time `json:"stripe_current_period_end,omitempty"`
	IsSubscribed           bool       `json:"is_subscribed"`
	IsCanceled             bool       `json:"is_canceled"`
	IsActive               bool       `json:"is_active"`
}

// IsSubscribed reports whether rec carries a price whose period has not lapsed
func (rec *SubscriptionRecord) IsSubscribed(now time.Time) bool {
	if rec == nil || rec.StripePriceID == "" || rec.StripeCurrentPeriodEnd == nil {
		return false
	}
	return rec.StripeCurrentPeriodEnd.Add(gracePeriod).After(now)
}

// Resolve turns a stored record into the user's effective plan.
// canceled is the provider's cancel-at-period-end flag for the subscription.
func (c *Catalog) Resolve(rec *SubscriptionRecord, canceled bool, now time.Time) *SubscriptionPlan {
	subscribed := rec.IsSubscribed(now)

	plan := c.Default()
	if subscribed {
		if p, ok := c.ByPriceID(rec.StripePriceID); ok {
			plan = p
		}
	}

	sp := &SubscriptionPlan{
		Plan:         plan,
		IsSubscribed: subscribed,
		IsCanceled:   subscribed && canceled,
	}
	sp.IsActive = sp.IsSubscribed && !sp.IsCanceled
	if rec != nil {
		sp.StripeCustomerID = rec.StripeCustomerID
		sp.StripeSubscriptionID = rec.StripeSubscriptionID
		sp.StripeCurrentPeriodEnd = rec.StripeCurrentPeriodEnd
	}
	return sp
}

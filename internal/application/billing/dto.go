package billing

import "github.com/marketplace/backend/internal/domain/billing"

// BillingOverviewResponse is the billing page: the user's plan and every plan on offer
type BillingOverviewResponse struct {
	Plan     *billing.SubscriptionPlan `json:"plan"`
	Plans    []billing.Plan            `json:"plans"`
	Features billing.PlanFeatures      `json:"features"`
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

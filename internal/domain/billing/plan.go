package billing

import "fmt"

// PlanID identifies a subscription plan
type PlanID string

const (
	PlanBasic    PlanID = "basic"
	PlanStandard PlanID = "standard"
	PlanPro      PlanID = "pro"
)

// Dashboard paths returned by DashboardRedirectPath
const (
	PathNewStore = "/dashboard/stores/new"
	PathBilling  = "/dashboard/billing"
)

// PlanFeatures holds the limits of a plan
type PlanFeatures struct {
	MaxStoreCount   int `json:"max_store_count"`
	MaxProductCount int `json:"max_product_count"`
}

// Plan is a subscription tier
type Plan struct {
	ID            PlanID       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Features      []string     `json:"features"`
	StripePriceID string       `json:"stripe_price_id,omitempty"`
	Price         int64        `json:"price"`
	Limits        PlanFeatures `json:"limits"`
}

// Catalog is the ordered set of plans; the first plan is the free fallback
type Catalog struct {
	plans []Plan
}

// NewCatalog builds the plan catalog with the configured payments-provider price IDs
func NewCatalog(standardPriceID, proPriceID string) *Catalog {
	return &Catalog{plans: []Plan{
		newPlan(PlanBasic, "Basic", "Perfect for small businesses that want to sell online.", "", 0, PlanFeatures{MaxStoreCount: 1, MaxProductCount: 20}),
		newPlan(PlanStandard, "Standard", "Perfect for midsize businesses that want to sell online.", standardPriceID, 10, PlanFeatures{MaxStoreCount: 2, MaxProductCount: 20}),
		newPlan(PlanPro, "Pro", "Perfect for big businesses that want to sell online.", proPriceID, 20, PlanFeatures{MaxStoreCount: 3, MaxProductCount: 20}),
	}}
}

func newPlan(id PlanID, title, description, priceID string, price int64, limits PlanFeatures) Plan {
	return Plan{
		ID:          id,
		Title:       title,
		Description: description,
		Features: []string{
			fmt.Sprintf("Create up to %d %s", limits.MaxStoreCount, pluralize(limits.MaxStoreCount, "store", "stores")),
			fmt.Sprintf("Create up to %d products/store", limits.MaxProductCount),
		},
		StripePriceID: priceID,
		Price:         price,
		Limits:        limits,
	}
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Plans returns all plans in display order
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Default returns the free plan
func (c *Catalog) Default() Plan {
	return c.plans[0]
}

// ByID returns the plan with id, or the free plan if unknown
func (c *Catalog) ByID(id PlanID) Plan {
	for _, p := range c.plans {
		if p.ID == id {
			return p
		}
	}
	return c.Default()
}

// ByPriceID returns the plan sold at priceID
func (c *Catalog) ByPriceID(priceID string) (Plan, bool) {
	if priceID == "" {
		return Plan{}, false
	}
	for _, p := range c.plans {
		if p.StripePriceID == priceID {
			return p, true
		}
	}
	return Plan{}, false
}

// Features returns the limits of planID; unknown plans get the free limits
func (c *Catalog) Features(id PlanID) PlanFeatures {
	return c.ByID(id).Limits
}

// DashboardRedirectPath returns where the "create store" action should lead:
// the new-store form while the plan allows another store, billing otherwise.
func (c *Catalog) DashboardRedirectPath(storeCount int64, plan *SubscriptionPlan) string {
	id := PlanBasic
	if plan != nil {
		id = plan.ID
	}
	if storeCount < int64(c.Features(id).MaxStoreCount) {
		return PathNewStore
	}
	return PathBilling
}

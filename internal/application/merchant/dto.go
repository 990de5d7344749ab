package merchant

import (
	"time"

	"github.com/marketplace/backend/internal/domain/billing"
	"github.com/marketplace/backend/internal/domain/merchant"
	"github.com/marketplace/backend/internal/domain/shared"
	infrabilling "github.com/marketplace/backend/internal/infrastructure/billing"
)

// DefaultStoresPerPage is the page size of the stores page
const DefaultStoresPerPage = 10

// StoreListParams are the raw query parameters of the stores page
type StoreListParams struct {
	Page     string `form:"page"`
	PerPage  string `form:"per_page"`
	Sort     string `form:"sort"`
	Statuses string `form:"statuses"`
}

func (p StoreListParams) toQuery() (merchant.StoreQuery, shared.PageRequest) {
	return merchant.StoreQuery{
		Statuses: shared.SplitList(p.Statuses),
		Sort:     shared.ParseSort(p.Sort, "createdAt", shared.SortDesc),
	}, shared.ParsePageRequest(p.Page, p.PerPage, DefaultStoresPerPage)
}

// CreateStoreRequest represents a request to create a store
type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=191"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateStoreRequest represents a request to update a store
type UpdateStoreRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=191"`
	Description string `json:"description" binding:"max=2000"`
}

// ConnectAccountRequest links a store to a connected payments account
type ConnectAccountRequest struct {
	AccountID string `json:"account_id" binding:"required,startswith=acct_"`
}

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Slug         string    `json:"slug"`
	Active       bool      `json:"active"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToStoreResponse converts a domain store. The owner id is left out of public responses.
func ToStoreResponse(s *merchant.Store) StoreResponse {
	return StoreResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Slug:        s.Slug,
		Active:      s.Active(),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToStoreWithCountResponse converts a store row with its product count
func ToStoreWithCountResponse(s merchant.StoreWithCount) StoreResponse {
	resp := ToStoreResponse(&s.Store)
	resp.ProductCount = s.ProductCount
	return resp
}

// DashboardStoresResponse is the merchant's store overview
type DashboardStoresResponse struct {
	Stores       []StoreResponse           `json:"stores"`
	Plan         *billing.SubscriptionPlan `json:"plan"`
	Features     billing.PlanFeatures      `json:"features"`
	RedirectPath string                    `json:"redirect_path"`
}

// PaymentAccountResponse is the payments onboarding state of a store
type PaymentAccountResponse struct {
	StoreID   int64                       `json:"store_id"`
	Connected bool                        `json:"connected"`
	Ready     bool                        `json:"ready"`
	Account   *infrabilling.AccountStatus `json:"account,omitempty"`
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	billingapp "github.com/marketplace/backend/internal/application/billing"
)

// BillingReader reads the subscription state of a user
type BillingReader interface {
	GetBillingOverview(ctx context.Context, userID string) (*billingapp.BillingOverviewResponse, error)
}

// BillingHandler serves the billing page
type BillingHandler struct {
	BaseHandler
	billing BillingReader
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(billing BillingReader) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// Overview returns the user's effective plan and the plans on offer
//
// GET /dashboard/billing
func (h *BillingHandler) Overview(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	resp, err := h.billing.GetBillingOverview(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

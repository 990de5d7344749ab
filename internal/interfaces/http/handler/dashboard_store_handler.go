package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	merchantapp "github.com/marketplace/backend/internal/application/merchant"
)

// StoreManager manages the stores of the signed-in merchant
type StoreManager interface {
	ListDashboard(ctx context.Context, userID string) (*merchantapp.DashboardStoresResponse, error)
	GetOwned(ctx context.Context, userID string, storeID int64) (*merchantapp.StoreResponse, error)
	Create(ctx context.Context, userID string, req merchantapp.CreateStoreRequest) (*merchantapp.StoreResponse, error)
	Update(ctx context.Context, userID string, storeID int64, req merchantapp.UpdateStoreRequest) (*merchantapp.StoreResponse, error)
	Delete(ctx context.Context, userID string, storeID int64) error
	PaymentAccountStatus(ctx context.Context, userID string, storeID int64) (*merchantapp.PaymentAccountResponse, error)
	ConnectPaymentAccount(ctx context.Context, userID string, storeID int64, req merchantapp.ConnectAccountRequest) (*merchantapp.PaymentAccountResponse, error)
	DisconnectPaymentAccount(ctx context.Context, userID string, storeID int64) error
}

// DashboardStoreHandler handles store management for merchants
type DashboardStoreHandler struct {
	BaseHandler
	stores StoreManager
}

// NewDashboardStoreHandler creates a new DashboardStoreHandler
func NewDashboardStoreHandler(stores StoreManager) *DashboardStoreHandler {
	return &DashboardStoreHandler{stores: stores}
}

// List returns the merchant's stores with their plan and limits
//
// GET /dashboard/stores
func (h *DashboardStoreHandler) List(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	resp, err := h.stores.ListDashboard(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get returns an owned store
//
// GET /dashboard/stores/:storeId
func (h *DashboardStoreHandler) Get(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	storeID, ok := h.requireID(c, "storeId", "Store")
	if !ok {
		return
	}

	store, err := h.stores.GetOwned(c.Request.Context(), userID, storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, store)
}

// Create creates a store. The subscription plan bounds the number of stores.
//
// POST /dashboard/stores
func (h *DashboardStoreHandler) Create(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req merchantapp.CreateStoreRequest
	if !h.BindJSON(c, &req) {
		return
	}

	store, err := h.stores.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, store)
}

// Update changes an owned store
//
// PUT /dashboard/stores/:storeId
func (h *DashboardStoreHandler) Update(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	storeID, ok := h.requireID(c, "storeId", "Store")
	if !ok {
		return
	}
	var req merchantapp.UpdateStoreRequest
	if !h.BindJSON(c, &req) {
		return
	}

	store, err := h.stores.Update(c.Request.Context(), userID, storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, store)
}

// Delete removes an owned store and its products
//
// DELETE /dashboard/stores/:storeId
func (h *DashboardStoreHandler) Delete(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	storeID, ok := h.requireID(c, "storeId", "Store")
	if !ok {
		return
	}

	if err := h.stores.Delete(c.Request.Context(), userID, storeID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// PaymentAccount returns the onboarding state of the store's connected account
//
// GET /dashboard/stores/:storeId/payment-account
func (h *DashboardStoreHandler) PaymentAccount(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	storeID, ok := h.requireID(c, "storeId", "Store")
	if !ok {
		return
	}

	status, err := h.stores.PaymentAccountStatus(c.Request.Context(), userID, storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, status)
}

// ConnectPaymentAccount links the store to a connected account
//
// PUT /dashboard/stores/:storeId/payment-account
func (h *DashboardStoreHandler) ConnectPaymentAccount(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	storeID, ok := h.requireID(c, "storeId", "Store")
	if !ok {
		return
	}
	var req merchantapp.ConnectAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	status, err := h.stores.ConnectPaymentAccount(c.Request.Context(), userID, storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, status)
}

// DisconnectPaymentAccount unlinks the store's connected account
//
// DELETE /dashboard/stores/:storeId/payment-account
func (h *DashboardStoreHandler) DisconnectPaymentAccount(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	storeID, ok := h.requireID(c, "storeId", "Store")
	if !ok {
		return
	}

	if err := h.stores.DisconnectPaymentAccount(c.Request.Context(), userID, storeID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// OrderReader reads orders from the buyer and merchant side
type OrderReader interface {
	ListPurchases(ctx context.Context, email string, params tradeapp.PurchaseListParams) (shared.Page[tradeapp.PurchaseResponse], error)
	ListStoreOrders(ctx context.Context, userID string, storeID int64, params tradeapp.StoreOrderListParams) (shared.Page[tradeapp.PurchaseResponse], error)
	ListCustomers(ctx context.Context, userID string, storeID int64, params tradeapp.CustomerListParams) (shared.Page[tradeapp.CustomerResponse], error)
}

// OrderHandler serves the purchases, orders and customers pages
type OrderHandler struct {
	BaseHandler
	orders OrderReader
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderReader) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// ListPurchases returns the orders placed with the signed-in user's email
//
// GET /dashboard/purchases?page&per_page&sort&store&status
func (h *OrderHandler) ListPurchases(c *gin.Context) {
	if _, ok := h.requireUser(c); !ok {
		return
	}
	var params tradeapp.PurchaseListParams
	if !h.BindQuery(c, &params) {
		return
	}

	page, err := h.orders.ListPurchases(c.Request.Context(), middleware.GetUserEmail(c), params)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(c, page)
}

// ListStoreOrders returns the orders received by an owned store
//
// GET /dashboard/stores/:storeId/orders?page&per_page&sort&email&status
func (h *OrderHandler) ListStoreOrders(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	storeID, ok := h.requireID(c, "storeId", "Store")
	if !ok {
		return
	}
	var params tradeapp.StoreOrderListParams
	if !h.BindQuery(c, &params) {
		return
	}

	page, err := h.orders.ListStoreOrders(c.Request.Context(), userID, storeID, params)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(c, page)
}

// ListCustomers returns the buyers of an owned store grouped by email
//
// GET /dashboard/stores/:storeId/customers?page&per_page&sort&email&from&to
func (h *OrderHandler) ListCustomers(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	storeID, ok := h.requireID(c, "storeId", "Store")
	if !ok {
		return
	}
	var params tradeapp.CustomerListParams
	if !h.BindQuery(c, &params) {
		return
	}

	page, err := h.orders.ListCustomers(c.Request.Context(), userID, storeID, params)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(c, page)
}

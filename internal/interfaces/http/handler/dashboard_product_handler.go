package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ProductManager manages the products of an owned store
type ProductManager interface {
	ListForStore(ctx context.Context, userID string, storeID int64, params catalogapp.ProductListParams) (shared.Page[catalogapp.ProductListItemResponse], error)
	GetForStore(ctx context.Context, userID string, storeID, productID int64) (*catalogapp.ProductResponse, error)
	Create(ctx context.Context, userID string, storeID int64, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	Update(ctx context.Context, userID string, storeID, productID int64, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, userID string, storeID, productID int64) error
}

// DashboardProductHandler handles product management for merchants
type DashboardProductHandler struct {
	BaseHandler
	products ProductManager
}

// NewDashboardProductHandler creates a new DashboardProductHandler
func NewDashboardProductHandler(products ProductManager) *DashboardProductHandler {
	return &DashboardProductHandler{products: products}
}

// ownedPath resolves the user and store of a dashboard product route
func (h *DashboardProductHandler) ownedPath(c *gin.Context) (string, int64, bool) {
	userID, ok := h.requireUser(c)
	if !ok {
		return "", 0, false
	}
	storeID, ok := h.requireID(c, "storeId", "Store")
	if !ok {
		return "", 0, false
	}
	return userID, storeID, true
}

// List returns the products of an owned store, including inactive ones
//
// GET /dashboard/stores/:storeId/products
func (h *DashboardProductHandler) List(c *gin.Context) {
	userID, storeID, ok := h.ownedPath(c)
	if !ok {
		return
	}
	var params catalogapp.ProductListParams
	if !h.BindQuery(c, &params) {
		return
	}

	page, err := h.products.ListForStore(c.Request.Context(), userID, storeID, params)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(c, page)
}

// Get returns a product of an owned store
//
// GET /dashboard/stores/:storeId/products/:productId
func (h *DashboardProductHandler) Get(c *gin.Context) {
	userID, storeID, ok := h.ownedPath(c)
	if !ok {
		return
	}
	productID, ok := h.requireID(c, "productId", "Product")
	if !ok {
		return
	}

	product, err := h.products.GetForStore(c.Request.Context(), userID, storeID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// Create adds a product. The subscription plan bounds the number of products.
//
// POST /dashboard/stores/:storeId/products
func (h *DashboardProductHandler) Create(c *gin.Context) {
	userID, storeID, ok := h.ownedPath(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.products.Create(c.Request.Context(), userID, storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, product)
}

// Update changes a product of an owned store
//
// PUT /dashboard/stores/:storeId/products/:productId
func (h *DashboardProductHandler) Update(c *gin.Context) {
	userID, storeID, ok := h.ownedPath(c)
	if !ok {
		return
	}
	productID, ok := h.requireID(c, "productId", "Product")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.products.Update(c.Request.Context(), userID, storeID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete removes a product of an owned store
//
// DELETE /dashboard/stores/:storeId/products/:productId
func (h *DashboardProductHandler) Delete(c *gin.Context) {
	userID, storeID, ok := h.ownedPath(c)
	if !ok {
		return
	}
	productID, ok := h.requireID(c, "productId", "Product")
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), userID, storeID, productID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	merchantapp "github.com/marketplace/backend/internal/application/merchant"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// CatalogReader serves the public product pages
type CatalogReader interface {
	ListStorefront(ctx context.Context, params catalogapp.ProductListParams) (*catalogapp.StorefrontResponse, error)
	ListSubcategory(ctx context.Context, category, subcategory string, params catalogapp.ProductListParams) (*catalogapp.SubcategoryPageResponse, error)
	ListStoreProducts(ctx context.Context, storeID int64, params catalogapp.ProductListParams) (shared.Page[catalogapp.ProductListItemResponse], error)
	Get(ctx context.Context, id int64) (*catalogapp.ProductResponse, error)
	Categories() []catalog.CategoryInfo
}

// StoreDirectory serves the public store pages
type StoreDirectory interface {
	ListPublic(ctx context.Context, params merchantapp.StoreListParams) (shared.Page[merchantapp.StoreResponse], error)
	Get(ctx context.Context, id int64) (*merchantapp.StoreResponse, error)
}

// StorefrontHandler handles the public, unauthenticated endpoints
type StorefrontHandler struct {
	BaseHandler
	products CatalogReader
	stores   StoreDirectory
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(products CatalogReader, stores StoreDirectory) *StorefrontHandler {
	return &StorefrontHandler{products: products, stores: stores}
}

// ListProducts returns the products page: one page of products, the
// category catalogue and the stores sidebar.
//
// GET /products?page&per_page&sort&categories&subcategories&price_range&store_ids&store_page
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	var params catalogapp.ProductListParams
	if !h.BindQuery(c, &params) {
		return
	}

	resp, err := h.products.ListStorefront(c.Request.Context(), params)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetProduct returns a single product
//
// GET /products/:id
func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	id, ok := h.requireID(c, "id", "Product")
	if !ok {
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// ListCategories returns the category catalogue
//
// GET /categories
func (h *StorefrontHandler) ListCategories(c *gin.Context) {
	h.Success(c, h.products.Categories())
}

// ListSubcategory returns the page of one category/subcategory pair
//
// GET /categories/:category/:subcategory
func (h *StorefrontHandler) ListSubcategory(c *gin.Context) {
	var params catalogapp.ProductListParams
	if !h.BindQuery(c, &params) {
		return
	}

	resp, err := h.products.ListSubcategory(c.Request.Context(), c.Param("category"), c.Param("subcategory"), params)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListStores returns the stores page
//
// GET /stores?page&per_page&sort&statuses
func (h *StorefrontHandler) ListStores(c *gin.Context) {
	var params merchantapp.StoreListParams
	if !h.BindQuery(c, &params) {
		return
	}

	page, err := h.stores.ListPublic(c.Request.Context(), params)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(c, page)
}

// GetStore returns a single store
//
// GET /stores/:id
func (h *StorefrontHandler) GetStore(c *gin.Context) {
	id, ok := h.requireID(c, "id", "Store")
	if !ok {
		return
	}

	store, err := h.stores.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, store)
}

// ListStoreProducts returns the products of one store
//
// GET /stores/:id/products
func (h *StorefrontHandler) ListStoreProducts(c *gin.Context) {
	id, ok := h.requireID(c, "id", "Store")
	if !ok {
		return
	}
	var params catalogapp.ProductListParams
	if !h.BindQuery(c, &params) {
		return
	}

	page, err := h.products.ListStoreProducts(c.Request.Context(), id, params)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	successPage(c, page)
}

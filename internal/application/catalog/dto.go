package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/merchant"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Page sizes of the storefront pages
const (
	DefaultProductsPerPage     = 10
	SubcategoryProductsPerPage = 8
	StorefrontSidebarLimit     = 40
	SubcategorySidebarLimit    = 25
)

// ProductListParams are the raw query parameters of a product listing.
// Lists are dot-separated; price_range is "min-max".
type ProductListParams struct {
	Page          string `form:"page"`
	PerPage       string `form:"per_page"`
	Sort          string `form:"sort"`
	Categories    string `form:"categories"`
	Subcategories string `form:"subcategories"`
	PriceRange    string `form:"price_range"`
	StoreIDs      string `form:"store_ids"`
	StorePage     string `form:"store_page"`
	Active        string `form:"active"`
	Search        string `form:"search"`
}

func (p ProductListParams) toQuery() catalog.ProductQuery {
	return catalog.ProductQuery{
		Categories:    shared.SplitList(p.Categories),
		Subcategories: shared.SplitList(p.Subcategories),
		PriceRange:    shared.ParsePriceRange(p.PriceRange),
		StoreIDs:      shared.ParseIDList(p.StoreIDs),
		ActiveOnly:    parseBoolDefault(p.Active, true),
		Search:        strings.TrimSpace(p.Search),
		Sort:          shared.ParseSort(p.Sort, "createdAt", shared.SortDesc),
	}
}

func (p ProductListParams) pageRequest(defPerPage int) shared.PageRequest {
	return shared.ParsePageRequest(p.Page, p.PerPage, defPerPage)
}

func (p ProductListParams) storePageRequest(limit int) shared.PageRequest {
	return shared.NewPageRequest(shared.ParsePage(p.StorePage), limit)
}

func parseBoolDefault(raw string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return b
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=191"`
	Description string           `json:"description" binding:"max=5000"`
	Category    string           `json:"category" binding:"required,category"`
	Subcategory string           `json:"subcategory" binding:"max=191"`
	Price       *decimal.Decimal `json:"price" binding:"required,gt=0"`
	Inventory   int              `json:"inventory" binding:"gte=0"`
	Rating      int              `json:"rating" binding:"gte=0,lte=5"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=191"`
	Description string           `json:"description" binding:"max=5000"`
	Category    string           `json:"category" binding:"required,category"`
	Subcategory string           `json:"subcategory" binding:"max=191"`
	Price       *decimal.Decimal `json:"price" binding:"required,gt=0"`
	Inventory   *int             `json:"inventory" binding:"omitempty,gte=0"`
	Rating      *int             `json:"rating" binding:"omitempty,gte=0,lte=5"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          int64           `json:"id"`
	StoreID     int64           `json:"store_id"`
	StoreName   string          `json:"store_name,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	Rating      int             `json:"rating"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		StoreID:     p.StoreID,
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		Subcategory: p.Subcategory,
		Price:       p.Price,
		Inventory:   p.Inventory,
		Rating:      p.Rating,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProductListItemResponse represents a product row in listings
type ProductListItemResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	Rating      int             `json:"rating"`
	StoreID     int64           `json:"store_id"`
	StoreName   string          `json:"store_name"`
	StoreActive bool            `json:"store_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToProductListItemResponse converts a product listing row
func ToProductListItemResponse(p catalog.ProductListItem) ProductListItemResponse {
	return ProductListItemResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		Subcategory: p.Subcategory,
		Price:       p.Price,
		Inventory:   p.Inventory,
		Rating:      p.Rating,
		StoreID:     p.StoreID,
		StoreName:   p.StoreName,
		StoreActive: p.StoreActive,
		CreatedAt:   p.CreatedAt,
	}
}

// StoreSummaryResponse is a store entry of the storefront sidebar
type StoreSummaryResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ProductCount int64  `json:"product_count"`
}

func toStoreSummary(s merchant.StoreWithCount) StoreSummaryResponse {
	return StoreSummaryResponse{ID: s.ID, Name: s.Name, ProductCount: s.ProductCount}
}

// StorefrontResponse is the products page
type StorefrontResponse struct {
	Products   shared.Page[ProductListItemResponse] `json:"products"`
	Categories []catalog.CategoryInfo               `json:"categories"`
	Stores     shared.Page[StoreSummaryResponse]    `json:"stores"`
}

// SubcategoryPageResponse is the category/subcategory page
type SubcategoryPageResponse struct {
	Title       string                               `json:"title"`
	Description string                               `json:"description"`
	Category    string                               `json:"category"`
	Subcategory string                               `json:"subcategory"`
	Products    shared.Page[ProductListItemResponse] `json:"products"`
	Stores      shared.Page[StoreSummaryResponse]    `json:"stores"`
}

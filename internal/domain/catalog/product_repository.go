package catalog

import (
	"context"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Sort columns accepted by product listings
var ProductSortColumns = []string{"createdAt", "name", "price", "rating", "inventory", "category", "subcategory", "id"}

// ProductQuery holds the filters of a product listing
type ProductQuery struct {
	Categories    []string
	Subcategories []string
	PriceRange    shared.PriceRange
	StoreIDs      []int64
	// ActiveOnly restricts results to stores connected to the payments provider
	ActiveOnly bool
	Search     string
	Sort       shared.SortParam
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Query returns one page of products matching q plus the total match count
	Query(ctx context.Context, q ProductQuery, page shared.PageRequest) (shared.Page[ProductListItem], error)

	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByIDForStore finds a product by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id int64) (*Product, error)

	// CountByStore counts products of a store
	CountByStore(ctx context.Context, storeID int64) (int64, error)

	// Create inserts a new product and assigns its ID
	Create(ctx context.Context, product *Product) error

	// Save updates an existing product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id int64) error
}

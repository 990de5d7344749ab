package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const productListColumns = "products.id, products.name, products.description, products.category, products.subcategory, products.price, products.inventory, products.rating, products.store_id, products.created_at, stores.name AS store_name, (stores.stripe_account_id IS NOT NULL) AS store_active"

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// Query returns one page of products plus the total match count.
// Both statements share the same filters and run in one transaction.
func (r *GormProductRepository) Query(ctx context.Context, q catalog.ProductQuery, page shared.PageRequest) (shared.Page[catalog.ProductListItem], error) {
	var (
		rows  []models.ProductListRow
		total int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.filtered(tx, q).
			Select(productListColumns).
			Order(orderClause(q.Sort, ProductSortFields, defaultProductSort, "products.id")).
			Limit(page.Limit()).
			Offset(page.Offset()).
			Scan(&rows).Error; err != nil {
			return err
		}
		return r.filtered(tx, q).Count(&total).Error
	})
	if err != nil {
		return shared.Page[catalog.ProductListItem]{}, err
	}

	items := make([]catalog.ProductListItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPage(items, total, page), nil
}

// filtered builds a fresh statement with the listing joins and predicates
func (r *GormProductRepository) filtered(tx *gorm.DB, q catalog.ProductQuery) *gorm.DB {
	query := tx.Table("products").Joins("LEFT JOIN stores ON stores.id = products.store_id")

	if len(q.Categories) > 0 {
		query = query.Where("products.category IN ?", q.Categories)
	}
	if len(q.Subcategories) > 0 {
		query = query.Where("products.subcategory IN ?", q.Subcategories)
	}
	if q.PriceRange.Min != nil {
		query = query.Where("products.price >= ?", *q.PriceRange.Min)
	}
	if q.PriceRange.Max != nil {
		query = query.Where("products.price <= ?", *q.PriceRange.Max)
	}
	if len(q.StoreIDs) > 0 {
		query = query.Where("products.store_id IN ?", q.StoreIDs)
	}
	if q.ActiveOnly {
		query = query.Where("stores.stripe_account_id IS NOT NULL")
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		query = query.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	return query
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForStore finds a product by ID within a store
func (r *GormProductRepository) FindByIDForStore(ctx context.Context, storeID, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountByStore counts the products of a store
func (r *GormProductRepository) CountByStore(ctx context.Context, storeID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("store_id = ?", storeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new product and assigns its ID
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	product.ID = model.ID
	return nil
}

// Save updates an existing product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        model.Name,
			"description": model.Description,
			"category":    model.Category,
			"subcategory": model.Subcategory,
			"price":       model.Price,
			"inventory":   model.Inventory,
			"rating":      model.Rating,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

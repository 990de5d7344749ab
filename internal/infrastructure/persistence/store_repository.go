package persistence

import (
	"context"
	"errors"

	"github.com/marketplace/backend/internal/domain/merchant"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const storeListColumns = "stores.*, COUNT(products.id) AS product_count"

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

var _ merchant.StoreRepository = (*GormStoreRepository)(nil)

// Query returns one page of stores with product counts plus the total match count.
// The count needs no join: grouping by stores.id yields one row per store.
func (r *GormStoreRepository) Query(ctx context.Context, q merchant.StoreQuery, page shared.PageRequest) (shared.Page[merchant.StoreWithCount], error) {
	var (
		rows  []models.StoreWithCountRow
		total int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.filtered(tx.Table("stores"), q).
			Select(storeListColumns).
			Joins("LEFT JOIN products ON products.store_id = stores.id").
			Group("stores.id").
			Order(orderClause(q.Sort, StoreSortFields, defaultStoreSort, "stores.id")).
			Limit(page.Limit()).
			Offset(page.Offset()).
			Scan(&rows).Error; err != nil {
			return err
		}
		return r.filtered(tx.Table("stores"), q).Count(&total).Error
	})
	if err != nil {
		return shared.Page[merchant.StoreWithCount]{}, err
	}

	items := make([]merchant.StoreWithCount, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPage(items, total, page), nil
}

func (r *GormStoreRepository) filtered(query *gorm.DB, q merchant.StoreQuery) *gorm.DB {
	if q.UserID != "" {
		query = query.Where("stores.user_id = ?", q.UserID)
	}
	if active := q.ActiveFilter(); active != nil {
		if *active {
			query = query.Where("stores.stripe_account_id IS NOT NULL")
		} else {
			query = query.Where("stores.stripe_account_id IS NULL")
		}
	}
	return query
}

// ListByOwner returns all stores of a user, connected stores first, then by
// product count
func (r *GormStoreRepository) ListByOwner(ctx context.Context, userID string) ([]merchant.StoreWithCount, error) {
	var rows []models.StoreWithCountRow
	if err := r.db.WithContext(ctx).
		Table("stores").
		Select(storeListColumns).
		Joins("LEFT JOIN products ON products.store_id = stores.id").
		Where("stores.user_id = ?", userID).
		Group("stores.id").
		Order("stores.stripe_account_id IS NULL, stores.stripe_account_id DESC, COUNT(products.id) DESC, stores.id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stores := make([]merchant.StoreWithCount, len(rows))
	for i := range rows {
		stores[i] = rows[i].ToDomain()
	}
	return stores, nil
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id int64) (*merchant.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountByOwner counts the stores of a user
func (r *GormStoreRepository) CountByOwner(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.StoreModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new store and assigns its ID
func (r *GormStoreRepository) Create(ctx context.Context, store *merchant.Store) error {
	model := models.StoreModelFromDomain(store)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	store.ID = model.ID
	return nil
}

// Save updates an existing store
func (r *GormStoreRepository) Save(ctx context.Context, store *merchant.Store) error {
	model := models.StoreModelFromDomain(store)
	result := r.db.WithContext(ctx).
		Model(&models.StoreModel{}).
		Where("id = ?", store.ID).
		Updates(map[string]any{
			"name":              model.Name,
			"description":       model.Description,
			"slug":              model.Slug,
			"stripe_account_id": model.StripeAccountID,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a store together with its products. Orders are kept.
func (r *GormStoreRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductModel{}, "store_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.StoreModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

package persistence

import (
	"context"
	"errors"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserSubscriptionRepository implements UserSubscriptionRepository using GORM
type GormUserSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormUserSubscriptionRepository creates a new GormUserSubscriptionRepository
func NewGormUserSubscriptionRepository(db *gorm.DB) *GormUserSubscriptionRepository {
	return &GormUserSubscriptionRepository{db: db}
}

var _ identity.UserSubscriptionRepository = (*GormUserSubscriptionRepository)(nil)

// FindByUserID returns the subscription record of a user
func (r *GormUserSubscriptionRepository) FindByUserID(ctx context.Context, userID string) (*identity.UserSubscription, error) {
	var model models.UserSubscriptionModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert inserts or replaces the subscription record of a user
func (r *GormUserSubscriptionRepository) Upsert(ctx context.Context, sub *identity.UserSubscription) error {
	model := models.UserSubscriptionModelFromDomain(sub)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(model).Error
}

package models

import (
	"github.com/marketplace/backend/internal/domain/merchant"
)

// StoreModel is the persistence model for the Store domain entity.
type StoreModel struct {
	BaseModel
	UserID          string  `gorm:"type:varchar(191);not null;index"`
	Name            string  `gorm:"type:varchar(191);not null"`
	Description     *string `gorm:"type:text"`
	Slug            string  `gorm:"type:varchar(191)"`
	StripeAccountID *string `gorm:"type:varchar(191)"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the persistence model to a domain Store entity.
func (m *StoreModel) ToDomain() *merchant.Store {
	s := &merchant.Store{
		BaseEntity:      m.BaseModel.ToDomain(),
		UserID:          m.UserID,
		Name:            m.Name,
		Slug:            m.Slug,
		StripeAccountID: m.StripeAccountID,
	}
	if m.Description != nil {
		s.Description = *m.Description
	}
	return s
}

// FromDomain populates the persistence model from a domain Store entity.
func (m *StoreModel) FromDomain(s *merchant.Store) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.UserID = s.UserID
	m.Name = s.Name
	m.Slug = s.Slug
	m.StripeAccountID = s.StripeAccountID
	m.Description = nil
	if s.Description != "" {
		desc := s.Description
		m.Description = &desc
	}
}

// StoreModelFromDomain creates a new persistence model from a domain Store entity.
func StoreModelFromDomain(s *merchant.Store) *StoreModel {
	m := &StoreModel{}
	m.FromDomain(s)
	return m
}

// StoreWithCountRow is the scan target of store listings.
type StoreWithCountRow struct {
	StoreModel
	ProductCount int64
}

// ToDomain converts the row to a domain StoreWithCount
func (r *StoreWithCountRow) ToDomain() merchant.StoreWithCount {
	return merchant.StoreWithCount{
		Store:        *r.StoreModel.ToDomain(),
		ProductCount: r.ProductCount,
	}
}

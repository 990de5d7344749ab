package models

import (
	"time"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	StoreID     int64           `gorm:"not null;index"`
	Name        string          `gorm:"type:varchar(191);not null"`
	Description string          `gorm:"type:text;not null;default:''"`
	Category    string          `gorm:"type:varchar(32);not null;index"`
	Subcategory *string         `gorm:"type:varchar(191)"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Inventory   int             `gorm:"not null;default:0"`
	Rating      int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		StoreID:     m.StoreID,
		Name:        m.Name,
		Description: m.Description,
		Category:    catalog.Category(m.Category),
		Price:       m.Price,
		Inventory:   m.Inventory,
		Rating:      m.Rating,
	}
	if m.Subcategory != nil {
		p.Subcategory = *m.Subcategory
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.StoreID = p.StoreID
	m.Name = p.Name
	m.Description = p.Description
	m.Category = string(p.Category)
	m.Subcategory = nil
	if p.Subcategory != "" {
		sub := p.Subcategory
		m.Subcategory = &sub
	}
	m.Price = p.Price
	m.Inventory = p.Inventory
	m.Rating = p.Rating
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductListRow is the scan target of product listings joined with stores.
type ProductListRow struct {
	ID          int64
	Name        string
	Description string
	Category    string
	Subcategory *string
	Price       decimal.Decimal
	Inventory   int
	Rating      int
	StoreID     int64
	StoreName   *string
	StoreActive bool
	CreatedAt   time.Time
}

// ToDomain converts the row to a catalog list item
func (r *ProductListRow) ToDomain() catalog.ProductListItem {
	item := catalog.ProductListItem{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    catalog.Category(r.Category),
		Price:       r.Price,
		Inventory:   r.Inventory,
		Rating:      r.Rating,
		StoreID:     r.StoreID,
		StoreActive: r.StoreActive,
		CreatedAt:   r.CreatedAt,
	}
	if r.Subcategory != nil {
		item.Subcategory = *r.Subcategory
	}
	if r.StoreName != nil {
		item.StoreName = *r.StoreName
	}
	return item
}

package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	maxNameLength = 191
	maxRating     = 5
)

// Product is an item for sale. It belongs to exactly one store.
type Product struct {
	shared.BaseEntity
	StoreID     int64
	Name        string
	Description string
	Category    Category
	Subcategory string
	Price       decimal.Decimal
	Inventory   int
	Rating      int
}

// NewProduct creates a new product for a store
func NewProduct(storeID int64, name string, category Category, price decimal.Decimal) (*Product, error) {
	if storeID <= 0 {
		return nil, shared.NewDomainError("INVALID_STORE", "Product must belong to a store")
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    storeID,
		Name:       strings.TrimSpace(name),
		Category:   category,
		Price:      price.Round(2),
	}, nil
}

// Update replaces the editable fields of the product
func (p *Product) Update(name, description string, category Category, price decimal.Decimal) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	if category != p.Category && p.Subcategory != "" && !category.HasSubcategory(p.Subcategory) {
		p.Subcategory = ""
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.Category = category
	p.Price = price.Round(2)
	p.Touch()
	return nil
}

// SetSubcategory assigns a subcategory, which must belong to the product category.
// An empty slug clears it.
func (p *Product) SetSubcategory(slug string) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug != "" && !p.Category.HasSubcategory(slug) {
		return shared.NewDomainError("INVALID_SUBCATEGORY", "Subcategory does not belong to category "+string(p.Category))
	}
	p.Subcategory = slug
	p.Touch()
	return nil
}

// SetInventory sets the quantity on hand
func (p *Product) SetInventory(qty int) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_INVENTORY", "Inventory cannot be negative")
	}
	p.Inventory = qty
	p.Touch()
	return nil
}

// SetRating sets the product rating (0-5)
func (p *Product) SetRating(rating int) error {
	if rating < 0 || rating > maxRating {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}
	p.Rating = rating
	p.Touch()
	return nil
}

// InStock reports whether there is inventory left
func (p *Product) InStock() bool {
	return p.Inventory > 0
}

// BelongsTo reports whether the product is owned by the store
func (p *Product) BelongsTo(storeID int64) bool {
	return p.StoreID == storeID
}

// ProductListItem is a product row as returned by listings, carrying the
// owning store's name and activity
type ProductListItem struct {
	ID          int64
	Name        string
	Description string
	Category    Category
	Subcategory string
	Price       decimal.Decimal
	Inventory   int
	Rating      int
	StoreID     int64
	StoreName   string
	StoreActive bool
	CreatedAt   time.Time
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 191 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	return nil
}

package merchant

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/marketplace/backend/internal/domain/shared"
)

const maxStoreNameLength = 191

// Store is a merchant entity owning products and orders
type Store struct {
	shared.BaseEntity
	UserID          string
	Name            string
	Description     string
	Slug            string
	StripeAccountID *string
}

// NewStore creates a store owned by userID
func NewStore(userID, name, description string) (*Store, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, shared.NewDomainError("INVALID_OWNER", "Store must have an owner")
	}
	if err := validateStoreName(name); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	return &Store{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Slug:        Slugify(name),
	}, nil
}

// Update changes name and description; the slug follows the name
func (s *Store) Update(name, description string) error {
	if err := validateStoreName(name); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.Description = description
	s.Slug = Slugify(s.Name)
	s.Touch()
	return nil
}

// ConnectAccount links the store to a payments-provider account
func (s *Store) ConnectAccount(accountID string) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return shared.NewDomainError("INVALID_ACCOUNT", "Payment account ID cannot be empty")
	}
	s.StripeAccountID = &accountID
	s.Touch()
	return nil
}

// DisconnectAccount removes the payments-provider link
func (s *Store) DisconnectAccount() {
	s.StripeAccountID = nil
	s.Touch()
}

// Active reports whether the store can take payments
func (s *Store) Active() bool {
	return s.StripeAccountID != nil && *s.StripeAccountID != ""
}

// OwnedBy reports whether userID owns the store
func (s *Store) OwnedBy(userID string) bool {
	return userID != "" && s.UserID == userID
}

// StoreWithCount is a store row with the number of products it lists
type StoreWithCount struct {
	Store
	ProductCount int64
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins alphanumeric runs with dashes
func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

func validateStoreName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxStoreNameLength {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot exceed 191 characters")
	}
	return nil
}

package merchant

import (
	"context"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Store status filter values
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Sort columns accepted by store listings
var StoreSortColumns = []string{"createdAt", "name", "id", "stripeAccountId", "productCount"}

// StoreQuery holds the filters of a store listing
type StoreQuery struct {
	UserID   string
	Statuses []string
	Sort     shared.SortParam
}

// ActiveFilter resolves Statuses to a tri-state: nil means no filter.
// Both or neither status given applies no filter.
func (q StoreQuery) ActiveFilter() *bool {
	var active, inactive bool
	for _, s := range q.Statuses {
		switch s {
		case StatusActive:
			active = true
		case StatusInactive:
			inactive = true
		}
	}
	if active == inactive {
		return nil
	}
	return &active
}

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	// Query returns one page of stores with product counts plus the total match count
	Query(ctx context.Context, q StoreQuery, page shared.PageRequest) (shared.Page[StoreWithCount], error)

	// ListByOwner returns every store of a user, connected stores first,
	// then by product count
	ListByOwner(ctx context.Context, userID string) ([]StoreWithCount, error)

	// FindByID finds a store by its ID
	FindByID(ctx context.Context, id int64) (*Store, error)

	// CountByOwner counts the stores of a user
	CountByOwner(ctx context.Context, userID string) (int64, error)

	// Create inserts a new store and assigns its ID
	Create(ctx context.Context, store *Store) error

	// Save updates an existing store
	Save(ctx context.Context, store *Store) error

	// Delete deletes a store and its products
	Delete(ctx context.Context, id int64) error
}

// FindOwnedStore loads a store owned by userID. A store owned by someone
// else is reported as shared.ErrNotFound so its existence is not revealed.
func FindOwnedStore(ctx context.Context, repo StoreRepository, id int64, userID string) (*Store, error) {
	store, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !store.OwnedBy(userID) {
		return nil, shared.ErrNotFound
	}
	return store, nil
}


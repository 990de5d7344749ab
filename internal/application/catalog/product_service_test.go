package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/marketplace/backend/internal/domain/billing"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/merchant"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const ownerID = "user_owner"

type productFixture struct {
	svc      *ProductService
	products *MockProductRepository
	stores   *MockStoreRepository
	plans    *MockPlanResolver
}

func newFixture() productFixture {
	f := productFixture{
		products: new(MockProductRepository),
		stores:   new(MockStoreRepository),
		plans:    new(MockPlanResolver),
	}
	f.svc = NewProductService(f.products, f.stores, f.plans, nil, nil)
	return f
}

func newStore(id int64, owner string) *merchant.Store {
	store, _ := merchant.NewStore(owner, "Skate Co", "")
	store.ID = id
	return store
}

func basicPlan() *billing.SubscriptionPlan {
	return billing.NewCatalog("", "").Resolve(nil, false, time.Now())
}

func emptyStores(page shared.PageRequest) shared.Page[merchant.StoreWithCount] {
	return shared.NewPage([]merchant.StoreWithCount{}, 0, page)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestProductService_ListStorefront(t *testing.T) {
	f := newFixture()
	productPage := shared.NewPageRequest(1, DefaultProductsPerPage)
	storePage := shared.NewPageRequest(2, StorefrontSidebarLimit)

	minPrice := decimal.NewFromInt(10)
	f.products.On("Query", mock.Anything, mock.MatchedBy(func(q catalog.ProductQuery) bool {
		return assert.ObjectsAreEqual([]string{"shoes", "clothing"}, q.Categories) &&
			assert.ObjectsAreEqual([]int64{3, 4}, q.StoreIDs) &&
			q.PriceRange.Min != nil && q.PriceRange.Min.Equal(minPrice) && q.PriceRange.Max == nil &&
			q.ActiveOnly &&
			q.Sort == shared.SortParam{Column: "price", Direction: shared.SortDesc}
	}), productPage).Return(shared.NewPage([]catalog.ProductListItem{
		{ID: 1, Name: "Sk8-Hi", Category: catalog.CategoryShoes, Price: decimal.NewFromInt(70), StoreName: "Skate Co", StoreActive: true},
	}, 1, productPage), nil)
	f.stores.On("Query", mock.Anything, merchant.StoreQuery{
		Sort: shared.SortParam{Column: "productCount", Direction: shared.SortDesc},
	}, storePage).Return(shared.NewPage([]merchant.StoreWithCount{
		{Store: *newStore(3, ownerID), ProductCount: 12},
	}, 41, storePage), nil)

	resp, err := f.svc.ListStorefront(context.Background(), ProductListParams{
		Sort:       "price",
		Categories: "shoes.clothing",
		PriceRange: "10-",
		StoreIDs:   "3.x.4",
		StorePage:  "2",
	})

	require.NoError(t, err)
	require.Len(t, resp.Products.Items, 1)
	assert.Equal(t, "shoes", resp.Products.Items[0].Category)
	assert.Len(t, resp.Categories, 4)
	assert.Equal(t, 2, resp.Stores.PageCount())
	assert.Equal(t, int64(12), resp.Stores.Items[0].ProductCount)
	f.products.AssertExpectations(t)
	f.stores.AssertExpectations(t)
}

func TestProductService_ListStorefront_InactiveStoresOnRequest(t *testing.T) {
	f := newFixture()
	f.products.On("Query", mock.Anything, mock.MatchedBy(func(q catalog.ProductQuery) bool {
		return !q.ActiveOnly
	}), mock.Anything).Return(shared.NewPage([]catalog.ProductListItem{}, 0, shared.NewPageRequest(1, 10)), nil)
	f.stores.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(emptyStores(shared.NewPageRequest(1, 40)), nil)

	_, err := f.svc.ListStorefront(context.Background(), ProductListParams{Active: "false"})

	require.NoError(t, err)
	f.products.AssertExpectations(t)
}

func TestProductService_ListSubcategory(t *testing.T) {
	t.Run("known pair", func(t *testing.T) {
		f := newFixture()
		productPage := shared.NewPageRequest(1, SubcategoryProductsPerPage)
		storePage := shared.NewPageRequest(1, SubcategorySidebarLimit)
		f.products.On("Query", mock.Anything, mock.MatchedBy(func(q catalog.ProductQuery) bool {
			return assert.ObjectsAreEqual([]string{"shoes"}, q.Categories) &&
				assert.ObjectsAreEqual([]string{"low-tops"}, q.Subcategories)
		}), productPage).Return(shared.NewPage([]catalog.ProductListItem{}, 0, productPage), nil)
		f.stores.On("Query", mock.Anything, mock.Anything, storePage).Return(emptyStores(storePage), nil)

		resp, err := f.svc.ListSubcategory(context.Background(), "shoes", "low-tops", ProductListParams{Categories: "clothing"})

		require.NoError(t, err)
		assert.Equal(t, "Low Tops", resp.Title)
		assert.Equal(t, "Buy the best low tops", resp.Description)
		assert.Equal(t, SubcategoryProductsPerPage, resp.Products.PerPage)
		f.products.AssertExpectations(t)
		f.stores.AssertExpectations(t)
	})

	t.Run("subcategory of another category is not found", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.ListSubcategory(context.Background(), "shoes", "decks", ProductListParams{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.products.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_ListForStore(t *testing.T) {
	t.Run("owner sees inactive listings", func(t *testing.T) {
		f := newFixture()
		f.stores.On("FindByID", mock.Anything, int64(3)).Return(newStore(3, ownerID), nil)
		f.products.On("Query", mock.Anything, mock.MatchedBy(func(q catalog.ProductQuery) bool {
			return !q.ActiveOnly && assert.ObjectsAreEqual([]int64{3}, q.StoreIDs)
		}), shared.NewPageRequest(1, 10)).Return(shared.NewPage([]catalog.ProductListItem{}, 0, shared.NewPageRequest(1, 10)), nil)

		_, err := f.svc.ListForStore(context.Background(), ownerID, 3, ProductListParams{StoreIDs: "1.2"})

		require.NoError(t, err)
		f.products.AssertExpectations(t)
	})

	t.Run("foreign store is not found", func(t *testing.T) {
		f := newFixture()
		f.stores.On("FindByID", mock.Anything, int64(3)).Return(newStore(3, "other"), nil)

		_, err := f.svc.ListForStore(context.Background(), ownerID, 3, ProductListParams{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	req := CreateProductRequest{
		Name:        "Pro Deck",
		Category:    "skateboards",
		Subcategory: "decks",
		Price:       price("59.999"),
		Inventory:   5,
		Rating:      4,
	}

	t.Run("creates within plan limit", func(t *testing.T) {
		f := newFixture()
		f.stores.On("FindByID", mock.Anything, int64(3)).Return(newStore(3, ownerID), nil)
		f.products.On("CountByStore", mock.Anything, int64(3)).Return(int64(19), nil)
		f.plans.On("GetSubscriptionPlan", mock.Anything, ownerID).Return(basicPlan(), nil)
		f.products.On("Create", mock.Anything, mock.AnythingOfType("*catalog.Product")).
			Run(func(args mock.Arguments) { args.Get(1).(*catalog.Product).ID = 77 }).
			Return(nil)

		resp, err := f.svc.Create(ctx, ownerID, 3, req)

		require.NoError(t, err)
		assert.Equal(t, int64(77), resp.ID)
		assert.Equal(t, "decks", resp.Subcategory)
		assert.True(t, resp.Price.Equal(decimal.RequireFromString("60")))
		assert.Equal(t, "Skate Co", resp.StoreName)
	})

	t.Run("plan limit reached", func(t *testing.T) {
		f := newFixture()
		f.stores.On("FindByID", mock.Anything, int64(3)).Return(newStore(3, ownerID), nil)
		f.products.On("CountByStore", mock.Anything, int64(3)).Return(int64(20), nil)
		f.plans.On("GetSubscriptionPlan", mock.Anything, ownerID).Return(basicPlan(), nil)

		_, err := f.svc.Create(ctx, ownerID, 3, req)

		assert.ErrorIs(t, err, shared.ErrPlanLimitExceeded)
		f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("subcategory must match category", func(t *testing.T) {
		f := newFixture()
		f.stores.On("FindByID", mock.Anything, int64(3)).Return(newStore(3, ownerID), nil)
		f.products.On("CountByStore", mock.Anything, int64(3)).Return(int64(0), nil)
		f.plans.On("GetSubscriptionPlan", mock.Anything, ownerID).Return(basicPlan(), nil)

		bad := req
		bad.Subcategory = "hoodies"
		_, err := f.svc.Create(ctx, ownerID, 3, bad)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_SUBCATEGORY", domainErr.Code)
	})

	t.Run("foreign store is not found", func(t *testing.T) {
		f := newFixture()
		f.stores.On("FindByID", mock.Anything, int64(3)).Return(newStore(3, "other"), nil)

		_, err := f.svc.Create(ctx, ownerID, 3, req)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.products.AssertNotCalled(t, "CountByStore", mock.Anything, mock.Anything)
	})
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	existing := func() *catalog.Product {
		p, _ := catalog.NewProduct(3, "Old", catalog.CategoryClothing, decimal.NewFromInt(20))
		p.ID = 8
		_ = p.SetSubcategory("hoodies")
		return p
	}

	t.Run("update switching category clears mismatched subcategory", func(t *testing.T) {
		f := newFixture()
		f.stores.On("FindByID", mock.Anything, int64(3)).Return(newStore(3, ownerID), nil)
		f.products.On("FindByIDForStore", mock.Anything, int64(3), int64(8)).Return(existing(), nil)
		f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
		inventory := 9

		resp, err := f.svc.Update(ctx, ownerID, 3, 8, UpdateProductRequest{
			Name: "New", Category: "shoes", Price: price("30"), Inventory: &inventory,
		})

		require.NoError(t, err)
		assert.Equal(t, "shoes", resp.Category)
		assert.Empty(t, resp.Subcategory)
		assert.Equal(t, 9, resp.Inventory)
	})

	t.Run("product of another store is not found", func(t *testing.T) {
		f := newFixture()
		f.stores.On("FindByID", mock.Anything, int64(3)).Return(newStore(3, ownerID), nil)
		f.products.On("FindByIDForStore", mock.Anything, int64(3), int64(99)).Return(nil, shared.ErrNotFound)

		err := f.svc.Delete(ctx, ownerID, 3, 99)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("owner deletes", func(t *testing.T) {
		f := newFixture()
		f.stores.On("FindByID", mock.Anything, int64(3)).Return(newStore(3, ownerID), nil)
		f.products.On("FindByIDForStore", mock.Anything, int64(3), int64(8)).Return(existing(), nil)
		f.products.On("Delete", mock.Anything, int64(8)).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, ownerID, 3, 8))
		f.products.AssertExpectations(t)
	})
}

func TestProductService_Get(t *testing.T) {
	f := newFixture()
	p, _ := catalog.NewProduct(3, "Wax", catalog.CategoryAccessories, decimal.NewFromInt(5))
	p.ID = 2
	f.products.On("FindByID", mock.Anything, int64(2)).Return(p, nil)
	f.stores.On("FindByID", mock.Anything, int64(3)).Return(newStore(3, ownerID), nil)

	resp, err := f.svc.Get(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, "Wax", resp.Name)
	assert.Equal(t, "Skate Co", resp.StoreName)
}

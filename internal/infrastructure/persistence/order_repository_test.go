package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOrderRepository_QueryPurchases(t *testing.T) {
	db := setupMarketTestDB(t)
	stores := NewGormStoreRepository(db)
	orders := NewGormOrderRepository(db)
	ctx := context.Background()
	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	skate := mustCreateStore(t, stores, seedStore{owner: "user_1", name: "Skate Shack"}, t0)
	shoe := mustCreateStore(t, stores, seedStore{owner: "user_2", name: "Shoe Barn"}, t0)

	mustCreateOrder(t, orders, skate.ID, "Buyer@Example.com", "Buyer", "20", "pi_1", trade.PaymentStatusSucceeded, t0)
	mustCreateOrder(t, orders, shoe.ID, "buyer@example.com", "Buyer", "35", "pi_2", trade.PaymentStatusProcessing, t0.Add(time.Hour))
	mustCreateOrder(t, orders, shoe.ID, "other@example.com", "Other", "99", "pi_3", trade.PaymentStatusSucceeded, t0.Add(2*time.Hour))

	sort := shared.ParseSort("", "createdAt", shared.SortDesc)

	t.Run("only the buyer's orders with store names", func(t *testing.T) {
		page, err := orders.QueryPurchases(ctx, trade.PurchaseQuery{Email: "buyer@example.com", Sort: sort}, shared.NewPageRequest(1, 10))
		require.NoError(t, err)

		require.Len(t, page.Items, 2)
		assert.Equal(t, int64(2), page.Total)
		assert.Equal(t, "Shoe Barn", page.Items[0].StoreName)
		assert.Equal(t, trade.PaymentStatusProcessing, page.Items[0].Status)
		require.Len(t, page.Items[1].Items, 1)
		assert.Equal(t, 1, page.Items[1].Items[0].Quantity)
	})

	t.Run("store name and status filters", func(t *testing.T) {
		q := trade.PurchaseQuery{
			Email:    "buyer@example.com",
			Store:    "skate",
			Statuses: []string{string(trade.PaymentStatusSucceeded)},
			Sort:     sort,
		}
		page, err := orders.QueryPurchases(ctx, q, shared.NewPageRequest(1, 10))
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Skate Shack", page.Items[0].StoreName)
	})

	t.Run("sort by amount ascending", func(t *testing.T) {
		q := trade.StoreOrderQuery{StoreID: shoe.ID, Sort: shared.ParseSort("amount.asc", "createdAt", shared.SortDesc)}
		page, err := orders.QueryStoreOrders(ctx, q, shared.NewPageRequest(1, 10))
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.True(t, decimal.RequireFromString("35").Equal(page.Items[0].Amount))
		assert.True(t, decimal.RequireFromString("99").Equal(page.Items[1].Amount))
	})

	t.Run("orders survive store deletion", func(t *testing.T) {
		require.NoError(t, stores.Delete(ctx, skate.ID))

		page, err := orders.QueryPurchases(ctx, trade.PurchaseQuery{Email: "buyer@example.com", Sort: sort}, shared.NewPageRequest(1, 10))
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Empty(t, page.Items[1].StoreName)
	})
}

func TestGormOrderRepository_PaymentIntentLifecycle(t *testing.T) {
	db := setupMarketTestDB(t)
	orders := NewGormOrderRepository(db)
	ctx := context.Background()

	created := mustCreateOrder(t, orders, 1, "a@b.co", "A", "12.50", "pi_life", trade.PaymentStatusProcessing, time.Now().UTC())

	found, err := orders.FindByPaymentIntentID(ctx, "pi_life")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, trade.PaymentStatusProcessing, found.PaymentStatus)

	changed, err := found.UpdatePaymentStatus(trade.PaymentStatusSucceeded)
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, orders.Save(ctx, found))

	reloaded, err := orders.FindByPaymentIntentID(ctx, "pi_life")
	require.NoError(t, err)
	assert.Equal(t, trade.PaymentStatusSucceeded, reloaded.PaymentStatus)

	_, err = orders.FindByPaymentIntentID(ctx, "pi_missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	ghost := *found
	ghost.ID = 404
	assert.ErrorIs(t, orders.Save(ctx, &ghost), shared.ErrNotFound)
}

func TestGormOrderRepository_QueryCustomersSQL(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(gormDB)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	q := trade.CustomerQuery{
		StoreID: 7,
		Email:   "Example",
		From:    &from,
		To:      &to,
		Sort:    shared.ParseSort("totalSpent.desc", "createdAt", shared.SortAsc),
	}
	firstOrder := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT orders\.email, orders\.name, COUNT\(\*\) AS order_placed, SUM\(orders\.amount\) AS total_spent, ` +
		`MIN\(orders\.created_at\) AS created_at FROM "orders" WHERE orders\.store_id = \$1 ` +
		`AND LOWER\(orders\.email\) LIKE \$2 AND \(orders\.created_at >= \$3 AND orders\.created_at <= \$4\) ` +
		`GROUP BY orders\.email, orders\.name ORDER BY SUM\(orders\.amount\) DESC, orders\.email DESC, orders\.name DESC LIMIT \$5`).
		WithArgs(int64(7), "%example%", from, to, 10).
		WillReturnRows(sqlmock.NewRows([]string{"email", "name", "order_placed", "total_spent", "created_at"}).
			AddRow("a@example.com", "Ann", 3, "120.00", firstOrder).
			AddRow("b@example.com", "Ben", 1, "15.50", firstOrder))
	mock.ExpectQuery(`SELECT count\(\*\) FROM \(SELECT orders\.email, orders\.name FROM "orders" WHERE orders\.store_id = \$1 .* ` +
		`GROUP BY orders\.email, orders\.name\) AS customers`).
		WithArgs(int64(7), "%example%", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectCommit()

	page, err := repo.QueryCustomers(context.Background(), q, shared.NewPageRequest(1, 10))
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "Ann", page.Items[0].Name)
	assert.Equal(t, int64(3), page.Items[0].OrderPlaced)
	assert.Equal(t, "120", page.Items[0].TotalSpent.String())
	assert.Equal(t, firstOrder, page.Items[0].CreatedAt)
	assert.Equal(t, int64(2), page.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_QueryCustomersIgnoresSingleDateBound(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormOrderRepository(gormDB)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q := trade.CustomerQuery{StoreID: 7, From: &from, Sort: shared.ParseSort("", "createdAt", shared.SortAsc)}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "orders" WHERE orders\.store_id = \$1 GROUP BY orders\.email, orders\.name ` +
		`ORDER BY MIN\(orders\.created_at\) ASC, orders\.email ASC, orders\.name ASC LIMIT \$2`).
		WithArgs(int64(7), 10).
		WillReturnRows(sqlmock.NewRows([]string{"email", "name"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM \(SELECT orders\.email, orders\.name FROM "orders" WHERE orders\.store_id = \$1 GROUP BY`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	page, err := repo.QueryCustomers(context.Background(), q, shared.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserSubscriptionRepository(t *testing.T) {
	db := setupMarketTestDB(t)
	repo := NewGormUserSubscriptionRepository(db)
	ctx := context.Background()

	_, err := repo.FindByUserID(ctx, "user_1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	end := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := identityFixture("user_1")
	sub.Apply("cus_1", "sub_1", "price_std", &end)
	require.NoError(t, repo.Upsert(ctx, sub))

	sub.Apply("", "sub_2", "price_pro", &end)
	require.NoError(t, repo.Upsert(ctx, sub))

	got, err := repo.FindByUserID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "cus_1", got.StripeCustomerID)
	assert.Equal(t, "sub_2", got.StripeSubscriptionID)
	assert.Equal(t, "price_pro", got.StripePriceID)
	require.NotNil(t, got.StripeCurrentPeriodEnd)
	assert.True(t, end.Equal(*got.StripeCurrentPeriodEnd))
}

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/merchant"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupMarketTestDB creates an in-memory SQLite database with the marketplace tables
func setupMarketTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	statements := []string{
		`CREATE TABLE stores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			slug TEXT,
			stripe_account_id TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			store_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			subcategory TEXT,
			price NUMERIC NOT NULL,
			inventory INTEGER NOT NULL DEFAULT 0,
			rating INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			store_id INTEGER NOT NULL,
			email TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			items TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			stripe_payment_intent_id TEXT NOT NULL UNIQUE,
			stripe_payment_intent_status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE user_subscriptions (
			user_id TEXT PRIMARY KEY,
			stripe_customer_id TEXT NOT NULL DEFAULT '',
			stripe_subscription_id TEXT NOT NULL DEFAULT '',
			stripe_price_id TEXT NOT NULL DEFAULT '',
			stripe_current_period_end DATETIME,
			updated_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type seedStore struct {
	owner     string
	name      string
	accountID string
}

func mustCreateStore(t *testing.T, repo *GormStoreRepository, s seedStore, createdAt time.Time) *merchant.Store {
	t.Helper()
	store, err := merchant.NewStore(s.owner, s.name, "")
	require.NoError(t, err)
	if s.accountID != "" {
		require.NoError(t, store.ConnectAccount(s.accountID))
	}
	store.CreatedAt = createdAt
	store.UpdatedAt = createdAt
	require.NoError(t, repo.Create(context.Background(), store))
	return store
}

func mustCreateProduct(t *testing.T, repo *GormProductRepository, storeID int64, name string, cat catalog.Category, sub, price string, createdAt time.Time) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(storeID, name, cat, decimal.RequireFromString(price))
	require.NoError(t, err)
	if sub != "" {
		require.NoError(t, p.SetSubcategory(sub))
	}
	p.CreatedAt = createdAt
	p.UpdatedAt = createdAt
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func mustCreateOrder(t *testing.T, repo *GormOrderRepository, storeID int64, email, name, amount, intent string, status trade.PaymentStatus, createdAt time.Time) *trade.Order {
	t.Helper()
	items := []trade.OrderItem{{ProductID: 1, Quantity: 1, Price: decimal.RequireFromString(amount)}}
	o, err := trade.NewOrder(storeID, email, name, items, decimal.RequireFromString(amount), intent, status)
	require.NoError(t, err)
	o.CreatedAt = createdAt
	o.UpdatedAt = createdAt
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func identityFixture(userID string) *identity.UserSubscription {
	return identity.NewUserSubscription(userID)
}

package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avolkov/storefront-backend/pkg/db/models"
	"github.com/avolkov/storefront-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  customer_name TEXT,
  customer_email TEXT,
  customer_phone TEXT,
  address TEXT NOT NULL,
  total_amount NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL DEFAULT 0,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec(`DELETE FROM order_items;`).Error)
	require.NoError(t, db.Exec(`DELETE FROM orders;`).Error)
	return db
}

func createTestOrder(t *testing.T, db *gorm.DB, userID *uuid.UUID, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Address:     "12 Harbor Lane",
		TotalAmount: decimal.RequireFromString("25.00"),
		Status:      enums.OrderStatusPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if userID == nil {
		order.CustomerName = "Guest Buyer"
		order.CustomerEmail = "guest@example.com"
		order.CustomerPhone = "+15550001111"
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryCreateAndFindByID(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := createTestOrder(t, db, nil, time.Now().UTC())
	items := []models.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: uuid.New(), Name: "Sencha", Price: decimal.RequireFromString("12.50"), Quantity: 2},
	}
	require.NoError(t, repo.CreateItems(ctx, items))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, found.IsGuest())
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Sencha", found.Items[0].Name)
	assert.Equal(t, 2, found.Items[0].Quantity)
}

func TestRepositoryUpdateTotal(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := createTestOrder(t, db, nil, time.Now().UTC())
	require.NoError(t, repo.UpdateTotal(ctx, order.ID, decimal.RequireFromString("99.90")))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, found.TotalAmount.Equal(decimal.RequireFromString("99.90")))
}

func TestRepositoryListByUser(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	otherID := uuid.New()
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	older := createTestOrder(t, db, &userID, base)
	newer := createTestOrder(t, db, &userID, base.Add(time.Hour))
	createTestOrder(t, db, &otherID, base)
	createTestOrder(t, db, nil, base)

	list, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

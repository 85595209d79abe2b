package catalog

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
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  price NUMERIC NOT NULL DEFAULT 0,
  image_url TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(`DELETE FROM products;`).Error)
	require.NoError(t, db.Exec(`DELETE FROM categories;`).Error)
	return db
}

func newCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:   uuid.New(),
		Name: name,
		Slug: slug,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func newProduct(t *testing.T, db *gorm.DB, category *models.Category, name, slug string, price string, available bool, created time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: category.ID,
		Name:       name,
		Slug:       slug,
		Price:      decimal.RequireFromString(price),
		Available:  available,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryListAvailableProducts(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	teas := newCategory(t, db, "Teas", "teas")
	mugs := newCategory(t, db, "Mugs", "mugs")

	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	newProduct(t, db, teas, "Sencha", "sencha", "12.50", true, base)
	newProduct(t, db, teas, "Matcha", "matcha", "24.00", true, base.Add(time.Hour))
	newProduct(t, db, mugs, "Stone Mug", "stone-mug", "18.00", true, base.Add(2*time.Hour))
	newProduct(t, db, teas, "Retired Blend", "retired-blend", "9.99", false, base.Add(3*time.Hour))

	all, err := repo.ListAvailableProducts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Matcha", all[0].Name)
	assert.Equal(t, "Sencha", all[1].Name)
	assert.Equal(t, "Stone Mug", all[2].Name)

	onlyTeas, err := repo.ListAvailableProducts(ctx, &teas.ID)
	require.NoError(t, err)
	require.Len(t, onlyTeas, 2)
	for _, p := range onlyTeas {
		assert.Equal(t, teas.ID, p.CategoryID)
	}
}

func TestRepositoryFindAvailableByIDAndSlug(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	teas := newCategory(t, db, "Teas", "teas")
	prod := newProduct(t, db, teas, "Sencha", "sencha", "12.50", true, time.Now().UTC())
	hidden := newProduct(t, db, teas, "Retired Blend", "retired-blend", "9.99", false, time.Now().UTC())

	found, err := repo.FindAvailableByIDAndSlug(ctx, prod.ID, "sencha")
	require.NoError(t, err)
	assert.Equal(t, prod.ID, found.ID)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("12.50")))

	_, err = repo.FindAvailableByIDAndSlug(ctx, prod.ID, "wrong-slug")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindAvailableByIDAndSlug(ctx, hidden.ID, "retired-blend")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindProductByID_ignoresAvailability(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	teas := newCategory(t, db, "Teas", "teas")
	hidden := newProduct(t, db, teas, "Retired Blend", "retired-blend", "9.99", false, time.Now().UTC())

	found, err := repo.FindProductByID(ctx, hidden.ID)
	require.NoError(t, err)
	assert.Equal(t, hidden.ID, found.ID)

	_, err = repo.FindAvailableProductByID(ctx, hidden.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindCategoryBySlug(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	newCategory(t, db, "Teas", "teas")

	found, err := repo.FindCategoryBySlug(ctx, "teas")
	require.NoError(t, err)
	assert.Equal(t, "Teas", found.Name)

	_, err = repo.FindCategoryBySlug(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

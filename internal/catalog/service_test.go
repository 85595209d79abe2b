package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avolkov/storefront-backend/pkg/db/models"
	pkgerrors "github.com/avolkov/storefront-backend/pkg/errors"
)

type stubCatalogRepo struct {
	categories []models.Category
	products   []models.Product

	listErr error

	lastCategoryID *uuid.UUID
}

func (s *stubCatalogRepo) ListCategories(_ context.Context) ([]models.Category, error) {
	return s.categories, s.listErr
}

func (s *stubCatalogRepo) FindCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	for i := range s.categories {
		if s.categories[i].Slug == slug {
			return &s.categories[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) ListAvailableProducts(_ context.Context, categoryID *uuid.UUID) ([]models.Product, error) {
	s.lastCategoryID = categoryID
	if categoryID == nil {
		return s.products, nil
	}
	var out []models.Product
	for _, p := range s.products {
		if p.CategoryID == *categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) FindAvailableByIDAndSlug(_ context.Context, id uuid.UUID, slug string) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id && s.products[i].Slug == slug {
			return &s.products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) FindAvailableProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func catalogFixture() *stubCatalogRepo {
	teas := models.Category{ID: uuid.New(), Name: "Teas", Slug: "teas"}
	mugs := models.Category{ID: uuid.New(), Name: "Mugs", Slug: "mugs"}
	return &stubCatalogRepo{
		categories: []models.Category{teas, mugs},
		products: []models.Product{
			{ID: uuid.New(), CategoryID: teas.ID, Name: "Sencha", Slug: "sencha", Price: decimal.RequireFromString("12.50"), Available: true},
			{ID: uuid.New(), CategoryID: mugs.ID, Name: "Stone Mug", Slug: "stone-mug", Price: decimal.RequireFromString("18.00"), Available: true},
		},
	}
}

func TestServiceList_allProducts(t *testing.T) {
	repo := catalogFixture()
	svc := NewService(repo)

	listing, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, listing.Category)
	assert.Len(t, listing.Categories, 2)
	assert.Len(t, listing.Products, 2)
	assert.Nil(t, repo.lastCategoryID)
}

func TestServiceList_categoryFilter(t *testing.T) {
	repo := catalogFixture()
	svc := NewService(repo)

	listing, err := svc.List(context.Background(), "teas")
	require.NoError(t, err)
	require.NotNil(t, listing.Category)
	assert.Equal(t, "teas", listing.Category.Slug)
	require.Len(t, listing.Products, 1)
	assert.Equal(t, "Sencha", listing.Products[0].Name)
}

func TestServiceList_unknownCategory(t *testing.T) {
	svc := NewService(catalogFixture())

	_, err := svc.List(context.Background(), "nope")
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceGetBySlug_wrongSlugIsNotFound(t *testing.T) {
	repo := catalogFixture()
	svc := NewService(repo)

	got, err := svc.GetBySlug(context.Background(), repo.products[0].ID, "sencha")
	require.NoError(t, err)
	assert.Equal(t, "Sencha", got.Name)

	_, err = svc.GetBySlug(context.Background(), repo.products[0].ID, "stone-mug")
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

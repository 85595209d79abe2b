package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avolkov/storefront-backend/pkg/db/models"
	pkgerrors "github.com/avolkov/storefront-backend/pkg/errors"
)

type repository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListAvailableProducts(ctx context.Context, categoryID *uuid.UUID) ([]models.Product, error)
	FindAvailableByIDAndSlug(ctx context.Context, id uuid.UUID, slug string) (*models.Product, error)
	FindAvailableProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service implements the public catalog read operations.
type Service struct {
	repo repository
}

// NewService wires a catalog service over the given repository.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// List returns available products alongside the full category list.
// A non-empty categorySlug narrows the products to that category and
// echoes the resolved category in the response.
func (s *Service) List(ctx context.Context, categorySlug string) (*ListingDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load catalog")
	}

	listing := &ListingDTO{
		Categories: make([]CategoryDTO, 0, len(categories)),
		Products:   []ProductDTO{},
	}
	for i := range categories {
		listing.Categories = append(listing.Categories, *toCategoryDTO(&categories[i]))
	}

	var categoryID *uuid.UUID
	if categorySlug != "" {
		category, err := s.repo.FindCategoryBySlug(ctx, categorySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load catalog")
		}
		listing.Category = toCategoryDTO(category)
		categoryID = &category.ID
	}

	products, err := s.repo.ListAvailableProducts(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load catalog")
	}
	for i := range products {
		listing.Products = append(listing.Products, *toProductDTO(&products[i]))
	}

	return listing, nil
}

// GetBySlug loads one available product addressed by ID and slug
// together, as used by the product detail page.
func (s *Service) GetBySlug(ctx context.Context, id uuid.UUID, slug string) (*ProductDTO, error) {
	product, err := s.repo.FindAvailableByIDAndSlug(ctx, id, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	return toProductDTO(product), nil
}

// GetAvailable loads one available product by ID. Cart additions run
// through this so unlisted products cannot be added.
func (s *Service) GetAvailable(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindAvailableProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	return product, nil
}

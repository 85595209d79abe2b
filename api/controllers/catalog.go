package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avolkov/storefront-backend/api/responses"
	"github.com/avolkov/storefront-backend/api/validators"
	"github.com/avolkov/storefront-backend/internal/catalog"
	pkgerrors "github.com/avolkov/storefront-backend/pkg/errors"
	"github.com/avolkov/storefront-backend/pkg/logger"
)

type catalogService interface {
	List(ctx context.Context, categorySlug string) (*catalog.ListingDTO, error)
	GetBySlug(ctx context.Context, id uuid.UUID, slug string) (*catalog.ProductDTO, error)
}

// CatalogProducts lists available products, optionally filtered by the
// `category` query parameter (a category slug).
func CatalogProducts(svc catalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categorySlug := strings.TrimSpace(r.URL.Query().Get("category"))
		listing, err := svc.List(r.Context(), categorySlug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listing)
	}
}

// CatalogProductDetail loads one product addressed by ID and slug.
func CatalogProductDetail(svc catalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing url parameter").WithDetails(map[string]any{"field": "slug"}))
			return
		}

		product, err := svc.GetBySlug(r.Context(), id, slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type categoryLister interface {
	List(ctx context.Context, categorySlug string) (*catalog.ListingDTO, error)
}

// CatalogCategories returns the category list on its own.
func CatalogCategories(svc categoryLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		listing, err := svc.List(r.Context(), "")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listing.Categories)
	}
}

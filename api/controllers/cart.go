package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/avolkov/storefront-backend/api/middleware"
	"github.com/avolkov/storefront-backend/api/responses"
	"github.com/avolkov/storefront-backend/api/validators"
	cartsvc "github.com/avolkov/storefront-backend/internal/cart"
	pkgerrors "github.com/avolkov/storefront-backend/pkg/errors"
	"github.com/avolkov/storefront-backend/pkg/logger"
)

type cartService interface {
	Add(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*cartsvc.MutationDTO, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*cartsvc.MutationDTO, error)
	Summary(ctx context.Context, sessionID string) (*cartsvc.SummaryDTO, error)
}

// Quantity is a pointer so an omitted field (defaults to one unit) is
// distinguishable from an explicit zero (rejected).
type addToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  *int      `json:"quantity" validate:"omitempty,min=1"`
}

func requireSession(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "session unavailable")
	}
	return sessionID, nil
}

// CartAdd puts a product into the session's cart.
func CartAdd(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addToCartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity := 1
		if body.Quantity != nil {
			quantity = *body.Quantity
		}

		out, err := svc.Add(r.Context(), sessionID, body.ProductID, quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, out)
	}
}

// CartRemove drops a product from the session's cart.
func CartRemove(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.Remove(r.Context(), sessionID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, out)
	}
}

// CartView renders the session's cart against live catalog pricing.
func CartView(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

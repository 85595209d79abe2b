package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/avolkov/storefront-backend/api/middleware"
	"github.com/avolkov/storefront-backend/api/responses"
	"github.com/avolkov/storefront-backend/api/validators"
	"github.com/avolkov/storefront-backend/internal/checkout"
	ordersvc "github.com/avolkov/storefront-backend/internal/orders"
	pkgerrors "github.com/avolkov/storefront-backend/pkg/errors"
	"github.com/avolkov/storefront-backend/pkg/logger"
)

type checkoutService interface {
	Execute(ctx context.Context, sessionID string, input checkout.Input) (*checkout.Result, error)
}

type ordersService interface {
	Get(ctx context.Context, viewer ordersvc.Viewer, orderID uuid.UUID) (*ordersvc.OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]ordersvc.OrderDTO, error)
}

type createOrderRequest struct {
	Address       string `json:"address" validate:"required"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone string `json:"customer_phone,omitempty"`
}

// OrderCreate materializes the session's cart into an order. Logged-in
// callers own the order; anonymous callers must supply guest contact
// fields.
func OrderCreate(svc checkoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var actor checkout.Actor
		if userID, ok := middleware.UserUUIDFromContext(r.Context()); ok {
			actor, err = checkout.UserActor(userID)
		} else {
			actor, err = checkout.GuestActor(checkout.GuestContact{
				Name:  body.CustomerName,
				Email: body.CustomerEmail,
				Phone: body.CustomerPhone,
			})
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), sessionID, checkout.Input{
			Actor:   actor,
			Address: body.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// OrderDetail loads one order, guarded by ownership or the session's
// guest-order marker.
func OrderDetail(svc ordersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		viewer := ordersvc.Viewer{SessionID: middleware.SessionIDFromContext(r.Context())}
		if userID, ok := middleware.UserUUIDFromContext(r.Context()); ok {
			viewer.UserID = &userID
		}

		order, err := svc.Get(r.Context(), viewer, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// ProfileOrders lists the authenticated user's order history.
func ProfileOrders(svc ordersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, ok := middleware.UserUUIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		list, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

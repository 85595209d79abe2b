package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avolkov/storefront-backend/pkg/db/models"
	pkgerrors "github.com/avolkov/storefront-backend/pkg/errors"
)

type repository interface {
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

// Viewer identifies who is asking to see an order. UserID is nil for
// anonymous callers; SessionID is always present.
type Viewer struct {
	UserID    *uuid.UUID
	SessionID string
}

// Service loads orders and enforces who may see them.
type Service struct {
	repo    repository
	markers markerStore
}

// NewService wires an orders service over the repo and the session
// store holding guest-order markers.
func NewService(repo repository, markers markerStore) *Service {
	return &Service{repo: repo, markers: markers}
}

// Get loads one order if the viewer is allowed to see it.
//
// An authenticated viewer may see an order only when it belongs to
// them. An anonymous viewer may see an order only when it is a guest
// order AND their session holds the marker written at checkout. Every
// other combination reads as "order not found" so callers cannot probe
// for order IDs they do not own.
func (s *Service) Get(ctx context.Context, viewer Viewer, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}

	allowed, err := s.authorize(ctx, viewer, order)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	return ToDTO(order), nil
}

// ListForUser returns the authenticated user's order history.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load orders")
	}

	out := make([]OrderDTO, 0, len(records))
	for i := range records {
		out = append(out, *ToDTO(&records[i]))
	}
	return out, nil
}

func (s *Service) authorize(ctx context.Context, viewer Viewer, order *models.Order) (bool, error) {
	if viewer.UserID != nil {
		return order.UserID != nil && *order.UserID == *viewer.UserID, nil
	}

	if !order.IsGuest() || viewer.SessionID == "" {
		return false, nil
	}
	marked, err := s.markers.Has(ctx, viewer.SessionID, guestMarkerKey(order.ID))
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to check order access")
	}
	return marked, nil
}

package orders

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

type stubOrdersRepo struct {
	byID map[uuid.UUID]*models.Order
}

func (s *stubOrdersRepo) FindByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	if order, ok := s.byID[orderID]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.byID {
		if order.UserID != nil && *order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

type stubMarkers struct {
	data map[string]map[string]string
}

func newStubMarkers() *stubMarkers {
	return &stubMarkers{data: map[string]map[string]string{}}
}

func (s *stubMarkers) Set(_ context.Context, sessionID, key, value string) error {
	if s.data[sessionID] == nil {
		s.data[sessionID] = map[string]string{}
	}
	s.data[sessionID][key] = value
	return nil
}

func (s *stubMarkers) Has(_ context.Context, sessionID, key string) (bool, error) {
	_, ok := s.data[sessionID][key]
	return ok, nil
}

func guardFixture(t *testing.T) (*Service, *stubMarkers, *models.Order, *models.Order, uuid.UUID) {
	t.Helper()

	ownerID := uuid.New()
	userOrder := &models.Order{
		ID:          uuid.New(),
		UserID:      &ownerID,
		Address:     "12 Harbor Lane",
		TotalAmount: decimal.RequireFromString("25.00"),
	}
	guestOrder := &models.Order{
		ID:            uuid.New(),
		CustomerName:  "Guest Buyer",
		CustomerEmail: "guest@example.com",
		CustomerPhone: "+15550001111",
		Address:       "9 Quay Street",
		TotalAmount:   decimal.RequireFromString("18.00"),
	}
	repo := &stubOrdersRepo{byID: map[uuid.UUID]*models.Order{
		userOrder.ID:  userOrder,
		guestOrder.ID: guestOrder,
	}}
	markers := newStubMarkers()
	return NewService(repo, markers), markers, userOrder, guestOrder, ownerID
}

func requireNotFound(t *testing.T, err error) {
	t.Helper()

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceGet_ownerSeesOwnOrder(t *testing.T) {
	svc, _, userOrder, _, ownerID := guardFixture(t)

	got, err := svc.Get(context.Background(), Viewer{UserID: &ownerID, SessionID: "sess-1"}, userOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, userOrder.ID, got.ID)
	assert.False(t, got.Guest)
}

func TestServiceGet_strangerDenied(t *testing.T) {
	svc, _, userOrder, _, _ := guardFixture(t)

	strangerID := uuid.New()
	_, err := svc.Get(context.Background(), Viewer{UserID: &strangerID, SessionID: "sess-1"}, userOrder.ID)
	requireNotFound(t, err)
}

func TestServiceGet_guestWithMarkerSeesGuestOrder(t *testing.T) {
	svc, markers, _, guestOrder, _ := guardFixture(t)
	ctx := context.Background()

	require.NoError(t, MarkGuestOrder(ctx, markers, "sess-guest", guestOrder.ID))

	got, err := svc.Get(ctx, Viewer{SessionID: "sess-guest"}, guestOrder.ID)
	require.NoError(t, err)
	assert.True(t, got.Guest)
	assert.Equal(t, "Guest Buyer", got.CustomerName)
}

func TestServiceGet_guestWithoutMarkerDenied(t *testing.T) {
	svc, _, _, guestOrder, _ := guardFixture(t)

	_, err := svc.Get(context.Background(), Viewer{SessionID: "sess-other"}, guestOrder.ID)
	requireNotFound(t, err)
}

func TestServiceGet_markerDoesNotUnlockUserOrders(t *testing.T) {
	svc, markers, userOrder, _, _ := guardFixture(t)
	ctx := context.Background()

	// Even a forged marker must not expose an order that belongs
	// to an account.
	require.NoError(t, MarkGuestOrder(ctx, markers, "sess-guest", userOrder.ID))

	_, err := svc.Get(ctx, Viewer{SessionID: "sess-guest"}, userOrder.ID)
	requireNotFound(t, err)
}

func TestServiceGet_authenticatedUserDeniedGuestOrder(t *testing.T) {
	svc, markers, _, guestOrder, ownerID := guardFixture(t)
	ctx := context.Background()

	require.NoError(t, MarkGuestOrder(ctx, markers, "sess-1", guestOrder.ID))

	_, err := svc.Get(ctx, Viewer{UserID: &ownerID, SessionID: "sess-1"}, guestOrder.ID)
	requireNotFound(t, err)
}

func TestServiceGet_unknownOrder(t *testing.T) {
	svc, _, _, _, ownerID := guardFixture(t)

	_, err := svc.Get(context.Background(), Viewer{UserID: &ownerID, SessionID: "sess-1"}, uuid.New())
	requireNotFound(t, err)
}

func TestServiceListForUser(t *testing.T) {
	svc, _, userOrder, _, ownerID := guardFixture(t)

	list, err := svc.ListForUser(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, userOrder.ID, list[0].ID)
}

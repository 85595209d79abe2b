package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Guest order markers live in the session store, so a guest can only
// ever see orders placed from their current browser session. The
// marker expires with the session.

type markerStore interface {
	Set(ctx context.Context, sessionID, key, value string) error
	Has(ctx context.Context, sessionID, key string) (bool, error)
}

func guestMarkerKey(orderID uuid.UUID) string {
	return fmt.Sprintf("guest_order_%s", orderID)
}

// MarkGuestOrder records in the session that this order was placed by
// the session's guest.
func MarkGuestOrder(ctx context.Context, store markerStore, sessionID string, orderID uuid.UUID) error {
	return store.Set(ctx, sessionID, guestMarkerKey(orderID), "1")
}

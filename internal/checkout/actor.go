package checkout

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/avolkov/storefront-backend/pkg/errors"
)

// GuestContact carries the contact fields a guest must supply instead
// of an account.
type GuestContact struct {
	Name  string
	Email string
	Phone string
}

// Actor says who is placing the order: exactly one of UserID or Guest
// is set. Build one through UserActor or GuestActor so the invariant
// holds.
type Actor struct {
	userID *uuid.UUID
	guest  *GuestContact
}

// UserActor builds the actor for an authenticated customer.
func UserActor(userID uuid.UUID) (Actor, error) {
	if userID == uuid.Nil {
		return Actor{}, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	id := userID
	return Actor{userID: &id}, nil
}

// GuestActor builds the actor for an anonymous customer. All three
// contact fields are required.
func GuestActor(contact GuestContact) (Actor, error) {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Phone = strings.TrimSpace(contact.Phone)
	if contact.Name == "" || contact.Email == "" || contact.Phone == "" {
		return Actor{}, pkgerrors.New(pkgerrors.CodeValidation, "guest name, email and phone are required")
	}
	return Actor{guest: &contact}, nil
}

// UserID returns the acting user's ID when the actor is authenticated.
func (a Actor) UserID() (uuid.UUID, bool) {
	if a.userID == nil {
		return uuid.Nil, false
	}
	return *a.userID, true
}

// Guest returns the contact details when the actor is anonymous.
func (a Actor) Guest() (GuestContact, bool) {
	if a.guest == nil {
		return GuestContact{}, false
	}
	return *a.guest, true
}

func (a Actor) valid() bool {
	return (a.userID != nil) != (a.guest != nil)
}

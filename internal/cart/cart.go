// Package cart keeps per-session shopping carts in the session store.
// A cart is an ordered list of line entries serialized as JSON under a
// single session key; entry order follows first-add order.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const stateKey = "cart"

// Entry is one cart line as stored in the session. Name and Price are
// snapshots taken at add time; they only matter for describing products
// that have since been removed from the catalog.
type Entry struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type state struct {
	Entries []Entry `json:"entries"`
}

func (s *state) find(productID uuid.UUID) *Entry {
	for i := range s.Entries {
		if s.Entries[i].ProductID == productID {
			return &s.Entries[i]
		}
	}
	return nil
}

func (s *state) remove(productID uuid.UUID) bool {
	for i := range s.Entries {
		if s.Entries[i].ProductID == productID {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
			return true
		}
	}
	return false
}

func (s *state) count() int {
	total := 0
	for i := range s.Entries {
		total += s.Entries[i].Quantity
	}
	return total
}

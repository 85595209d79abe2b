package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avolkov/storefront-backend/pkg/db/models"
	pkgerrors "github.com/avolkov/storefront-backend/pkg/errors"
)

type sessionStore interface {
	Set(ctx context.Context, sessionID, key, value string) error
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Del(ctx context.Context, sessionID string, keys ...string) error
}

type productFinder interface {
	FindAvailableProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service manages the session-scoped cart.
type Service struct {
	sessions sessionStore
	products productFinder
}

// NewService wires a cart service over a session store and the product
// catalog.
func NewService(sessions sessionStore, products productFinder) *Service {
	return &Service{sessions: sessions, products: products}
}

// Add puts quantity units of a product into the session's cart,
// folding into the existing line when the product is already present.
func (s *Service) Add(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*MutationDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindAvailableProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}

	st, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if entry := st.find(productID); entry != nil {
		entry.Quantity += quantity
	} else {
		st.Entries = append(st.Entries, Entry{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
		})
	}

	if err := s.save(ctx, sessionID, st); err != nil {
		return nil, err
	}

	return &MutationDTO{
		Success:   true,
		Message:   fmt.Sprintf("%s added to cart", product.Name),
		CartCount: st.count(),
	}, nil
}

// Remove drops a product's line from the cart. Removing a product that
// is not in the cart is a no-op, not an error.
func (s *Service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*MutationDTO, error) {
	st, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if st.remove(productID) {
		if err := s.save(ctx, sessionID, st); err != nil {
			return nil, err
		}
	}

	return &MutationDTO{
		Success:   true,
		Message:   "removed from cart",
		CartCount: st.count(),
	}, nil
}

// Summary renders the cart against the live catalog. Lines re-price
// from the current product row; lines whose product was removed or
// unlisted keep their stored snapshot, are flagged unavailable, and do
// not count toward the total.
func (s *Service) Summary(ctx context.Context, sessionID string) (*SummaryDTO, error) {
	st, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	summary := &SummaryDTO{
		Items: make([]LineDTO, 0, len(st.Entries)),
		Total: decimal.Zero,
	}
	for _, entry := range st.Entries {
		line := LineDTO{
			ProductID: entry.ProductID,
			Name:      entry.Name,
			Price:     entry.Price,
			Quantity:  entry.Quantity,
		}

		product, err := s.products.FindProductByID(ctx, entry.ProductID)
		switch {
		case err == nil:
			line.Name = product.Name
			line.Slug = product.Slug
			line.ImageURL = product.ImageURL
			line.Price = product.Price
			line.Available = product.Available
		case errors.Is(err, gorm.ErrRecordNotFound):
			line.Available = false
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cart")
		}

		line.LineTotal = line.Price.Mul(decimal.NewFromInt(int64(entry.Quantity)))
		if line.Available {
			summary.Total = summary.Total.Add(line.LineTotal)
		}
		summary.Items = append(summary.Items, line)
		summary.ItemCount += entry.Quantity
	}

	return summary, nil
}

// Entries returns the raw stored cart lines in insertion order.
func (s *Service) Entries(ctx context.Context, sessionID string) ([]Entry, error) {
	st, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return st.Entries, nil
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.sessions.Del(ctx, sessionID, stateKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to clear cart")
	}
	return nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*state, error) {
	raw, ok, err := s.sessions.Get(ctx, sessionID, stateKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load cart")
	}
	st := &state{}
	if !ok {
		return st, nil
	}
	if err := json.Unmarshal([]byte(raw), st); err != nil {
		// Corrupt cart state is unrecoverable; start fresh.
		return &state{}, nil
	}
	return st, nil
}

func (s *Service) save(ctx context.Context, sessionID string, st *state) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode cart")
	}
	if err := s.sessions.Set(ctx, sessionID, stateKey, string(raw)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save cart")
	}
	return nil
}

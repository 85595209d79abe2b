package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/avolkov/storefront-backend/internal/cart"
	"github.com/avolkov/storefront-backend/internal/catalog"
	"github.com/avolkov/storefront-backend/internal/orders"
	"github.com/avolkov/storefront-backend/pkg/db/models"
	"github.com/avolkov/storefront-backend/pkg/enums"
	pkgerrors "github.com/avolkov/storefront-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartReader interface {
	Entries(ctx context.Context, sessionID string) ([]cart.Entry, error)
	Clear(ctx context.Context, sessionID string) error
}

type markerWriter interface {
	Set(ctx context.Context, sessionID, key, value string) error
	Has(ctx context.Context, sessionID, key string) (bool, error)
}

// Input is everything checkout needs beyond the session's cart.
type Input struct {
	Actor   Actor
	Address string
}

// Result reports a completed checkout.
type Result struct {
	OrderID     uuid.UUID       `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Service materializes a session's cart into a persisted order.
type Service struct {
	tx       txRunner
	carts    cartReader
	orders   *orders.Repository
	products *catalog.Repository
	markers  markerWriter
}

// NewService builds the checkout service.
func NewService(tx txRunner, carts cartReader, ordersRepo *orders.Repository, products *catalog.Repository, markers markerWriter) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if markers == nil {
		return nil, fmt.Errorf("marker store required")
	}
	return &Service{
		tx:       tx,
		carts:    carts,
		orders:   ordersRepo,
		products: products,
		markers:  markers,
	}, nil
}

// Execute turns the session's cart into an order inside one
// transaction. Line items are priced from the catalog rows read during
// the transaction, never from the cart's stored snapshots, so stale
// carts cannot buy at old prices. Any missing product aborts the whole
// order. The cart is cleared only after the transaction commits.
func (s *Service) Execute(ctx context.Context, sessionID string, input Input) (*Result, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session required")
	}
	if !input.Actor.valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "exactly one of user or guest contact required")
	}
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	entries, err := s.carts.Entries(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := &models.Order{
		ID:      uuid.New(),
		Address: address,
		Status:  enums.OrderStatusPending,
	}
	if userID, ok := input.Actor.UserID(); ok {
		order.UserID = &userID
	} else if guest, ok := input.Actor.Guest(); ok {
		order.CustomerName = guest.Name
		order.CustomerEmail = guest.Email
		order.CustomerPhone = guest.Phone
	}

	total := decimal.Zero
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		productsRepo := s.products.WithTx(tx)

		if err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create order")
		}

		items := make([]models.OrderItem, 0, len(entries))
		for _, entry := range entries {
			product, err := productsRepo.FindProductByID(ctx, entry.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q is no longer available", entry.Name))
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to price order")
			}

			items = append(items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  entry.Quantity,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(entry.Quantity))))
		}

		if err := ordersRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create order items")
		}
		if err := ordersRepo.UpdateTotal(ctx, order.ID, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to set order total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit bookkeeping. The order exists either way; a session
	// store hiccup here must not fail the checkout.
	if _, isGuest := input.Actor.Guest(); isGuest {
		_ = orders.MarkGuestOrder(ctx, s.markers, sessionID, order.ID)
	}
	_ = s.carts.Clear(ctx, sessionID)

	return &Result{OrderID: order.ID, TotalAmount: total}, nil
}

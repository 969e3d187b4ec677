package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/grocerylist-backend/pkg/errors"
	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
	"github.com/angelmondragon/grocerylist-backend/pkg/metrics"
)

const (
	msgUserRequired   = "User ID is required"
	msgItemIDRequired = "Item ID is required"
	msgItemNotFound   = "Item not found"
	msgQuantityTooLow = "Quantity must be at least 1"
	msgQuantityTooBig = "Quantity cannot exceed 9999"
	msgItemNotInCart  = "Item not found in cart"
	msgCartEmpty      = "Cart is empty"
	msgCartBusy       = "Cart is busy, please retry"

	maxUserIDLength    = 128
	defaultAddQuantity = 1
	maxLineQuantity    = 9999

	operationAdd    = "add_item"
	operationUpdate = "update_quantity"
	operationRemove = "remove_item"
	operationClear  = "clear"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes cart operations. Every call is scoped to an explicit user.
type Service interface {
	GetOrCreate(ctx context.Context, userID string) (*CartDTO, error)
	AddItem(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID string) (*CartDTO, error)
	Export(ctx context.Context, userID string) (*ExportDTO, error)
}

// Option customizes the service.
type Option func(*service)

// WithClock overrides the time source used for line timestamps and export dates.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics records operation outcomes and lock waits.
func WithMetrics(m *metrics.CartMetrics) Option {
	return func(s *service) {
		s.metrics = m
	}
}

type service struct {
	repo    CartRepository
	tx      txRunner
	locker  Locker
	metrics *metrics.CartMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, locker Locker, logg *logger.Logger, opts ...Option) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if locker == nil {
		return nil, fmt.Errorf("cart locker required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	s := &service{
		repo:   repo,
		tx:     tx,
		locker: locker,
		logg:   logg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) GetOrCreate(ctx context.Context, userID string) (*CartDTO, error) {
	cart, lookup, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resolve(cart, lookup), nil
}

func (s *service) load(ctx context.Context, userID string) (*models.Cart, map[uuid.UUID]models.Item, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, nil, err
	}
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	lookup, err := s.repo.FindItems(ctx, lineItemIDs(cart.Lines))
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve cart items")
	}
	return cart, lookup, nil
}

func (s *service) AddItem(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgItemIDRequired)
	}
	if quantity == 0 {
		quantity = defaultAddQuantity
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	return s.mutate(ctx, operationAdd, userID, func(ctx context.Context, repo CartRepository, cart *models.Cart) error {
		found, err := repo.FindItems(ctx, []uuid.UUID{itemID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
		}
		if _, ok := found[itemID]; !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgItemNotFound)
		}

		if idx := cart.FindLine(itemID); idx >= 0 {
			if cart.Lines[idx].Quantity > maxLineQuantity-quantity {
				return pkgerrors.New(pkgerrors.CodeValidation, msgQuantityTooBig)
			}
			cart.Lines[idx].Quantity += quantity
			return nil
		}
		cart.Lines = append(cart.Lines, models.CartLine{
			ItemID:   itemID,
			Quantity: quantity,
			AddedAt:  s.now().UTC(),
		})
		return nil
	})
}

func (s *service) UpdateQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	return s.mutate(ctx, operationUpdate, userID, func(_ context.Context, _ CartRepository, cart *models.Cart) error {
		idx := cart.FindLine(itemID)
		if idx < 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgItemNotInCart)
		}
		cart.Lines[idx].Quantity = quantity
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (*CartDTO, error) {
	return s.mutate(ctx, operationRemove, userID, func(_ context.Context, _ CartRepository, cart *models.Cart) error {
		idx := cart.FindLine(itemID)
		if idx < 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgItemNotInCart)
		}
		cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
		return nil
	})
}

func (s *service) Clear(ctx context.Context, userID string) (*CartDTO, error) {
	return s.mutate(ctx, operationClear, userID, func(_ context.Context, _ CartRepository, cart *models.Cart) error {
		cart.Lines = []models.CartLine{}
		return nil
	})
}

func (s *service) Export(ctx context.Context, userID string) (*ExportDTO, error) {
	cart, lookup, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]ExportLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		item, ok := lookup[line.ItemID]
		if !ok {
			continue
		}
		category := ""
		if item.Category != nil {
			category = item.Category.Name
		}
		lines = append(lines, ExportLine{
			Category: category,
			Name:     item.Name,
			Quantity: line.Quantity,
			Unit:     string(item.Unit),
		})
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgCartEmpty)
	}

	total := ComputeTotal(cart.Lines, lookup)
	return &ExportDTO{
		Text:           RenderExport(lines, total, s.now()),
		ItemCount:      len(lines),
		TotalEstimated: total.InexactFloat64(),
	}, nil
}

type mutation func(ctx context.Context, repo CartRepository, cart *models.Cart) error

// mutate runs one read-modify-write cycle under the per-user lock and inside a
// transaction, recomputing the total from scratch before saving.
func (s *service) mutate(ctx context.Context, op, userID string, apply mutation) (*CartDTO, error) {
	userID, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	unlock, err := s.locker.Lock(ctx, userID)
	s.metrics.ObserveLockWait(time.Since(started))
	if err != nil {
		s.metrics.IncFailure(op)
		if errors.Is(err, ErrLockTimeout) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgCartBusy)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire cart lock")
	}
	defer unlock()

	var (
		saved  *models.Cart
		lookup map[uuid.UUID]models.Item
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.GetOrCreateForUpdate(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if err := apply(ctx, repo, cart); err != nil {
			return err
		}
		found, err := repo.FindItems(ctx, lineItemIDs(cart.Lines))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve cart items")
		}
		cart.TotalEstimatedPrice = ComputeTotal(cart.Lines, found)
		if err := repo.Save(ctx, cart); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart")
		}
		saved, lookup = cart, found
		return nil
	})
	if err != nil {
		s.metrics.IncFailure(op)
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "commit cart")
		}
		return nil, err
	}

	s.metrics.IncSuccess(op)
	ctx = s.logg.WithFields(ctx, map[string]any{"cart_op": op, "lines": len(saved.Lines)})
	s.logg.Debug(ctx, "cart.mutated")
	return resolve(saved, lookup), nil
}

// checkQuantity bounds a single line so totals stay within the stored precision.
func checkQuantity(quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, msgQuantityTooLow)
	}
	if quantity > maxLineQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, msgQuantityTooBig)
	}
	return nil
}

func normalizeUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, msgUserRequired)
	}
	if len(userID) > maxUserIDLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("User ID cannot exceed %d characters", maxUserIDLength))
	}
	return userID, nil
}

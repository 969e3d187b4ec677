package items

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/grocerylist-backend/pkg/db"
	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
	"github.com/angelmondragon/grocerylist-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/grocerylist-backend/pkg/errors"
	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
)

const (
	nameMinLen = 2
	nameMaxLen = 100
)

const (
	msgNameRequired     = "Item name is required"
	msgCategoryRequired = "Category is required"
	msgCategoryMissing  = "Category does not exist"
	msgNotFound         = "Item not found"
	msgNegativePrice    = "Price cannot be negative"
)

type itemRepository interface {
	List(ctx context.Context, filter ListItemsFilter) ([]models.Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
	DeleteWithTx(tx *gorm.DB, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// cartPruner drops lines that reference a deleted item from every cart.
type cartPruner interface {
	PruneItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (int, error)
}

// Service exposes item operations.
type Service interface {
	List(ctx context.Context, filter ListItemsFilter) ([]ItemDTO, error)
	ListGrouped(ctx context.Context) ([]ItemGroup, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	Create(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   itemRepository
	tx     txRunner
	pruner cartPruner
	logg   *logger.Logger
}

// NewService builds an item service.
func NewService(repo itemRepository, tx txRunner, pruner cartPruner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if pruner == nil {
		return nil, fmt.Errorf("cart pruner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, tx: tx, pruner: pruner, logg: logg}, nil
}

func (s *service) List(ctx context.Context, filter ListItemsFilter) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListGrouped(ctx context.Context) ([]ItemGroup, error) {
	items, err := s.List(ctx, ListItemsFilter{})
	if err != nil {
		return nil, err
	}
	return GroupByCategory(items), nil
}

// GroupByCategory groups name-sorted items by category in a single pass.
// Groups appear in the order their category is first encountered.
func GroupByCategory(items []ItemDTO) []ItemGroup {
	groups := make([]ItemGroup, 0)
	index := make(map[uuid.UUID]int)
	for _, item := range items {
		if item.Category == nil {
			continue
		}
		pos, ok := index[item.Category.ID]
		if !ok {
			pos = len(groups)
			index[item.Category.ID] = pos
			groups = append(groups, ItemGroup{
				CategoryID:   item.Category.ID,
				CategoryName: item.Category.Name,
				Items:        []ItemDTO{},
			})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	return groups
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(item), nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgNameRequired)
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgCategoryRequired)
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:       name,
		CategoryID: input.CategoryID,
		Unit:       enums.DefaultItemUnit,
		Image:      models.DefaultItemImage,
		IsCustom:   true,
	}
	if input.Unit != nil {
		unit, err := parseUnit(*input.Unit)
		if err != nil {
			return nil, err
		}
		item.Unit = unit
	}
	if input.Image != nil {
		item.Image = normalizeImage(*input.Image)
	}
	if input.EstimatedPrice != nil {
		price, err := normalizePrice(*input.EstimatedPrice)
		if err != nil {
			return nil, err
		}
		item.EstimatedPrice = decimal.NewNullDecimal(price)
	}

	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgCategoryMissing)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	return s.Get(ctx, item.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil && *input.CategoryID != item.CategoryID {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = *input.CategoryID
		item.Category = nil
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, msgNameRequired)
		}
		if err := validateName(name); err != nil {
			return nil, err
		}
		item.Name = name
	}
	if input.Unit != nil {
		unit, err := parseUnit(*input.Unit)
		if err != nil {
			return nil, err
		}
		item.Unit = unit
	}
	if input.Image != nil {
		item.Image = normalizeImage(*input.Image)
	}
	if input.EstimatedPrice.Valid {
		if input.EstimatedPrice.Value == nil {
			item.EstimatedPrice = decimal.NullDecimal{}
		} else {
			price, err := normalizePrice(*input.EstimatedPrice.Value)
			if err != nil {
				return nil, err
			}
			item.EstimatedPrice = decimal.NewNullDecimal(price)
		}
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgCategoryMissing)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item")
	}
	return s.Get(ctx, item.ID)
}

// Delete removes the item and, in the same transaction, prunes it from every
// cart so no cart keeps a dangling line.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var pruned int
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.DeleteWithTx(tx, id); err != nil {
			return err
		}
		n, err := s.pruner.PruneItem(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("prune carts: %w", err)
		}
		pruned = n
		return nil
	})
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
	}
	if pruned > 0 {
		ctx = s.logg.WithFields(ctx, map[string]any{"item_id": id.String(), "carts_pruned": pruned})
		s.logg.Info(ctx, "item.deleted.carts_pruned")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}
	return item, nil
}

func (s *service) ensureCategory(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.CategoryExists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeValidation, msgCategoryMissing)
	}
	return nil
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < nameMinLen {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Item name must be at least %d characters", nameMinLen))
	}
	if n > nameMaxLen {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Item name cannot exceed %d characters", nameMaxLen))
	}
	return nil
}

func parseUnit(raw string) (enums.ItemUnit, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return enums.DefaultItemUnit, nil
	}
	unit, err := enums.ParseItemUnit(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err,
			fmt.Sprintf("Invalid unit. Allowed units: %s", strings.Join(enums.ItemUnitValues(), ", ")))
	}
	return unit, nil
}

func normalizeImage(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.DefaultItemImage
	}
	return trimmed
}

func normalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, msgNegativePrice)
	}
	return price.Round(2), nil
}

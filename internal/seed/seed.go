package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Params configure a seeding run.
type Params struct {
	Logger        *logger.Logger
	DB            txRunner
	DefaultUserID string
	Catalog       []CategorySeed
}

// Result summarises what Run inserted.
type Result struct {
	Categories int
	Items      int
	Carts      int
}

// Seeder replaces all catalog and cart data with the starter set.
type Seeder struct {
	logg          *logger.Logger
	db            txRunner
	defaultUserID string
	catalog       []CategorySeed
}

// New validates params and builds a Seeder.
func New(params Params) (*Seeder, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	userID := strings.TrimSpace(params.DefaultUserID)
	if userID == "" {
		return nil, fmt.Errorf("default user id required")
	}
	catalog := params.Catalog
	if catalog == nil {
		catalog = DefaultCatalog
	}
	if err := Validate(catalog); err != nil {
		return nil, err
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Seeder{logg: logg, db: params.DB, defaultUserID: userID, catalog: catalog}, nil
}

// Validate reports every malformed entry in catalog at once.
func Validate(catalog []CategorySeed) error {
	var errs error
	seen := make(map[string]struct{}, len(catalog))
	for _, category := range catalog {
		key := strings.ToLower(strings.TrimSpace(category.Name))
		if key == "" {
			errs = multierr.Append(errs, fmt.Errorf("category with empty name"))
			continue
		}
		if _, dup := seen[key]; dup {
			errs = multierr.Append(errs, fmt.Errorf("duplicate category %q", category.Name))
		}
		seen[key] = struct{}{}
		for _, item := range category.Items {
			if strings.TrimSpace(item.Name) == "" {
				errs = multierr.Append(errs, fmt.Errorf("category %q: item with empty name", category.Name))
			}
			if !item.Unit.IsValid() {
				errs = multierr.Append(errs, fmt.Errorf("item %q: invalid unit %q", item.Name, item.Unit))
			}
			if item.Price != "" {
				price, err := decimal.NewFromString(item.Price)
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("item %q: price: %w", item.Name, err))
				} else if price.IsNegative() {
					errs = multierr.Append(errs, fmt.Errorf("item %q: negative price", item.Name))
				}
			}
		}
	}
	return errs
}

// Run wipes carts, items and categories then inserts the catalog and an empty
// cart for the default user in a single transaction.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var result Result
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)
		for _, model := range []any{&models.Cart{}, &models.Item{}, &models.Category{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		s.logg.Info(ctx, "seed.cleared")

		for _, entry := range s.catalog {
			category := &models.Category{Name: entry.Name, IsCustom: false}
			if entry.Description != "" {
				desc := entry.Description
				category.Description = &desc
			}
			if err := tx.Create(category).Error; err != nil {
				return fmt.Errorf("create category %q: %w", entry.Name, err)
			}
			result.Categories++

			for _, seedItem := range entry.Items {
				item := &models.Item{
					Name:       seedItem.Name,
					CategoryID: category.ID,
					Image:      seedItem.Image,
					Unit:       seedItem.Unit,
					IsCustom:   false,
				}
				if seedItem.Price != "" {
					item.EstimatedPrice = decimal.NewNullDecimal(decimal.RequireFromString(seedItem.Price))
				}
				if err := tx.Omit("Category").Create(item).Error; err != nil {
					return fmt.Errorf("create item %q: %w", seedItem.Name, err)
				}
				result.Items++
			}
		}

		cart := &models.Cart{UserID: s.defaultUserID, Lines: []models.CartLine{}}
		if err := tx.Create(cart).Error; err != nil {
			return fmt.Errorf("create cart: %w", err)
		}
		result.Carts++
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"categories": result.Categories,
		"items":      result.Items,
		"carts":      result.Carts,
	})
	s.logg.Info(logCtx, "seed.complete")
	return result, nil
}

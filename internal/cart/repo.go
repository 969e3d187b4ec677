package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/grocerylist-backend/internal/items"
	"github.com/angelmondragon/grocerylist-backend/internal/repo"
	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
)

// Repository persists cart documents. Lines live inline on the cart row.
type Repository struct {
	repo.Base
	catalog *items.Repository
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db), catalog: items.NewRepository(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Base.WithTx(tx), catalog: items.NewRepository(tx)}
}

// GetOrCreate returns the cart for userID, inserting an empty one when absent.
func (r *Repository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	return r.getOrCreate(ctx, userID, false)
}

// GetOrCreateForUpdate behaves like GetOrCreate and, on Postgres, row-locks the
// cart until the surrounding transaction ends.
func (r *Repository) GetOrCreateForUpdate(ctx context.Context, userID string) (*models.Cart, error) {
	return r.getOrCreate(ctx, userID, true)
}

func (r *Repository) getOrCreate(ctx context.Context, userID string, forUpdate bool) (*models.Cart, error) {
	cart, err := r.findByUser(ctx, userID, forUpdate)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &models.Cart{UserID: userID, Lines: []models.CartLine{}}
	if err := r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(fresh).Error; err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	// a concurrent request may have won the insert; read back whichever row exists
	return r.findByUser(ctx, userID, forUpdate)
}

func (r *Repository) findByUser(ctx context.Context, userID string, forUpdate bool) (*models.Cart, error) {
	query := r.DB(ctx).Where("user_id = ?", userID)
	if forUpdate && query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var cart models.Cart
	if err := query.First(&cart).Error; err != nil {
		return nil, err
	}
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}
	return &cart, nil
}

// Save persists the cart lines and total.
func (r *Repository) Save(ctx context.Context, cart *models.Cart) error {
	if cart == nil {
		return fmt.Errorf("cart is required")
	}
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}
	return r.DB(ctx).Save(cart).Error
}

// FindItems loads the referenced items with their categories, keyed by id.
// Ids that no longer resolve are omitted.
func (r *Repository) FindItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Item, error) {
	return r.catalog.FindByIDs(ctx, ids)
}

// PruneItem removes every line referencing itemID from all carts and
// recomputes their totals using tx. It returns the number of carts changed.
// On Postgres the affected rows stay locked until tx ends, so a concurrent
// cart mutation waits on its own FOR UPDATE read.
func (r *Repository) PruneItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (int, error) {
	scoped := r.WithTx(tx).(*Repository)

	carts, err := scoped.cartsReferencing(ctx, itemID)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range carts {
		cart := &carts[i]
		idx := cart.FindLine(itemID)
		if idx < 0 {
			continue
		}
		cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)

		items, err := scoped.FindItems(ctx, lineItemIDs(cart.Lines))
		if err != nil {
			return changed, err
		}
		cart.TotalEstimatedPrice = ComputeTotal(cart.Lines, items)
		if err := scoped.Save(ctx, cart); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// cartsReferencing narrows candidates in SQL; callers still confirm with FindLine.
func (r *Repository) cartsReferencing(ctx context.Context, itemID uuid.UUID) ([]models.Cart, error) {
	var carts []models.Cart
	if err := referencingQuery(r.DB(ctx), itemID).Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

func referencingQuery(query *gorm.DB, itemID uuid.UUID) *gorm.DB {
	if query.Dialector.Name() == "postgres" {
		return query.
			Where("lines @> ?::jsonb", fmt.Sprintf(`[{"itemId":%q}]`, itemID.String())).
			Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return query.Where("lines LIKE ?", "%"+itemID.String()+"%")
}

func lineItemIDs(lines []models.CartLine) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ItemID)
	}
	return ids
}

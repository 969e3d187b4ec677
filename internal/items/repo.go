package items

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/grocerylist-backend/internal/repo"
	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
)

// Repository handles item persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to item operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns items ordered by name with their categories preloaded.
func (r *Repository) List(ctx context.Context, filter ListItemsFilter) ([]models.Item, error) {
	query := r.DB(ctx).Preload("Category").Order("name ASC")
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	var rows []models.Item
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads an item by its UUID with the category preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.DB(ctx).Preload("Category").Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads the items for ids keyed by id. Unknown ids are omitted.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Item, error) {
	out := make(map[uuid.UUID]models.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Item
	if err := r.DB(ctx).Preload("Category").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// CategoryExists reports whether a category row exists for id.
func (r *Repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create persists a new item. Associations are never written.
func (r *Repository) Create(ctx context.Context, item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item is required")
	}
	return r.DB(ctx).Omit(clause.Associations).Create(item).Error
}

// Update saves the provided item. Associations are never written.
func (r *Repository) Update(ctx context.Context, item *models.Item) error {
	if item == nil {
		return fmt.Errorf("item is required")
	}
	return r.DB(ctx).Omit(clause.Associations).Save(item).Error
}

// DeleteWithTx removes the item row using the provided transaction.
func (r *Repository) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	res := tx.Where("id = ?", id).Delete(&models.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

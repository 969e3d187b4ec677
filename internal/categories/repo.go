package categories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/grocerylist-backend/internal/repo"
	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
)

// Repository handles category persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to category operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns every category ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	if err := r.DB(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a category by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ExistsByName reports whether a category other than excludeID already uses
// name, compared case-insensitively.
func (r *Repository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.DB(ctx).Model(&models.Category{}).Where("name_key = ?", models.CategoryNameKey(name))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create persists a new category.
func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	if category == nil {
		return fmt.Errorf("category is required")
	}
	return r.DB(ctx).Create(category).Error
}

// Update saves the provided category.
func (r *Repository) Update(ctx context.Context, category *models.Category) error {
	if category == nil {
		return fmt.Errorf("category is required")
	}
	return r.DB(ctx).Save(category).Error
}

// CountItems returns the number of items referencing the category.
func (r *Repository) CountItems(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Item{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes the category row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

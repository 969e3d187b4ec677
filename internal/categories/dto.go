package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
)

// CategoryDTO is the API representation of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsCustom    bool      `json:"isCustom"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateCategoryInput carries the fields accepted on create.
type CreateCategoryInput struct {
	Name        string
	Description *string
}

// UpdateCategoryInput carries the fields accepted on update. Nil fields are left unchanged.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

// FromModel maps the persisted category into a DTO.
func FromModel(m *models.Category) *CategoryDTO {
	if m == nil {
		return nil
	}
	dto := &CategoryDTO{
		ID:        m.ID,
		Name:      m.Name,
		IsCustom:  m.IsCustom,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Description != nil {
		dto.Description = *m.Description
	}
	return dto
}

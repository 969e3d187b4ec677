package items

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
	"github.com/angelmondragon/grocerylist-backend/pkg/enums"
	"github.com/angelmondragon/grocerylist-backend/pkg/types"
)

// CategoryRef is the resolved category embedded in item responses.
type CategoryRef struct {
	ID   uuid.UUID `json:"_id"`
	Name string    `json:"name"`
}

// ItemDTO is the API representation of an item with its category resolved.
type ItemDTO struct {
	ID             uuid.UUID      `json:"_id"`
	Name           string         `json:"name"`
	Category       *CategoryRef   `json:"category"`
	Image          string         `json:"image"`
	Unit           enums.ItemUnit `json:"unit"`
	EstimatedPrice *float64       `json:"estimatedPrice,omitempty"`
	IsCustom       bool           `json:"isCustom"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ItemGroup holds the items of one category.
type ItemGroup struct {
	CategoryID   uuid.UUID `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	Items        []ItemDTO `json:"items"`
}

// ListItemsFilter narrows List results.
type ListItemsFilter struct {
	CategoryID *uuid.UUID
}

// CreateItemInput carries the fields accepted on create.
type CreateItemInput struct {
	Name           string
	CategoryID     uuid.UUID
	Image          *string
	Unit           *string
	EstimatedPrice *decimal.Decimal
}

// UpdateItemInput carries the fields accepted on update. Nil/invalid fields are left unchanged.
type UpdateItemInput struct {
	Name           *string
	CategoryID     *uuid.UUID
	Image          *string
	Unit           *string
	EstimatedPrice types.NullableDecimal
}

// FromModel maps the persisted item (with its preloaded category) into a DTO.
func FromModel(m *models.Item) *ItemDTO {
	if m == nil {
		return nil
	}
	dto := &ItemDTO{
		ID:        m.ID,
		Name:      m.Name,
		Image:     m.Image,
		Unit:      m.Unit,
		IsCustom:  m.IsCustom,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Category != nil {
		dto.Category = &CategoryRef{ID: m.Category.ID, Name: m.Category.Name}
	} else {
		dto.Category = &CategoryRef{ID: m.CategoryID}
	}
	if m.EstimatedPrice.Valid {
		price := m.EstimatedPrice.Decimal.InexactFloat64()
		dto.EstimatedPrice = &price
	}
	return dto
}

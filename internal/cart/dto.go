package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/grocerylist-backend/internal/items"
	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
)

// LineDTO is a cart line with its item resolved.
type LineDTO struct {
	Item     items.ItemDTO `json:"item"`
	Quantity int           `json:"quantity"`
	AddedAt  time.Time     `json:"addedAt"`
}

// CartDTO is the API representation of a resolved cart.
type CartDTO struct {
	ID                  uuid.UUID `json:"_id"`
	UserID              string    `json:"userId"`
	Items               []LineDTO `json:"items"`
	TotalEstimatedPrice float64   `json:"totalEstimatedPrice"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ExportDTO carries the rendered shopping list.
type ExportDTO struct {
	Text           string  `json:"text"`
	ItemCount      int     `json:"itemCount"`
	TotalEstimated float64 `json:"totalEstimated"`
}

// resolve maps the cart into a DTO, dropping lines whose item no longer
// exists, and recomputes the total from the resolved lines.
func resolve(cart *models.Cart, lookup map[uuid.UUID]models.Item) *CartDTO {
	dto := &CartDTO{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     make([]LineDTO, 0, len(cart.Lines)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, line := range cart.Lines {
		item, ok := lookup[line.ItemID]
		if !ok {
			continue
		}
		dto.Items = append(dto.Items, LineDTO{
			Item:     *items.FromModel(&item),
			Quantity: line.Quantity,
			AddedAt:  line.AddedAt,
		})
	}
	dto.TotalEstimatedPrice = ComputeTotal(cart.Lines, lookup).InexactFloat64()
	return dto
}

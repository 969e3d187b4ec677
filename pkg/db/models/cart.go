package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLine is one entry in a cart document. Lines are persisted inline on the
// cart row as a JSON array.
type CartLine struct {
	ItemID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// Cart holds the shopping list for a single user.
type Cart struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID              string          `gorm:"column:user_id;not null;uniqueIndex"`
	Lines               []CartLine      `gorm:"column:lines;type:jsonb;serializer:json;not null"`
	TotalEstimatedPrice decimal.Decimal `gorm:"column:total_estimated_price;type:numeric(18,2);not null;default:0"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }

// BeforeCreate assigns an id and normalizes a nil line slice.
func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Lines == nil {
		c.Lines = []CartLine{}
	}
	return nil
}

// FindLine returns the index of the line for itemID or -1.
func (c *Cart) FindLine(itemID uuid.UUID) int {
	for i, line := range c.Lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}

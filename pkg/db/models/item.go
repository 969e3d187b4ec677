package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/grocerylist-backend/pkg/enums"
)

// DefaultItemImage is stored when an item is created without an image URL.
const DefaultItemImage = "https://via.placeholder.com/150?text=No+Image"

// Item is a product that can be placed in a cart.
type Item struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name           string              `gorm:"column:name;not null"`
	CategoryID     uuid.UUID           `gorm:"column:category_id;type:uuid;not null;index"`
	Category       *Category           `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Image          string              `gorm:"column:image;not null"`
	Unit           enums.ItemUnit      `gorm:"column:unit;not null;default:'piece'"`
	EstimatedPrice decimal.NullDecimal `gorm:"column:estimated_price;type:numeric(10,2)"`
	IsCustom       bool                `gorm:"column:is_custom;not null;default:false"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Item) TableName() string { return "items" }

// BeforeCreate assigns an id and fills the image/unit defaults.
func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Image == "" {
		i.Image = DefaultItemImage
	}
	if i.Unit == "" {
		i.Unit = enums.DefaultItemUnit
	}
	return nil
}

// PriceOrZero returns the estimated price, treating a missing price as zero.
func (i Item) PriceOrZero() decimal.Decimal {
	if !i.EstimatedPrice.Valid {
		return decimal.Zero
	}
	return i.EstimatedPrice.Decimal
}

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups items on the shopping list.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	NameKey     string    `gorm:"column:name_key;not null;uniqueIndex:idx_categories_name_key"`
	Description *string   `gorm:"column:description"`
	IsCustom    bool      `gorm:"column:is_custom;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string { return "categories" }

// BeforeCreate assigns an id when the caller did not.
func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the uniqueness key in step with the display name.
func (c *Category) BeforeSave(*gorm.DB) error {
	c.NameKey = CategoryNameKey(c.Name)
	return nil
}

// CategoryNameKey folds a category name for case-insensitive uniqueness on every driver.
func CategoryNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

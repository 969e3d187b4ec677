package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/grocerylist-backend/pkg/db/models"
)

// CartRepository defines persistence operations for user carts.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	GetOrCreateForUpdate(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	FindItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Item, error)
}

// Locker serializes cart mutations per user.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

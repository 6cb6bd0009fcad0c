package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists carts keyed by user id.
//
// AddItem must be a single atomic append-or-increment at the store so that
// concurrent adds for the same user never overwrite each other.
type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, item Item) error
	RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error
	SetItemQuantity(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) error
	Save(ctx context.Context, cart *Cart) error
}

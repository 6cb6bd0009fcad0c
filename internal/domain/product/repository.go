package product

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists products with their owned tags and attributes.
type Repository interface {
	// Search returns one page of matches and the size of the whole filtered set
	Search(ctx context.Context, q Query) ([]Product, int64, error)
	// FindByID returns ErrProductNotFound for unknown ids; soft-deleted rows are returned
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, p *Product) error
	// Update fully replaces the stored state of p, tags and attributes included
	Update(ctx context.Context, p *Product) error
	ListCategories(ctx context.Context) ([]Category, error)
	ListBrands(ctx context.Context) ([]Brand, error)
}

package ports

import (
	"context"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
// Implementations return domain.ErrProductNotFound for unknown ids and
// domain.ErrUnavailable when storage cannot be reached in time.
type ProductRepository interface {
	// List returns products whose title or description contains search
	// (case-insensitive). An empty search matches everything.
	List(ctx context.Context, search string) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

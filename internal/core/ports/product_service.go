package ports

import (
	"context"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// ProductService defines use-case operations for the catalog.
type ProductService interface {
	List(ctx context.Context, search string) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

// ProductService implements the catalog use cases. Every operation passes the
// storage gate before touching the repository.
type ProductService struct {
	repo   ports.ProductRepository
	gate   ports.StorageGate
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, gate ports.StorageGate, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, gate: gate, logger: logger}
}

func (s *ProductService) List(ctx context.Context, search string) ([]*domain.Product, error) {
	if err := s.gate.EnsureReady(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, search)
}

// Get rejects malformed ids before reaching storage.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if !domain.ValidProductID(id) {
		return nil, domain.ErrInvalidID
	}
	if err := s.gate.EnsureReady(ctx); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := s.gate.EnsureReady(ctx); err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", p.ID).Msg("product created")
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	if !domain.ValidProductID(id) {
		return nil, domain.ErrInvalidID
	}
	if err := s.gate.EnsureReady(ctx); err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", p.ID).Msg("product updated")
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if !domain.ValidProductID(id) {
		return domain.ErrInvalidID
	}
	if err := s.gate.EnsureReady(ctx); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/storefront/catalog-api/internal/core/domain"
)

type stubGate struct{ err error }

func (g stubGate) EnsureReady(context.Context) error { return g.err }

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	seq      int
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*domain.Product)}
}

func (r *memProductRepo) List(context.Context, string) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memProductRepo) Create(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	now := time.Now().UTC().Truncate(time.Millisecond)
	p := &domain.Product{
		ID:          fmt.Sprintf("%024x", r.seq),
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.products[p.ID] = p
	clone := *p
	return &clone, nil
}

func (r *memProductRepo) Update(_ context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Title, p.Price, p.Description, p.Image = in.Title, in.Price, in.Description, in.Image
	clone := *p
	return &clone, nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products)
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	clone := *u
	clone.ID = fmt.Sprintf("%024x", 1000+r.seq)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

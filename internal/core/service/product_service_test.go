package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/core/domain"
)

type stubProductRepo struct {
	products map[string]*domain.Product
	nextID   int
	calls    int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) List(_ context.Context, search string) ([]*domain.Product, error) {
	r.calls++
	var out []*domain.Product
	for _, p := range r.products {
		if search == "" || strings.Contains(strings.ToLower(p.Title), strings.ToLower(search)) {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.calls++
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Create(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	r.calls++
	r.nextID++
	p := &domain.Product{
		ID:          fmt.Sprintf("%024x", r.nextID),
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
	}
	r.products[p.ID] = p
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Update(_ context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	r.calls++
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Title, p.Price, p.Description, p.Image = in.Title, in.Price, in.Description, in.Image
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	r.calls++
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

var widget = domain.ProductInput{
	Title:       "Widget",
	Price:       9.99,
	Description: "A useful widget",
	Image:       "https://cdn.example.com/widget.png",
}

func TestProductService_CreateThenGet(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, &stubGate{}, zerolog.Nop())

	created, err := svc.Create(context.Background(), widget)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != widget.Title || got.Price != widget.Price || got.Description != widget.Description || got.Image != widget.Image {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestProductService_InvalidIDSkipsStorage(t *testing.T) {
	repo := newStubProductRepo()
	gate := &stubGate{}
	svc := NewProductService(repo, gate, zerolog.Nop())

	if _, err := svc.Get(context.Background(), "not-an-id"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID from Get, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "123", widget); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID from Update, got %v", err)
	}
	if err := svc.Delete(context.Background(), "zzz"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID from Delete, got %v", err)
	}
	if gate.calls != 0 || repo.calls != 0 {
		t.Fatalf("expected no gate or storage access, got gate=%d repo=%d", gate.calls, repo.calls)
	}
}

func TestProductService_NotFound(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), &stubGate{}, zerolog.Nop())
	missing := "64b7f0c2a1b2c3d4e5f60718"

	if _, err := svc.Get(context.Background(), missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found from Get, got %v", err)
	}
	if _, err := svc.Update(context.Background(), missing, widget); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found from Update, got %v", err)
	}
	if err := svc.Delete(context.Background(), missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found from Delete, got %v", err)
	}
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, &stubGate{}, zerolog.Nop())
	created, _ := svc.Create(context.Background(), widget)

	changed := widget
	changed.Title = "Gadget"
	changed.Price = 0
	updated, err := svc.Update(context.Background(), created.ID, changed)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Gadget" || updated.Price != 0 {
		t.Fatalf("unexpected product after update: %+v", updated)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected deleted product to be gone, got %v", err)
	}
}

func TestProductService_Unavailable(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, &stubGate{err: domain.ErrUnavailable}, zerolog.Nop())

	if _, err := svc.List(context.Background(), ""); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from List, got %v", err)
	}
	if _, err := svc.Create(context.Background(), widget); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from Create, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected storage untouched, got %d calls", repo.calls)
	}
}

func TestProductService_ListSearch(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, &stubGate{}, zerolog.Nop())
	_, _ = svc.Create(context.Background(), widget)
	other := widget
	other.Title = "Lamp"
	_, _ = svc.Create(context.Background(), other)

	all, err := svc.List(context.Background(), "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 products, got %d (%v)", len(all), err)
	}
	found, err := svc.List(context.Background(), "WIDG")
	if err != nil || len(found) != 1 || found[0].Title != "Widget" {
		t.Fatalf("unexpected search result: %+v (%v)", found, err)
	}
}

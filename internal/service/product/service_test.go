package product

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type stubRepo struct {
	products []domain.Product
	gotID    string
}

func (s *stubRepo) List(_ context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.gotID = id
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

func TestServiceGet(t *testing.T) {
	repo := &stubRepo{products: []domain.Product{{ID: "p1", Name: "Kurta"}}}
	svc := New(repo)

	got, err := svc.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Kurta" {
		t.Fatalf("unexpected product %+v", got)
	}

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceGetBlankID(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)

	if _, err := svc.Get(context.Background(), "  "); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if repo.gotID != "" {
		t.Fatalf("repository should not be called for a blank id")
	}
}

func TestServiceList(t *testing.T) {
	svc := New(&stubRepo{products: []domain.Product{{ID: "p1"}, {ID: "p2"}}})

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
}

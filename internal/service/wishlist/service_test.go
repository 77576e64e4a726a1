package wishlist

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type stubRepo struct {
	item      *domain.WishlistItem
	addErr    error
	deleteErr error
	lastArgs  []string
}

func (s *stubRepo) List(_ context.Context, _ string) ([]domain.WishlistItem, error) {
	return nil, nil
}

func (s *stubRepo) Add(_ context.Context, userID, productID, variationID string) (*domain.WishlistItem, error) {
	s.lastArgs = []string{userID, productID, variationID}
	return s.item, s.addErr
}

func (s *stubRepo) Delete(_ context.Context, userID, id string) error {
	s.lastArgs = []string{userID, id}
	return s.deleteErr
}

type stubProductRepo struct {
	err error
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: id}, nil
}

func TestServiceAdd(t *testing.T) {
	repo := &stubRepo{item: &domain.WishlistItem{ID: "w1", ProductID: "p1"}}
	svc := New(repo, &stubProductRepo{})

	got, err := svc.Add(context.Background(), "user", AddInput{ProductID: "p1", VariationID: "v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "w1" {
		t.Fatalf("unexpected item: %+v", got)
	}
	if repo.lastArgs[0] != "user" || repo.lastArgs[1] != "p1" || repo.lastArgs[2] != "v1" {
		t.Fatalf("unexpected args: %v", repo.lastArgs)
	}
}

func TestServiceAddDuplicate(t *testing.T) {
	svc := New(&stubRepo{addErr: domain.ErrAlreadyExists}, &stubProductRepo{})
	_, err := svc.Add(context.Background(), "user", AddInput{ProductID: "p1"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestServiceAddUnknownProduct(t *testing.T) {
	svc := New(&stubRepo{}, &stubProductRepo{err: domain.ErrNotFound})
	_, err := svc.Add(context.Background(), "user", AddInput{ProductID: "p1"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = svc.Add(context.Background(), "user", AddInput{})
	if err == nil || err.Error() != "product_id required" {
		t.Fatalf("expected product_id error, got %v", err)
	}
}

func TestServiceRemove(t *testing.T) {
	svc := New(&stubRepo{deleteErr: domain.ErrNotFound}, &stubProductRepo{})
	if err := svc.Remove(context.Background(), "user", "w1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

package wishlist

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"
)

// ErrDuplicate is returned when the product is already on the wishlist.
var ErrDuplicate = errors.New("item already in wishlist")

type Service struct {
	repo        wishlistRepo
	productRepo productRepo
}

type wishlistRepo interface {
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Add(ctx context.Context, userID, productID, variationID string) (*domain.WishlistItem, error)
	Delete(ctx context.Context, userID, id string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo wishlistRepo, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

type AddInput struct {
	ProductID   string `json:"product_id"`
	VariationID string `json:"variation_id,omitempty"`
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Add(ctx context.Context, userID string, in AddInput) (*domain.WishlistItem, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, domain.Invalid("product_id required")
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalid("product not found")
		}
		return nil, err
	}
	item, err := s.repo.Add(ctx, userID, productID, strings.TrimSpace(in.VariationID))
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, ErrDuplicate
	}
	return item, err
}

func (s *Service) Remove(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("item id required")
	}
	return s.repo.Delete(ctx, userID, id)
}

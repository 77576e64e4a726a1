package cart

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

type Service struct {
	repo        cartRepo
	productRepo productRepo
}

type cartRepo interface {
	List(ctx context.Context, userID string) ([]domain.CartItem, error)
	Get(ctx context.Context, userID, id string) (*domain.CartItem, error)
	Add(ctx context.Context, userID string, product domain.Product, variationID string, quantity int) (*domain.CartItem, error)
	SetQuantity(ctx context.Context, userID, id string, quantity int) (*domain.CartItem, error)
	Delete(ctx context.Context, userID, id string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

type AddInput struct {
	ProductID   string `json:"product_id"`
	VariationID string `json:"variation_id,omitempty"`
	Quantity    int    `json:"quantity"`
}

type UpdateInput struct {
	Quantity int `json:"quantity"`
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return s.repo.List(ctx, userID)
}

// Add puts a product in the cart. Adding a product and variation that is
// already there increases its quantity.
func (s *Service) Add(ctx context.Context, userID string, in AddInput) (*domain.CartItem, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, domain.Invalid("product_id required")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return nil, domain.Invalid("quantity must be at least 1")
	}
	if s.productRepo == nil {
		return nil, errors.New("product repository unavailable")
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalid("product not found")
		}
		return nil, err
	}
	if product.Stock <= 0 {
		return nil, domain.Invalid("%s is out of stock", product.Name)
	}
	return s.repo.Add(ctx, userID, *product, strings.TrimSpace(in.VariationID), in.Quantity)
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, id string, quantity int) (*domain.CartItem, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("item id required")
	}
	if quantity < 1 {
		return nil, domain.Invalid("quantity must be at least 1")
	}
	return s.repo.SetQuantity(ctx, userID, id, quantity)
}

func (s *Service) Remove(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("item id required")
	}
	return s.repo.Delete(ctx, userID, id)
}

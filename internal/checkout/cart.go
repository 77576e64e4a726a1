package checkout

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/apiclient"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

// CartStore is the local copy of the shopper's cart. Different items can be
// changed concurrently; one item has at most one change in flight.
type CartStore struct {
	api    API
	notify Notifier
	logger *zap.Logger

	mu       sync.Mutex
	items    []domain.CartItem
	updating map[string]bool
}

func NewCartStore(api API, notify Notifier, logger *zap.Logger) *CartStore {
	return &CartStore{
		api:      api,
		notify:   notify,
		logger:   logging.OrNop(logger),
		updating: make(map[string]bool),
	}
}

// Fetch reloads the cart. On failure the previous items are kept.
func (s *CartStore) Fetch(ctx context.Context) error {
	items, err := s.api.Cart(ctx)
	if err != nil {
		s.notify.Error("Failed to load cart: " + err.Error())
		return err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

func (s *CartStore) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartStore) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// Subtotal is the sum of effective price times quantity.
func (s *CartStore) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Subtotal(s.items)
}

func (s *CartStore) IsUpdating(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updating[id]
}

// UpdateQuantity sets the quantity of item id. Quantities below 1 are ignored.
func (s *CartStore) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	if err := s.begin(id); err != nil {
		return err
	}
	defer s.end(id)

	updated, err := s.api.UpdateCartItem(ctx, id, quantity)
	if err != nil {
		s.notify.Error("Failed to update quantity: " + err.Error())
		return err
	}
	if updated != nil && updated.Quantity > 0 {
		quantity = updated.Quantity
	}
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *CartStore) RemoveItem(ctx context.Context, id string) error {
	if err := s.begin(id); err != nil {
		return err
	}
	defer s.end(id)

	if err := s.api.RemoveCartItem(ctx, id); err != nil {
		s.notify.Error("Failed to remove item: " + err.Error())
		return err
	}
	s.drop(id)
	s.notify.Success("Item removed from cart")
	return nil
}

// MoveToWishlist adds item to the wishlist, then removes it from the cart.
// If the removal fails, a wishlist entry created by this call is deleted
// again so the item does not end up in both places.
func (s *CartStore) MoveToWishlist(ctx context.Context, item domain.CartItem) error {
	if err := s.begin(item.ID); err != nil {
		return err
	}
	defer s.end(item.ID)

	added, err := s.api.AddToWishlist(ctx, item.ProductID, item.VariationID)
	switch {
	case apiclient.IsConflict(err):
		s.logger.Info("item already in wishlist", zap.String("product_id", item.ProductID))
		added = nil
	case err != nil:
		s.notify.Error("Failed to move item to wishlist: " + err.Error())
		return err
	}

	if err := s.api.RemoveCartItem(ctx, item.ID); err != nil {
		if added != nil {
			if cerr := s.api.RemoveFromWishlist(ctx, added.ID); cerr != nil {
				s.logger.Warn("wishlist compensation failed",
					zap.String("wishlist_id", added.ID),
					zap.String("cart_item_id", item.ID),
					zap.Error(cerr),
				)
			}
		}
		s.notify.Error("Failed to move item to wishlist: " + err.Error())
		return err
	}
	s.drop(item.ID)
	s.notify.Success("Item moved to wishlist")
	return nil
}

func (s *CartStore) begin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updating[id] {
		return ErrItemBusy
	}
	s.updating[id] = true
	return nil
}

func (s *CartStore) end(id string) {
	s.mu.Lock()
	delete(s.updating, id)
	s.mu.Unlock()
}

func (s *CartStore) drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

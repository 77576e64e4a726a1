package checkout

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartStoreSubtotalFollowsChanges(t *testing.T) {
	h := startHarness(t)
	ctx := context.Background()
	kurta := h.api.addCartItem("p1", "Kurta", "500", 2)
	scarf := h.api.addCartItem("p2", "Scarf", "250", 1)
	sale := decimal.RequireFromString("200")
	h.api.cart[1].SalePrice = &sale

	require.NoError(t, h.cart.Fetch(ctx))
	assert.Equal(t, "1200.00", h.cart.Subtotal().StringFixed(2))

	require.NoError(t, h.cart.UpdateQuantity(ctx, kurta.ID, 1))
	assert.Equal(t, "700.00", h.cart.Subtotal().StringFixed(2))

	require.NoError(t, h.cart.RemoveItem(ctx, scarf.ID))
	assert.Equal(t, "500.00", h.cart.Subtotal().StringFixed(2))
	assert.Len(t, h.cart.Items(), 1)
	assert.False(t, h.cart.IsUpdating(kurta.ID))
}

func TestCartUpdateQuantityBelowOneIsIgnored(t *testing.T) {
	h := startHarness(t)
	ctx := context.Background()
	it := h.api.addCartItem("p1", "Kurta", "500", 2)
	require.NoError(t, h.cart.Fetch(ctx))

	require.NoError(t, h.cart.UpdateQuantity(ctx, it.ID, 0))
	assert.Zero(t, h.api.count("PATCH /api/cart/{id}"))
	assert.Equal(t, 2, h.cart.Items()[0].Quantity)
}

func TestCartRejectsSecondChangeToBusyItem(t *testing.T) {
	h := startHarness(t)
	ctx := context.Background()
	it := h.api.addCartItem("p1", "Kurta", "500", 1)
	require.NoError(t, h.cart.Fetch(ctx))

	require.NoError(t, h.cart.begin(it.ID))
	assert.ErrorIs(t, h.cart.UpdateQuantity(ctx, it.ID, 3), ErrItemBusy)
	assert.ErrorIs(t, h.cart.RemoveItem(ctx, it.ID), ErrItemBusy)
	h.cart.end(it.ID)

	assert.NoError(t, h.cart.UpdateQuantity(ctx, it.ID, 3))
}

func TestCartFetchFailureKeepsPreviousItems(t *testing.T) {
	h := startHarness(t)
	ctx := context.Background()
	h.api.addCartItem("p1", "Kurta", "500", 1)
	require.NoError(t, h.cart.Fetch(ctx))

	h.api.fail("GET /api/cart", http.StatusInternalServerError)
	require.Error(t, h.cart.Fetch(ctx))

	assert.Len(t, h.cart.Items(), 1)
	_, errs, _ := h.notes.snapshot()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Something went wrong")
}

func TestMoveToWishlist(t *testing.T) {
	h := startHarness(t)
	ctx := context.Background()
	it := h.api.addCartItem("p1", "Kurta", "500", 1)
	require.NoError(t, h.cart.Fetch(ctx))

	require.NoError(t, h.cart.MoveToWishlist(ctx, it))

	assert.True(t, h.cart.IsEmpty())
	assert.Empty(t, h.api.cart)
	require.Len(t, h.api.wishlist, 1)
	assert.Equal(t, "p1", h.api.wishlist[0].ProductID)
}

func TestMoveToWishlistRollsBackWhenCartDeleteFails(t *testing.T) {
	h := startHarness(t)
	ctx := context.Background()
	it := h.api.addCartItem("p1", "Kurta", "500", 1)
	require.NoError(t, h.cart.Fetch(ctx))
	h.api.fail("DELETE /api/cart/{id}", http.StatusInternalServerError)

	require.Error(t, h.cart.MoveToWishlist(ctx, it))

	assert.Equal(t, 1, h.api.count("DELETE /api/wishlist/{id}"))
	assert.Empty(t, h.api.wishlist)
	assert.Len(t, h.cart.Items(), 1)
}

func TestMoveToWishlistKeepsExistingEntry(t *testing.T) {
	h := startHarness(t)
	ctx := context.Background()
	it := h.api.addCartItem("p1", "Kurta", "500", 1)
	require.NoError(t, h.cart.Fetch(ctx))
	_, err := h.cart.api.AddToWishlist(ctx, "p1", "")
	require.NoError(t, err)

	h.api.fail("DELETE /api/cart/{id}", http.StatusInternalServerError)
	require.Error(t, h.cart.MoveToWishlist(ctx, it))
	assert.Zero(t, h.api.count("DELETE /api/wishlist/{id}"))
	assert.Len(t, h.api.wishlist, 1)

	delete(h.api.failures, "DELETE /api/cart/{id}")
	require.NoError(t, h.cart.MoveToWishlist(ctx, it))
	assert.Len(t, h.api.wishlist, 1)
	assert.True(t, h.cart.IsEmpty())
}

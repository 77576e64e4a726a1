package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	wishlistsvc "storefront/internal/service/wishlist"
)

func (h *handler) listCart(c *gin.Context) {
	items, err := h.deps.CartSvc.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *handler) addToCart(c *gin.Context) {
	var in cartsvc.AddInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	item, err := h.deps.CartSvc.Add(c.Request.Context(), currentUser(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *handler) updateCartItem(c *gin.Context) {
	var in cartsvc.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	item, err := h.deps.CartSvc.UpdateQuantity(c.Request.Context(), currentUser(c), c.Param("id"), in.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *handler) removeCartItem(c *gin.Context) {
	if err := h.deps.CartSvc.Remove(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listWishlist(c *gin.Context) {
	items, err := h.deps.WishlistSvc.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if items == nil {
		items = []domain.WishlistItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *handler) addToWishlist(c *gin.Context) {
	var in wishlistsvc.AddInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	item, err := h.deps.WishlistSvc.Add(c.Request.Context(), currentUser(c), in)
	if errors.Is(err, wishlistsvc.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": "Item already in wishlist"})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *handler) removeWishlistItem(c *gin.Context) {
	if err := h.deps.WishlistSvc.Remove(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

func (h *handler) listAddresses(c *gin.Context) {
	addresses, err := h.deps.AddressSvc.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if addresses == nil {
		addresses = []domain.Address{}
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

func (h *handler) createAddress(c *gin.Context) {
	var in domain.Address
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	address, err := h.deps.AddressSvc.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": address})
}

func (h *handler) listPaymentMethods(c *gin.Context) {
	methods, err := h.deps.PaymentMethodSvc.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if methods == nil {
		methods = []domain.PaymentMethod{}
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethods": methods})
}

func (h *handler) createPaymentMethod(c *gin.Context) {
	var in domain.NewPaymentMethod
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	method, err := h.deps.PaymentMethodSvc.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"paymentMethod": method})
}

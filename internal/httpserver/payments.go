package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/razorpay"
	paymentsvc "storefront/internal/service/payment"
)

// Payment routes answer {success, data} or {success:false, error}.

func (h *handler) createGatewayOrder(c *gin.Context) {
	var req domain.GatewayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		paymentError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	gw, err := h.deps.PaymentSvc.CreateGatewayOrder(c.Request.Context(), currentUser(c), req)
	if err != nil {
		h.writePaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gw})
}

func (h *handler) verifyPayment(c *gin.Context) {
	var req domain.PaymentVerification
	if err := c.ShouldBindJSON(&req); err != nil {
		paymentError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	order, err := h.deps.PaymentSvc.Verify(c.Request.Context(), currentUser(c), req)
	if err != nil {
		h.writePaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"orderId": order.ID}})
}

func (h *handler) writePaymentError(c *gin.Context, err error) {
	var v *domain.ValidationError
	var apiErr *razorpay.APIError
	switch {
	case errors.As(err, &v):
		paymentError(c, http.StatusBadRequest, v.Message)
	case errors.Is(err, paymentsvc.ErrVerificationFailed):
		paymentError(c, http.StatusBadRequest, "Payment verification failed")
	case errors.Is(err, domain.ErrNotFound):
		paymentError(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, razorpay.ErrNotConfigured):
		paymentError(c, http.StatusServiceUnavailable, "Online payments are not configured")
	case errors.As(err, &apiErr):
		_ = c.Error(err)
		paymentError(c, http.StatusBadGateway, "Failed to create payment order")
	default:
		_ = c.Error(err)
		h.logger.Error("payment request failed", zap.String("path", c.FullPath()), zap.Error(err))
		paymentError(c, http.StatusInternalServerError, "internal error")
	}
}

func paymentError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

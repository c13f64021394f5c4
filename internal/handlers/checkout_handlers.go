package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gift_registry_echo/internal/services"
	"gift_registry_echo/internal/validation"
)

type CheckoutHandler struct {
	paymentService *services.PaymentService
	log            *zap.Logger
}

func NewCheckoutHandler(paymentService *services.PaymentService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{paymentService: paymentService, log: log}
}

// Checkout validates the request and initiates a gateway payment.
// Nothing that fails validation is ever forwarded to the gateway.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	var req validation.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	if err := validation.ValidateCheckout(&req); err != nil {
		return err
	}

	result, err := h.paymentService.Initiate(c.Request().Context(), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"paymentId":    result.PaymentID,
		"status":       result.Status,
		"pixQrCode":    result.PixQRCode,
		"pixCopyPaste": result.PixCopyPaste,
		"invoiceUrl":   result.InvoiceURL,
	})
}

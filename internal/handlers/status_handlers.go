package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gift_registry_echo/internal/services"
)

type statusRequest struct {
	PaymentID string `json:"paymentId"`
	Action    string `json:"action"`
}

type StatusHandler struct {
	paymentService *services.PaymentService
	log            *zap.Logger
}

func NewStatusHandler(paymentService *services.PaymentService, log *zap.Logger) *StatusHandler {
	return &StatusHandler{paymentService: paymentService, log: log}
}

// PaymentStatus serves the poller's check and cancel actions. Neither
// action writes to the purchase ledger; only the webhook reconciler
// does, so there is a single writer of payment truth.
func (h *StatusHandler) PaymentStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.PaymentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "paymentId is required")
	}

	switch req.Action {
	case "cancel":
		if err := h.paymentService.Cancel(c.Request().Context(), req.PaymentID); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":   true,
			"cancelled": true,
		})
	case "", "check":
		result, err := h.paymentService.CheckStatus(c.Request().Context(), req.PaymentID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":       true,
			"status":        result.Status,
			"isPaid":        result.IsPaid,
			"isPending":     result.IsPending,
			"isCancelled":   result.IsCancelled,
			"value":         result.Value,
			"paymentDate":   result.PaymentDate,
			"confirmedDate": result.ConfirmedDate,
		})
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "action must be check or cancel")
	}
}

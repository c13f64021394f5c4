package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gift_registry_echo/internal/config"
	"gift_registry_echo/internal/gateway"
	"gift_registry_echo/internal/models"
	"gift_registry_echo/internal/services"
)

// WebhookHandler receives asynchronous gateway callbacks. Responses are
// deliberately asymmetric: 200 for everything we cannot act on (unknown
// payments, unmapped events, empty payloads) so gateways do not retry,
// 401 for authentication failures and 500 only for real processing
// errors, which the gateway's retry mechanism re-delivers.
type WebhookHandler struct {
	reconciler *services.Reconciler
	asaas      config.AsaasConfig
	mercado    config.MercadoPagoConfig
	log        *zap.Logger
}

func NewWebhookHandler(reconciler *services.Reconciler, asaas config.AsaasConfig, mercado config.MercadoPagoConfig, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, asaas: asaas, mercado: mercado, log: log}
}

// AsaasWebhook authenticates by the shared static token in the
// asaas-access-token header.
func (h *WebhookHandler) AsaasWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body")
	}

	if h.asaas.WebhookToken == "" {
		h.log.Warn("ASAAS_WEBHOOK_TOKEN is not configured; accepting unsigned webhook")
	} else if !gateway.VerifyStaticToken(c.Request().Header.Get("asaas-access-token"), h.asaas.WebhookToken) {
		h.reconciler.LogWebhook(models.PaymentGatewayAsaas, "", body, false, "invalid webhook token")
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"error":   "Invalid webhook token",
		})
	}

	evt, err := services.ParseAsaasEvent(body)
	if err != nil {
		return h.acknowledgeUnusable(c, models.PaymentGatewayAsaas, body, err)
	}

	return h.reconcile(c, evt)
}

// MercadoPagoWebhook authenticates by the HMAC x-signature header.
func (h *WebhookHandler) MercadoPagoWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body")
	}

	evt, parseErr := services.ParseMercadoPagoEvent(body)

	if h.mercado.WebhookSecret == "" {
		h.log.Warn("MERCADOPAGO_WEBHOOK_SECRET is not configured; accepting unsigned webhook")
	} else {
		dataID := ""
		if parseErr == nil {
			dataID = evt.PaymentID
		}
		signature := c.Request().Header.Get("x-signature")
		requestID := c.Request().Header.Get("x-request-id")
		if !gateway.VerifyMercadoPagoSignature(signature, requestID, dataID, h.mercado.WebhookSecret) {
			h.reconciler.LogWebhook(models.PaymentGatewayMercadoPago, "", body, false, "invalid webhook signature")
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"success": false,
				"error":   "Invalid webhook signature",
			})
		}
	}

	if parseErr != nil {
		return h.acknowledgeUnusable(c, models.PaymentGatewayMercadoPago, body, parseErr)
	}

	return h.reconcile(c, evt)
}

// acknowledgeUnusable logs and ACKs payloads we can never act on
// (malformed JSON, no payment object). Retrying would not change them.
func (h *WebhookHandler) acknowledgeUnusable(c echo.Context, gw models.PaymentGateway, body []byte, cause error) error {
	reason := "malformed payload"
	if errors.Is(cause, services.ErrNoPaymentData) {
		reason = "no payment data in payload"
	}
	h.log.Info("acknowledging unusable webhook",
		zap.String("gateway", string(gw)),
		zap.String("reason", reason),
	)
	h.reconciler.LogWebhook(gw, "", body, true, reason)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": reason,
	})
}

func (h *WebhookHandler) reconcile(c echo.Context, evt *services.Event) error {
	outcome, err := h.reconciler.Process(c.Request().Context(), evt)
	if err != nil {
		h.reconciler.LogWebhook(evt.Gateway, evt.Name, evt.Raw, false, err.Error())
		// 500 on purpose: the gateway re-delivers after real failures
		return echo.NewHTTPError(http.StatusInternalServerError, "webhook processing failed")
	}

	h.reconciler.LogWebhook(evt.Gateway, evt.Name, evt.Raw, true, "")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"outcome": string(outcome),
	})
}

package services

import (
	"encoding/json"
	"errors"

	"gift_registry_echo/internal/models"
)

// ErrNoPaymentData means the webhook envelope carried no payment object;
// there is nothing to reconcile and the delivery should be acknowledged.
var ErrNoPaymentData = errors.New("webhook payload has no payment data")

// Event is the canonical form every gateway callback is parsed into
// before it reaches the reconciler. Mapped is false for event names the
// gateway vocabulary does not cover; those are acknowledged untouched.
type Event struct {
	Gateway   models.PaymentGateway
	Name      string
	PaymentID string
	Status    models.PaymentStatus
	Mapped    bool
	Raw       json.RawMessage
}

// ParseAsaasEvent decodes an Asaas webhook envelope.
func ParseAsaasEvent(body []byte) (*Event, error) {
	var envelope struct {
		Event   string `json:"event"`
		Payment *struct {
			ID string `json:"id"`
		} `json:"payment"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Payment == nil || envelope.Payment.ID == "" {
		return nil, ErrNoPaymentData
	}

	status, mapped := mapAsaasEvent(envelope.Event)
	return &Event{
		Gateway:   models.PaymentGatewayAsaas,
		Name:      envelope.Event,
		PaymentID: envelope.Payment.ID,
		Status:    status,
		Mapped:    mapped,
		Raw:       json.RawMessage(body),
	}, nil
}

func mapAsaasEvent(event string) (models.PaymentStatus, bool) {
	switch event {
	case "PAYMENT_CONFIRMED", "PAYMENT_RECEIVED":
		return models.PaymentStatusConfirmed, true
	case "PAYMENT_REFUNDED":
		return models.PaymentStatusRefunded, true
	case "PAYMENT_DELETED", "PAYMENT_OVERDUE":
		return models.PaymentStatusCancelled, true
	default:
		return "", false
	}
}

// ParseMercadoPagoEvent decodes a Mercado Pago webhook envelope.
func ParseMercadoPagoEvent(body []byte) (*Event, error) {
	var envelope struct {
		Action string `json:"action"`
		Type   string `json:"type"`
		Data   *struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil || envelope.Data.ID == "" {
		return nil, ErrNoPaymentData
	}

	status, mapped := mapMercadoPagoEvent(envelope.Action)
	return &Event{
		Gateway:   models.PaymentGatewayMercadoPago,
		Name:      envelope.Action,
		PaymentID: envelope.Data.ID,
		Status:    status,
		Mapped:    mapped,
		Raw:       json.RawMessage(body),
	}, nil
}

func mapMercadoPagoEvent(action string) (models.PaymentStatus, bool) {
	switch action {
	case "payment.approved":
		return models.PaymentStatusConfirmed, true
	case "payment.refunded", "payment.charged_back":
		return models.PaymentStatusRefunded, true
	case "payment.cancelled", "payment.expired":
		return models.PaymentStatusCancelled, true
	default:
		return "", false
	}
}

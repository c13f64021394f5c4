package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gift_registry_echo/internal/models"
)

func TestParseAsaasEvent(t *testing.T) {
	tests := []struct {
		name       string
		event      string
		wantStatus models.PaymentStatus
		wantMapped bool
	}{
		{"confirmed", "PAYMENT_CONFIRMED", models.PaymentStatusConfirmed, true},
		{"received", "PAYMENT_RECEIVED", models.PaymentStatusConfirmed, true},
		{"refunded", "PAYMENT_REFUNDED", models.PaymentStatusRefunded, true},
		{"deleted", "PAYMENT_DELETED", models.PaymentStatusCancelled, true},
		{"overdue", "PAYMENT_OVERDUE", models.PaymentStatusCancelled, true},
		{"unmapped", "PAYMENT_UPDATED", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(`{"event":"` + tt.event + `","payment":{"id":"pay_123"}}`)
			evt, err := ParseAsaasEvent(body)
			require.NoError(t, err)
			assert.Equal(t, models.PaymentGatewayAsaas, evt.Gateway)
			assert.Equal(t, "pay_123", evt.PaymentID)
			assert.Equal(t, tt.event, evt.Name)
			assert.Equal(t, tt.wantMapped, evt.Mapped)
			if tt.wantMapped {
				assert.Equal(t, tt.wantStatus, evt.Status)
			}
		})
	}
}

func TestParseAsaasEventNoPaymentData(t *testing.T) {
	_, err := ParseAsaasEvent([]byte(`{"event":"PAYMENT_RECEIVED"}`))
	assert.True(t, errors.Is(err, ErrNoPaymentData))

	_, err = ParseAsaasEvent([]byte(`{"event":"PAYMENT_RECEIVED","payment":{}}`))
	assert.True(t, errors.Is(err, ErrNoPaymentData))
}

func TestParseAsaasEventMalformed(t *testing.T) {
	_, err := ParseAsaasEvent([]byte(`not json`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoPaymentData))
}

func TestParseMercadoPagoEvent(t *testing.T) {
	tests := []struct {
		name       string
		action     string
		wantStatus models.PaymentStatus
		wantMapped bool
	}{
		{"approved", "payment.approved", models.PaymentStatusConfirmed, true},
		{"refunded", "payment.refunded", models.PaymentStatusRefunded, true},
		{"chargeback", "payment.charged_back", models.PaymentStatusRefunded, true},
		{"cancelled", "payment.cancelled", models.PaymentStatusCancelled, true},
		{"expired", "payment.expired", models.PaymentStatusCancelled, true},
		{"unmapped", "payment.created", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(`{"action":"` + tt.action + `","type":"payment","data":{"id":"mp_9"}}`)
			evt, err := ParseMercadoPagoEvent(body)
			require.NoError(t, err)
			assert.Equal(t, models.PaymentGatewayMercadoPago, evt.Gateway)
			assert.Equal(t, "mp_9", evt.PaymentID)
			assert.Equal(t, tt.wantMapped, evt.Mapped)
			if tt.wantMapped {
				assert.Equal(t, tt.wantStatus, evt.Status)
			}
		})
	}
}

func TestParseMercadoPagoEventNoPaymentData(t *testing.T) {
	_, err := ParseMercadoPagoEvent([]byte(`{"action":"payment.approved"}`))
	assert.True(t, errors.Is(err, ErrNoPaymentData))
}

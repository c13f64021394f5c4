package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gift_registry_echo/internal/gateway"
	"gift_registry_echo/internal/models"
	"gift_registry_echo/internal/services"
)

func checkoutBody(giftID uint) string {
	return fmt.Sprintf(`{
		"giftId": %d,
		"amount": 150.00,
		"customer": {"name": "Maria Silva", "email": "maria@example.com", "taxId": "52998224725"},
		"billingType": "PIX"
	}`, giftID)
}

func TestCheckoutPix(t *testing.T) {
	db := newTestDB(t)
	gift := &models.Gift{Name: "Jogo de Panelas", Price: 150.00, PurchaseLimit: 1}
	require.NoError(t, db.Create(gift).Error)

	stub := &stubGateway{payment: &gateway.Payment{
		ID:         "pay_1",
		Status:     gateway.AsaasStatusPending,
		InvoiceURL: "https://inv/1",
	}}
	h := NewCheckoutHandler(services.NewPaymentService(db, stub, testLogger()), testLogger())

	rec := postJSON(t, h.Checkout, "/api/checkout", checkoutBody(gift.ID))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"paymentId":"pay_1"`)
	assert.Contains(t, rec.Body.String(), `"pixCopyPaste":"copypaste"`)
	assert.Contains(t, rec.Body.String(), `"invoiceUrl":"https://inv/1"`)

	var purchase models.Purchase
	require.NoError(t, db.Where("external_payment_id = ?", "pay_1").First(&purchase).Error)
	assert.Equal(t, models.PaymentStatusPending, purchase.PaymentStatus)
}

func TestCheckoutValidationRejectsBeforeGateway(t *testing.T) {
	db := newTestDB(t)
	gift := &models.Gift{Name: "Panela", Price: 80, PurchaseLimit: 1}
	require.NoError(t, db.Create(gift).Error)

	h := NewCheckoutHandler(services.NewPaymentService(db, &stubGateway{}, testLogger()), testLogger())

	body := fmt.Sprintf(`{
		"giftId": %d,
		"amount": 150.00,
		"customer": {"name": "Maria Silva", "taxId": "12345678900"},
		"billingType": "PIX"
	}`, gift.ID)
	rec := postJSON(t, h.Checkout, "/api/checkout", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "tax id")

	var count int64
	require.NoError(t, db.Model(&models.Purchase{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCheckoutMalformedJSON(t *testing.T) {
	db := newTestDB(t)
	h := NewCheckoutHandler(services.NewPaymentService(db, &stubGateway{}, testLogger()), testLogger())

	rec := postJSON(t, h.Checkout, "/api/checkout", `{"giftId": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutGiftSoldOut(t *testing.T) {
	db := newTestDB(t)
	gift := &models.Gift{Name: "Panela", Price: 80, PurchaseCount: 1, PurchaseLimit: 1}
	require.NoError(t, db.Create(gift).Error)

	h := NewCheckoutHandler(services.NewPaymentService(db, &stubGateway{}, testLogger()), testLogger())

	rec := postJSON(t, h.Checkout, "/api/checkout", checkoutBody(gift.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

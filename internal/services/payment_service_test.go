package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gift_registry_echo/internal/apperrors"
	"gift_registry_echo/internal/gateway"
	"gift_registry_echo/internal/models"
	"gift_registry_echo/internal/validation"
)

type fakeGateway struct {
	customers map[string]*gateway.Customer

	findCalls   int
	createCalls int

	createCustomerErr error
	createPaymentErr  error
	payment           *gateway.Payment
	qr                *gateway.PixQRCode
	getPayment        *gateway.Payment
	getPaymentErr     error
	cancelErr         error
	cancelCalls       int
	lastPaymentReq    gateway.PaymentRequest
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		customers: map[string]*gateway.Customer{},
		payment:   &gateway.Payment{ID: "pay_1", Status: gateway.AsaasStatusPending, InvoiceURL: "https://inv/1"},
		qr:        &gateway.PixQRCode{EncodedImage: "img-base64", Payload: "00020126pixcopypaste"},
	}
}

func (f *fakeGateway) FindCustomerByEmail(_ context.Context, email string) (*gateway.Customer, error) {
	f.findCalls++
	return f.customers[email], nil
}

func (f *fakeGateway) CreateCustomer(_ context.Context, req gateway.CustomerRequest) (*gateway.Customer, error) {
	f.createCalls++
	if f.createCustomerErr != nil {
		return nil, f.createCustomerErr
	}
	customer := &gateway.Customer{ID: "cus_1", Name: req.Name, Email: req.Email}
	f.customers[req.Email] = customer
	return customer, nil
}

func (f *fakeGateway) CreatePayment(_ context.Context, req gateway.PaymentRequest) (*gateway.Payment, error) {
	f.lastPaymentReq = req
	if f.createPaymentErr != nil {
		return nil, f.createPaymentErr
	}
	return f.payment, nil
}

func (f *fakeGateway) GetPixQRCode(_ context.Context, _ string) (*gateway.PixQRCode, error) {
	return f.qr, nil
}

func (f *fakeGateway) GetPayment(_ context.Context, _ string) (*gateway.Payment, error) {
	if f.getPaymentErr != nil {
		return nil, f.getPaymentErr
	}
	return f.getPayment, nil
}

func (f *fakeGateway) CancelPayment(_ context.Context, _ string) error {
	f.cancelCalls++
	return f.cancelErr
}

func pixRequest(giftID uint) *validation.CheckoutRequest {
	return &validation.CheckoutRequest{
		GiftID: giftID,
		Amount: 150.00,
		Customer: validation.CustomerInfo{
			Name:  "Maria Silva",
			Email: "maria@example.com",
			TaxID: "52998224725",
		},
		BillingType: validation.BillingTypePix,
	}
}

func TestInitiatePixPayment(t *testing.T) {
	db := newTestDB(t)
	gift := &models.Gift{Name: "Jogo de Panelas", Price: 150.00, PurchaseLimit: 1}
	require.NoError(t, db.Create(gift).Error)

	gw := newFakeGateway()
	svc := NewPaymentService(db, gw, testLogger())

	result, err := svc.Initiate(context.Background(), pixRequest(gift.ID))
	require.NoError(t, err)

	assert.Equal(t, "pay_1", result.PaymentID)
	assert.Equal(t, "img-base64", result.PixQRCode)
	assert.Equal(t, "00020126pixcopypaste", result.PixCopyPaste)
	assert.Equal(t, "https://inv/1", result.InvoiceURL)

	assert.Equal(t, "PIX", gw.lastPaymentReq.BillingType)
	assert.Equal(t, "gift-1", gw.lastPaymentReq.ExternalReference)
	assert.NotEmpty(t, gw.lastPaymentReq.DueDate)

	var purchase models.Purchase
	require.NoError(t, db.Where("external_payment_id = ?", "pay_1").First(&purchase).Error)
	assert.Equal(t, models.PaymentStatusPending, purchase.PaymentStatus)
	assert.Equal(t, gift.ID, purchase.GiftID)
	assert.Equal(t, models.PaymentGatewayAsaas, purchase.PaymentGateway)
	assert.NotEmpty(t, purchase.UUID)

	// Initiation alone never touches the aggregate
	assert.Equal(t, 0, reloadGift(t, db, gift.ID).PurchaseCount)
}

func TestInitiateGiftUnavailable(t *testing.T) {
	db := newTestDB(t)
	gift := &models.Gift{Name: "Panela", Price: 80, PurchaseCount: 1, PurchaseLimit: 1}
	require.NoError(t, db.Create(gift).Error)

	svc := NewPaymentService(db, newFakeGateway(), testLogger())

	_, err := svc.Initiate(context.Background(), pixRequest(gift.ID))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestInitiateGiftNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db, newFakeGateway(), testLogger())

	_, err := svc.Initiate(context.Background(), pixRequest(99))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestInitiateGatewayRejection(t *testing.T) {
	db := newTestDB(t)
	gift := &models.Gift{Name: "Panela", Price: 80, PurchaseLimit: 1}
	require.NoError(t, db.Create(gift).Error)

	gw := newFakeGateway()
	gw.createPaymentErr = &gateway.APIError{
		StatusCode: 400,
		Errors:     []gateway.ErrorItem{{Code: "invalid_value", Description: "Valor inválido"}},
	}
	svc := NewPaymentService(db, gw, testLogger())

	_, err := svc.Initiate(context.Background(), pixRequest(gift.ID))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindGateway, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "Valor inválido")

	var count int64
	require.NoError(t, db.Model(&models.Purchase{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "no purchase row when the gateway rejects")
}

func TestEnsureCustomerReusesExisting(t *testing.T) {
	db := newTestDB(t)
	gift := &models.Gift{Name: "Panela", Price: 80, PurchaseLimit: 1}
	require.NoError(t, db.Create(gift).Error)

	gw := newFakeGateway()
	gw.customers["maria@example.com"] = &gateway.Customer{ID: "cus_existing", Email: "maria@example.com"}
	svc := NewPaymentService(db, gw, testLogger())

	_, err := svc.Initiate(context.Background(), pixRequest(gift.ID))
	require.NoError(t, err)
	assert.Equal(t, "cus_existing", gw.lastPaymentReq.Customer)
	assert.Equal(t, 0, gw.createCalls)
}

func TestEnsureCustomerToleratesAlreadyExists(t *testing.T) {
	db := newTestDB(t)
	gift := &models.Gift{Name: "Panela", Price: 80, PurchaseLimit: 1}
	require.NoError(t, db.Create(gift).Error)

	gw := newFakeGateway()
	gw.createCustomerErr = &gateway.APIError{
		StatusCode: 400,
		Errors:     []gateway.ErrorItem{{Code: "invalid_customer_already_exists", Description: "Cliente já cadastrado"}},
	}
	// First lookup misses, create fails with already-exists, the
	// re-query finds the customer registered meanwhile.
	gwWithRace := &raceGateway{fakeGateway: gw}
	svc := NewPaymentService(db, gwWithRace, testLogger())

	_, err := svc.Initiate(context.Background(), pixRequest(gift.ID))
	require.NoError(t, err)
	assert.Equal(t, "cus_race", gwWithRace.lastPaymentReq.Customer)
	assert.Equal(t, 1, gwWithRace.createCalls)
}

// raceGateway makes the customer appear between the first lookup miss
// and the re-query after a "customer already exists" rejection.
type raceGateway struct {
	*fakeGateway
}

func (r *raceGateway) FindCustomerByEmail(ctx context.Context, email string) (*gateway.Customer, error) {
	r.findCalls++
	if r.findCalls == 1 {
		return nil, nil
	}
	return &gateway.Customer{ID: "cus_race", Email: email}, nil
}

func TestCheckStatusMapping(t *testing.T) {
	tests := []struct {
		status        string
		wantPaid      bool
		wantPending   bool
		wantCancelled bool
	}{
		{gateway.AsaasStatusConfirmed, true, false, false},
		{gateway.AsaasStatusReceived, true, false, false},
		{gateway.AsaasStatusReceivedCash, true, false, false},
		{gateway.AsaasStatusPending, false, true, false},
		{gateway.AsaasStatusAwaitingRisk, false, true, false},
		{gateway.AsaasStatusRefunded, false, false, true},
		{gateway.AsaasStatusCancelled, false, false, true},
		{gateway.AsaasStatusDeleted, false, false, true},
		{gateway.AsaasStatusOverdue, false, false, true},
	}

	db := newTestDB(t)
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			gw := newFakeGateway()
			gw.getPayment = &gateway.Payment{ID: "pay_1", Status: tt.status, Value: 150}
			svc := NewPaymentService(db, gw, testLogger())

			result, err := svc.CheckStatus(context.Background(), "pay_1")
			require.NoError(t, err)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.wantPaid, result.IsPaid)
			assert.Equal(t, tt.wantPending, result.IsPending)
			assert.Equal(t, tt.wantCancelled, result.IsCancelled)
		})
	}
}

func TestCancelDoesNotTouchLedger(t *testing.T) {
	db := newTestDB(t)
	_, purchase := seedGiftAndPurchase(t, db, "pay_c")

	gw := newFakeGateway()
	svc := NewPaymentService(db, gw, testLogger())

	require.NoError(t, svc.Cancel(context.Background(), "pay_c"))
	assert.Equal(t, 1, gw.cancelCalls)

	assert.Equal(t, models.PaymentStatusPending, reloadPurchase(t, db, purchase.ID).PaymentStatus,
		"cancel endpoint must not write payment status; that is the reconciler's job")
}

func TestCancelGatewayRejection(t *testing.T) {
	db := newTestDB(t)
	gw := newFakeGateway()
	gw.cancelErr = &gateway.APIError{
		StatusCode: 400,
		Errors:     []gateway.ErrorItem{{Description: "Pagamento já confirmado"}},
	}
	svc := NewPaymentService(db, gw, testLogger())

	err := svc.Cancel(context.Background(), "pay_done")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindGateway, apperrors.KindOf(err))

	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details, "Pagamento já confirmado")
}

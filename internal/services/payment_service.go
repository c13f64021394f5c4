package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gift_registry_echo/internal/apperrors"
	"gift_registry_echo/internal/gateway"
	"gift_registry_echo/internal/logger"
	"gift_registry_echo/internal/models"
	"gift_registry_echo/internal/validation"
)

// GatewayClient is the slice of the Asaas client the payment service
// depends on; tests substitute a fake.
type GatewayClient interface {
	FindCustomerByEmail(ctx context.Context, email string) (*gateway.Customer, error)
	CreateCustomer(ctx context.Context, req gateway.CustomerRequest) (*gateway.Customer, error)
	CreatePayment(ctx context.Context, req gateway.PaymentRequest) (*gateway.Payment, error)
	GetPixQRCode(ctx context.Context, paymentID string) (*gateway.PixQRCode, error)
	GetPayment(ctx context.Context, paymentID string) (*gateway.Payment, error)
	CancelPayment(ctx context.Context, paymentID string) error
}

type PaymentService struct {
	db  *gorm.DB
	gw  GatewayClient
	log *zap.Logger
}

func NewPaymentService(db *gorm.DB, gw GatewayClient, log *zap.Logger) *PaymentService {
	return &PaymentService{db: db, gw: gw, log: log}
}

// CheckoutResult holds the gateway artifacts returned to the client
// after a successful initiation.
type CheckoutResult struct {
	PaymentID    string `json:"paymentId"`
	Status       string `json:"status"`
	PixQRCode    string `json:"pixQrCode,omitempty"`
	PixCopyPaste string `json:"pixCopyPaste,omitempty"`
	InvoiceURL   string `json:"invoiceUrl,omitempty"`
}

// Initiate creates a gateway payment for a gift and records the pending
// purchase. The purchase row is written optimistically: it exists before
// the gateway confirms, and only webhook reconciliation moves its status.
func (s *PaymentService) Initiate(ctx context.Context, req *validation.CheckoutRequest) (*CheckoutResult, error) {
	var gift models.Gift
	if err := s.db.WithContext(ctx).First(&gift, req.GiftID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Gift not found")
		}
		return nil, apperrors.Internal("failed to load gift", err)
	}
	if !gift.Available() {
		return nil, apperrors.Validation("Gift is no longer available")
	}

	customer, err := s.ensureCustomer(ctx, req.Customer)
	if err != nil {
		return nil, wrapGatewayError(err)
	}

	payReq := gateway.PaymentRequest{
		Customer:          customer.ID,
		BillingType:       req.BillingType,
		Value:             req.Amount,
		DueDate:           time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		Description:       fmt.Sprintf("Presente: %s", gift.Name),
		ExternalReference: fmt.Sprintf("gift-%d", gift.ID),
	}
	if req.BillingType == validation.BillingTypeCreditCard && req.Card != nil {
		payReq.CreditCard = &gateway.CreditCard{
			HolderName:  req.Card.HolderName,
			Number:      req.Card.Number,
			ExpiryMonth: req.Card.ExpiryMonth,
			ExpiryYear:  req.Card.ExpiryYear,
			CCV:         req.Card.CVV,
		}
		payReq.CreditCardHolderInfo = &gateway.CreditCardHolderInfo{
			Name:          req.Card.HolderName,
			Email:         req.Customer.Email,
			CpfCnpj:       req.Customer.TaxID,
			PostalCode:    req.Card.PostalCode,
			AddressNumber: req.Card.AddressNumber,
			Phone:         req.Customer.Phone,
		}
	}

	payment, err := s.gw.CreatePayment(ctx, payReq)
	if err != nil {
		return nil, wrapGatewayError(err)
	}

	result := &CheckoutResult{
		PaymentID:  payment.ID,
		Status:     payment.Status,
		InvoiceURL: payment.InvoiceURL,
	}

	if req.BillingType == validation.BillingTypePix {
		qr, err := s.gw.GetPixQRCode(ctx, payment.ID)
		if err != nil {
			return nil, wrapGatewayError(err)
		}
		result.PixQRCode = qr.EncodedImage
		result.PixCopyPaste = qr.Payload
	}

	purchase := models.Purchase{
		UUID:              uuid.NewString(),
		GiftID:            gift.ID,
		PurchaserName:     req.Customer.Name,
		PurchaserEmail:    req.Customer.Email,
		Amount:            req.Amount,
		PaymentStatus:     models.PaymentStatusPending,
		ExternalPaymentID: payment.ID,
		PaymentGateway:    models.PaymentGatewayAsaas,
		PurchasedAt:       time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&purchase).Error; err != nil {
		return nil, apperrors.Internal("failed to record purchase", err)
	}

	s.log.Info("payment initiated",
		zap.String("payment_id", payment.ID),
		zap.Uint("gift_id", gift.ID),
		zap.String("billing_type", req.BillingType),
		zap.String("purchaser", logger.MaskName(req.Customer.Name)),
		zap.String("tax_id", logger.MaskTaxID(req.Customer.TaxID)),
	)

	return result, nil
}

// ensureCustomer finds the gateway customer by email or creates one. A
// "customer already exists" rejection from the gateway is tolerated by
// re-querying instead of failing the checkout.
func (s *PaymentService) ensureCustomer(ctx context.Context, info validation.CustomerInfo) (*gateway.Customer, error) {
	if info.Email != "" {
		customer, err := s.gw.FindCustomerByEmail(ctx, info.Email)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			return customer, nil
		}
	}

	customer, err := s.gw.CreateCustomer(ctx, gateway.CustomerRequest{
		Name:        info.Name,
		Email:       info.Email,
		MobilePhone: info.Phone,
		CpfCnpj:     info.TaxID,
	})
	if err == nil {
		return customer, nil
	}

	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.HasCode("invalid_customer_already_exists") && info.Email != "" {
		existing, findErr := s.gw.FindCustomerByEmail(ctx, info.Email)
		if findErr == nil && existing != nil {
			return existing, nil
		}
	}

	return nil, err
}

// StatusResult maps the gateway's status vocabulary into the three
// booleans the checkout poller acts on.
type StatusResult struct {
	Status        string  `json:"status"`
	IsPaid        bool    `json:"isPaid"`
	IsPending     bool    `json:"isPending"`
	IsCancelled   bool    `json:"isCancelled"`
	Value         float64 `json:"value"`
	PaymentDate   string  `json:"paymentDate,omitempty"`
	ConfirmedDate string  `json:"confirmedDate,omitempty"`
}

// CheckStatus reads the payment straight from the gateway. It does not
// consult or update the local ledger; the webhook reconciler stays the
// single writer of payment status.
func (s *PaymentService) CheckStatus(ctx context.Context, paymentID string) (*StatusResult, error) {
	payment, err := s.gw.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, wrapGatewayError(err)
	}

	result := &StatusResult{
		Status:        payment.Status,
		Value:         payment.Value,
		PaymentDate:   payment.PaymentDate,
		ConfirmedDate: payment.ConfirmedDate,
	}

	switch payment.Status {
	case gateway.AsaasStatusConfirmed, gateway.AsaasStatusReceived, gateway.AsaasStatusReceivedCash:
		result.IsPaid = true
	case gateway.AsaasStatusPending, gateway.AsaasStatusAwaitingRisk:
		result.IsPending = true
	case gateway.AsaasStatusRefunded, gateway.AsaasStatusCancelled, gateway.AsaasStatusDeleted, gateway.AsaasStatusOverdue:
		result.IsCancelled = true
	}

	return result, nil
}

// Cancel asks the gateway to cancel a pending payment. The ledger is
// left untouched; if the gateway accepts, its webhook updates it. The
// gateway rejects cancellation of an already-completed payment, which
// surfaces to the caller as a gateway error.
func (s *PaymentService) Cancel(ctx context.Context, paymentID string) error {
	if err := s.gw.CancelPayment(ctx, paymentID); err != nil {
		return wrapGatewayError(err)
	}
	s.log.Info("payment cancelled at gateway", zap.String("payment_id", paymentID))
	return nil
}

func wrapGatewayError(err error) error {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return apperrors.Gateway("Payment gateway rejected the request", apiErr.Descriptions()...)
	}
	return err
}

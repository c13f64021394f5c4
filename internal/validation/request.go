package validation

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"gift_registry_echo/internal/apperrors"
)

// Billing types accepted by the checkout endpoint.
const (
	BillingTypePix        = "PIX"
	BillingTypeCreditCard = "CREDIT_CARD"
)

type CustomerInfo struct {
	Name  string `json:"name" validate:"required,min=2,max=200"`
	Email string `json:"email" validate:"omitempty,email,max=200"`
	Phone string `json:"phone" validate:"omitempty,min=8,max=20"`
	TaxID string `json:"taxId" validate:"required"`
}

type CardInfo struct {
	HolderName    string `json:"holderName" validate:"required,min=2,max=200"`
	Number        string `json:"number" validate:"required"`
	ExpiryMonth   string `json:"expiryMonth" validate:"required"`
	ExpiryYear    string `json:"expiryYear" validate:"required"`
	CVV           string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	PostalCode    string `json:"postalCode" validate:"required,min=5,max=10"`
	AddressNumber string `json:"addressNumber" validate:"required,max=10"`
}

type CheckoutRequest struct {
	GiftID      uint         `json:"giftId" validate:"required"`
	Amount      float64      `json:"amount" validate:"required,gt=0"`
	Customer    CustomerInfo `json:"customer" validate:"required"`
	BillingType string       `json:"billingType" validate:"required,oneof=PIX CREDIT_CARD"`
	Card        *CardInfo    `json:"card" validate:"-"`
}

var validate = validator.New()

// ValidateCheckout runs structural schema validation first, then the
// business checks (tax id checksum, Luhn, expiry). Nothing that fails
// here is ever forwarded to the gateway.
func ValidateCheckout(req *CheckoutRequest) error {
	var problems []string

	if err := validate.Struct(req); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				problems = append(problems, describeFieldError(fe))
			}
		} else {
			return apperrors.Internal("request validation failed", err)
		}
	}

	if req.BillingType == BillingTypeCreditCard && req.Card == nil {
		problems = append(problems, "card is required for credit card payments")
	}

	if len(problems) > 0 {
		return apperrors.Validation("Invalid request", problems...)
	}

	if !ValidTaxID(req.Customer.TaxID) {
		problems = append(problems, "customer tax id is invalid")
	}

	if req.Card != nil {
		if err := validate.Struct(req.Card); err != nil {
			if fieldErrs, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range fieldErrs {
					problems = append(problems, describeFieldError(fe))
				}
			}
		}
		if req.Card.Number != "" && !ValidCardNumber(req.Card.Number) {
			problems = append(problems, "card number is invalid")
		}
		if req.Card.ExpiryMonth != "" && req.Card.ExpiryYear != "" &&
			!ValidExpiry(req.Card.ExpiryMonth, req.Card.ExpiryYear, time.Now()) {
			problems = append(problems, "card expiry is invalid or in the past")
		}
	}

	if len(problems) > 0 {
		return apperrors.Validation("Invalid request", problems...)
	}

	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s is too short (min %s)", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s is too long (max %s)", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

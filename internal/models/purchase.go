package models

import (
	"time"

	"gorm.io/gorm"
)

type PaymentGateway string

const (
	PaymentGatewayAsaas       PaymentGateway = "asaas"
	PaymentGatewayMercadoPago PaymentGateway = "mercadopago"
	PaymentGatewayManual      PaymentGateway = "manual"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Purchase links a gift to a single payment attempt at a gateway.
// Rows are created as soon as the gateway accepts the payment (optimistic,
// before confirmation) and are never deleted; only payment_status moves.
type Purchase struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UUID              string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	GiftID            uint           `gorm:"index" json:"gift_id"`
	PurchaserName     string         `gorm:"type:varchar(200)" json:"purchaser_name"`
	PurchaserEmail    string         `gorm:"type:varchar(200)" json:"purchaser_email,omitempty"`
	Amount            float64        `gorm:"type:decimal(15,2)" json:"amount"`
	PaymentStatus     PaymentStatus  `gorm:"type:varchar(50);index" json:"payment_status"`
	ExternalPaymentID string         `gorm:"type:varchar(100);uniqueIndex" json:"external_payment_id"`
	PaymentGateway    PaymentGateway `gorm:"type:varchar(50)" json:"payment_gateway"`
	PurchasedAt       time.Time      `json:"purchased_at"`

	// Relationships
	Gift Gift `gorm:"foreignKey:GiftID" json:"gift,omitempty"`
}

package models

import (
	"encoding/json"
	"time"
)

// WebhookLog is an append-only audit trail of every inbound gateway
// callback, including rejected and unauthenticated ones.
type WebhookLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PaymentGateway PaymentGateway  `gorm:"type:varchar(50);not null" json:"payment_gateway"`
	Event          string          `gorm:"type:varchar(100)" json:"event"`
	Payload        json.RawMessage `gorm:"type:jsonb" json:"payload"`
	Success        bool            `json:"success"`
	Error          string          `gorm:"type:text" json:"error,omitempty"`
	ReceivedAt     time.Time       `json:"received_at"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Gift is a registry item guests can purchase
type Gift struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name          string  `gorm:"type:varchar(200);not null" json:"name"`
	Price         float64 `gorm:"type:decimal(15,2);not null" json:"price"`
	PurchaseCount int     `gorm:"not null;default:0" json:"purchase_count"`
	PurchaseLimit int     `gorm:"not null;default:1" json:"purchase_limit"`

	// Relationships
	Purchases []Purchase `gorm:"foreignKey:GiftID" json:"purchases,omitempty"`
}

// Available reports whether the gift can still be purchased
func (g *Gift) Available() bool {
	return g.PurchaseCount < g.PurchaseLimit
}

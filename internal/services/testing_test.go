package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gift_registry_echo/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory DB
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Gift{}, &models.Purchase{}, &models.WebhookLog{}))
	return db
}

func seedGiftAndPurchase(t *testing.T, db *gorm.DB, paymentID string) (*models.Gift, *models.Purchase) {
	t.Helper()

	gift := &models.Gift{Name: "Jogo de Panelas", Price: 150.00, PurchaseLimit: 1}
	require.NoError(t, db.Create(gift).Error)

	purchase := &models.Purchase{
		UUID:              "test-" + paymentID,
		GiftID:            gift.ID,
		PurchaserName:     "Maria Silva",
		Amount:            150.00,
		PaymentStatus:     models.PaymentStatusPending,
		ExternalPaymentID: paymentID,
		PaymentGateway:    models.PaymentGatewayAsaas,
		PurchasedAt:       time.Now(),
	}
	require.NoError(t, db.Create(purchase).Error)

	return gift, purchase
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

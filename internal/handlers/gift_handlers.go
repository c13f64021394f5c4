package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gift_registry_echo/internal/models"
)

type directPurchaseRequest struct {
	PurchaserName  string `json:"purchaserName"`
	PurchaserEmail string `json:"purchaserEmail"`
}

type GiftHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewGiftHandler(db *gorm.DB, log *zap.Logger) *GiftHandler {
	return &GiftHandler{db: db, log: log}
}

// DirectPurchase is the legacy no-gateway purchase path. The conditional
// update is the concurrency guard: the row only changes while the gift
// is still available, so two concurrent buyers cannot both win the last
// slot.
func (h *GiftHandler) DirectPurchase(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid gift ID")
	}

	var req directPurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.PurchaserName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "purchaserName is required")
	}

	var gift models.Gift
	if err := h.db.First(&gift, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Gift not found")
	}

	res := h.db.Model(&models.Gift{}).
		Where("id = ? AND purchase_count < purchase_limit", gift.ID).
		UpdateColumn("purchase_count", gorm.Expr("purchase_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusConflict, "Gift has already been purchased")
	}

	purchase := models.Purchase{
		UUID:              uuid.NewString(),
		GiftID:            gift.ID,
		PurchaserName:     req.PurchaserName,
		PurchaserEmail:    req.PurchaserEmail,
		Amount:            gift.Price,
		PaymentStatus:     models.PaymentStatusConfirmed,
		ExternalPaymentID: "manual-" + uuid.NewString(),
		PaymentGateway:    models.PaymentGatewayManual,
		PurchasedAt:       time.Now(),
	}
	if err := h.db.Create(&purchase).Error; err != nil {
		h.log.Error("failed to record direct purchase", zap.Error(err))
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"purchase": purchase.UUID,
	})
}

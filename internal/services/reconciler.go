package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gift_registry_echo/internal/models"
)

// ReconcileOutcome tells the webhook handler how to acknowledge the
// delivery. Everything but an actual error acknowledges with 200 so the
// gateway does not retry events we cannot act on.
type ReconcileOutcome string

const (
	OutcomeApplied        ReconcileOutcome = "applied"
	OutcomeUnknownPayment ReconcileOutcome = "unknown_payment"
	OutcomeUnmappedEvent  ReconcileOutcome = "unmapped_event"
)

// Reconciler applies canonical gateway events to the purchase ledger and
// the gift aggregate. It is the only writer of purchase payment status.
type Reconciler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReconciler(db *gorm.DB, log *zap.Logger) *Reconciler {
	return &Reconciler{db: db, log: log}
}

// Process transitions the purchase identified by the event and adjusts
// the gift's purchase_count. The previous/new status comparison is the
// idempotency guard: replaying a terminal event leaves the counter
// untouched. Status itself is written last-write-wins; deliveries are
// not guaranteed to arrive in order and a stale event can overwrite a
// newer state (no gateway sequence number is kept to reject it).
func (r *Reconciler) Process(ctx context.Context, evt *Event) (ReconcileOutcome, error) {
	if !evt.Mapped {
		r.log.Info("ignoring unmapped webhook event",
			zap.String("gateway", string(evt.Gateway)),
			zap.String("event", evt.Name),
		)
		return OutcomeUnmappedEvent, nil
	}

	outcome := OutcomeApplied
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var purchase models.Purchase
		if err := tx.Where("external_payment_id = ?", evt.PaymentID).First(&purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome = OutcomeUnknownPayment
				return nil
			}
			return err
		}

		prev := purchase.PaymentStatus
		if err := tx.Model(&purchase).Update("payment_status", evt.Status).Error; err != nil {
			return err
		}

		// The counter update runs server-side so concurrent deliveries
		// for different purchases of the same gift cannot lose updates.
		if delta := counterDelta(prev, evt.Status); delta != 0 {
			if err := tx.Model(&models.Gift{}).
				Where("id = ?", purchase.GiftID).
				UpdateColumn("purchase_count", gorm.Expr("purchase_count + ?", delta)).Error; err != nil {
				return err
			}
		}

		r.log.Info("purchase reconciled",
			zap.String("gateway", string(evt.Gateway)),
			zap.String("payment_id", evt.PaymentID),
			zap.String("previous_status", string(prev)),
			zap.String("new_status", string(evt.Status)),
		)
		return nil
	})
	if err != nil {
		return "", err
	}

	return outcome, nil
}

func counterDelta(prev, next models.PaymentStatus) int {
	if prev != models.PaymentStatusConfirmed && next == models.PaymentStatusConfirmed {
		return 1
	}
	if prev == models.PaymentStatusConfirmed &&
		(next == models.PaymentStatusRefunded || next == models.PaymentStatusCancelled) {
		return -1
	}
	return 0
}

// LogWebhook appends to the audit trail. Failures are swallowed: the
// log must never abort webhook processing.
func (r *Reconciler) LogWebhook(gw models.PaymentGateway, event string, payload []byte, success bool, failure string) {
	entry := models.WebhookLog{
		PaymentGateway: gw,
		Event:          event,
		Payload:        payload,
		Success:        success,
		Error:          failure,
		ReceivedAt:     time.Now(),
	}
	if err := r.db.Create(&entry).Error; err != nil {
		r.log.Warn("failed to write webhook log", zap.Error(err))
	}
}

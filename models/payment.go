package models

import (
	"errors"
	"strings"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"    // Intent created, not yet confirmed
	PaymentStatusProcessing PaymentStatus = "processing" // Provider is processing the charge
	PaymentStatusCompleted  PaymentStatus = "completed"  // Charge confirmed by provider
	PaymentStatusFailed     PaymentStatus = "failed"     // Charge attempt failed
	PaymentStatusRefunded   PaymentStatus = "refunded"   // Money returned to customer
)

// ParsePaymentStatus maps a request string to a known payment status.
func ParsePaymentStatus(status string) (PaymentStatus, error) {
	switch strings.ToLower(status) {
	case string(PaymentStatusPending):
		return PaymentStatusPending, nil
	case string(PaymentStatusProcessing):
		return PaymentStatusProcessing, nil
	case string(PaymentStatusCompleted):
		return PaymentStatusCompleted, nil
	case string(PaymentStatusFailed):
		return PaymentStatusFailed, nil
	case string(PaymentStatusRefunded):
		return PaymentStatusRefunded, nil
	default:
		return "", errors.New("invalid payment status")
	}
}

// Payment links an order to an external processor charge. StripeSessionID
// is the idempotency key: confirmation events are resolved through it and
// the unique index guarantees at most one payment per session. OrderID is
// unique as well, so an order can never carry two payments.
type Payment struct {
	ID              string        `gorm:"primaryKey" json:"id"`
	OrderID         string        `gorm:"uniqueIndex;not null" json:"order_id"`
	StripeSessionID string        `gorm:"uniqueIndex;not null" json:"stripe_session_id"`
	Status          PaymentStatus `gorm:"type:VARCHAR(20);not null;default:'pending'" json:"status"`
	Provider        string        `gorm:"not null" json:"provider"`
	CreatedAt       time.Time     `json:"created_at"`
}

package paymentControllers

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orderstack/checkout-api/apperr"
	orderControllers "github.com/orderstack/checkout-api/controllers/order"
	"github.com/orderstack/checkout-api/events"
	"github.com/orderstack/checkout-api/metrics"
	"github.com/orderstack/checkout-api/models"
)

// Service bridges checkout to the external payment processor. Orders are
// created first; the payment row created here reconciles the processor's
// confirmation back to the order through the unique session id.
type Service struct {
	db        *gorm.DB
	orders    *orderControllers.Service
	processor ProcessorClient
	pub       events.Publisher
	metrics   *metrics.CoreMetrics
	feed      *orderControllers.Feed
	currency  string
}

func NewService(db *gorm.DB, orders *orderControllers.Service, processor ProcessorClient, pub events.Publisher, m *metrics.CoreMetrics, feed *orderControllers.Feed) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	currency := os.Getenv("STRIPE_CURRENCY")
	if currency == "" {
		currency = "usd"
	}
	return &Service{
		db:        db,
		orders:    orders,
		processor: processor,
		pub:       pub,
		metrics:   m,
		feed:      feed,
		currency:  currency,
	}
}

type CreateIntentInput struct {
	Items     []orderControllers.ItemInput
	AddressID string
}

type IntentResult struct {
	OrderID      string `json:"order_id"`
	SessionID    string `json:"session_id"`
	ClientSecret string `json:"client_secret"`
}

// CreateIntent computes the amount from the submitted items, runs the
// order creation transaction, requests an intent from the processor and
// persists the pending payment keyed by the processor's session id.
func (s *Service) CreateIntent(ctx context.Context, userID string, in CreateIntentInput) (*IntentResult, error) {
	amount := decimal.Zero
	for _, it := range in.Items {
		amount = amount.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	orderID, err := s.orders.CreateOrder(ctx, orderControllers.CreateOrderInput{
		UserID:    userID,
		AddressID: in.AddressID,
		Items:     in.Items,
		Total:     amount,
	})
	if err != nil {
		return nil, err
	}

	intent, err := s.processor.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		// The order stays pending without a payment row; the client can
		// retry intent creation for it out of band.
		return nil, apperr.PaymentProvider(err)
	}

	payment := models.Payment{
		ID:              uuid.NewString(),
		OrderID:         orderID,
		StripeSessionID: intent.ID,
		Status:          models.PaymentStatusPending,
		Provider:        "stripe",
	}
	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return &IntentResult{
		OrderID:      orderID,
		SessionID:    intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

type ConfirmResult struct {
	OrderID          string `json:"order_id"`
	AlreadyCompleted bool   `json:"already_completed"`
}

// Confirm applies a successful payment confirmation. The unique session
// id is the idempotency key: an unknown id fails with UNKNOWN_SESSION and
// no side effects, a replay for an already completed payment is a no-op
// success, and the first delivery marks the payment completed and
// advances the order from pending to processing in one transaction.
func (s *Service) Confirm(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	var payment models.Payment
	already := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, "stripe_session_id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.UnknownSession()
			}
			return err
		}
		if payment.Status == models.PaymentStatusCompleted {
			already = true
			return nil
		}

		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status <> ?", payment.ID, models.PaymentStatusCompleted).
			Update("status", models.PaymentStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race against a concurrent delivery of the same
			// confirmation; treat as replay.
			already = true
			return nil
		}
		return orderControllers.AdvanceOnPayment(tx, payment.OrderID)
	})
	if err != nil {
		return nil, err
	}

	if already {
		s.metrics.DuplicateConfirmation.Inc()
		return &ConfirmResult{OrderID: payment.OrderID, AlreadyCompleted: true}, nil
	}

	s.metrics.PaymentsConfirmed.Inc()
	s.publish(ctx, events.Event{
		Type:    events.TypePaymentCompleted,
		OrderID: payment.OrderID,
		Status:  string(models.OrderStatusProcessing),
	})
	if s.feed != nil {
		s.feed.Broadcast(map[string]string{
			"order_id": payment.OrderID,
			"status":   string(models.OrderStatusProcessing),
		})
	}
	return &ConfirmResult{OrderID: payment.OrderID}, nil
}

// MarkFailed records a failed charge. A failure event arriving after a
// completed confirmation is ignored; the completed state wins.
func (s *Service) MarkFailed(ctx context.Context, sessionID string) error {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, "stripe_session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.UnknownSession()
		}
		return apperr.Internal(err)
	}
	if payment.Status == models.PaymentStatusCompleted {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status <> ?", payment.ID, models.PaymentStatusCompleted).
		Update("status", models.PaymentStatusFailed).Error; err != nil {
		return apperr.Internal(err)
	}
	s.publish(ctx, events.Event{Type: events.TypePaymentFailed, OrderID: payment.OrderID})
	return nil
}

// HandleEvent dispatches an inbound confirmation event from webhook or
// client redirect.
func (s *Service) HandleEvent(ctx context.Context, sessionID, status string) (*ConfirmResult, error) {
	switch status {
	case "succeeded":
		return s.Confirm(ctx, sessionID)
	case "failed":
		if err := s.MarkFailed(ctx, sessionID); err != nil {
			return nil, err
		}
		return &ConfirmResult{}, nil
	default:
		return nil, apperr.InvalidInput("unknown payment event status %q", status)
	}
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.pub.Publish(ctx, e); err != nil {
		log.Printf("⚠️ Failed to publish %s for order %s: %v", e.Type, e.OrderID, err)
	}
}

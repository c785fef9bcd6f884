package orderControllers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orderstack/checkout-api/apperr"
	"github.com/orderstack/checkout-api/events"
	"github.com/orderstack/checkout-api/metrics"
	"github.com/orderstack/checkout-api/models"
)

// txAttempts bounds the retry loop on serialization conflicts.
const txAttempts = 3

// Service owns order placement and the status state machine. Construct
// one per process with NewService; handlers receive it explicitly.
type Service struct {
	db      *gorm.DB
	pub     events.Publisher
	metrics *metrics.CoreMetrics
	feed    *Feed
}

func NewService(db *gorm.DB, pub events.Publisher, m *metrics.CoreMetrics, feed *Feed) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	return &Service{db: db, pub: pub, metrics: m, feed: feed}
}

type ItemInput struct {
	ProductID string          `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	Price     decimal.Decimal `json:"price" binding:"required"`
}

type CreateOrderInput struct {
	UserID    string
	AddressID string
	Items     []ItemInput
	Total     decimal.Decimal
}

// CreateOrder runs the order creation transaction: the order row, its
// items, and every stock decrement commit together or not at all. Stock
// is decremented with a conditional UPDATE guarded by `stock >= quantity`
// so concurrent submissions can never oversell. Serialization conflicts
// are retried a bounded number of times, then surfaced as CONFLICT.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (string, error) {
	if err := s.validateOrderInput(ctx, in); err != nil {
		s.metrics.OrderFailures.WithLabelValues(string(apperr.CodeOf(err))).Inc()
		return "", err
	}

	var order models.Order
	var err error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		// Rebuilt per attempt: a rolled-back Create leaves generated ids
		// on the struct.
		order = models.Order{
			ID:        uuid.NewString(),
			UserID:    in.UserID,
			Status:    models.OrderStatusPending,
			Total:     in.Total,
			AddressID: in.AddressID,
		}
		for _, it := range in.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price,
			})
		}
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			for _, it := range in.Items {
				if err := decrementStock(tx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil || !isSerializationFailure(err) {
			break
		}
		time.Sleep(time.Duration(attempt) * 25 * time.Millisecond)
	}
	if err != nil {
		if isSerializationFailure(err) {
			err = apperr.Conflict("order placement contended, retry")
		}
		s.metrics.OrderFailures.WithLabelValues(string(apperr.CodeOf(err))).Inc()
		return "", err
	}

	s.metrics.OrdersPlaced.Inc()
	s.publish(ctx, events.Event{
		Type:    events.TypeOrderCreated,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  string(order.Status),
		Total:   order.Total.String(),
	})
	s.broadcast(order.ID, order.Status)
	return order.ID, nil
}

// validateOrderInput checks every precondition before any mutation.
func (s *Service) validateOrderInput(ctx context.Context, in CreateOrderInput) error {
	if len(in.Items) == 0 {
		return apperr.InvalidInput("order must contain at least one item")
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return apperr.InvalidInput("quantity must be positive for product %s", it.ProductID)
		}
		if !it.Price.IsPositive() {
			return apperr.InvalidInput("price must be positive for product %s", it.ProductID)
		}
	}
	if !in.Total.IsPositive() {
		return apperr.InvalidInput("total must be positive")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Address{}).
		Where("id = ? AND user_id = ?", in.AddressID, in.UserID).
		Count(&count).Error; err != nil {
		return apperr.Internal(err)
	}
	if count == 0 {
		return apperr.InvalidAddress()
	}
	return nil
}

// decrementStock applies the atomic conditional decrement. Zero rows
// affected means the product is either unknown or short on stock; the
// distinction is resolved with a second lookup inside the same
// transaction so the whole order aborts either way.
func decrementStock(tx *gorm.DB, productID string, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.InvalidInput("unknown product %s", productID)
		}
		return apperr.InsufficientStock(productID)
	}
	return nil
}

// GetUserOrders returns the caller's orders with items, address and
// payment attached, newest first.
func (s *Service) GetUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items").
		Preload("Address").
		Preload("Payment").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

// GetAllOrders is the admin listing.
func (s *Service) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Address").
		Preload("Payment").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return orders, nil
}

// SetStatus moves an order to newStatus if the transition graph allows
// it, and fails with INVALID_TRANSITION otherwise; an illegal request is
// never silently clamped. The update is conditional on the status still
// being the one the transition was validated against, so a concurrent
// writer surfaces as CONFLICT instead of overwriting. Cancellation does
// not restock inventory.
func (s *Service) SetStatus(ctx context.Context, orderID string, newStatus models.OrderStatus) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order " + orderID)
			}
			return err
		}
		if !order.Status.CanTransitionTo(newStatus) {
			return apperr.InvalidTransition(string(order.Status), string(newStatus))
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, order.Status).
			Updates(map[string]any{"status": newStatus, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("order " + orderID + " changed concurrently")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.StatusTransitions.WithLabelValues(string(newStatus)).Inc()
	s.publish(ctx, events.Event{
		Type:    events.TypeOrderStatusChanged,
		OrderID: orderID,
		Status:  string(newStatus),
	})
	s.broadcast(orderID, newStatus)
	return nil
}

type StatusFailure struct {
	OrderID string `json:"order_id"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

type BulkStatusResult struct {
	Updated  []string        `json:"updated"`
	Failures []StatusFailure `json:"failures"`
}

// SetStatusMany applies SetStatus to each id independently. Orders that
// pass validation are updated even when others fail; failures are
// collected per id, never hidden and never a reason to skip the rest.
func (s *Service) SetStatusMany(ctx context.Context, orderIDs []string, newStatus models.OrderStatus) BulkStatusResult {
	result := BulkStatusResult{Updated: []string{}, Failures: []StatusFailure{}}
	for _, id := range orderIDs {
		if err := s.SetStatus(ctx, id, newStatus); err != nil {
			result.Failures = append(result.Failures, StatusFailure{
				OrderID: id,
				Error:   string(apperr.CodeOf(err)),
				Details: err.Error(),
			})
			continue
		}
		result.Updated = append(result.Updated, id)
	}
	return result
}

// AdvanceOnPayment moves a paid order from pending to processing inside
// the caller's transaction. Orders past pending (already advanced, or
// cancelled before the charge settled) are left alone.
func AdvanceOnPayment(tx *gorm.DB, orderID string) error {
	return tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Updates(map[string]any{"status": models.OrderStatusProcessing, "updated_at": time.Now()}).Error
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.pub.Publish(ctx, e); err != nil {
		log.Printf("⚠️ Failed to publish %s for order %s: %v", e.Type, e.OrderID, err)
	}
}

func (s *Service) broadcast(orderID string, status models.OrderStatus) {
	if s.feed == nil {
		return
	}
	s.feed.Broadcast(map[string]string{"order_id": orderID, "status": string(status)})
}

// isSerializationFailure detects Postgres serialization and deadlock
// SQLSTATEs (40001, 40P01). Other drivers fall back to a string check.
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "could not serialize") || strings.Contains(msg, "deadlock")
}

package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	// Order statuses (fulfillment flow)
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting payment confirmation
	OrderStatusProcessing OrderStatus = "processing" // Payment confirmed, being prepared
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the item
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled before delivery
)

// orderStatusRank orders the forward fulfillment chain. Cancelled is
// deliberately absent: it is a terminal escape, not a chain position.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

// ParseOrderStatus maps a request string to a known status.
func ParseOrderStatus(status string) (OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(OrderStatusPending):
		return OrderStatusPending, nil
	case string(OrderStatusProcessing):
		return OrderStatusProcessing, nil
	case string(OrderStatusShipped):
		return OrderStatusShipped, nil
	case string(OrderStatusDelivered):
		return OrderStatusDelivered, nil
	case string(OrderStatusCancelled):
		return OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// CanTransitionTo reports whether the status graph permits moving from s
// to next. Forward moves along pending -> processing -> shipped -> delivered
// are allowed (including multi-step jumps), backward moves never are, and
// cancelled is reachable from every state except delivered and itself.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return false
	}
	if next == OrderStatusCancelled {
		return s != OrderStatusDelivered && s != OrderStatusCancelled
	}
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	UserID    string          `gorm:"not null;index" json:"user_id"`
	Status    OrderStatus     `gorm:"type:VARCHAR(20);not null;default:'pending'" json:"status"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	AddressID string          `gorm:"not null" json:"address_id"`
	Address   Address         `gorm:"foreignKey:AddressID" json:"address"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Payment   *Payment        `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderItem captures the price at order time; it is never updated after
// the order creation transaction commits.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   string          `gorm:"index;not null" json:"order_id"`
	ProductID string          `gorm:"not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

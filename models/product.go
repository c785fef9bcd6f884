package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is external to the order engine: the only field this core
// mutates is Stock, and only through the atomic conditional decrement in
// the order creation transaction. Stock never goes below zero.
type Product struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Image     string          `json:"image"`
	Stock     int             `gorm:"not null;default:0" json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

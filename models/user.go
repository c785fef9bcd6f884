package models

import "time"

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Name      string    `json:"name"`
	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses"`
	Orders    []Order   `gorm:"foreignKey:UserID" json:"orders"`
	CreatedAt time.Time `json:"created_at"`
}

// Address is a shipping address owned by a user. Order placement refuses
// an address id that does not belong to the ordering user.
type Address struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"not null;index" json:"user_id"`
	Country    string    `json:"country"`
	State      string    `json:"state"`
	City       string    `json:"city"`
	Street     string    `json:"street"`
	PostalCode string    `json:"postal_code"`
	CreatedAt  time.Time `json:"created_at"`
}

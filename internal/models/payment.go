package models

import (
	"gorm.io/gorm"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentDeferred = "deferred"
)

// Payment records an initiated dues payment. Reference is the opaque id
// handed to the payment provider and back to the client.
type Payment struct {
	gorm.Model
	RegistrationID uint         `json:"registration_id"`
	Registration   Registration `json:"-"`
	Reference      string       `json:"reference" gorm:"uniqueIndex"`
	Amount         float64      `json:"amount"`
	Description    string       `json:"description"`
	Status         string       `json:"status" gorm:"default:pending"`
}

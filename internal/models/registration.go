package models

import (
	"gorm.io/gorm"
)

// Registration statuses.
const (
	RegistrationPending   = "pending"
	RegistrationConfirmed = "confirmed"
	RegistrationDeferred  = "deferred"
)

type Registration struct {
	gorm.Model
	UserID         uint                     `json:"user_id" gorm:"uniqueIndex"`
	User           User                     `gorm:"foreignKey:UserID"`
	CampingOptions []CampingOption          `json:"camping_options" gorm:"many2many:registration_camping_options"`
	Jobs           []Job                    `json:"jobs" gorm:"many2many:registration_jobs"`
	FieldValues    []RegistrationFieldValue `json:"field_values"`
	AcceptedTerms  bool                     `json:"accepted_terms"`
	Total          float64                  `json:"total"`
	Status         string                   `json:"status" gorm:"default:pending"`
}

// RegistrationFieldValue stores one answered custom field. Values are kept
// in their wire form; the engine parses them per data type.
type RegistrationFieldValue struct {
	gorm.Model
	RegistrationID uint   `json:"registration_id"`
	CustomFieldID  uint   `json:"custom_field_id"`
	Value          string `json:"value"`
}

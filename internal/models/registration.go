package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationStatus string

const (
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationWaitlist  RegistrationStatus = "waitlist"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// IsActive reports whether the registration still counts against the
// one-active-registration-per-event invariant.
func (s RegistrationStatus) IsActive() bool {
	return s == RegistrationConfirmed || s == RegistrationWaitlist
}

// EventRegistration is one employee's claim on one event occurrence.
type EventRegistration struct {
	ID               string             `json:"id" gorm:"primaryKey"`
	EventID          string             `json:"event_id" gorm:"not null;index:idx_reg_event_employee"`
	EmployeeID       string             `json:"employee_id" gorm:"not null;index:idx_reg_event_employee"`
	RegistrationDate time.Time          `json:"registration_date"`
	Status           RegistrationStatus `json:"status" gorm:"type:varchar(10);default:confirmed"`
	ConfirmationCode string             `json:"confirmation_code"`
	Notes            string             `json:"notes"`

	EmergencyContactName         string `json:"emergency_contact_name"`
	EmergencyContactPhone        string `json:"emergency_contact_phone"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Event    Event    `json:"-" gorm:"foreignKey:EventID"`
	Employee Employee `json:"-" gorm:"foreignKey:EmployeeID"`
}

func (EventRegistration) TableName() string {
	return "event_registrations"
}

func (r *EventRegistration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.RegistrationDate.IsZero() {
		r.RegistrationDate = time.Now().UTC()
	}
	return nil
}

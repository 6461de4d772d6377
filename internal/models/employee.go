package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles mirror the HR platform's permission tiers. The scheduling service
// only distinguishes self-service actors from HR/manager actors.
const (
	RoleEmployee  = "employee"
	RoleManager   = "manager"
	RoleHROfficer = "hr_officer"
	RoleHRHead    = "hr_head"
)

// Employee is the actor identity consumed by the scheduling service. The
// employee directory itself is owned by the surrounding HR platform.
type Employee struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Email      string    `json:"email" gorm:"uniqueIndex"`
	Role       string    `json:"role" gorm:"type:varchar(20);default:employee"`
	Department string    `json:"department"`
	JobTitle   string    `json:"job_title"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

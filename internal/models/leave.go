package models

import "time"

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveRequest is owned by the leave service; the scheduling service reads
// only the employee reference, the interval and the approval status when
// detecting conflicts.
type LeaveRequest struct {
	ID         string      `json:"id" gorm:"primaryKey"`
	EmployeeID string      `json:"employee_id" gorm:"not null;index"`
	Type       string      `json:"type" gorm:"type:varchar(20)"`
	StartDate  time.Time   `json:"start_date" gorm:"not null"`
	EndDate    time.Time   `json:"end_date" gorm:"not null"`
	Status     LeaveStatus `json:"status" gorm:"type:varchar(10);default:pending"`
	Reason     string      `json:"reason"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

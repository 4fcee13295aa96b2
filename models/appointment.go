package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment statuses. Cancellation is a status transition, rows are
// never hard-deleted.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceID uuid.UUID `gorm:"type:uuid;index" json:"serviceId"`

	ServiceName   string `gorm:"not null" json:"serviceName"`
	CustomerName  string `gorm:"not null" json:"customerName"`
	CustomerPhone string `gorm:"not null;index" json:"customerPhone"`
	CustomerEmail string `json:"customerEmail"`

	// Date is YYYY-MM-DD and Time is HH:MM, clinic-local. Slot exclusivity
	// is enforced by a partial unique index on (date, time) for rows whose
	// status is not 'cancelled' (see config.Migrate).
	Date            string `gorm:"type:varchar(10);not null;index" json:"date"`
	Time            string `gorm:"type:varchar(5);not null" json:"time"`
	DurationMinutes int    `gorm:"default:30" json:"durationMinutes"`

	Price            float64 `gorm:"type:decimal(10,2)" json:"price"`
	PaymentType      string  `gorm:"type:varchar(20)" json:"paymentType"`
	PaymentAmount    float64 `gorm:"type:decimal(10,2)" json:"paymentAmount"`
	PaymentReference string  `gorm:"index" json:"paymentReference"`

	Status     string `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	FirstVisit bool   `json:"firstVisit"`

	gorm.Model
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingSettings carries the per-month flag that opens or closes online
// bookings. When no row exists for a month, bookings default to enabled.
// No gorm default on Enabled: a column default would make gorm skip the
// zero value on insert, so a month could never be created disabled.
type BookingSettings struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Month   string    `gorm:"type:varchar(7);uniqueIndex;not null" json:"month"` // YYYY-MM
	Enabled bool      `json:"enabled"`

	gorm.Model
}

func (b *BookingSettings) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

type PaymentSettings struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MBWayPhone  string    `json:"mbwayPhone"`
	MBWayActive bool      `json:"mbwayActive"`
	CashActive  bool      `json:"cashActive"`

	gorm.Model
}

func (p *PaymentSettings) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

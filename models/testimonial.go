package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Testimonial struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Message  string    `gorm:"type:text;not null" json:"message"`
	Rating   int       `gorm:"default:5" json:"rating"`
	Approved bool      `gorm:"default:false;index" json:"approved"`

	gorm.Model
}

func (t *Testimonial) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

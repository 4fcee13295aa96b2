package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog is append-only: rows are created on state-changing actions and
// never updated or deleted afterwards.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Entity    string    `gorm:"type:varchar(50);not null;index" json:"entity"`
	EntityID  string    `gorm:"type:varchar(64);index" json:"entityId"`
	Action    string    `gorm:"type:varchar(30);not null" json:"action"`
	Payload   JSONB     `gorm:"type:jsonb;default:'{}'" json:"payload"`
	Performer string    `gorm:"type:varchar(64)" json:"performer"`
	CreatedAt time.Time `json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// Custom JSONB type for audit payloads
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &j)
}

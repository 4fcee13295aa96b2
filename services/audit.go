// services/audit.go
package services

import (
	"log"
	"podocare-backend/models"

	"gorm.io/gorm"
)

// AuditRecorder appends immutable audit_log rows for state-changing
// actions. Recording is best-effort: a failed insert is logged and never
// fails the action being audited.
type AuditRecorder struct {
	db *gorm.DB
}

func NewAuditRecorder(db *gorm.DB) *AuditRecorder {
	return &AuditRecorder{db: db}
}

func (r *AuditRecorder) Record(entity, entityID, action, performer string, payload map[string]interface{}) {
	entry := models.AuditLog{
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		Performer: performer,
		Payload:   models.JSONB(payload),
	}
	if err := r.db.Create(&entry).Error; err != nil {
		log.Printf("failed to record audit entry for %s %s: %v", entity, entityID, err)
	}
}

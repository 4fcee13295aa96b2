// controllers/appointment.go
package controllers

import (
	"errors"
	"net/http"
	"podocare-backend/config"
	"podocare-backend/models"
	"podocare-backend/services"
	"podocare-backend/utils"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateAppointmentInput defines the admin status-change body
type UpdateAppointmentInput struct {
	Status string `json:"status" binding:"required"`
}

// GetAppointments lists appointments for the admin panel with pagination,
// optional status/date/phone filters and a total count.
func GetAppointments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := config.DB.Model(&models.Appointment{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if phone := c.Query("phone"); phone != "" {
		query = query.Where("customer_phone IN ?", utils.PhoneVariants(phone))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count appointments")
		return
	}

	var appointments []models.Appointment
	if err := query.Order("date DESC, time DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointments": appointments,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

// GetAppointment retrieves one appointment by ID
func GetAppointment(c *gin.Context) {
	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := config.DB.First(&appointment, "id = ?", appointmentUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointmentStatus applies an admin status transition. Appointments
// are never hard-deleted; cancellation goes through here too.
func UpdateAppointmentStatus(c *gin.Context) {
	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	switch input.Status {
	case models.StatusPending, models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled:
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
		return
	}

	var appointment models.Appointment
	if err := config.DB.First(&appointment, "id = ?", appointmentUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	previous := appointment.Status
	appointment.Status = input.Status
	if err := config.DB.Save(&appointment).Error; err != nil {
		// Reinstating a cancelled appointment races the slot index like a booking does
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Slot already taken")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	performer, _ := c.Get("userId")
	performerID, _ := performer.(string)
	services.NewAuditRecorder(config.DB).Record("appointment", appointment.ID.String(), "status_change", performerID, map[string]interface{}{
		"from": previous,
		"to":   appointment.Status,
	})

	c.JSON(http.StatusOK, appointment)
}

// GetAppointmentSummary returns the counters shown on the admin dashboard.
func GetAppointmentSummary(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var todayCount, pendingCount, confirmedCount int64
	config.DB.Model(&models.Appointment{}).
		Where("date = ? AND status <> ?", today, models.StatusCancelled).
		Count(&todayCount)
	config.DB.Model(&models.Appointment{}).
		Where("status = ?", models.StatusPending).
		Count(&pendingCount)
	config.DB.Model(&models.Appointment{}).
		Where("status = ? AND date >= ?", models.StatusConfirmed, today).
		Count(&confirmedCount)

	c.JSON(http.StatusOK, gin.H{
		"today":     todayCount,
		"pending":   pendingCount,
		"confirmed": confirmedCount,
	})
}

// controllers/booking.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"podocare-backend/config"
	"podocare-backend/models"
	"podocare-backend/services"
	"podocare-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateAppointmentInput defines the expected JSON structure for a booking
type CreateAppointmentInput struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Service     string `json:"service" binding:"required"`
	PaymentType string `json:"paymentType"`
}

// CreateAppointment admits a new booking. The availability read below is
// advisory only; the partial unique index on (date, time) is what decides
// a race between two concurrent bookings for the same slot.
func CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidPhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}
	phone := utils.NormalizePhone(input.Phone)

	if _, err := utils.ParseDate(input.Date); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}
	startMins, err := utils.ParseClock(input.Time)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid time, expected HH:MM")
		return
	}

	// Per-month booking flag; missing row means bookings are open
	var setting models.BookingSettings
	err = config.DB.Where("month = ?", utils.MonthOf(input.Date)).First(&setting).Error
	if err == nil && !setting.Enabled {
		utils.RespondWithError(c, http.StatusBadRequest, "Bookings are closed for this month")
		return
	}

	var service models.Service
	if err := config.DB.Where("lower(name) = lower(?) AND is_active = true", input.Service).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown service")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	duration := service.Duration
	if duration <= 0 {
		duration = 30
	}

	busy, err := busyIntervals(input.Date)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	for _, b := range busy {
		if startMins < b.End && b.Start < startMins+duration {
			utils.RespondWithError(c, http.StatusConflict, "Slot already taken")
			return
		}
	}

	// First-time detection fails open: on error we assume a first visit
	firstVisit := true
	var visits int64
	if err := config.DB.Model(&models.Appointment{}).
		Where("customer_phone IN ?", utils.PhoneVariants(phone)).
		Count(&visits).Error; err == nil && visits > 0 {
		firstVisit = false
	}

	appointment := models.Appointment{
		ServiceID:       service.ID,
		ServiceName:     service.Name,
		CustomerName:    input.Name,
		CustomerPhone:   phone,
		CustomerEmail:   input.Email,
		Date:            input.Date,
		Time:            utils.FormatClock(startMins), // canonical HH:MM, the unique index compares strings
		DurationMinutes: duration,
		Price:           service.Price,
		PaymentType:     input.PaymentType,
		Status:          models.StatusPending,
		FirstVisit:      firstVisit,
	}

	if err := config.DB.Create(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Slot already taken")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	services.NewAuditRecorder(config.DB).Record("appointment", appointment.ID.String(), "create", "public", map[string]interface{}{
		"date":    appointment.Date,
		"time":    appointment.Time,
		"service": appointment.ServiceName,
		"phone":   appointment.CustomerPhone,
	})

	c.JSON(http.StatusCreated, appointment)
}

// GetAvailability lists the free slots of a date for a service duration.
// As a read endpoint it degrades to an empty slot list on persistence
// errors instead of failing.
func GetAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "date query parameter is required")
		return
	}
	if _, err := utils.ParseDate(date); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	open, close, step := services.ClinicHours()

	duration := step
	if name := c.Query("service"); name != "" {
		var service models.Service
		if err := config.DB.Where("lower(name) = lower(?) AND is_active = true", name).
			First(&service).Error; err == nil && service.Duration > 0 {
			duration = service.Duration
		}
	}

	busy, err := busyIntervals(date)
	if err != nil {
		log.Printf("availability for %s: %v", date, err)
		c.JSON(http.StatusOK, gin.H{"date": date, "slots": []string{}})
		return
	}

	slots := services.AvailableSlots(open, close, step, duration, busy)
	if slots == nil {
		slots = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

// busyIntervals maps the date's non-cancelled appointments to half-open
// minute intervals.
func busyIntervals(date string) ([]services.SlotInterval, error) {
	var appointments []models.Appointment
	if err := config.DB.Where("date = ? AND status <> ?", date, models.StatusCancelled).
		Find(&appointments).Error; err != nil {
		return nil, err
	}

	var busy []services.SlotInterval
	for _, a := range appointments {
		start, err := utils.ParseClock(a.Time)
		if err != nil {
			continue
		}
		duration := a.DurationMinutes
		if duration <= 0 {
			duration = 30
		}
		busy = append(busy, services.SlotInterval{Start: start, End: start + duration})
	}
	return busy, nil
}

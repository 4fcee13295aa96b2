// controllers/settings.go
package controllers

import (
	"errors"
	"net/http"
	"podocare-backend/config"
	"podocare-backend/models"
	"podocare-backend/services"
	"podocare-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UpdateBookingSettingsInput struct {
	Month   string `json:"month" binding:"required"` // YYYY-MM
	Enabled *bool  `json:"enabled" binding:"required"`
}

// GetBookingSettings is public: the booking form asks whether a month is
// open. No row means enabled.
func GetBookingSettings(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "month query parameter is required")
		return
	}

	// Missing row and read failure both degrade to the enabled default
	var setting models.BookingSettings
	if err := config.DB.Where("month = ?", month).First(&setting).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"month": month, "enabled": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"month": setting.Month, "enabled": setting.Enabled})
}

// UpdateBookingSettings upserts the month flag (admin only).
func UpdateBookingSettings(c *gin.Context) {
	var input UpdateBookingSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	setting := models.BookingSettings{Month: input.Month, Enabled: *input.Enabled}
	if err := config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
	}).Create(&setting).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking settings")
		return
	}

	performer, _ := c.Get("userId")
	performerID, _ := performer.(string)
	services.NewAuditRecorder(config.DB).Record("booking_settings", input.Month, "upsert", performerID, map[string]interface{}{
		"enabled": *input.Enabled,
	})

	c.JSON(http.StatusOK, gin.H{"month": setting.Month, "enabled": setting.Enabled})
}

type UpdatePaymentSettingsInput struct {
	MBWayPhone  *string `json:"mbwayPhone"`
	MBWayActive *bool   `json:"mbwayActive"`
	CashActive  *bool   `json:"cashActive"`
}

// GetPaymentSettings returns the single payment-settings row, defaults when
// none exists yet.
func GetPaymentSettings(c *gin.Context) {
	var settings models.PaymentSettings
	if err := config.DB.First(&settings).Error; err != nil {
		c.JSON(http.StatusOK, models.PaymentSettings{MBWayActive: true, CashActive: true})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdatePaymentSettings updates (or creates) the payment-settings row.
func UpdatePaymentSettings(c *gin.Context) {
	var input UpdatePaymentSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var settings models.PaymentSettings
	err := config.DB.First(&settings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if input.MBWayPhone != nil {
		settings.MBWayPhone = *input.MBWayPhone
	}
	if input.MBWayActive != nil {
		settings.MBWayActive = *input.MBWayActive
	}
	if input.CashActive != nil {
		settings.CashActive = *input.CashActive
	}

	if err := config.DB.Save(&settings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment settings")
		return
	}

	performer, _ := c.Get("userId")
	performerID, _ := performer.(string)
	services.NewAuditRecorder(config.DB).Record("payment_settings", settings.ID.String(), "update", performerID, map[string]interface{}{
		"mbwayActive": settings.MBWayActive,
		"cashActive":  settings.CashActive,
	})

	c.JSON(http.StatusOK, settings)
}

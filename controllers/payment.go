// controllers/payment.go
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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentController struct {
	Gateway  *services.GatewayClient
	Payments *services.PaymentService
}

type InitiatePaymentInput struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
}

// InitiatePayment asks the gateway to start an MBWay charge for an
// appointment and stores the generated reference on it.
func (pc *PaymentController) InitiatePayment(c *gin.Context) {
	var input InitiatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !utils.ValidPhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	appointmentUUID, err := uuid.Parse(input.AppointmentID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := config.DB.First(&appointment, "id = ?", appointmentUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown appointment")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if appointment.Status != models.StatusPending {
		utils.RespondWithError(c, http.StatusBadRequest, "Appointment is not awaiting payment")
		return
	}

	reference := appointment.PaymentReference
	if reference == "" {
		reference = uuid.NewString()
	}

	status, err := pc.Gateway.Initiate(c.Request.Context(), services.InitiateRequest{
		Reference: reference,
		Phone:     utils.NormalizePhone(input.Phone),
		Amount:    appointment.Price,
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Payment gateway unavailable")
		return
	}

	if err := config.DB.Model(&appointment).Updates(map[string]interface{}{
		"payment_reference": reference,
		"payment_type":      "mbway",
		"payment_amount":    appointment.Price,
	}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to store payment reference")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reference": reference, "status": status.Status})
}

// GetPaymentStatus proxies the gateway status for a reference and
// opportunistically reconciles the appointment with whatever came back.
func (pc *PaymentController) GetPaymentStatus(c *gin.Context) {
	reference := c.Param("ref")
	if reference == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "payment reference is required")
		return
	}

	status, err := pc.Gateway.Status(c.Request.Context(), reference)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Payment gateway unavailable")
		return
	}

	// Keep serving the read; the periodic poll retries reconciliation.
	if err := pc.Payments.Apply(reference, status.Status); err != nil {
		log.Printf("status proxy: %v", err)
	}

	c.JSON(http.StatusOK, status)
}

type PaymentCallbackInput struct {
	Reference string `json:"reference" binding:"required"`
}

// PaymentCallback is the gateway's webhook. Reconciliation is idempotent,
// so redelivered webhooks are harmless.
func (pc *PaymentController) PaymentCallback(c *gin.Context) {
	var input PaymentCallbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := pc.Payments.Reconcile(c.Request.Context(), input.Reference); err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to reconcile payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

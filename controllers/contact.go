// controllers/contact.go
package controllers

import (
	"log"
	"net/http"
	"podocare-backend/services"
	"podocare-backend/utils"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	Notifier *services.NotificationService
}

type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// SendContactMessage relays a contact-form submission to the clinic.
// Delivery is best-effort; the caller gets an acknowledgement either way.
func (cc *ContactController) SendContactMessage(c *gin.Context) {
	var input ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	go func() {
		if err := cc.Notifier.SendContactMessage(input.Name, input.Email, input.Message); err != nil {
			log.Printf("contact relay from %s failed: %v", input.Email, err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "Message received"})
}

// controllers/testimonial.go
package controllers

import (
	"errors"
	"net/http"
	"podocare-backend/config"
	"podocare-backend/models"
	"podocare-backend/services"
	"podocare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateTestimonialInput struct {
	Name    string `json:"name" binding:"required"`
	Message string `json:"message" binding:"required"`
	Rating  int    `json:"rating" binding:"omitempty,min=1,max=5"`
}

// CreateTestimonial accepts a public submission; it stays hidden until an
// admin approves it.
func CreateTestimonial(c *gin.Context) {
	var input CreateTestimonialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Rating == 0 {
		input.Rating = 5
	}

	testimonial := models.Testimonial{
		Name:    input.Name,
		Message: input.Message,
		Rating:  input.Rating,
	}
	if err := config.DB.Create(&testimonial).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create testimonial")
		return
	}

	c.JSON(http.StatusCreated, testimonial)
}

// GetTestimonials lists approved testimonials; empty list on read failure.
func GetTestimonials(c *gin.Context) {
	var testimonials []models.Testimonial
	if err := config.DB.Where("approved = true").Order("created_at DESC").
		Find(&testimonials).Error; err != nil {
		c.JSON(http.StatusOK, []models.Testimonial{})
		return
	}
	c.JSON(http.StatusOK, testimonials)
}

// ApproveTestimonial publishes a pending testimonial (admin only)
func ApproveTestimonial(c *gin.Context) {
	testimonialUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid testimonial ID format")
		return
	}

	var testimonial models.Testimonial
	if err := config.DB.First(&testimonial, "id = ?", testimonialUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Testimonial not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	testimonial.Approved = true
	if err := config.DB.Save(&testimonial).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to approve testimonial")
		return
	}

	performer, _ := c.Get("userId")
	performerID, _ := performer.(string)
	services.NewAuditRecorder(config.DB).Record("testimonial", testimonial.ID.String(), "approve", performerID, nil)

	c.JSON(http.StatusOK, testimonial)
}

// DeleteTestimonial soft deletes a testimonial (admin only)
func DeleteTestimonial(c *gin.Context) {
	testimonialUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid testimonial ID format")
		return
	}

	result := config.DB.Where("id = ?", testimonialUUID).Delete(&models.Testimonial{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete testimonial")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Testimonial not found")
		return
	}

	performer, _ := c.Get("userId")
	performerID, _ := performer.(string)
	services.NewAuditRecorder(config.DB).Record("testimonial", testimonialUUID.String(), "delete", performerID, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Testimonial deleted successfully"})
}

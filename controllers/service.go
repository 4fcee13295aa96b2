// controllers/service.go
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

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,min=0"`
	Duration    int     `json:"duration" binding:"min=0"` // in minutes
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Duration    *int     `json:"duration"`
	IsActive    *bool    `json:"isActive"`
}

// CreateService adds a row to the price list (admin only)
func CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service := models.Service{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Duration:    input.Duration,
		IsActive:    true,
	}

	if err := config.DB.Create(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "A service with that name already exists")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	performer, _ := c.Get("userId")
	performerID, _ := performer.(string)
	services.NewAuditRecorder(config.DB).Record("service", service.ID.String(), "create", performerID, map[string]interface{}{
		"name":  service.Name,
		"price": service.Price,
	})

	c.JSON(http.StatusCreated, service)
}

// GetServices is the public price list; active services only, empty list
// on read failure.
func GetServices(c *gin.Context) {
	var serviceList []models.Service
	if err := config.DB.Where("is_active = true").Order("name").Find(&serviceList).Error; err != nil {
		c.JSON(http.StatusOK, []models.Service{})
		return
	}
	c.JSON(http.StatusOK, serviceList)
}

// UpdateService updates an existing service (admin only)
func UpdateService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.First(&service, "id = ?", serviceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.Duration != nil {
		service.Duration = *input.Duration
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	performer, _ := c.Get("userId")
	performerID, _ := performer.(string)
	services.NewAuditRecorder(config.DB).Record("service", service.ID.String(), "update", performerID, map[string]interface{}{
		"name":     service.Name,
		"price":    service.Price,
		"isActive": service.IsActive,
	})

	c.JSON(http.StatusOK, service)
}

// DeleteService soft deletes a service (admin only)
func DeleteService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	result := config.DB.Where("id = ?", serviceUUID).Delete(&models.Service{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	performer, _ := c.Get("userId")
	performerID, _ := performer.(string)
	services.NewAuditRecorder(config.DB).Record("service", serviceUUID.String(), "delete", performerID, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

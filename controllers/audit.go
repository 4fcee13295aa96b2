// controllers/audit.go
package controllers

import (
	"net/http"
	"podocare-backend/config"
	"podocare-backend/models"
	"podocare-backend/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetAuditLog lists recent audit entries for the admin panel.
func GetAuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := config.DB.Model(&models.AuditLog{})
	if entity := c.Query("entity"); entity != "" {
		query = query.Where("entity = ?", entity)
	}

	var entries []models.AuditLog
	if err := query.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve audit log")
		return
	}

	c.JSON(http.StatusOK, entries)
}

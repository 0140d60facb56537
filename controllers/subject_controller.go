package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/noteshub/noteshub-api/config"
	"github.com/noteshub/noteshub-api/models"
)

// ListSubjects handles GET /api/v1/subjects - returns the full subject taxonomy
func ListSubjects(c *gin.Context) {
	db := config.GetDB()

	var subjects []models.Subject
	if err := db.Order("name").Find(&subjects).Error; err != nil {
		log.Printf("Subject listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load subjects",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    subjects,
	})
}

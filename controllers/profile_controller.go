package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/noteshub/noteshub-api/config"
	"github.com/noteshub/noteshub-api/middleware"
	"github.com/noteshub/noteshub-api/models"
	"github.com/noteshub/noteshub-api/services"
)

// CreateProfileRequest represents the request body for creating a student profile
type CreateProfileRequest struct {
	StudentID  string `json:"student_id" binding:"required"`
	College    string `json:"college" binding:"required"`
	Department string `json:"department" binding:"required"`
	Year       int    `json:"year" binding:"required,min=1,max=4"`
	Bio        string `json:"bio"`
}

// ProfileResponse is the serialized profile with account fields denormalized
type ProfileResponse struct {
	models.Profile
	UserName string `json:"user_name"`
	Phone    string `json:"phone"`
}

// CreateProfile handles POST /api/v1/profile - creates the viewer's student profile
func CreateProfile(c *gin.Context) {
	account, err := middleware.GetAccount(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	// One profile per account
	var existing models.Profile
	if err := db.Where("account_id = ?", account.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROFILE_EXISTS",
				"message": "Profile already exists",
			},
		})
		return
	}

	profile := models.Profile{
		AccountID:  account.ID,
		StudentID:  req.StudentID,
		College:    req.College,
		Department: req.Department,
		Year:       req.Year,
		Bio:        req.Bio,
	}

	if err := db.Create(&profile).Error; err != nil {
		if services.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PROFILE_EXISTS",
					"message": "A profile with this student ID already exists",
				},
			})
			return
		}

		log.Printf("Profile creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create profile",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": ProfileResponse{
			Profile:  profile,
			UserName: account.Name,
			Phone:    account.Phone,
		},
	})
}

// GetMyProfile handles GET /api/v1/profile - returns the viewer's student profile
func GetMyProfile(c *gin.Context) {
	account, err := middleware.GetAccount(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	db := config.GetDB()
	var profile models.Profile
	if err := db.Where("account_id = ?", account.ID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROFILE_NOT_FOUND",
				"message": "Profile not found. Please create a profile first.",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": ProfileResponse{
			Profile:  profile,
			UserName: account.Name,
			Phone:    account.Phone,
		},
	})
}

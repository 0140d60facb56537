package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/noteshub/noteshub-api/config"
	"github.com/noteshub/noteshub-api/services"
)

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request body for the token refresh endpoint
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// Register handles POST /api/v1/register - creates an account keyed by phone number
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Phone number and password are required",
				"details": err.Error(),
			},
		})
		return
	}

	authService := services.NewAuthService(config.GetDB(), config.GetConfig())
	account, tokens, err := authService.Register(req.Phone, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrPhoneTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PHONE_EXISTS",
					"message": "An account with this phone number already exists",
				},
			})
			return
		}

		log.Printf("Registration failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to register user",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"user":   account,
			"tokens": tokens,
		},
	})
}

// Login handles POST /api/v1/login - verifies credentials and issues a token pair
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Phone number and password are required",
				"details": err.Error(),
			},
		})
		return
	}

	authService := services.NewAuthService(config.GetDB(), config.GetConfig())
	account, tokens, err := authService.Login(req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid phone number or password",
				},
			})
			return
		}

		log.Printf("Login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to log in",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":   account,
			"tokens": tokens,
		},
	})
}

// RefreshToken handles POST /api/v1/token/refresh - exchanges a refresh token
// for a new token pair
func RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Refresh token is required",
				"details": err.Error(),
			},
		})
		return
	}

	authService := services.NewAuthService(config.GetDB(), config.GetConfig())
	tokens, err := authService.Refresh(req.Refresh)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid or expired refresh token",
				},
			})
			return
		}

		log.Printf("Token refresh failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to refresh token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"tokens": tokens,
		},
	})
}

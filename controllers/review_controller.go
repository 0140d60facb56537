package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/noteshub/noteshub-api/config"
	"github.com/noteshub/noteshub-api/middleware"
	"github.com/noteshub/noteshub-api/models"
	"github.com/noteshub/noteshub-api/services"
	"gorm.io/gorm"
)

// CreateReviewRequest represents the request body for reviewing a note
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ReviewResponse is the serialized review with names denormalized
type ReviewResponse struct {
	ID           uint   `json:"id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CreatedAt    string `json:"created_at"`
	ReviewerName string `json:"reviewer_name"`
	NoteTitle    string `json:"note_title"`
}

// CreateReview handles POST /api/v1/notes/:id/reviews. One review per
// (reviewer, note) pair; the seller's derived profile rating is recomputed in
// the same transaction as the insert.
func CreateReview(c *gin.Context) {
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

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid note ID",
			},
		})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Rating must be an integer between 1 and 5",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	var note models.Note
	if err := db.First(&note, "id = ?", noteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOTE_NOT_FOUND",
				"message": "Note not found",
			},
		})
		return
	}

	if note.SellerID == account.ID {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "You cannot review your own note",
			},
		})
		return
	}

	review := models.Review{
		ReviewerID: account.ID,
		SellerID:   note.SellerID,
		NoteID:     note.ID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		// Keep the seller's derived profile rating in sync
		var avgRating float64
		if err := tx.Model(&models.Review{}).
			Where("seller_id = ?", note.SellerID).
			Select("COALESCE(AVG(rating), 0)").
			Scan(&avgRating).Error; err != nil {
			return err
		}

		return tx.Model(&models.Profile{}).
			Where("account_id = ?", note.SellerID).
			Update("rating", services.RoundRating(avgRating)).Error
	})
	if err != nil {
		if services.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REVIEW_EXISTS",
					"message": "You have already reviewed this note",
				},
			})
			return
		}

		log.Printf("Review creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create review",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": ReviewResponse{
			ID:           review.ID,
			Rating:       review.Rating,
			Comment:      review.Comment,
			CreatedAt:    review.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			ReviewerName: account.Name,
			NoteTitle:    note.Title,
		},
	})
}

// ListNoteReviews handles GET /api/v1/notes/:id/reviews - reviews for a note,
// newest first
func ListNoteReviews(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid note ID",
			},
		})
		return
	}

	db := config.GetDB()

	var note models.Note
	if err := db.First(&note, "id = ?", noteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOTE_NOT_FOUND",
				"message": "Note not found",
			},
		})
		return
	}

	var reviews []models.Review
	if err := db.Preload("Reviewer").
		Where("note_id = ?", noteID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		log.Printf("Review listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load reviews",
			},
		})
		return
	}

	responses := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, ReviewResponse{
			ID:           review.ID,
			Rating:       review.Rating,
			Comment:      review.Comment,
			CreatedAt:    review.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			ReviewerName: review.Reviewer.Name,
			NoteTitle:    note.Title,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    responses,
	})
}

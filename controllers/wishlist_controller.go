package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/noteshub/noteshub-api/config"
	"github.com/noteshub/noteshub-api/middleware"
	"github.com/noteshub/noteshub-api/models"
	"github.com/noteshub/noteshub-api/services"
)

// AddToWishlistRequest represents the request body for adding a note to the wishlist
type AddToWishlistRequest struct {
	NoteID string `json:"note_id" binding:"required"`
}

// WishlistItemResponse is the serialized wishlist entry with the note's
// subject name denormalized
type WishlistItemResponse struct {
	ID        uint                 `json:"id"`
	Note      services.NotePayload `json:"note"`
	CreatedAt string               `json:"created_at"`
}

// AddToWishlist handles POST /api/v1/wishlist/add - saves a note for later.
// Duplicate (viewer, note) pairs are rejected with a conflict; under
// concurrent adds the unique constraint rejects the loser the same way.
func AddToWishlist(c *gin.Context) {
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

	var req AddToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Note ID is required",
				"details": err.Error(),
			},
		})
		return
	}

	noteID, err := uuid.Parse(req.NoteID)
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
	if err := db.Preload("Seller").Preload("Subject").First(&note, "id = ?", noteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOTE_NOT_FOUND",
				"message": "Note not found",
			},
		})
		return
	}

	var existing models.WishlistItem
	if err := db.Where("user_id = ? AND note_id = ?", account.ID, noteID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ALREADY_IN_WISHLIST",
				"message": "Note already in wishlist",
			},
		})
		return
	}

	item := models.WishlistItem{
		UserID: account.ID,
		NoteID: noteID,
	}

	if err := db.Create(&item).Error; err != nil {
		if services.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ALREADY_IN_WISHLIST",
					"message": "Note already in wishlist",
				},
			})
			return
		}

		log.Printf("Wishlist add failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to add to wishlist",
			},
		})
		return
	}

	queryService := services.NewNoteQueryService(db)
	payloads, err := queryService.Annotate([]models.Note{note}, account.ID)
	if err != nil {
		log.Printf("Failed to serialize wishlist entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load wishlist entry",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": WishlistItemResponse{
			ID:        item.ID,
			Note:      payloads[0],
			CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
	})
}

// ListWishlist handles GET /api/v1/wishlist - returns all of the viewer's
// saved notes
func ListWishlist(c *gin.Context) {
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

	var items []models.WishlistItem
	if err := db.
		Preload("Note").
		Preload("Note.Seller").
		Preload("Note.Subject").
		Where("user_id = ?", account.ID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		log.Printf("Wishlist listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load wishlist",
			},
		})
		return
	}

	notes := make([]models.Note, 0, len(items))
	for _, item := range items {
		notes = append(notes, item.Note)
	}

	queryService := services.NewNoteQueryService(db)
	payloads, err := queryService.Annotate(notes, account.ID)
	if err != nil {
		log.Printf("Failed to serialize wishlist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load wishlist",
			},
		})
		return
	}

	responses := make([]WishlistItemResponse, 0, len(items))
	for i, item := range items {
		responses = append(responses, WishlistItemResponse{
			ID:        item.ID,
			Note:      payloads[i],
			CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    responses,
	})
}

// RemoveFromWishlist handles DELETE /api/v1/wishlist/:id - deletes an entry
// owned by the viewer. Entries owned by other users are indistinguishable
// from missing ones.
func RemoveFromWishlist(c *gin.Context) {
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

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid wishlist entry ID",
			},
		})
		return
	}

	db := config.GetDB()

	var item models.WishlistItem
	if err := db.Where("id = ? AND user_id = ?", itemID, account.ID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "WISHLIST_ITEM_NOT_FOUND",
				"message": "Wishlist item not found",
			},
		})
		return
	}

	if err := db.Delete(&item).Error; err != nil {
		log.Printf("Wishlist removal failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to remove from wishlist",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Removed from wishlist successfully",
	})
}

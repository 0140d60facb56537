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
	"github.com/noteshub/noteshub-api/utils"
)

// CreateNoteRequest represents the request body for creating a note listing
type CreateNoteRequest struct {
	Subject     uint    `json:"subject" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"omitempty,gte=0"`
	Semester    int     `json:"semester" binding:"required,min=1,max=8"`
	Year        int     `json:"year" binding:"required"`
	Tags        string  `json:"tags"`
	ContactInfo string  `json:"contact_info"`
	IsFree      *bool   `json:"is_free"`
}

// ListNotes handles GET /api/v1/notes - the paginated public listing.
// Only approved notes are ever returned, for every caller.
func ListNotes(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "page must be a positive integer",
				},
			})
			return
		}
		page = parsed
	}

	filter := services.NoteFilter{
		Search:     c.Query("search"),
		SubjectID:  c.Query("subject"),
		Semester:   c.Query("semester"),
		PriceRange: c.Query("price_range"),
	}

	viewerID, _ := middleware.GetAccountID(c)

	queryService := services.NewNoteQueryService(config.GetDB())
	result, err := queryService.List(filter, page, viewerID)
	if err != nil {
		log.Printf("Note listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load notes",
			},
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SearchNotes handles GET /api/v1/search - unpaginated search with explicit
// price bounds
func SearchNotes(c *gin.Context) {
	filter := services.NoteFilter{
		Search:    c.Query("q"),
		SubjectID: c.Query("subject"),
		Semester:  c.Query("semester"),
		Year:      c.Query("year"),
		PriceMin:  c.Query("price_min"),
		PriceMax:  c.Query("price_max"),
	}

	viewerID, _ := middleware.GetAccountID(c)

	queryService := services.NewNoteQueryService(config.GetDB())
	results, err := queryService.Search(filter, viewerID)
	if err != nil {
		log.Printf("Note search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to search notes",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}

// CreateNote handles POST /api/v1/notes/create - creates a new note listing.
// New notes start unapproved and stay out of the public listing until an
// administrator flips the approval flag.
func CreateNote(c *gin.Context) {
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

	var req CreateNoteRequest
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

	var subject models.Subject
	if err := db.First(&subject, req.Subject).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SUBJECT_NOT_FOUND",
				"message": "Subject not found",
			},
		})
		return
	}

	isFree := true
	if req.IsFree != nil {
		isFree = *req.IsFree
	}

	note := models.Note{
		SellerID:    account.ID,
		SubjectID:   subject.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Semester:    req.Semester,
		Year:        req.Year,
		Tags:        req.Tags,
		ContactInfo: req.ContactInfo,
		IsFree:      isFree,
	}

	if err := db.Create(&note).Error; err != nil {
		log.Printf("Note creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create note",
			},
		})
		return
	}

	// Reload with relationships so the payload carries seller/subject names
	if err := db.Preload("Seller").Preload("Subject").First(&note, "id = ?", note.ID).Error; err != nil {
		log.Printf("Failed to load created note: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load note details",
			},
		})
		return
	}

	queryService := services.NewNoteQueryService(db)
	payloads, err := queryService.Annotate([]models.Note{note}, account.ID)
	if err != nil {
		log.Printf("Failed to serialize created note: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load note details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    payloads[0],
	})
}

// UploadNoteFile handles POST /api/v1/notes/:id/file - attaches a PDF or PNG
// to a note owned by the caller
func UploadNoteFile(c *gin.Context) {
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

	if note.SellerID != account.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the seller can upload a file for this note",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A file is required",
			},
		})
		return
	}

	if err := utils.ValidateNoteFile(fileHeader); err != nil {
		uploadErr := err.(*utils.FileUploadError)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	}

	s3Service := services.GetS3Service()
	if s3Service == nil {
		log.Printf("S3 service not initialized")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "File storage is not available",
			},
		})
		return
	}

	// Replace any previous attachment
	oldKey := note.FileS3Key

	s3Key, err := s3Service.UploadFile(fileHeader)
	if err != nil {
		log.Printf("Note file upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": "Failed to upload file",
			},
		})
		return
	}

	if err := db.Model(&note).Update("file_s3_key", s3Key).Error; err != nil {
		log.Printf("Failed to save note file key: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save file reference",
			},
		})
		return
	}

	if oldKey != nil {
		if err := s3Service.DeleteFile(*oldKey); err != nil {
			log.Printf("warning: failed to delete previous attachment %s: %v", *oldKey, err)
		}
	}

	fileURL, err := s3Service.GetPresignedURL(s3Key)
	if err != nil {
		log.Printf("warning: failed to presign attachment URL: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"note_id":  note.ID,
			"file_url": fileURL,
		},
	})
}

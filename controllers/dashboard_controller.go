package controllers

import (
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/noteshub/noteshub-api/config"
	"github.com/noteshub/noteshub-api/middleware"
	"github.com/noteshub/noteshub-api/models"
	"github.com/noteshub/noteshub-api/services"
)

// ActivityEntry is one row in the dashboard activity feed
type ActivityEntry struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// PopularSubject is one row in the analytics popular-subject ranking
type PopularSubject struct {
	SubjectName string `json:"subject_name"`
	Count       int64  `json:"count"`
}

// DashboardStats handles GET /api/v1/dashboard/stats
func DashboardStats(c *gin.Context) {
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

	var totalNotes int64
	if err := db.Model(&models.Note{}).Where("seller_id = ?", account.ID).Count(&totalNotes).Error; err != nil {
		log.Printf("Dashboard stats failed: %v", err)
		respondStatsError(c)
		return
	}

	// Total sales comes from completed orders
	var totalSales float64
	if err := db.Model(&models.Order{}).
		Where("seller_id = ? AND status = ?", account.ID, models.OrderStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalSales).Error; err != nil {
		log.Printf("Dashboard stats failed: %v", err)
		respondStatsError(c)
		return
	}

	var wishlistCount int64
	if err := db.Model(&models.WishlistItem{}).Where("user_id = ?", account.ID).Count(&wishlistCount).Error; err != nil {
		log.Printf("Dashboard stats failed: %v", err)
		respondStatsError(c)
		return
	}

	var avgRating float64
	if err := db.Model(&models.Review{}).
		Where("seller_id = ?", account.ID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating).Error; err != nil {
		log.Printf("Dashboard stats failed: %v", err)
		respondStatsError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_notes":    totalNotes,
		"total_sales":    totalSales,
		"wishlist_count": wishlistCount,
		"rating":         services.RoundRating(avgRating),
	})
}

func respondStatsError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to load dashboard stats",
		},
	})
}

// DashboardActivity handles GET /api/v1/dashboard/activity - merges the
// viewer's 5 newest notes and 5 newest wishlist additions into a single
// descending feed of at most 10 entries
func DashboardActivity(c *gin.Context) {
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

	var recentNotes []models.Note
	if err := db.Where("seller_id = ?", account.ID).
		Order("created_at DESC").
		Limit(5).
		Find(&recentNotes).Error; err != nil {
		log.Printf("Dashboard activity failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load activity",
			},
		})
		return
	}

	var recentWishlist []models.WishlistItem
	if err := db.Preload("Note").
		Where("user_id = ?", account.ID).
		Order("created_at DESC").
		Limit(5).
		Find(&recentWishlist).Error; err != nil {
		log.Printf("Dashboard activity failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load activity",
			},
		})
		return
	}

	activities := make([]ActivityEntry, 0, len(recentNotes)+len(recentWishlist))
	for _, note := range recentNotes {
		activities = append(activities, ActivityEntry{
			Type:      "note_created",
			Title:     fmt.Sprintf("Created note: %s", note.Title),
			CreatedAt: note.CreatedAt,
		})
	}
	for _, item := range recentWishlist {
		activities = append(activities, ActivityEntry{
			Type:      "wishlist_added",
			Title:     fmt.Sprintf("Added to wishlist: %s", item.Note.Title),
			CreatedAt: item.CreatedAt,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if len(activities) > 10 {
		activities = activities[:10]
	}

	c.JSON(http.StatusOK, activities)
}

// DashboardTopNotes handles GET /api/v1/dashboard/top-notes - approved notes
// with at least one review, best rated first
func DashboardTopNotes(c *gin.Context) {
	accountID, _ := middleware.GetAccountID(c)

	queryService := services.NewNoteQueryService(config.GetDB())
	topNotes, err := queryService.TopNotes(10, accountID)
	if err != nil {
		log.Printf("Dashboard top notes failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load top notes",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    topNotes,
	})
}

// Analytics handles GET /api/v1/analytics - per-seller counters over the
// trailing 30 days plus the popular-subject ranking
func Analytics(c *gin.Context) {
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

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	var recentNotes int64
	if err := db.Model(&models.Note{}).
		Where("seller_id = ? AND created_at >= ?", account.ID, thirtyDaysAgo).
		Count(&recentNotes).Error; err != nil {
		log.Printf("Analytics failed: %v", err)
		respondAnalyticsError(c)
		return
	}

	var totalViews int64
	if err := db.Model(&models.Note{}).
		Where("seller_id = ?", account.ID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&totalViews).Error; err != nil {
		log.Printf("Analytics failed: %v", err)
		respondAnalyticsError(c)
		return
	}

	var popularSubjects []PopularSubject
	if err := db.Model(&models.Note{}).
		Select("subjects.name AS subject_name, COUNT(notes.id) AS count").
		Joins("JOIN subjects ON subjects.id = notes.subject_id").
		Where("notes.seller_id = ?", account.ID).
		Group("subjects.name").
		Order("count DESC").
		Limit(5).
		Scan(&popularSubjects).Error; err != nil {
		log.Printf("Analytics failed: %v", err)
		respondAnalyticsError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recent_notes":     recentNotes,
		"total_views":      totalViews,
		"popular_subjects": popularSubjects,
	})
}

func respondAnalyticsError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to load analytics",
		},
	})
}

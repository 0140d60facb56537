package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/noteshub/noteshub-api/config"
	"github.com/noteshub/noteshub-api/middleware"
	"github.com/noteshub/noteshub-api/models"
	"gorm.io/gorm"
)

// CreateOrderRequest represents the request body for placing an order
type CreateOrderRequest struct {
	NoteID        string `json:"note_id" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

// OrderResponse is the serialized order with names denormalized
type OrderResponse struct {
	ID            uuid.UUID  `json:"id"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method"`
	TransactionID string     `json:"transaction_id"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	BuyerName     string     `json:"buyer_name"`
	SellerName    string     `json:"seller_name"`
	NoteTitle     string     `json:"note_title"`
}

func orderResponse(order models.Order) OrderResponse {
	return OrderResponse{
		ID:            order.ID,
		Amount:        order.Amount,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		TransactionID: order.TransactionID,
		CreatedAt:     order.CreatedAt,
		CompletedAt:   order.CompletedAt,
		BuyerName:     order.Buyer.Name,
		SellerName:    order.Seller.Name,
		NoteTitle:     order.Note.Title,
	}
}

// CreateOrder handles POST /api/v1/orders/create - places a pending order for
// an approved note. The amount is fixed at order time from the note's price.
func CreateOrder(c *gin.Context) {
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

	var req CreateOrderRequest
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
	if err := db.First(&note, "id = ? AND is_approved = ?", noteID, true).Error; err != nil {
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
				"message": "You cannot order your own note",
			},
		})
		return
	}

	amount := note.Price
	if note.IsFree {
		amount = 0
	}

	order := models.Order{
		BuyerID:       account.ID,
		SellerID:      note.SellerID,
		NoteID:        note.ID,
		Amount:        amount,
		Status:        models.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
	}

	if err := db.Create(&order).Error; err != nil {
		log.Printf("Order creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	if err := db.Preload("Buyer").Preload("Seller").Preload("Note").First(&order, "id = ?", order.ID).Error; err != nil {
		log.Printf("Failed to load created order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    orderResponse(order),
	})
}

// ListMyOrders handles GET /api/v1/orders - orders where the viewer is buyer
// or seller, newest first
func ListMyOrders(c *gin.Context) {
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

	var orders []models.Order
	if err := db.
		Preload("Buyer").
		Preload("Seller").
		Preload("Note").
		Where("buyer_id = ? OR seller_id = ?", account.ID, account.ID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		log.Printf("Order listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, orderResponse(order))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    responses,
	})
}

// CompleteOrder handles POST /api/v1/orders/:id/complete - the seller marks a
// pending order as paid. Profile sale/purchase counters move in the same
// transaction as the status change.
func CompleteOrder(c *gin.Context) {
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

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order ID",
			},
		})
		return
	}

	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, "id = ? AND seller_id = ?", orderID, account.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if order.Status != models.OrderStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Only pending orders can be completed",
			},
		})
		return
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"status":       models.OrderStatusCompleted,
			"completed_at": &now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Profile{}).
			Where("account_id = ?", order.SellerID).
			Update("total_sales", gorm.Expr("total_sales + 1")).Error; err != nil {
			return err
		}

		return tx.Model(&models.Profile{}).
			Where("account_id = ?", order.BuyerID).
			Update("total_purchases", gorm.Expr("total_purchases + 1")).Error
	})
	if err != nil {
		log.Printf("Order completion failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to complete order",
			},
		})
		return
	}

	if err := db.Preload("Buyer").Preload("Seller").Preload("Note").First(&order, "id = ?", order.ID).Error; err != nil {
		log.Printf("Failed to load completed order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orderResponse(order),
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - buyer or seller cancels
// a pending order
func CancelOrder(c *gin.Context) {
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

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order ID",
			},
		})
		return
	}

	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, "id = ? AND (buyer_id = ? OR seller_id = ?)", orderID, account.ID, account.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if order.Status != models.OrderStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Only pending orders can be cancelled",
			},
		})
		return
	}

	if err := db.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
		log.Printf("Order cancellation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to cancel order",
			},
		})
		return
	}

	if err := db.Preload("Buyer").Preload("Seller").Preload("Note").First(&order, "id = ?", order.ID).Error; err != nil {
		log.Printf("Failed to load cancelled order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orderResponse(order),
	})
}

package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eduplatform/store"
	"eduplatform/workflow"
)

type broadcastRequest struct {
	Title      string `json:"title" binding:"required"`
	Message    string `json:"message" binding:"required"`
	TelegramID int64  `json:"telegram_id"`
}

// Broadcast sends a notification to one student or to everyone
func Broadcast(c *gin.Context) {
	engine := c.MustGet("engine").(*workflow.Engine)

	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	sent, err := engine.Broadcast(req.Title, req.Message, req.TelegramID)
	if err != nil {
		if errors.Is(err, workflow.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
		log.Printf("Error broadcasting: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error sending broadcast"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Broadcast sent", "sent": sent})
}

// GetNotifications returns the most recent notification audit records
func GetNotifications(c *gin.Context) {
	st := c.MustGet("store").(*store.Store)

	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	notifications, err := st.ListNotifications(limit)
	if err != nil {
		log.Printf("Error fetching notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "count": len(notifications)})
}

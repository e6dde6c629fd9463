package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eduplatform/models"
	"eduplatform/store"
	"eduplatform/workflow"
)

// GetPendingEnrollments returns enrollment requests awaiting a decision,
// oldest first
func GetPendingEnrollments(c *gin.Context) {
	st := c.MustGet("store").(*store.Store)

	enrollments, err := st.ListPendingEnrollments()
	if err != nil {
		log.Printf("Error fetching pending enrollments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching enrollments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments, "count": len(enrollments)})
}

type decisionRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	ItemType   string `json:"item_type" binding:"required,oneof=course material"`
	ItemID     string `json:"item_id" binding:"required"`
}

// ApproveEnrollment approves a pending enrollment request
func ApproveEnrollment(c *gin.Context) {
	decideEnrollment(c, models.StatusApproved)
}

// RejectEnrollment rejects a pending enrollment request
func RejectEnrollment(c *gin.Context) {
	decideEnrollment(c, models.StatusRejected)
}

func decideEnrollment(c *gin.Context, decision models.ApprovalStatus) {
	engine := c.MustGet("engine").(*workflow.Engine)

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	decidedBy := c.GetString("username")
	err := engine.DecideEnrollment(req.TelegramID, models.ItemType(req.ItemType), req.ItemID, decision, decidedBy)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		case errors.Is(err, workflow.ErrEnrollmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending enrollment found"})
		default:
			log.Printf("Error deciding enrollment: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing decision"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Enrollment " + string(decision)})
}

// GetStudentEnrollments returns one student's enrollments
func GetStudentEnrollments(c *gin.Context) {
	st := c.MustGet("store").(*store.Store)

	telegramID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student id"})
		return
	}

	enrollments, err := st.ListUserEnrollments(telegramID)
	if err != nil {
		log.Printf("Error fetching enrollments for %d: %v", telegramID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching enrollments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments, "count": len(enrollments)})
}

package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eduplatform/store"
)

// GetDashboardStats returns headline counts for the admin dashboard
func GetDashboardStats(c *gin.Context) {
	st := c.MustGet("store").(*store.Store)

	users, err := st.CountUsers()
	if err != nil {
		log.Printf("Error counting users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching stats"})
		return
	}

	pending, err := st.CountPendingEnrollments()
	if err != nil {
		log.Printf("Error counting pending enrollments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_students":    users,
		"pending_approvals": pending,
	})
}

// GetStudents returns all registered students
func GetStudents(c *gin.Context) {
	st := c.MustGet("store").(*store.Store)

	users, err := st.ListUsers()
	if err != nil {
		log.Printf("Error fetching students: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching students"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"students": users, "count": len(users)})
}

// GetStudent returns one student with their enrollments and submissions
func GetStudent(c *gin.Context) {
	st := c.MustGet("store").(*store.Store)

	telegramID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student id"})
		return
	}

	user, err := st.GetUser(telegramID)
	if err != nil {
		log.Printf("Error fetching student %d: %v", telegramID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching student"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	enrollments, err := st.ListUserEnrollments(telegramID)
	if err != nil {
		log.Printf("Error fetching enrollments for %d: %v", telegramID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching student"})
		return
	}

	submissions, err := st.ListUserSubmissions(telegramID)
	if err != nil {
		log.Printf("Error fetching submissions for %d: %v", telegramID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching student"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"student":     user,
		"enrollments": enrollments,
		"submissions": submissions,
	})
}

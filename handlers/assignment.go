package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eduplatform/models"
	"eduplatform/store"
	"eduplatform/workflow"
)

// CreateAssignment creates a new assignment for a course or material
func CreateAssignment(c *gin.Context) {
	engine := c.MustGet("engine").(*workflow.Engine)

	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deadline, expected RFC3339"})
		return
	}
	if req.PassGrade > req.MaxGrade {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pass grade cannot exceed max grade"})
		return
	}

	assignment := &models.Assignment{
		AssignmentID: req.AssignmentID,
		ItemType:     models.ItemType(req.ItemType),
		ItemID:       req.ItemID,
		Title:        req.Title,
		Description:  req.Description,
		Questions:    req.Questions,
		FileID:       req.FileID,
		Deadline:     deadline,
		MaxGrade:     req.MaxGrade,
		PassGrade:    req.PassGrade,
	}

	if err := engine.CreateAssignment(assignment); err != nil {
		if errors.Is(err, workflow.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course or material not found"})
			return
		}
		log.Printf("Error creating assignment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating assignment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Assignment created", "assignment": assignment})
}

// GetAssignments returns all assignments with their submission counts
func GetAssignments(c *gin.Context) {
	st := c.MustGet("store").(*store.Store)

	assignments, err := st.ListAssignments()
	if err != nil {
		log.Printf("Error fetching assignments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching assignments"})
		return
	}

	type assignmentSummary struct {
		models.Assignment
		SubmissionCount int `json:"submission_count"`
		GradedCount     int `json:"graded_count"`
	}

	summaries := make([]assignmentSummary, 0, len(assignments))
	for _, a := range assignments {
		submissions, err := st.ListSubmissions(a.AssignmentID)
		if err != nil {
			log.Printf("Error fetching submissions for %s: %v", a.AssignmentID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching assignments"})
			return
		}
		graded := 0
		for _, s := range submissions {
			if s.Status == models.SubmissionGraded {
				graded++
			}
		}
		summaries = append(summaries, assignmentSummary{
			Assignment:      a,
			SubmissionCount: len(submissions),
			GradedCount:     graded,
		})
	}

	c.JSON(http.StatusOK, gin.H{"assignments": summaries, "count": len(summaries)})
}

// GetSubmissions returns all submissions for one assignment
func GetSubmissions(c *gin.Context) {
	st := c.MustGet("store").(*store.Store)

	assignmentID := c.Param("id")
	assignment, err := st.GetAssignment(assignmentID)
	if err != nil {
		log.Printf("Error fetching assignment %s: %v", assignmentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching submissions"})
		return
	}
	if assignment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}

	submissions, err := st.ListSubmissions(assignmentID)
	if err != nil {
		log.Printf("Error fetching submissions for %s: %v", assignmentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assignment":  assignment,
		"submissions": submissions,
		"count":       len(submissions),
	})
}

// GradeSubmission records a grade and feedback for a submission
func GradeSubmission(c *gin.Context) {
	engine := c.MustGet("engine").(*workflow.Engine)

	var req models.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	gradedBy := c.GetString("username")
	err := engine.GradeSubmission(req.AssignmentID, req.TelegramID, req.Grade, req.Feedback, gradedBy)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		case errors.Is(err, workflow.ErrSubmissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		case errors.Is(err, workflow.ErrInvalidGrade):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Grade out of range"})
		default:
			log.Printf("Error grading submission: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error grading submission"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission graded"})
}

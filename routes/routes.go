package routes

import (
	"github.com/gin-gonic/gin"

	"eduplatform/auth"
	"eduplatform/handlers"
)

// SetupRoutes configures the admin dashboard API
func SetupRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/login", auth.LoginHandler)

		protected := api.Group("")
		protected.Use(auth.AuthMiddleware())
		{
			protected.GET("/dashboard/stats", handlers.GetDashboardStats)

			protected.GET("/students", handlers.GetStudents)
			protected.GET("/students/:id", handlers.GetStudent)
			protected.GET("/students/:id/enrollments", handlers.GetStudentEnrollments)

			protected.GET("/enrollments/pending", handlers.GetPendingEnrollments)
			protected.POST("/enrollments/approve", handlers.ApproveEnrollment)
			protected.POST("/enrollments/reject", handlers.RejectEnrollment)

			protected.POST("/assignments", handlers.CreateAssignment)
			protected.GET("/assignments", handlers.GetAssignments)
			protected.GET("/assignments/:id/submissions", handlers.GetSubmissions)
			protected.POST("/submissions/grade", handlers.GradeSubmission)

			protected.POST("/notifications/broadcast", handlers.Broadcast)
			protected.GET("/notifications", handlers.GetNotifications)
		}
	}
}

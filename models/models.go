package models

import "time"

// ItemType distinguishes the two purchasable item kinds.
type ItemType string

const (
	ItemCourse   ItemType = "course"
	ItemMaterial ItemType = "material"
)

// ApprovalStatus is the lifecycle of an enrollment request. The string
// tags are persisted as-is and must stay stable.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// SubmissionStatus is the lifecycle of an assignment submission.
type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
)

// Notification categories
const (
	CategoryApproval = "approval"
	CategoryGrade    = "grade"
	CategoryAdmin    = "admin"
)

// CatalogItem is the common view of a purchasable item of either kind.
// Year/Semester are zero for courses.
type CatalogItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	GroupLink string `json:"group_link,omitempty"`
	Year      int    `json:"year,omitempty"`
	Semester  int    `json:"semester,omitempty"`
}

// User model
type User struct {
	TelegramID   int64     `json:"telegram_id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Enrollment is one user's claim on a course or material. Course and
// material enrollments share one table, discriminated by ItemType;
// Year and Semester are set for materials only.
type Enrollment struct {
	EnrollmentID       int            `json:"enrollment_id"`
	TelegramID         int64          `json:"telegram_id"`
	ItemType           ItemType       `json:"item_type"`
	ItemID             string         `json:"item_id"`
	Status             ApprovalStatus `json:"status"`
	PaymentMethod      string         `json:"payment_method"`
	PaymentAmount      int            `json:"payment_amount"`
	PaymentProofFileID string         `json:"payment_proof_file_id"`
	EnrolledAt         time.Time      `json:"enrolled_at"`
	ApprovedBy         *string        `json:"approved_by"`
	ApprovedAt         *time.Time     `json:"approved_at"`
	Progress           int            `json:"progress"`
	Completed          bool           `json:"completed"`
	Year               *int           `json:"year,omitempty"`
	Semester           *int           `json:"semester,omitempty"`
}

// Assignment model
type Assignment struct {
	AssignmentID string    `json:"assignment_id"`
	ItemType     ItemType  `json:"item_type"`
	ItemID       string    `json:"item_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Questions    []string  `json:"questions"`
	FileID       string    `json:"file_id,omitempty"`
	Deadline     time.Time `json:"deadline"`
	MaxGrade     int       `json:"max_grade"`
	PassGrade    int       `json:"pass_grade"`
	CreatedAt    time.Time `json:"created_at"`
}

// Submission is one student's answer to one assignment. At most one row
// per (assignment, user); resubmission overwrites in place.
type Submission struct {
	AssignmentID string           `json:"assignment_id"`
	TelegramID   int64            `json:"telegram_id"`
	FileID       string           `json:"file_id"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	Status       SubmissionStatus `json:"status"`
	Grade        *int             `json:"grade"`
	Feedback     *string          `json:"feedback"`
	GradedBy     *string          `json:"graded_by"`
	GradedAt     *time.Time       `json:"graded_at"`
}

// Notification is the append-only audit record of an outbound message.
type Notification struct {
	ID         string    `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Category   string    `json:"category"`
	RelatedID  string    `json:"related_id,omitempty"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// LoginRequest for dashboard authentication
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateAssignmentRequest for the admin authoring endpoint
type CreateAssignmentRequest struct {
	AssignmentID string   `json:"assignment_id" binding:"required"`
	ItemType     string   `json:"item_type" binding:"required,oneof=course material"`
	ItemID       string   `json:"item_id" binding:"required"`
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Questions    []string `json:"questions"`
	FileID       string   `json:"file_id"`
	Deadline     string   `json:"deadline" binding:"required"`
	MaxGrade     int      `json:"max_grade" binding:"required,gt=0"`
	PassGrade    int      `json:"pass_grade" binding:"gte=0"`
}

// GradeRequest represents the request body for grading a submission
type GradeRequest struct {
	AssignmentID string `json:"assignment_id" binding:"required"`
	TelegramID   int64  `json:"telegram_id" binding:"required"`
	Grade        int    `json:"grade"`
	Feedback     string `json:"feedback"`
}

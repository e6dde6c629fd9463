package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"eduplatform/models"
)

func scanAssignment(row interface{ Scan(...interface{}) error }) (*models.Assignment, error) {
	var a models.Assignment
	var description, questions sql.NullString
	err := row.Scan(
		&a.AssignmentID, &a.ItemType, &a.ItemID, &a.Title, &description, &questions,
		&a.FileID, &a.Deadline, &a.MaxGrade, &a.PassGrade, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Description = description.String
	if questions.Valid && questions.String != "" {
		if err := json.Unmarshal([]byte(questions.String), &a.Questions); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

// GetAssignment fetches an assignment by id. Returns (nil, nil) when no
// such assignment exists.
func (s *Store) GetAssignment(assignmentID string) (*models.Assignment, error) {
	row := s.db.QueryRow(`
		SELECT assignment_id, item_type, item_id, title, description, questions,
			file_id, deadline, max_grade, pass_grade, created_at
		FROM assignments WHERE assignment_id = ?`, assignmentID)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// CreateAssignment inserts a new assignment definition.
func (s *Store) CreateAssignment(a *models.Assignment) error {
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO assignments
			(assignment_id, item_type, item_id, title, description, questions,
			 file_id, deadline, max_grade, pass_grade, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.AssignmentID, a.ItemType, a.ItemID, a.Title, a.Description, string(questions),
		a.FileID, a.Deadline, a.MaxGrade, a.PassGrade, a.CreatedAt)
	return err
}

// ListAssignments returns every assignment, newest first.
func (s *Store) ListAssignments() ([]models.Assignment, error) {
	rows, err := s.db.Query(`
		SELECT assignment_id, item_type, item_id, title, description, questions,
			file_id, deadline, max_grade, pass_grade, created_at
		FROM assignments ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// ListAssignmentsByItem returns the assignments attached to one course
// or material.
func (s *Store) ListAssignmentsByItem(itemType models.ItemType, itemID string) ([]models.Assignment, error) {
	rows, err := s.db.Query(`
		SELECT assignment_id, item_type, item_id, title, description, questions,
			file_id, deadline, max_grade, pass_grade, created_at
		FROM assignments WHERE item_type = ? AND item_id = ? ORDER BY created_at ASC`,
		itemType, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

func scanSubmission(row interface{ Scan(...interface{}) error }) (*models.Submission, error) {
	var sub models.Submission
	var grade sql.NullInt64
	var feedback, gradedBy sql.NullString
	var gradedAt sql.NullTime
	err := row.Scan(
		&sub.AssignmentID, &sub.TelegramID, &sub.FileID, &sub.SubmittedAt,
		&sub.Status, &grade, &feedback, &gradedBy, &gradedAt,
	)
	if err != nil {
		return nil, err
	}
	if grade.Valid {
		g := int(grade.Int64)
		sub.Grade = &g
	}
	if feedback.Valid {
		sub.Feedback = &feedback.String
	}
	if gradedBy.Valid {
		sub.GradedBy = &gradedBy.String
	}
	if gradedAt.Valid {
		t := gradedAt.Time
		sub.GradedAt = &t
	}
	return &sub, nil
}

// GetSubmission fetches one student's submission for an assignment.
// Returns (nil, nil) when none exists.
func (s *Store) GetSubmission(assignmentID string, telegramID int64) (*models.Submission, error) {
	row := s.db.QueryRow(`
		SELECT assignment_id, telegram_id, file_id, submitted_at, status,
			grade, feedback, graded_by, graded_at
		FROM submissions WHERE assignment_id = ? AND telegram_id = ?`,
		assignmentID, telegramID)
	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return sub, err
}

// ListSubmissions returns all submissions for an assignment, newest
// first.
func (s *Store) ListSubmissions(assignmentID string) ([]models.Submission, error) {
	rows, err := s.db.Query(`
		SELECT assignment_id, telegram_id, file_id, submitted_at, status,
			grade, feedback, graded_by, graded_at
		FROM submissions WHERE assignment_id = ? ORDER BY submitted_at DESC`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *sub)
	}
	return submissions, rows.Err()
}

// ListUserSubmissions returns all of one student's submissions.
func (s *Store) ListUserSubmissions(telegramID int64) ([]models.Submission, error) {
	rows, err := s.db.Query(`
		SELECT assignment_id, telegram_id, file_id, submitted_at, status,
			grade, feedback, graded_by, graded_at
		FROM submissions WHERE telegram_id = ? ORDER BY submitted_at DESC`, telegramID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *sub)
	}
	return submissions, rows.Err()
}

// UpsertSubmission inserts a submission or overwrites the existing one
// for the same (assignment, user): content replaced, status reset,
// grade and feedback cleared. The composite primary key keeps the
// record unique.
func (s *Store) UpsertSubmission(sub *models.Submission) error {
	_, err := s.db.Exec(`
		INSERT INTO submissions (assignment_id, telegram_id, file_id, submitted_at, status)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			file_id = VALUES(file_id),
			submitted_at = VALUES(submitted_at),
			status = VALUES(status),
			grade = NULL,
			feedback = NULL,
			graded_by = NULL,
			graded_at = NULL`,
		sub.AssignmentID, sub.TelegramID, sub.FileID, sub.SubmittedAt, sub.Status)
	return err
}

// GradeSubmission records the grade and marks the submission graded.
// Returns false when no submission row exists to grade.
func (s *Store) GradeSubmission(assignmentID string, telegramID int64, grade int, feedback, gradedBy string, gradedAt time.Time) (bool, error) {
	result, err := s.db.Exec(`
		UPDATE submissions
		SET grade = ?, feedback = ?, graded_by = ?, graded_at = ?, status = ?
		WHERE assignment_id = ? AND telegram_id = ?`,
		grade, feedback, gradedBy, gradedAt, models.SubmissionGraded,
		assignmentID, telegramID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

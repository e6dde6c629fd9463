package store

import (
	"database/sql"
	"time"

	"eduplatform/models"
)

const enrollmentColumns = `enrollment_id, telegram_id, item_type, item_id, status,
	payment_method, payment_amount, payment_proof_file_id, enrolled_at,
	approved_by, approved_at, progress, completed, year, semester`

func scanEnrollment(row interface{ Scan(...interface{}) error }) (*models.Enrollment, error) {
	var e models.Enrollment
	var approvedBy sql.NullString
	var approvedAt sql.NullTime
	var year, semester sql.NullInt64
	err := row.Scan(
		&e.EnrollmentID, &e.TelegramID, &e.ItemType, &e.ItemID, &e.Status,
		&e.PaymentMethod, &e.PaymentAmount, &e.PaymentProofFileID, &e.EnrolledAt,
		&approvedBy, &approvedAt, &e.Progress, &e.Completed, &year, &semester,
	)
	if err != nil {
		return nil, err
	}
	if approvedBy.Valid {
		e.ApprovedBy = &approvedBy.String
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		e.ApprovedAt = &t
	}
	if year.Valid {
		y := int(year.Int64)
		e.Year = &y
	}
	if semester.Valid {
		sem := int(semester.Int64)
		e.Semester = &sem
	}
	return &e, nil
}

// GetEnrollment fetches the unique enrollment for (user, item). Returns
// (nil, nil) when none exists.
func (s *Store) GetEnrollment(telegramID int64, itemType models.ItemType, itemID string) (*models.Enrollment, error) {
	row := s.db.QueryRow(`
		SELECT `+enrollmentColumns+`
		FROM enrollments
		WHERE telegram_id = ? AND item_type = ? AND item_id = ?`,
		telegramID, itemType, itemID)
	e, err := scanEnrollment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// CreateEnrollment inserts a new pending enrollment. The UNIQUE key on
// (telegram_id, item_type, item_id) guarantees at most one record per
// user and item.
func (s *Store) CreateEnrollment(e *models.Enrollment) error {
	result, err := s.db.Exec(`
		INSERT INTO enrollments
			(telegram_id, item_type, item_id, status, payment_method, payment_amount,
			 payment_proof_file_id, enrolled_at, year, semester)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.TelegramID, e.ItemType, e.ItemID, e.Status, e.PaymentMethod, e.PaymentAmount,
		e.PaymentProofFileID, e.EnrolledAt, e.Year, e.Semester)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err == nil {
		e.EnrollmentID = int(id)
	}
	return nil
}

// ReopenEnrollment moves a rejected enrollment back to pending with the
// new payment details, in place. Returns false if the record was not
// rejected at write time.
func (s *Store) ReopenEnrollment(e *models.Enrollment) (bool, error) {
	result, err := s.db.Exec(`
		UPDATE enrollments
		SET status = ?, payment_method = ?, payment_amount = ?, payment_proof_file_id = ?,
			enrolled_at = ?, approved_by = NULL, approved_at = NULL
		WHERE telegram_id = ? AND item_type = ? AND item_id = ? AND status = ?`,
		models.StatusPending, e.PaymentMethod, e.PaymentAmount, e.PaymentProofFileID,
		e.EnrolledAt, e.TelegramID, e.ItemType, e.ItemID, models.StatusRejected)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DecideEnrollment applies an approve/reject decision as an atomic
// compare-and-set on status: the row is updated only while still
// pending. Returns false when the precondition did not hold.
func (s *Store) DecideEnrollment(telegramID int64, itemType models.ItemType, itemID string, status models.ApprovalStatus, decidedBy string, decidedAt time.Time) (bool, error) {
	result, err := s.db.Exec(`
		UPDATE enrollments
		SET status = ?, approved_by = ?, approved_at = ?
		WHERE telegram_id = ? AND item_type = ? AND item_id = ? AND status = ?`,
		status, decidedBy, decidedAt, telegramID, itemType, itemID, models.StatusPending)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListPendingEnrollments returns all enrollments awaiting a decision,
// oldest first.
func (s *Store) ListPendingEnrollments() ([]models.Enrollment, error) {
	rows, err := s.db.Query(`
		SELECT `+enrollmentColumns+`
		FROM enrollments WHERE status = ? ORDER BY enrolled_at ASC`, models.StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}

// ListUserEnrollments returns all of one user's enrollments.
func (s *Store) ListUserEnrollments(telegramID int64) ([]models.Enrollment, error) {
	rows, err := s.db.Query(`
		SELECT `+enrollmentColumns+`
		FROM enrollments WHERE telegram_id = ? ORDER BY enrolled_at ASC`, telegramID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}

// CountApprovedEnrollments returns how many users hold an approved
// enrollment on one item.
func (s *Store) CountApprovedEnrollments(itemType models.ItemType, itemID string) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM enrollments
		WHERE item_type = ? AND item_id = ? AND status = ?`,
		itemType, itemID, models.StatusApproved).Scan(&n)
	return n, err
}

// CountPendingEnrollments returns the number of enrollments awaiting a
// decision.
func (s *Store) CountPendingEnrollments() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM enrollments WHERE status = ?`, models.StatusPending).Scan(&n)
	return n, err
}

package store

import (
	"database/sql"
	"time"

	"eduplatform/models"
)

// Store persists workflow state in MySQL. Status transitions with a
// precondition are applied as conditional UPDATEs checked through
// RowsAffected, so a transition only commits if the precondition still
// holds at write time.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetUser fetches a user by telegram id. Returns (nil, nil) when no
// such user exists.
func (s *Store) GetUser(telegramID int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(`
		SELECT telegram_id, full_name, phone, email, registered_at, last_active_at
		FROM users WHERE telegram_id = ?`, telegramID).Scan(
		&u.TelegramID, &u.FullName, &u.Phone, &u.Email, &u.RegisteredAt, &u.LastActiveAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email. Returns (nil, nil) when no
// such user exists.
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(`
		SELECT telegram_id, full_name, phone, email, registered_at, last_active_at
		FROM users WHERE email = ?`, email).Scan(
		&u.TelegramID, &u.FullName, &u.Phone, &u.Email, &u.RegisteredAt, &u.LastActiveAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user.
func (s *Store) CreateUser(u *models.User) error {
	_, err := s.db.Exec(`
		INSERT INTO users (telegram_id, full_name, phone, email, registered_at, last_active_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.TelegramID, u.FullName, u.Phone, u.Email, u.RegisteredAt, u.LastActiveAt)
	return err
}

// TouchLastActive bumps the activity timestamp.
func (s *Store) TouchLastActive(telegramID int64, at time.Time) error {
	_, err := s.db.Exec(`UPDATE users SET last_active_at = ? WHERE telegram_id = ?`, at, telegramID)
	return err
}

// ListUsers returns all users, most recently registered first.
func (s *Store) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query(`
		SELECT telegram_id, full_name, phone, email, registered_at, last_active_at
		FROM users ORDER BY registered_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.TelegramID, &u.FullName, &u.Phone, &u.Email, &u.RegisteredAt, &u.LastActiveAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsers returns the total number of registered users.
func (s *Store) CountUsers() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

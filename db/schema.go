package db

import "database/sql"

// Table definitions. Enrollments and submissions are dedicated sub-record
// tables keyed by (owner, item) with UNIQUE constraints, so status
// transitions can be applied as atomic conditional updates instead of
// whole-aggregate rewrites.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		telegram_id    BIGINT PRIMARY KEY,
		full_name      VARCHAR(255) NOT NULL,
		phone          VARCHAR(32)  NOT NULL,
		email          VARCHAR(255) NOT NULL,
		registered_at  DATETIME NOT NULL,
		last_active_at DATETIME NOT NULL,
		UNIQUE KEY uq_users_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		enrollment_id         INT AUTO_INCREMENT PRIMARY KEY,
		telegram_id           BIGINT NOT NULL,
		item_type             VARCHAR(16)  NOT NULL,
		item_id               VARCHAR(64)  NOT NULL,
		status                VARCHAR(16)  NOT NULL,
		payment_method        VARCHAR(32)  NOT NULL,
		payment_amount        INT NOT NULL,
		payment_proof_file_id VARCHAR(255) NOT NULL,
		enrolled_at           DATETIME NOT NULL,
		approved_by           VARCHAR(255) NULL,
		approved_at           DATETIME NULL,
		progress              INT NOT NULL DEFAULT 0,
		completed             BOOLEAN NOT NULL DEFAULT FALSE,
		year                  INT NULL,
		semester              INT NULL,
		UNIQUE KEY uq_enrollments_user_item (telegram_id, item_type, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		assignment_id VARCHAR(64) PRIMARY KEY,
		item_type     VARCHAR(16)  NOT NULL,
		item_id       VARCHAR(64)  NOT NULL,
		title         VARCHAR(255) NOT NULL,
		description   TEXT,
		questions     TEXT,
		file_id       VARCHAR(255) NOT NULL DEFAULT '',
		deadline      DATETIME NOT NULL,
		max_grade     INT NOT NULL,
		pass_grade    INT NOT NULL,
		created_at    DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		assignment_id VARCHAR(64) NOT NULL,
		telegram_id   BIGINT NOT NULL,
		file_id       VARCHAR(255) NOT NULL,
		submitted_at  DATETIME NOT NULL,
		status        VARCHAR(16) NOT NULL,
		grade         INT NULL,
		feedback      TEXT NULL,
		graded_by     VARCHAR(255) NULL,
		graded_at     DATETIME NULL,
		PRIMARY KEY (assignment_id, telegram_id)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id          CHAR(36) PRIMARY KEY,
		telegram_id BIGINT NOT NULL,
		title       VARCHAR(255) NOT NULL,
		message     TEXT NOT NULL,
		category    VARCHAR(32) NOT NULL,
		related_id  VARCHAR(64) NOT NULL DEFAULT '',
		read_flag   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  DATETIME NOT NULL,
		KEY idx_notifications_user (telegram_id)
	)`,
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

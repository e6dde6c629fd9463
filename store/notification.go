package store

import "eduplatform/models"

// SaveNotification appends an outbound-message audit record.
func (s *Store) SaveNotification(n *models.Notification) error {
	_, err := s.db.Exec(`
		INSERT INTO notifications (id, telegram_id, title, message, category, related_id, read_flag, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.TelegramID, n.Title, n.Message, n.Category, n.RelatedID, n.Read, n.CreatedAt)
	return err
}

// ListNotifications returns the most recent audit records.
func (s *Store) ListNotifications(limit int) ([]models.Notification, error) {
	rows, err := s.db.Query(`
		SELECT id, telegram_id, title, message, category, related_id, read_flag, created_at
		FROM notifications ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.TelegramID, &n.Title, &n.Message, &n.Category, &n.RelatedID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// ListUserNotifications returns one user's audit records, newest first.
func (s *Store) ListUserNotifications(telegramID int64, limit int) ([]models.Notification, error) {
	rows, err := s.db.Query(`
		SELECT id, telegram_id, title, message, category, related_id, read_flag, created_at
		FROM notifications WHERE telegram_id = ? ORDER BY created_at DESC LIMIT ?`, telegramID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.TelegramID, &n.Title, &n.Message, &n.Category, &n.RelatedID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead flags a notification as read.
func (s *Store) MarkNotificationRead(id string) error {
	_, err := s.db.Exec(`UPDATE notifications SET read_flag = TRUE WHERE id = ?`, id)
	return err
}

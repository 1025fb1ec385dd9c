package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/internal/domain/notification"
	healthcare_errors "github.com/TahaBukhari-011/Smart-Healthcare-Appointment-System/pkg/errors"
)

type PostgresNotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) NotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

const notificationColumns = `id, user_id, type, title, message, read, metadata, created_at`

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, type, title, message, read, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Read, metadata, n.CreatedAt,
	)
	return err
}

func (r *PostgresNotificationRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		n, err := scanNotificationRow(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`,
		userID).Scan(&count)
	return count, err
}

// MarkRead flips the read flag only when the notification belongs to
// userID; otherwise the row is not matched and ErrNotFound is returned.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) (notification.Notification, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE notifications SET read = TRUE
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+notificationColumns,
		id, userID)

	var n notification.Notification
	var metadata []byte
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &metadata, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notification.Notification{}, healthcare_errors.ErrNotFound
		}
		return notification.Notification{}, err
	}
	if err := unmarshalMetadata(metadata, &n); err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`,
		userID)
	return err
}

func scanNotificationRow(rows *sql.Rows) (notification.Notification, error) {
	var n notification.Notification
	var metadata []byte
	if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &metadata, &n.CreatedAt); err != nil {
		return notification.Notification{}, err
	}
	if err := unmarshalMetadata(metadata, &n); err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

func unmarshalMetadata(raw []byte, n *notification.Notification) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, &n.Metadata)
}

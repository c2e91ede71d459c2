package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/gather/server/internal/models"
)

// NotificationRepository implements NotificationRepo for PostgreSQL/SQLite
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, user_id, sender_id, collection_id, work_id, share_id, type, message, read_at, created_at, updated_at`

func scanNotification(row interface{ Scan(...interface{}) error }) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.SenderID, &n.CollectionID, &n.WorkID, &n.ShareID,
		&n.Type, &n.Message, &n.ReadAt, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications (` + notificationColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.SenderID, n.CollectionID, n.WorkID, n.ShareID,
		n.Type, n.Message, n.ReadAt, n.CreatedAt, n.UpdatedAt,
	)
	return translateError(err)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return n, err
}

// GetForUser lists a user's notifications, newest first
func (r *NotificationRepository) GetForUser(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`, userID,
	).Scan(&count)
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read_at = $1, updated_at = $1 WHERE id = $2 AND read_at IS NULL`, at.UTC(), id)
	return err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	return r.markRead(ctx, `user_id`, userID, at)
}

func (r *NotificationRepository) MarkReadByShare(ctx context.Context, shareID string, at time.Time) (int64, error) {
	return r.markRead(ctx, `share_id`, shareID, at)
}

func (r *NotificationRepository) markRead(ctx context.Context, column, value string, at time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read_at = $1, updated_at = $1 WHERE `+column+` = $2 AND read_at IS NULL`, at.UTC(), value)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return err
}

func (r *NotificationRepository) DeleteByShare(ctx context.Context, shareID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE share_id = $1`, shareID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

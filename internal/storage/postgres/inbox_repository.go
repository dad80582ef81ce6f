package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n domain.Notification) error {
	const stmt = `
INSERT INTO notifications (id, user_id, kind, title, message, read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, stmt, n.ID, n.UserID, n.Kind, n.Title, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListNotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	const query = `
SELECT id, user_id, kind, title, message, read, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return items, nil
}

// MarkNotificationRead is scoped to the owner so one user cannot mark
// another's notifications.
func (r *NotificationRepository) MarkNotificationRead(ctx context.Context, id, userID string) error {
	const stmt = `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, stmt, id, userID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) CreateActivity(ctx context.Context, a domain.Activity) error {
	const stmt = `
INSERT INTO activities (id, user_id, action, details, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, stmt, a.ID, a.UserID, a.Action, a.Details, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	const query = `
SELECT id, user_id, action, details, created_at
FROM activities
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var items []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.Details, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return items, nil
}

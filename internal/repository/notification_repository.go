package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/directed/course-backend/internal/model"
)

// NotificationRepository handles in-app notification data access.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// ListRecentByUser returns the newest notifications of a user.
func (r *NotificationRepository) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, message, type, read, created_at
		 FROM notifications WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Notification, 0, limit)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Create inserts a single notification.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, message, type)
		 VALUES ($1, $2, $3)
		 RETURNING id, read, created_at`,
		n.UserID, n.Message, n.Type,
	).Scan(&n.ID, &n.Read, &n.CreatedAt)
}

// BulkCreate inserts all notifications with one UNNEST statement and fills
// in their generated columns. The whole batch fails on any row error.
func (r *NotificationRepository) BulkCreate(ctx context.Context, batch []model.Notification) error {
	n := len(batch)
	if n == 0 {
		return nil
	}
	userIDs := make([]uuid.UUID, n)
	messages := make([]string, n)
	types := make([]string, n)
	for i, item := range batch {
		userIDs[i] = item.UserID
		messages[i] = item.Message
		types[i] = string(item.Type)
	}

	rows, err := r.pool.Query(ctx,
		`INSERT INTO notifications (user_id, message, type)
		 SELECT u.user_id, u.message, u.type
		 FROM UNNEST($1::uuid[], $2::text[], $3::text[]) WITH ORDINALITY
		      AS u (user_id, message, type, ord)
		 ORDER BY u.ord
		 RETURNING id, read, created_at`,
		userIDs, messages, types)
	if err != nil {
		return err
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i < n {
			if err := rows.Scan(&batch[i].ID, &batch[i].Read, &batch[i].CreatedAt); err != nil {
				return err
			}
		}
		i++
	}
	return rows.Err()
}

// MarkRead flags one of the user's notifications as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

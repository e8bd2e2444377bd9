package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/directed/course-backend/internal/config"
	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/repository"
)

// ErrNotificationNotFound is returned when a notification does not exist for the user.
var ErrNotificationNotFound = errors.New("notification not found")

// RecentNotificationLimit caps GET /notifications.
const RecentNotificationLimit = 10

// NotificationStore reads and updates persisted notifications.
type NotificationStore interface {
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

// NotificationService queues notifications for the persistence worker and
// serves them back to their owners.
type NotificationService struct {
	repo NotificationStore
	rdb  *redis.Client
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo NotificationStore, rdb *redis.Client) *NotificationService {
	return &NotificationService{repo: repo, rdb: rdb}
}

// Enqueue pushes a notification onto the persistence queue.
func (s *NotificationService) Enqueue(ctx context.Context, n model.Notification) error {
	if n.Type == "" {
		n.Type = model.NotificationInfo
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return s.rdb.RPush(ctx, config.WorkerKey.PersistNotificationsQueue, raw).Err()
}

// ListRecent returns the user's most recent notifications.
func (s *NotificationService) ListRecent(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	return s.repo.ListRecentByUser(ctx, userID, RecentNotificationLimit)
}

// MarkRead flags a notification of the user as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// Subscribe opens the live channel of the user's persisted notifications.
// The caller must close the returned PubSub.
func (s *NotificationService) Subscribe(ctx context.Context, userID uuid.UUID) *redis.PubSub {
	return s.rdb.Subscribe(ctx, config.CacheKey.UserNotificationChannel(userID.String()))
}

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/directed/course-backend/internal/config"
	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/repository"
)

const (
	NotificationBatchSize    = 50
	NotificationBatchTimeout = 2 * time.Second
	NotificationPollTimeout  = 1 * time.Second
	shutdownFlushTimeout     = 5 * time.Second
)

// NotificationWriter persists notifications and fills in their IDs.
type NotificationWriter interface {
	BulkCreate(ctx context.Context, batch []model.Notification) error
	Create(ctx context.Context, n *model.Notification) error
}

// NotificationWorker drains the Redis notification queue into PostgreSQL in
// batches and publishes each stored notification on its owner's channel.
type NotificationWorker struct {
	store        NotificationWriter
	rdb          *redis.Client
	log          zerolog.Logger
	batchSize    int
	batchTimeout time.Duration
	pollTimeout  time.Duration
}

func NewNotificationWorker(store NotificationWriter, rdb *redis.Client, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		store:        store,
		rdb:          rdb,
		log:          log.With().Str("component", "notification_worker").Logger(),
		batchSize:    NotificationBatchSize,
		batchTimeout: NotificationBatchTimeout,
		pollTimeout:  NotificationPollTimeout,
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start blocks until ctx is cancelled, then flushes what it holds.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotificationWorker started")

	batch := make([]model.Notification, 0, w.batchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= w.batchSize || time.Since(lastFlush) >= w.batchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownFlushTimeout)
			w.flushSafe(flushCtx, batch)
			cancel()
			return

		default:
			item, err := w.rdb.BLPop(ctx, w.pollTimeout, config.WorkerKey.PersistNotificationsQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
					// Back off so a dead Redis does not spin the loop.
					time.Sleep(w.pollTimeout)
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var n model.Notification
			if err := json.Unmarshal([]byte(item[1]), &n); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, n)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert with per-row fallback
// ----------------------------------------------------------------

func (w *NotificationWorker) flushSafe(ctx context.Context, batch []model.Notification) {
	if len(batch) == 0 {
		return
	}

	err := w.store.BulkCreate(ctx, batch)
	if err == nil {
		w.publish(ctx, batch)
		return
	}
	w.log.Warn().Err(err).Int("size", len(batch)).Msg("Bulk notification insert failed, using fallback")

	stored := make([]model.Notification, 0, len(batch))
	for i := range batch {
		n := batch[i]
		if err := w.store.Create(ctx, &n); err != nil {
			if repository.IsConstraintViolation(err) {
				// Unknown user or bad type: retrying cannot succeed.
				w.log.Warn().Err(err).Str("user_id", n.UserID.String()).Msg("Dropping notification")
				continue
			}
			w.log.Error().Err(err).Msg("Notification insert failed, requeueing")
			w.requeue(ctx, n)
			continue
		}
		stored = append(stored, n)
	}
	w.publish(ctx, stored)
}

func (w *NotificationWorker) requeue(ctx context.Context, n model.Notification) {
	raw, err := json.Marshal(n)
	if err != nil {
		return
	}
	if err := w.rdb.RPush(ctx, config.WorkerKey.PersistNotificationsQueue, raw).Err(); err != nil {
		w.log.Error().Err(err).Msg("Requeue failed, notification lost")
	}
}

// ----------------------------------------------------------------
// Live fan-out via Redis Pub/Sub
// ----------------------------------------------------------------

func (w *NotificationWorker) publish(ctx context.Context, stored []model.Notification) {
	if len(stored) == 0 {
		return
	}
	pipe := w.rdb.Pipeline()
	for _, n := range stored {
		raw, err := json.Marshal(n)
		if err != nil {
			continue
		}
		pipe.Publish(ctx, config.CacheKey.UserNotificationChannel(n.UserID.String()), raw)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Warn().Err(err).Msg("Publishing notifications failed")
	}
}

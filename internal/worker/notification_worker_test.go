package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directed/course-backend/internal/config"
	"github.com/directed/course-backend/internal/model"
)

type fakeWriter struct {
	mu       sync.Mutex
	bulkErr  error
	rowErrs  map[string]error
	stored   []model.Notification
	bulkHits int
}

func (f *fakeWriter) BulkCreate(_ context.Context, batch []model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkHits++
	if f.bulkErr != nil {
		return f.bulkErr
	}
	for i := range batch {
		batch[i].ID = uuid.New()
		f.stored = append(f.stored, batch[i])
	}
	return nil
}

func (f *fakeWriter) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.rowErrs[n.Message]; err != nil {
		return err
	}
	n.ID = uuid.New()
	f.stored = append(f.stored, *n)
	return nil
}

func (f *fakeWriter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

func newTestWorker(t *testing.T, w *fakeWriter) (*NotificationWorker, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	nw := NewNotificationWorker(w, rdb, zerolog.Nop())
	nw.batchTimeout = 50 * time.Millisecond
	nw.pollTimeout = 50 * time.Millisecond
	return nw, mr, rdb
}

func TestFlushSafePublishesStoredNotifications(t *testing.T) {
	w := &fakeWriter{}
	nw, _, rdb := newTestWorker(t, w)
	ctx := context.Background()

	userID := uuid.New()
	ps := rdb.Subscribe(ctx, config.CacheKey.UserNotificationChannel(userID.String()))
	defer ps.Close()
	_, err := ps.Receive(ctx)
	require.NoError(t, err)

	nw.flushSafe(ctx, []model.Notification{{UserID: userID, Message: "graded", Type: model.NotificationSuccess}})

	select {
	case msg := <-ps.Channel():
		var got model.Notification
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "graded", got.Message)
		assert.NotEqual(t, uuid.Nil, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification published")
	}
	assert.Equal(t, 1, w.count())
}

func TestFlushSafeFallbackDropsAndRequeues(t *testing.T) {
	w := &fakeWriter{
		bulkErr: errors.New("bulk failed"),
		rowErrs: map[string]error{
			"orphan": &pgconn.PgError{Code: "23503"},
			"flaky":  errors.New("connection reset"),
		},
	}
	nw, mr, _ := newTestWorker(t, w)

	userID := uuid.New()
	nw.flushSafe(context.Background(), []model.Notification{
		{UserID: userID, Message: "ok", Type: model.NotificationInfo},
		{UserID: userID, Message: "orphan", Type: model.NotificationInfo},
		{UserID: userID, Message: "flaky", Type: model.NotificationInfo},
	})

	assert.Equal(t, 1, w.count())

	queued, err := mr.List(config.WorkerKey.PersistNotificationsQueue)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	var requeued model.Notification
	require.NoError(t, json.Unmarshal([]byte(queued[0]), &requeued))
	assert.Equal(t, "flaky", requeued.Message)
}

func TestStartDrainsQueueAndFlushesOnShutdown(t *testing.T) {
	w := &fakeWriter{}
	nw, _, rdb := newTestWorker(t, w)

	userID := uuid.New()
	for _, msg := range []string{"one", "two", "three"} {
		raw, err := json.Marshal(model.Notification{UserID: userID, Message: msg, Type: model.NotificationInfo})
		require.NoError(t, err)
		require.NoError(t, rdb.RPush(context.Background(), config.WorkerKey.PersistNotificationsQueue, raw).Err())
	}
	require.NoError(t, rdb.RPush(context.Background(), config.WorkerKey.PersistNotificationsQueue, "not json").Err())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		nw.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return w.count() == 3 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("worker did not stop")
	}
}

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directed/course-backend/internal/config"
	"github.com/directed/course-backend/internal/model"
)

func TestEnqueuePushesToPersistQueue(t *testing.T) {
	mr, rdb := newTestRedis(t)
	svc := NewNotificationService(nil, rdb)
	userID := uuid.New()

	require.NoError(t, svc.Enqueue(context.Background(), model.Notification{UserID: userID, Message: "hi"}))

	items, err := mr.List(config.WorkerKey.PersistNotificationsQueue)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var n model.Notification
	require.NoError(t, json.Unmarshal([]byte(items[0]), &n))
	assert.Equal(t, userID, n.UserID)
	assert.Equal(t, model.NotificationInfo, n.Type)
}

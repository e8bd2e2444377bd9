package websocket

import "github.com/directed/course-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing     Action = "ping"
	ActionMarkRead Action = "mark_read"
)

// Request is a client message. ID is the notification for mark_read.
type Request struct {
	Action Action `json:"action"`
	ID     string `json:"id,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError        Event = "error"
	EventSnapshot     Event = "snapshot"
	EventNotification Event = "notification"
	EventMarkedRead   Event = "marked_read"
	EventPong         Event = "pong"
)

// SnapshotResponse carries the most recent notifications on connect.
type SnapshotResponse struct {
	Event         Event                `json:"event"`
	Notifications []model.Notification `json:"notifications"`
}

// NotificationResponse pushes one newly persisted notification.
type NotificationResponse struct {
	Event        Event              `json:"event"`
	Notification model.Notification `json:"notification"`
}

type MarkedReadResponse struct {
	Event Event  `json:"event"`
	ID    string `json:"id"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/directed/course-backend/internal/middleware"
	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/response"
	"github.com/directed/course-backend/internal/service"
	ws "github.com/directed/course-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live notifications over WebSocket.
type WSHandler struct {
	notificationService *service.NotificationService
	log                 zerolog.Logger
	upgrader            websocket.Upgrader
	pingInterval        time.Duration
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(notificationService *service.NotificationService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		notificationService: notificationService,
		log:                 log.With().Str("component", "ws_handler").Logger(),
		upgrader:            buildUpgrader(allowedOrigins),
		pingInterval:        ws.PingInterval,
	}
}

// NotificationStream godoc
// WS /ws/v1/notifications/stream?token=...
// Sends a snapshot of recent notifications, then pushes new ones as the
// persistence worker publishes them.
func (h *WSHandler) NotificationStream(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	rawConn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.Wrap(rawConn)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsLog := h.log.With().Str("user_id", userID.String()).Logger()

	// Subscribe before the snapshot so nothing published in between is lost.
	pubsub := h.notificationService.Subscribe(ctx, userID)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Subscribe failed")
		_ = conn.WriteError("notifications unavailable")
		return
	}

	recent, err := h.notificationService.ListRecent(ctx, userID)
	if err != nil {
		wsLog.Error().Err(err).Msg("Load recent notifications failed")
		recent = []model.Notification{}
	}
	if err := conn.WriteTyped(ws.SnapshotResponse{Event: ws.EventSnapshot, Notifications: recent}); err != nil {
		return
	}

	wsLog.Info().Msg("Notification stream connected")

	go h.readLoop(ctx, cancel, conn, userID, wsLog)

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()
	messages := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Notification stream closed")
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var n model.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				wsLog.Warn().Err(err).Msg("Dropping malformed notification")
				continue
			}
			if err := conn.WriteTyped(ws.NotificationResponse{Event: ws.EventNotification, Notification: n}); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.Ping(); err != nil {
				return
			}
		}
	}
}

// readLoop handles client actions until the connection drops.
func (h *WSHandler) readLoop(ctx context.Context, cancel context.CancelFunc, conn *ws.Conn, userID uuid.UUID, wsLog zerolog.Logger) {
	defer cancel()
	for {
		var msg ws.Request
		if err := conn.ReadRequest(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			_ = conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		case ws.ActionMarkRead:
			id, err := uuid.Parse(msg.ID)
			if err != nil {
				_ = conn.WriteError("invalid notification id")
				continue
			}
			if err := h.notificationService.MarkRead(ctx, userID, id); err != nil {
				if errors.Is(err, service.ErrNotificationNotFound) {
					_ = conn.WriteError("notification not found")
				} else {
					wsLog.Error().Err(err).Msg("Mark read failed")
					_ = conn.WriteError("mark read failed")
				}
				continue
			}
			_ = conn.WriteTyped(ws.MarkedReadResponse{Event: ws.EventMarkedRead, ID: id.String()})
		default:
			_ = conn.WriteError("unknown action: " + string(msg.Action))
		}
	}
}

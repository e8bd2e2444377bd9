package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/directed/course-backend/internal/middleware"
	"github.com/directed/course-backend/internal/response"
	"github.com/directed/course-backend/internal/service"
)

// NotificationHandler handles in-app notifications.
type NotificationHandler struct {
	notificationService *service.NotificationService
	log                 zerolog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		log:                 log.With().Str("component", "notification_handler").Logger(),
	}
}

// ListNotifications godoc
// GET /api/v1/notifications
// Returns the 10 most recent notifications of the caller.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	items, err := h.notificationService.ListRecent(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.log.Error().Err(err).Msg("List notifications failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// MarkRead godoc
// PATCH /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Mark notification read failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Message(c, http.StatusOK, "Notification marked as read")
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/directed/course-backend/internal/middleware"
	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/response"
	"github.com/directed/course-backend/internal/service"
	"github.com/directed/course-backend/internal/validator"
)

// ProgressHandler handles learner progress endpoints.
type ProgressHandler struct {
	progressService *service.ProgressService
	log             zerolog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService *service.ProgressService, log zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		log:             log.With().Str("component", "progress_handler").Logger(),
	}
}

// UpdateLesson godoc
// POST /api/v1/progress/lesson
func (h *ProgressHandler) UpdateLesson(c *gin.Context) {
	var req model.UpdateLessonProgressRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.progressService.UpdateLesson(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// GetCourseProgress godoc
// GET /api/v1/progress/course/:id
func (h *ProgressHandler) GetCourseProgress(c *gin.Context) {
	p, err := h.progressService.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// RecalculateCourseProgress godoc
// PUT /api/v1/progress/course/:id
func (h *ProgressHandler) RecalculateCourseProgress(c *gin.Context) {
	p, err := h.progressService.Recalculate(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *ProgressHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrProgressNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	h.log.Error().Err(err).Msg("Progress request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

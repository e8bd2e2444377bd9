package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/response"
	"github.com/directed/course-backend/internal/service"
	"github.com/directed/course-backend/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// QuizAttemptHandler handles attempt submission and reporting.
type QuizAttemptHandler struct {
	attemptService *service.QuizAttemptService
	log            zerolog.Logger
}

// NewQuizAttemptHandler creates a new QuizAttemptHandler.
func NewQuizAttemptHandler(attemptService *service.QuizAttemptService, log zerolog.Logger) *QuizAttemptHandler {
	return &QuizAttemptHandler{
		attemptService: attemptService,
		log:            log.With().Str("component", "quiz_attempt_handler").Logger(),
	}
}

// SubmitAttempt godoc
// POST /api/v1/quiz-attempts
// Scores the answers and records the attempt.
func (h *QuizAttemptHandler) SubmitAttempt(c *gin.Context) {
	var req model.SubmitQuizAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.attemptService.SubmitAttempt(c.Request.Context(), req.QuizID, req.UserID, req.Answers)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, attempt)
}

// ListAttempts godoc
// GET /api/v1/quiz-attempts/:quizId
// Returns every attempt for the quiz, oldest first.
func (h *QuizAttemptHandler) ListAttempts(c *gin.Context) {
	attempts, err := h.attemptService.ListAttempts(c.Request.Context(), c.Param("quizId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, attempts)
}

// ExportAttempts godoc
// GET /api/v1/quiz-attempts/:quizId/export
// Downloads the quiz's attempts as an Excel workbook. Instructor only.
func (h *QuizAttemptHandler) ExportAttempts(c *gin.Context) {
	quiz, data, err := h.attemptService.ExportAttempts(c.Request.Context(), c.Param("quizId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="quiz-%s-attempts.xlsx"`, quiz.ID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *QuizAttemptHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrQuizNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
		return
	}
	h.log.Error().Err(err).Msg("Quiz attempt request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

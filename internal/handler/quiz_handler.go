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

// QuizHandler handles quiz authoring and retrieval.
type QuizHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		log:         log.With().Str("component", "quiz_handler").Logger(),
	}
}

// CreateQuiz godoc
// POST /api/v1/quizzes
// Creates a quiz for a lesson. Instructor only.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Msg("Create quiz failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, quiz)
}

// GetLessonQuiz godoc
// GET /api/v1/quizzes/:lessonId
// Returns the lesson's quiz. Correct answers are only shown to instructors.
func (h *QuizHandler) GetLessonQuiz(c *gin.Context) {
	quiz, err := h.quizService.GetByLesson(c.Request.Context(), c.Param("lessonId"))
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Get quiz failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if claims := middleware.GetClaims(c); claims != nil && claims.Role == model.RoleInstructor {
		response.Success(c, http.StatusOK, quiz)
		return
	}

	view, err := service.ForStudent(quiz)
	if err != nil {
		h.log.Error().Err(err).Msg("Build student quiz view failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, view)
}

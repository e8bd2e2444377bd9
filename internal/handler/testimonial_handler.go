package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/response"
	"github.com/directed/course-backend/internal/service"
	"github.com/directed/course-backend/internal/validator"
)

// TestimonialHandler handles public testimonials.
type TestimonialHandler struct {
	testimonialService *service.TestimonialService
	log                zerolog.Logger
}

// NewTestimonialHandler creates a new TestimonialHandler.
func NewTestimonialHandler(testimonialService *service.TestimonialService, log zerolog.Logger) *TestimonialHandler {
	return &TestimonialHandler{
		testimonialService: testimonialService,
		log:                log.With().Str("component", "testimonial_handler").Logger(),
	}
}

// CreateTestimonial godoc
// POST /api/v1/testimonials
func (h *TestimonialHandler) CreateTestimonial(c *gin.Context) {
	var req model.CreateTestimonialRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, err := h.testimonialService.Create(c.Request.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Msg("Create testimonial failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

// ListTestimonials godoc
// GET /api/v1/testimonials
func (h *TestimonialHandler) ListTestimonials(c *gin.Context) {
	items, err := h.testimonialService.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("List testimonials failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, items)
}

package service

import (
	"context"

	"github.com/directed/course-backend/internal/model"
)

// TestimonialStore persists testimonials.
type TestimonialStore interface {
	Create(ctx context.Context, t *model.Testimonial) error
	List(ctx context.Context) ([]model.Testimonial, error)
}

// TestimonialService handles public testimonials.
type TestimonialService struct {
	repo TestimonialStore
}

// NewTestimonialService creates a new TestimonialService.
func NewTestimonialService(repo TestimonialStore) *TestimonialService {
	return &TestimonialService{repo: repo}
}

// Create stores a testimonial.
func (s *TestimonialService) Create(ctx context.Context, req model.CreateTestimonialRequest) (*model.Testimonial, error) {
	t := &model.Testimonial{Name: req.Name, Role: req.Role, Review: req.Review}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns all testimonials.
func (s *TestimonialService) List(ctx context.Context) ([]model.Testimonial, error) {
	return s.repo.List(ctx)
}

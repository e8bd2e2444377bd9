package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/repository"
)

// Course errors.
var (
	ErrCourseNotFound = errors.New("course not found")
	ErrNotCourseOwner = errors.New("course belongs to another instructor")
)

// CourseStore persists courses.
type CourseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	ListPublishedPaginated(ctx context.Context, limit, offset int) ([]model.Course, int, error)
	Create(ctx context.Context, c *model.Course) error
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CourseService handles course catalogue business logic.
type CourseService struct {
	repo CourseStore
}

// NewCourseService creates a new CourseService.
func NewCourseService(repo CourseStore) *CourseService {
	return &CourseService{repo: repo}
}

// ListPublished returns one page of published courses and the total count.
func (s *CourseService) ListPublished(ctx context.Context, page, perPage int) ([]model.Course, int, error) {
	offset := (page - 1) * perPage
	return s.repo.ListPublishedPaginated(ctx, perPage, offset)
}

// GetByID returns a course.
func (s *CourseService) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return c, nil
}

// Create stores a course owned by instructorID.
func (s *CourseService) Create(ctx context.Context, instructorID uuid.UUID, req model.CreateCourseRequest) (*model.Course, error) {
	c := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: instructorID,
		Price:        req.Price,
		Published:    req.Published,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return c, nil
}

func (s *CourseService) owned(ctx context.Context, instructorID, id uuid.UUID) (*model.Course, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.InstructorID != instructorID {
		return nil, ErrNotCourseOwner
	}
	return c, nil
}

// Update applies the non-nil fields of req to a course the instructor owns.
func (s *CourseService) Update(ctx context.Context, instructorID, id uuid.UUID, req model.UpdateCourseRequest) (*model.Course, error) {
	c, err := s.owned(ctx, instructorID, id)
	if err != nil {
		return nil, err
	}
	if req.Title != "" {
		c.Title = req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Price != nil {
		c.Price = *req.Price
	}
	if req.Published != nil {
		c.Published = *req.Published
	}
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("update course: %w", err)
	}
	return c, nil
}

// Delete removes a course the instructor owns.
func (s *CourseService) Delete(ctx context.Context, instructorID, id uuid.UUID) error {
	if _, err := s.owned(ctx, instructorID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	return nil
}

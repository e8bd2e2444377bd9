package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/repository"
)

// ErrProgressNotFound is returned when a user has no progress in a course.
var ErrProgressNotFound = errors.New("progress not found")

// ProgressStore persists per-course progress records.
type ProgressStore interface {
	Get(ctx context.Context, userID uuid.UUID, courseID string) (*model.CourseProgress, error)
	Upsert(ctx context.Context, p *model.CourseProgress) error
}

// OverallProgress is the rounded mean of the lessons' progress, or 0 when
// there are no lessons.
func OverallProgress(lessons []model.LessonProgress) int {
	if len(lessons) == 0 {
		return 0
	}
	sum := 0
	for _, l := range lessons {
		sum += l.Progress
	}
	return int(math.Round(float64(sum) / float64(len(lessons))))
}

// ProgressService tracks learner progress through courses.
type ProgressService struct {
	repo ProgressStore
}

// NewProgressService creates a new ProgressService.
func NewProgressService(repo ProgressStore) *ProgressService {
	return &ProgressService{repo: repo}
}

// UpdateLesson records a lesson's state, creating the course record on first
// use, and recomputes the overall progress.
func (s *ProgressService) UpdateLesson(ctx context.Context, userID uuid.UUID, req model.UpdateLessonProgressRequest) (*model.CourseProgress, error) {
	p, err := s.repo.Get(ctx, userID, req.CourseID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("load progress: %w", err)
		}
		p = &model.CourseProgress{UserID: userID, CourseID: req.CourseID}
	}

	lesson := model.LessonProgress{
		LessonID:  req.LessonID,
		Completed: req.Completed,
	}
	if req.Progress != nil {
		lesson.Progress = *req.Progress
	}
	if req.LastWatched != nil {
		lesson.LastWatched = *req.LastWatched
	}

	replaced := false
	for i := range p.Lessons {
		if p.Lessons[i].LessonID == lesson.LessonID {
			p.Lessons[i] = lesson
			replaced = true
			break
		}
	}
	if !replaced {
		p.Lessons = append(p.Lessons, lesson)
	}
	p.OverallProgress = OverallProgress(p.Lessons)

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return p, nil
}

// Get returns the user's progress in a course.
func (s *ProgressService) Get(ctx context.Context, userID uuid.UUID, courseID string) (*model.CourseProgress, error) {
	p, err := s.repo.Get(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return p, nil
}

// Recalculate recomputes and stores the overall progress of a course record.
func (s *ProgressService) Recalculate(ctx context.Context, userID uuid.UUID, courseID string) (*model.CourseProgress, error) {
	p, err := s.Get(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	p.OverallProgress = OverallProgress(p.Lessons)
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return p, nil
}

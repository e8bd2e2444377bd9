package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/directed/course-backend/internal/model"
)

// ProgressRepository handles per-course learner progress.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// Get retrieves the progress record of a user in a course.
func (r *ProgressRepository) Get(ctx context.Context, userID uuid.UUID, courseID string) (*model.CourseProgress, error) {
	p := &model.CourseProgress{}
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, course_id, lessons, overall_progress, created_at, updated_at
		 FROM course_progress WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	).Scan(&p.ID, &p.UserID, &p.CourseID, &raw, &p.OverallProgress, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if err := json.Unmarshal(raw, &p.Lessons); err != nil {
		return nil, fmt.Errorf("unmarshal lessons: %w", err)
	}
	return p, nil
}

// Upsert inserts or replaces the progress record for (user, course).
func (r *ProgressRepository) Upsert(ctx context.Context, p *model.CourseProgress) error {
	lessons := p.Lessons
	if lessons == nil {
		lessons = []model.LessonProgress{}
	}
	raw, err := json.Marshal(lessons)
	if err != nil {
		return fmt.Errorf("marshal lessons: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO course_progress (user_id, course_id, lessons, overall_progress)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, course_id) DO UPDATE
		 SET lessons = EXCLUDED.lessons,
		     overall_progress = EXCLUDED.overall_progress,
		     updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		p.UserID, p.CourseID, raw, p.OverallProgress,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

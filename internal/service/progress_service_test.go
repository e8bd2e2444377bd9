package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/repository"
)

type progressKey struct {
	user   uuid.UUID
	course string
}

type memProgress struct {
	records map[progressKey]model.CourseProgress
}

func (m *memProgress) Get(_ context.Context, userID uuid.UUID, courseID string) (*model.CourseProgress, error) {
	p, ok := m.records[progressKey{userID, courseID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Lessons = append([]model.LessonProgress(nil), p.Lessons...)
	return &p, nil
}

func (m *memProgress) Upsert(_ context.Context, p *model.CourseProgress) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.records[progressKey{p.UserID, p.CourseID}] = *p
	return nil
}

func intPtr(n int) *int { return &n }

func TestOverallProgress(t *testing.T) {
	assert.Equal(t, 0, OverallProgress(nil))
	assert.Equal(t, 50, OverallProgress([]model.LessonProgress{{Progress: 100}, {Progress: 0}}))
	assert.Equal(t, 67, OverallProgress([]model.LessonProgress{{Progress: 100}, {Progress: 100}, {Progress: 0}}))
	assert.Equal(t, 33, OverallProgress([]model.LessonProgress{{Progress: 100}, {Progress: 0}, {Progress: 0}}))
}

func TestUpdateLessonProgress(t *testing.T) {
	repo := &memProgress{records: map[progressKey]model.CourseProgress{}}
	svc := NewProgressService(repo)
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.Get(ctx, user, "course-1")
	assert.ErrorIs(t, err, ErrProgressNotFound)

	p, err := svc.UpdateLesson(ctx, user, model.UpdateLessonProgressRequest{
		CourseID: "course-1", LessonID: "l1", Progress: intPtr(40), LastWatched: intPtr(120),
	})
	require.NoError(t, err)
	assert.Equal(t, 40, p.OverallProgress)

	p, err = svc.UpdateLesson(ctx, user, model.UpdateLessonProgressRequest{
		CourseID: "course-1", LessonID: "l2", Completed: true, Progress: intPtr(100), LastWatched: intPtr(600),
	})
	require.NoError(t, err)
	assert.Equal(t, 70, p.OverallProgress)

	// Updating an existing lesson replaces it instead of appending.
	p, err = svc.UpdateLesson(ctx, user, model.UpdateLessonProgressRequest{
		CourseID: "course-1", LessonID: "l1", Completed: true, Progress: intPtr(100), LastWatched: intPtr(300),
	})
	require.NoError(t, err)
	assert.Len(t, p.Lessons, 2)
	assert.Equal(t, 100, p.OverallProgress)

	got, err := svc.Recalculate(ctx, user, "course-1")
	require.NoError(t, err)
	assert.Equal(t, 100, got.OverallProgress)
	assert.Equal(t, 300, got.Lessons[0].LastWatched)
}

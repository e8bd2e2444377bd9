package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directed/course-backend/internal/config"
	"github.com/directed/course-backend/internal/model"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestQuizServiceCreateAndCache(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := &memQuizzes{}
	svc := NewQuizService(&config.Config{QuizCacheTTL: time.Hour}, repo, rdb, zerolog.Nop())

	q, err := svc.Create(context.Background(), model.CreateQuizRequest{
		Title:    "Basics",
		LessonID: "lesson-9",
		Questions: []model.CreateQuestionRequest{
			{Text: "1+1", Type: model.QuestionTypeShortAnswer, CorrectAnswer: "2"},
			{Text: "Go is typed", Type: model.QuestionTypeTrueFalse, CorrectAnswer: "true"},
		},
	})
	require.NoError(t, err)
	require.Len(t, q.Questions, 2)
	assert.Equal(t, "1+1", q.Questions[0].Text)

	key := config.CacheKey.QuizKey(q.ID.String())
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))
}

func TestQuizServiceGetByIDReadsThroughCache(t *testing.T) {
	_, rdb := newTestRedis(t)
	q := geographyQuiz()
	repo := &memQuizzes{quizzes: map[uuid.UUID]*model.Quiz{q.ID: q}}
	svc := NewQuizService(&config.Config{QuizCacheTTL: time.Hour}, repo, rdb, zerolog.Nop())
	ctx := context.Background()

	got, err := svc.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Questions, got.Questions)

	// Served from Redis once the store is gone.
	delete(repo.quizzes, q.ID)
	cached, err := svc.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Title, cached.Title)
	assert.Equal(t, q.Questions[2].CorrectAnswer, cached.Questions[2].CorrectAnswer)

	_, err = svc.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestQuizServiceFallsBackWhenRedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	q := geographyQuiz()
	repo := &memQuizzes{quizzes: map[uuid.UUID]*model.Quiz{q.ID: q}}
	svc := NewQuizService(&config.Config{QuizCacheTTL: time.Hour}, repo, rdb, zerolog.Nop())

	mr.Close()
	got, err := svc.GetByID(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)
}

func TestQuizServiceGetByLesson(t *testing.T) {
	q := geographyQuiz()
	repo := &memQuizzes{quizzes: map[uuid.UUID]*model.Quiz{q.ID: q}}
	svc := NewQuizService(&config.Config{}, repo, nil, zerolog.Nop())

	got, err := svc.GetByLesson(context.Background(), "lesson-1")
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)

	_, err = svc.GetByLesson(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestForStudentHidesAnswers(t *testing.T) {
	q := geographyQuiz()
	view, err := ForStudent(q)
	require.NoError(t, err)

	assert.Equal(t, q.ID, view.ID)
	assert.Equal(t, q.LessonID, view.LessonID)
	require.Len(t, view.Questions, len(q.Questions))
	for i, qs := range view.Questions {
		assert.Equal(t, q.Questions[i].ID, qs.ID)
		assert.Equal(t, q.Questions[i].Text, qs.Text)
		assert.Equal(t, q.Questions[i].Options, qs.Options)
	}

	empty, err := ForStudent(&model.Quiz{ID: uuid.New()})
	require.NoError(t, err)
	assert.NotNil(t, empty.Questions)
}

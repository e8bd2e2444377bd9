package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/directed/course-backend/internal/config"
	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/repository"
)

// ErrQuizNotFound is returned when a quiz ID matches nothing.
var ErrQuizNotFound = errors.New("quiz not found")

// QuizStore loads quizzes with their questions in stored order.
type QuizStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
}

// QuizCatalog is the full quiz persistence used by QuizService.
type QuizCatalog interface {
	QuizStore
	GetByLesson(ctx context.Context, lessonID string) (*model.Quiz, error)
	Create(ctx context.Context, q *model.Quiz) error
}

// QuizService manages quizzes and keeps a Redis read-through cache of them
// for the scoring path.
type QuizService struct {
	repo QuizCatalog
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewQuizService creates a new QuizService. rdb may be nil to disable caching.
func NewQuizService(cfg *config.Config, repo QuizCatalog, rdb *redis.Client, log zerolog.Logger) *QuizService {
	return &QuizService{
		repo: repo,
		rdb:  rdb,
		ttl:  cfg.QuizCacheTTL,
		log:  log.With().Str("component", "quiz_service").Logger(),
	}
}

// Create stores a validated quiz.
func (s *QuizService) Create(ctx context.Context, req model.CreateQuizRequest) (*model.Quiz, error) {
	q := &model.Quiz{
		LessonID:  req.LessonID,
		Title:     req.Title,
		Questions: make([]model.Question, 0, len(req.Questions)),
	}
	for _, qr := range req.Questions {
		q.Questions = append(q.Questions, model.Question{
			Text:          qr.Text,
			Type:          qr.Type,
			Options:       qr.Options,
			CorrectAnswer: qr.CorrectAnswer,
		})
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	s.cache(ctx, q)
	return q, nil
}

// GetByLesson returns the quiz attached to a lesson.
func (s *QuizService) GetByLesson(ctx context.Context, lessonID string) (*model.Quiz, error) {
	q, err := s.repo.GetByLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return q, nil
}

// GetByID returns a quiz from Redis, falling back to PostgreSQL on a miss.
// Cache failures are logged and never fail the lookup.
func (s *QuizService) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, config.CacheKey.QuizKey(id.String())).Bytes()
		switch {
		case err == nil:
			var q model.Quiz
			if jsonErr := json.Unmarshal(raw, &q); jsonErr == nil {
				return &q, nil
			}
			s.log.Warn().Str("quiz_id", id.String()).Msg("Discarding undecodable cached quiz")
		case !errors.Is(err, redis.Nil):
			s.log.Warn().Err(err).Msg("Quiz cache read failed")
		}
	}

	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	s.cache(ctx, q)
	return q, nil
}

func (s *QuizService) cache(ctx context.Context, q *model.Quiz) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.QuizKey(q.ID.String()), raw, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Quiz cache write failed")
	}
}

// ForStudent strips correct answers from a quiz.
func ForStudent(q *model.Quiz) (*model.QuizForStudent, error) {
	out := &model.QuizForStudent{}
	if err := copier.Copy(out, q); err != nil {
		return nil, fmt.Errorf("copy quiz: %w", err)
	}
	if out.Questions == nil {
		out.Questions = []model.QuestionForStudent{}
	}
	return out, nil
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/repository"
)

// AttemptStore persists and lists quiz attempts.
type AttemptStore interface {
	Create(ctx context.Context, a *model.QuizAttempt) error
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.QuizAttempt, error)
}

// NotificationEnqueuer queues an in-app notification for delivery.
type NotificationEnqueuer interface {
	Enqueue(ctx context.Context, n model.Notification) error
}

// ScoreAnswers awards one point per question whose answer matches the
// correct answer exactly. For each question only the first submitted answer
// with its ID counts; answers to unknown questions are ignored.
func ScoreAnswers(questions []model.Question, answers []model.SubmittedAnswer) int {
	score := 0
	for _, q := range questions {
		qid := q.ID.String()
		for _, a := range answers {
			if a.QuestionID != qid {
				continue
			}
			if a.Answer == q.CorrectAnswer {
				score++
			}
			break
		}
	}
	return score
}

// QuizAttemptService scores and records quiz attempts.
type QuizAttemptService struct {
	quizzes       QuizStore
	attempts      AttemptStore
	notifications NotificationEnqueuer
	log           zerolog.Logger
}

// NewQuizAttemptService creates a new QuizAttemptService. notifications may
// be nil.
func NewQuizAttemptService(quizzes QuizStore, attempts AttemptStore, notifications NotificationEnqueuer, log zerolog.Logger) *QuizAttemptService {
	return &QuizAttemptService{
		quizzes:       quizzes,
		attempts:      attempts,
		notifications: notifications,
		log:           log.With().Str("component", "quiz_attempt").Logger(),
	}
}

func (s *QuizAttemptService) loadQuiz(ctx context.Context, quizID string) (*model.Quiz, error) {
	id, err := uuid.Parse(quizID)
	if err != nil {
		return nil, ErrQuizNotFound
	}
	q, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) || errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	return q, nil
}

// SubmitAttempt scores the answers against the quiz and records exactly one
// attempt. The answers are stored as submitted.
func (s *QuizAttemptService) SubmitAttempt(ctx context.Context, quizID, userID string, answers []model.SubmittedAnswer) (*model.QuizAttempt, error) {
	q, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	stored := make([]model.SubmittedAnswer, len(answers))
	copy(stored, answers)

	a := &model.QuizAttempt{
		QuizID:  q.ID,
		UserID:  userID,
		Answers: stored,
		Score:   ScoreAnswers(q.Questions, answers),
	}
	if err := s.attempts.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	s.notifyGraded(ctx, q, a)
	return a, nil
}

// notifyGraded queues a result notification. Failures never affect the
// recorded attempt.
func (s *QuizAttemptService) notifyGraded(ctx context.Context, q *model.Quiz, a *model.QuizAttempt) {
	if s.notifications == nil {
		return
	}
	uid, err := uuid.Parse(a.UserID)
	if err != nil {
		return
	}
	n := model.Notification{
		UserID:  uid,
		Message: fmt.Sprintf("You scored %d/%d on %q.", a.Score, len(q.Questions), q.Title),
		Type:    model.NotificationSuccess,
	}
	if err := s.notifications.Enqueue(ctx, n); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", a.ID.String()).Msg("Failed to queue result notification")
	}
}

// ListAttempts returns every attempt recorded for a quiz, oldest first.
func (s *QuizAttemptService) ListAttempts(ctx context.Context, quizID string) ([]model.QuizAttempt, error) {
	id, err := uuid.Parse(quizID)
	if err != nil {
		return nil, ErrQuizNotFound
	}
	attempts, err := s.attempts.ListByQuiz(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if attempts == nil {
		attempts = []model.QuizAttempt{}
	}
	return attempts, nil
}

const attemptSheet = "Attempts"

// ExportAttempts renders the quiz's attempts as an .xlsx workbook.
func (s *QuizAttemptService) ExportAttempts(ctx context.Context, quizID string) (*model.Quiz, []byte, error) {
	q, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}
	attempts, err := s.attempts.ListByQuiz(ctx, q.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list attempts: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", attemptSheet); err != nil {
		return nil, nil, err
	}
	header := []any{"Attempt ID", "User ID", "Score", "Max Score", "Submitted At"}
	if err := f.SetSheetRow(attemptSheet, "A1", &header); err != nil {
		return nil, nil, err
	}
	maxScore := len(q.Questions)
	for i, a := range attempts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, nil, err
		}
		row := []any{a.ID.String(), a.UserID, a.Score, maxScore, a.CreatedAt.UTC().Format(time.RFC3339)}
		if err := f.SetSheetRow(attemptSheet, cell, &row); err != nil {
			return nil, nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, nil, fmt.Errorf("write workbook: %w", err)
	}
	return q, buf.Bytes(), nil
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/directed/course-backend/internal/model"
)

// QuizAttemptRepository handles attempt data access. Attempts are written
// once and never updated.
type QuizAttemptRepository struct {
	pool *pgxpool.Pool
}

// NewQuizAttemptRepository creates a new QuizAttemptRepository.
func NewQuizAttemptRepository(pool *pgxpool.Pool) *QuizAttemptRepository {
	return &QuizAttemptRepository{pool: pool}
}

// Create inserts the attempt and its answers in a single statement.
func (r *QuizAttemptRepository) Create(ctx context.Context, a *model.QuizAttempt) error {
	answers := a.Answers
	if answers == nil {
		answers = []model.SubmittedAnswer{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO quiz_attempts (quiz_id, user_id, answers, score)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		a.QuizID, a.UserID, raw, a.Score,
	).Scan(&a.ID, &a.CreatedAt)
	if IsForeignKeyViolation(err) {
		// Quiz removed between scoring and insert.
		return ErrNotFound
	}
	return err
}

// ListByQuiz returns every attempt for a quiz in creation order.
func (r *QuizAttemptRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.QuizAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, user_id, answers, score, created_at
		 FROM quiz_attempts WHERE quiz_id = $1
		 ORDER BY created_at, id`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := make([]model.QuizAttempt, 0)
	for rows.Next() {
		var (
			a   model.QuizAttempt
			raw []byte
		)
		if err := rows.Scan(&a.ID, &a.QuizID, &a.UserID, &raw, &a.Score, &a.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &a.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers of attempt %s: %w", a.ID, err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/directed/course-backend/internal/model"
)

// QuizRepository handles quiz and question data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// GetByID retrieves a quiz with its questions in stored order.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, lesson_id, title, created_at, updated_at FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.LessonID, &q.Title, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if q.Questions, err = r.listQuestions(ctx, q.ID); err != nil {
		return nil, err
	}
	return q, nil
}

// GetByLesson retrieves the most recent quiz attached to a lesson.
func (r *QuizRepository) GetByLesson(ctx context.Context, lessonID string) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, lesson_id, title, created_at, updated_at
		 FROM quizzes WHERE lesson_id = $1
		 ORDER BY created_at DESC LIMIT 1`, lessonID,
	).Scan(&q.ID, &q.LessonID, &q.Title, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if q.Questions, err = r.listQuestions(ctx, q.ID); err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuizRepository) listQuestions(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, text, type, options, correct_answer
		 FROM quiz_questions WHERE quiz_id = $1
		 ORDER BY position`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]model.Question, 0)
	for rows.Next() {
		var qs model.Question
		if err := rows.Scan(&qs.ID, &qs.Text, &qs.Type, &qs.Options, &qs.CorrectAnswer); err != nil {
			return nil, err
		}
		questions = append(questions, qs)
	}
	return questions, rows.Err()
}

// Create inserts a quiz and its questions in one transaction. Question IDs
// are assigned here.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO quizzes (lesson_id, title)
			 VALUES ($1, $2)
			 RETURNING id, created_at, updated_at`,
			q.LessonID, q.Title,
		).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
		if err != nil {
			return err
		}

		for i := range q.Questions {
			qs := &q.Questions[i]
			options := qs.Options
			if options == nil {
				options = []string{}
			}
			err := tx.QueryRow(ctx,
				`INSERT INTO quiz_questions (quiz_id, position, text, type, options, correct_answer)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 RETURNING id`,
				q.ID, i, qs.Text, qs.Type, options, qs.CorrectAnswer,
			).Scan(&qs.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

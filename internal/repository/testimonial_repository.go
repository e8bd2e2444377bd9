package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/directed/course-backend/internal/model"
)

// TestimonialRepository handles testimonial data access.
type TestimonialRepository struct {
	pool *pgxpool.Pool
}

// NewTestimonialRepository creates a new TestimonialRepository.
func NewTestimonialRepository(pool *pgxpool.Pool) *TestimonialRepository {
	return &TestimonialRepository{pool: pool}
}

// Create inserts a testimonial.
func (r *TestimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO testimonials (name, role, review)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		t.Name, t.Role, t.Review,
	).Scan(&t.ID, &t.CreatedAt)
}

// List returns all testimonials, newest first.
func (r *TestimonialRepository) List(ctx context.Context) ([]model.Testimonial, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, role, review, created_at
		 FROM testimonials ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Testimonial, 0)
	for rows.Next() {
		var t model.Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Role, &t.Review, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

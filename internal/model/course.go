package model

import (
	"time"

	"github.com/google/uuid"
)

// Course is an instructor-owned collection of lessons.
type Course struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	InstructorID uuid.UUID `json:"instructorId"`
	Price        float64   `json:"price"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=255"`
	Description string  `json:"description" binding:"omitempty,max=5000"`
	Price       float64 `json:"price" binding:"min=0"`
	Published   bool    `json:"published"`
}

// UpdateCourseRequest is the payload for updating a course.
type UpdateCourseRequest struct {
	Title       string   `json:"title" binding:"omitempty,min=3,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=5000"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Published   *bool    `json:"published"`
}

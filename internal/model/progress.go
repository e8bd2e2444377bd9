package model

import (
	"time"

	"github.com/google/uuid"
)

// LessonProgress tracks a learner's position in one lesson.
type LessonProgress struct {
	LessonID    string `json:"lessonId"`
	Completed   bool   `json:"completed"`
	Progress    int    `json:"progress"`
	LastWatched int    `json:"lastWatched"`
}

// CourseProgress aggregates lesson progress for a (user, course) pair.
type CourseProgress struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"userId"`
	CourseID        string           `json:"courseId"`
	Lessons         []LessonProgress `json:"lessons"`
	OverallProgress int              `json:"overallProgress"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// UpdateLessonProgressRequest is the payload for POST /progress/lesson.
type UpdateLessonProgressRequest struct {
	CourseID    string `json:"courseId" binding:"required,max=64"`
	LessonID    string `json:"lessonId" binding:"required,max=64"`
	Completed   bool   `json:"completed"`
	Progress    *int   `json:"progress" binding:"required,min=0,max=100"`
	LastWatched *int   `json:"lastWatched" binding:"required,min=0"`
}

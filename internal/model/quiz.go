package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType enumerates the supported question formats.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple-choice"
	QuestionTypeTrueFalse      QuestionType = "true-false"
	QuestionTypeShortAnswer    QuestionType = "short-answer"
)

// Question is a single quiz question. ID is assigned when the quiz is stored.
type Question struct {
	ID            uuid.UUID    `json:"id"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer"`
}

// Quiz is an ordered set of questions attached to a lesson.
type Quiz struct {
	ID        uuid.UUID  `json:"id"`
	LessonID  string     `json:"lessonId"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// QuestionForStudent is a question without its correct answer.
type QuestionForStudent struct {
	ID      uuid.UUID    `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
}

// QuizForStudent is the learner-facing view of a quiz.
type QuizForStudent struct {
	ID        uuid.UUID            `json:"id"`
	LessonID  string               `json:"lessonId"`
	Title     string               `json:"title"`
	Questions []QuestionForStudent `json:"questions"`
}

// CreateQuestionRequest is one question inside CreateQuizRequest.
// Type-specific rules are registered in the validator package.
type CreateQuestionRequest struct {
	Text          string       `json:"text" binding:"required,min=1,max=2000"`
	Type          QuestionType `json:"type" binding:"required,oneof=multiple-choice true-false short-answer"`
	Options       []string     `json:"options" binding:"omitempty,dive,required,max=500"`
	CorrectAnswer string       `json:"correctAnswer" binding:"required,max=500"`
}

// CreateQuizRequest is the payload for creating a quiz.
type CreateQuizRequest struct {
	Title     string                  `json:"title" binding:"required,min=1,max=255"`
	LessonID  string                  `json:"lessonId" binding:"required,max=64"`
	Questions []CreateQuestionRequest `json:"questions" binding:"omitempty,dive"`
}

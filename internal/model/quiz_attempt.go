package model

import (
	"time"

	"github.com/google/uuid"
)

// SubmittedAnswer is one (questionId, answer) pair exactly as the learner sent it.
type SubmittedAnswer struct {
	QuestionID string `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
}

// QuizAttempt is one immutable, scored submission.
type QuizAttempt struct {
	ID        uuid.UUID         `json:"id"`
	QuizID    uuid.UUID         `json:"quizId"`
	UserID    string            `json:"userId"`
	Answers   []SubmittedAnswer `json:"answers"`
	Score     int               `json:"score"`
	CreatedAt time.Time         `json:"createdAt"`
}

// SubmitQuizAttemptRequest is the payload for POST /quiz-attempts.
type SubmitQuizAttemptRequest struct {
	QuizID  string            `json:"quizId" binding:"required"`
	UserID  string            `json:"userId" binding:"required"`
	Answers []SubmittedAnswer `json:"answers" binding:"omitempty,dive"`
}

package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directed/course-backend/internal/model"
)

func TestCheckQuestion(t *testing.T) {
	tests := []struct {
		name      string
		q         model.CreateQuestionRequest
		wantField string
		wantTag   string
	}{
		{
			name:      "multiple choice without options",
			q:         model.CreateQuestionRequest{Text: "Capital?", Type: model.QuestionTypeMultipleChoice, CorrectAnswer: "Paris"},
			wantField: "options", wantTag: TagOptionsRequired,
		},
		{
			name: "multiple choice answer outside options",
			q: model.CreateQuestionRequest{
				Text: "Capital?", Type: model.QuestionTypeMultipleChoice,
				Options: []string{"Rome", "Oslo"}, CorrectAnswer: "Paris",
			},
			wantField: "correctAnswer", wantTag: TagAnswerInOptions,
		},
		{
			name: "multiple choice ok",
			q: model.CreateQuestionRequest{
				Text: "Capital?", Type: model.QuestionTypeMultipleChoice,
				Options: []string{"Paris", "Rome"}, CorrectAnswer: "Paris",
			},
		},
		{
			name:      "true false capitalised",
			q:         model.CreateQuestionRequest{Text: "Sky is blue", Type: model.QuestionTypeTrueFalse, CorrectAnswer: "True"},
			wantField: "correctAnswer", wantTag: TagTrueFalseAnswer,
		},
		{
			name: "true false ok",
			q:    model.CreateQuestionRequest{Text: "Sky is blue", Type: model.QuestionTypeTrueFalse, CorrectAnswer: "false"},
		},
		{
			name: "short answer anything goes",
			q:    model.CreateQuestionRequest{Text: "Capital?", Type: model.QuestionTypeShortAnswer, CorrectAnswer: "paris"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, tag := CheckQuestion(tt.q)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

func TestQuizRequestValidation(t *testing.T) {
	Setup()

	req := model.CreateQuizRequest{
		Title:    "Geography",
		LessonID: "lesson-1",
		Questions: []model.CreateQuestionRequest{
			{Text: "Capital?", Type: model.QuestionTypeShortAnswer, CorrectAnswer: "Paris"},
			{Text: "Pick one", Type: model.QuestionTypeMultipleChoice, CorrectAnswer: "A"},
		},
	}
	err := binding.Validator.ValidateStruct(&req)
	require.Error(t, err)

	fields := TranslateErrors(err)
	assert.Contains(t, fields, "questions[1].options")
	assert.Contains(t, fields["questions[1].options"], "multiple-choice")
	assert.NotContains(t, fields, "questions[0].options")
}

func TestSignupPasswordsMustMatch(t *testing.T) {
	Setup()

	req := model.SignupRequest{
		Name:            "Ada",
		Email:           "ada@example.com",
		Password:        "password123",
		ConfirmPassword: "password124",
	}
	err := binding.Validator.ValidateStruct(&req)
	require.Error(t, err)
	assert.Contains(t, TranslateErrors(err), "confirmPassword")
}

func TestTranslateErrorsNonValidation(t *testing.T) {
	fields := TranslateErrors(assert.AnError)
	assert.Equal(t, assert.AnError.Error(), fields["detail"])
}

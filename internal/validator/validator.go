package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/directed/course-backend/internal/model"
)

// Custom tags reported by the question struct validation.
const (
	TagOptionsRequired = "mc_options"
	TagTrueFalseAnswer = "tf_answer"
	TagAnswerInOptions = "answer_in_options"
)

var (
	// trans is the singleton English translator for validation errors.
	trans     ut.Translator
	setupOnce sync.Once
)

// Setup registers the validator with English translations on Gin's binding engine.
// Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}
		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		v.RegisterStructValidation(questionStructLevel, model.CreateQuestionRequest{})
		registerMessage(v, TagOptionsRequired, "{0} must not be empty for multiple-choice questions")
		registerMessage(v, TagTrueFalseAnswer, "{0} must be \"true\" or \"false\" for true-false questions")
		registerMessage(v, TagAnswerInOptions, "{0} must be one of the options")
	})
}

func registerMessage(v *govalidator.Validate, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error { return ut.Add(tag, text, true) },
		func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// CheckQuestion applies the type-specific question rules. It returns the
// offending JSON field and tag, or empty strings when the question is valid.
func CheckQuestion(q model.CreateQuestionRequest) (field, tag string) {
	switch q.Type {
	case model.QuestionTypeMultipleChoice:
		if len(q.Options) == 0 {
			return "options", TagOptionsRequired
		}
		for _, o := range q.Options {
			if o == q.CorrectAnswer {
				return "", ""
			}
		}
		return "correctAnswer", TagAnswerInOptions
	case model.QuestionTypeTrueFalse:
		if q.CorrectAnswer != "true" && q.CorrectAnswer != "false" {
			return "correctAnswer", TagTrueFalseAnswer
		}
	}
	return "", ""
}

func questionStructLevel(sl govalidator.StructLevel) {
	q, ok := sl.Current().Interface().(model.CreateQuestionRequest)
	if !ok {
		return
	}
	field, tag := CheckQuestion(q)
	switch field {
	case "options":
		sl.ReportError(q.Options, "options", "Options", tag, "")
	case "correctAnswer":
		sl.ReportError(q.CorrectAnswer, "correctAnswer", "CorrectAnswer", tag, "")
	}
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldKey(fe)] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// fieldKey keeps element indexes for nested fields, so that
// "questions[1].options" does not collide with "questions[0].options".
func fieldKey(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst any) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/breadlab/breadquiz/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const (
	tagQuestionRange = "question_range"
	tagOptionRange   = "option_range"
)

var (
	// trans is the singleton English translator for validation errors.
	trans ut.Translator
	once  sync.Once
)

// Setup registers the validator with English translations on Gin's binding
// engine, plus range checks of answer payloads against questions. Only the
// first call has any effect.
func Setup(questions []model.Question) {
	once.Do(func() {
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

		v.RegisterStructValidation(selectAnswerValidation(questions), model.SelectAnswerRequest{})
		registerMessage(v, tagQuestionRange, "{0} must refer to an existing question")
		registerMessage(v, tagOptionRange, "{0} must refer to an option of the chosen question")
	})
}

// selectAnswerValidation checks that question and option index into questions.
func selectAnswerValidation(questions []model.Question) govalidator.StructLevelFunc {
	return func(sl govalidator.StructLevel) {
		req := sl.Current().Interface().(model.SelectAnswerRequest)
		if req.Question == nil {
			return
		}
		q := *req.Question
		if q < 0 || q >= len(questions) {
			sl.ReportError(req.Question, "question", "Question", tagQuestionRange, "")
			return
		}
		if req.Option == nil {
			return
		}
		if o := *req.Option; o < 0 || o >= len(questions[q].Options) {
			sl.ReportError(req.Option, "option", "Option", tagOptionRange, "")
		}
	}
}

func registerMessage(v *govalidator.Validate, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(u ut.Translator) error {
			return u.Add(tag, text, true)
		},
		func(u ut.Translator, fe govalidator.FieldError) string {
			msg, _ := u.T(tag, fe.Field())
			return msg
		},
	)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) && trans != nil {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// Struct validates an already decoded value, such as a WebSocket payload.
func Struct(dst interface{}) map[string]string {
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

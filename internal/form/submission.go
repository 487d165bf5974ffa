package form

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"sort"
	"strings"
	"sync"

	"pentacore/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	// ErrInvalidSubmission - форма не прошла проверку.
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrMissingPrompt - не задан ни свой промпт, ни тема.
	ErrMissingPrompt = fmt.Errorf("%w: either a custom prompt or a theme is required", ErrInvalidSubmission)
)

// Submission - данные формы генерации в том виде, в каком их присылает клиент.
type Submission struct {
	ContentKind  string `json:"writingType" yaml:"writing_type" validate:"required,content_kind"`
	CustomPrompt string `json:"customPrompt" yaml:"custom_prompt" validate:"max=2000"`
	Theme        string `json:"theme" yaml:"theme" validate:"omitempty,theme"`
	Tone         string `json:"tone" yaml:"tone" validate:"required,tone"`
	Length       string `json:"length" yaml:"length" validate:"max=50"`
	WritingStyle string `json:"writingStyle" yaml:"writing_style" validate:"max=200"`
	PointOfView  string `json:"pointOfView" yaml:"point_of_view" validate:"omitempty,point_of_view"`
	Setting      string `json:"setting" yaml:"setting" validate:"max=500"`
	Characters   string `json:"characters" yaml:"characters" validate:"max=500"`
}

// Defaults возвращает начальное состояние формы.
func Defaults() Submission {
	return Submission{
		ContentKind: string(model.ContentKindStory),
		Theme:       string(model.ThemeAdventure),
		Tone:        string(model.ToneFunny),
		PointOfView: string(model.PointOfViewThirdPersonLimited),
	}
}

// ValidationError перечисляет поля, не прошедшие проверку.
type ValidationError struct {
	Fields map[string]string // json имя поля -> правило
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" ("+e.Fields[name]+")")
	}
	return fmt.Sprintf("%s: %s", ErrInvalidSubmission.Error(), strings.Join(parts, ", "))
}

// promptSourceTag - правило "свой промпт или тема", сообщается на поле customPrompt.
const promptSourceTag = "prompt_source"

// MissingPrompt сообщает, что среди ошибок есть отсутствующий источник темы.
func (e *ValidationError) MissingPrompt() bool {
	for _, tag := range e.Fields {
		if tag == promptSourceTag {
			return true
		}
	}
	return false
}

func (e *ValidationError) Unwrap() error {
	if e.MissingPrompt() {
		return ErrMissingPrompt
	}
	return ErrInvalidSubmission
}

var (
	validateOnce sync.Once
	validate     *validator.Validate

	sanitizeOnce   sync.Once
	sanitizePolicy *bluemonday.Policy
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("content_kind", func(fl validator.FieldLevel) bool {
			return model.ContentKind(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("tone", func(fl validator.FieldLevel) bool {
			return model.Tone(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
			return model.Theme(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("point_of_view", func(fl validator.FieldLevel) bool {
			return model.PointOfView(fl.Field().String()).Valid()
		})
		v.RegisterStructValidation(promptSourceRule, Submission{})
		validate = v
	})
	return validate
}

// promptSourceRule - единственное условие допустимости формы: свой промпт или тема.
func promptSourceRule(sl validator.StructLevel) {
	s := sl.Current().Interface().(Submission)
	if s.CustomPrompt == "" && s.Theme == "" {
		sl.ReportError(s.CustomPrompt, "customPrompt", "CustomPrompt", promptSourceTag, "")
	}
}

// sanitize убирает разметку и лишние пробелы из свободного текста.
func sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	sanitizeOnce.Do(func() {
		sanitizePolicy = bluemonday.StrictPolicy()
	})
	// StrictPolicy экранирует спецсимволы, в промпт они должны попасть как есть
	return strings.TrimSpace(html.UnescapeString(sanitizePolicy.Sanitize(trimmed)))
}

// Normalize очищает свободные поля и обрезает пробелы в значениях перечислений.
func (s Submission) Normalize() Submission {
	s.ContentKind = strings.TrimSpace(s.ContentKind)
	s.Theme = strings.TrimSpace(s.Theme)
	s.Tone = strings.TrimSpace(s.Tone)
	s.PointOfView = strings.TrimSpace(s.PointOfView)

	s.CustomPrompt = sanitize(s.CustomPrompt)
	s.Length = sanitize(s.Length)
	s.WritingStyle = sanitize(s.WritingStyle)
	s.Setting = sanitize(s.Setting)
	s.Characters = sanitize(s.Characters)
	return s
}

// Validate нормализует форму и проверяет ее. Возвращает очищенную копию.
// Ошибка оборачивает ErrInvalidSubmission. Если не задан только источник темы,
// возвращается ErrMissingPrompt; вместе с другими ошибками он попадает в ValidationError.
func Validate(s Submission) (Submission, error) {
	s = s.Normalize()

	err := getValidator().Struct(s)
	if err == nil {
		return s, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return s, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	verr := &ValidationError{Fields: fields}
	if len(fields) == 1 && verr.MissingPrompt() {
		return s, ErrMissingPrompt
	}
	return s, verr
}

// ToRequest переводит проверенную форму в параметры генерации.
// Поля только для историй переносятся как есть: промпт для стихов их не использует.
func (s Submission) ToRequest() model.GenerationRequest {
	return model.GenerationRequest{
		ContentKind:       model.ContentKind(s.ContentKind),
		CustomText:        s.CustomPrompt,
		ThemeTag:          model.Theme(s.Theme),
		Tone:              model.Tone(s.Tone),
		ApproximateLength: s.Length,
		Style:             s.WritingStyle,
		PointOfView:       model.PointOfView(s.PointOfView),
		Setting:           s.Setting,
		Characters:        s.Characters,
	}
}

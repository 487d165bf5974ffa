package models

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"` // Ошибки по полям формы
}

// Коды ошибок API.
const (
	ErrCodeBadRequest        = "bad_request"
	ErrCodeValidation        = "validation_failed"
	ErrCodeMissingPrompt     = "missing_prompt"
	ErrCodeNotFound          = "not_found"
	ErrCodeNotConfigured     = "not_configured"
	ErrCodeGenerationFailed  = "generation_failed"
	ErrCodeUnsupportedFormat = "unsupported_format"
	ErrCodeInternal          = "internal_error"
)

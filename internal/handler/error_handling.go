package handler

import (
	"errors"
	"net/http"

	"pentacore/internal/export"
	"pentacore/internal/form"
	"pentacore/internal/repository"
	"pentacore/internal/service"
	"pentacore/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgNotConfigured    = "API key is missing. Please set the AI_API_KEY environment variable."
	msgGenerationFailed = "Failed to generate content. The model may have refused the request due to safety settings or other limitations. Please adjust your prompt and try again."
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp models.ErrorResponse
	var verr *form.ValidationError

	switch {
	case errors.As(err, &verr):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Invalid form values", Fields: verr.Fields}
	case errors.Is(err, form.ErrMissingPrompt):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeMissingPrompt, Message: "Either a custom prompt or a theme is required"}
	case errors.Is(err, form.ErrInvalidSubmission):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Message: err.Error()}
	case errors.Is(err, service.ErrConfiguration):
		statusCode = http.StatusServiceUnavailable
		errResp = models.ErrorResponse{Code: models.ErrCodeNotConfigured, Message: msgNotConfigured}
	case errors.Is(err, service.ErrGenerationFailed):
		statusCode = http.StatusBadGateway
		errResp = models.ErrorResponse{Code: models.ErrCodeGenerationFailed, Message: msgGenerationFailed}
	case errors.Is(err, repository.ErrNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Result not found"}
	case errors.Is(err, export.ErrUnknownFormat):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeUnsupportedFormat, Message: err.Error()}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

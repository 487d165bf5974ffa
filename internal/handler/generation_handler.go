package handler

import (
	"context"
	"fmt"
	"net/http"

	"pentacore/internal/export"
	"pentacore/internal/form"
	"pentacore/internal/model"
	"pentacore/internal/repository"
	"pentacore/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Generator - конвейер генерации.
type Generator interface {
	Generate(ctx context.Context, req model.GenerationRequest) (model.GenerationResult, error)
}

type GenerationHandler struct {
	generator Generator
	results   repository.ResultRepository
	logger    *zap.Logger
	pdfOpts   export.PDFOptions
}

func NewGenerationHandler(generator Generator, results repository.ResultRepository, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{
		generator: generator,
		results:   results,
		logger:    logger.Named("generation_handler"),
	}
}

// WithPDFOptions задает настройки рендера PDF для экспорта.
func (h *GenerationHandler) WithPDFOptions(opts export.PDFOptions) *GenerationHandler {
	h.pdfOpts = opts
	return h
}

func (h *GenerationHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.health)
	router.HEAD("/health", h.health)

	api := router.Group("/api")
	{
		api.GET("/options", h.getOptions)
		api.POST("/generate", h.generate)

		results := api.Group("/results")
		results.GET("", h.listRecent)
		results.GET("/saved", h.listSaved)
		results.GET("/:id", h.getResult)
		results.POST("/:id/save", h.saveResult)
		results.GET("/:id/export", h.exportResult)
	}
}

func (h *GenerationHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type optionsResponse struct {
	WritingTypes  []model.ContentKind `json:"writingTypes"`
	Themes        []model.Theme       `json:"themes"`
	Tones         []model.Tone        `json:"tones"`
	PointsOfView  []model.PointOfView `json:"pointsOfView"`
	ExportFormats []export.Format     `json:"exportFormats"`
	Defaults      form.Submission     `json:"defaults"`
}

func (h *GenerationHandler) getOptions(c *gin.Context) {
	c.JSON(http.StatusOK, optionsResponse{
		WritingTypes:  []model.ContentKind{model.ContentKindStory, model.ContentKindPoem},
		Themes:        model.Themes,
		Tones:         model.Tones,
		PointsOfView:  model.PointsOfView,
		ExportFormats: export.Formats,
		Defaults:      form.Defaults(),
	})
}

func (h *GenerationHandler) generate(c *gin.Context) {
	var sub form.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body"})
		return
	}

	sub, err := form.Validate(sub)
	if err != nil {
		h.logger.Info("Форма отклонена", zap.Error(err))
		handleServiceError(c, err)
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), sub.ToRequest())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.results.Add(c.Request.Context(), result); err != nil {
		handleServiceError(c, fmt.Errorf("сохранение результата %s: %w", result.ID, err))
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *GenerationHandler) getResult(c *gin.Context) {
	result, err := h.results.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GenerationHandler) saveResult(c *gin.Context) {
	result, err := h.results.MarkSaved(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GenerationHandler) listSaved(c *gin.Context) {
	list, err := h.results.ListSaved(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *GenerationHandler) listRecent(c *gin.Context) {
	list, err := h.results.ListRecent(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// exportResult отдает файл как вложение, а для буфера обмена - текст в JSON.
func (h *GenerationHandler) exportResult(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatPlainText)))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	result, err := h.results.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	sink := &export.MemorySink{}
	name, err := export.NewExporter(sink, h.logger).WithPDFOptions(h.pdfOpts).Export(result, format)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if format == export.FormatClipboard {
		c.JSON(http.StatusOK, gin.H{"text": sink.ClipboardText})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, sink.ContentType, sink.Data)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pentacore/internal/config"

	"go.uber.org/zap"
)

// ErrAIGenerationFailed - ошибка обращения к провайдеру AI.
var ErrAIGenerationFailed = errors.New("ошибка генерации AI")

// ErrImageUnsupported - провайдер не умеет генерировать изображения.
var ErrImageUnsupported = errors.New("провайдер не поддерживает генерацию изображений")

// TextGenerator генерирует текст по промпту.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// ImageGenerator запрашивает у модели изображение.
// Ответ возвращается как есть: выбор картинки делает вызывающий код.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, model, prompt string) (*ImageResponse, error)
}

// ImageResponse - ответ модели в нейтральном виде: кандидаты, в каждом части.
type ImageResponse struct {
	Candidates []ImageCandidate
}

// ImageCandidate - один вариант ответа модели.
type ImageCandidate struct {
	Parts []ContentPart
}

// ContentPart - часть ответа. Для встроенного изображения заполнены MIMEType и Data.
type ContentPart struct {
	Text     string
	MIMEType string
	Data     []byte
}

// IsInlineImage сообщает, содержит ли часть бинарные данные изображения.
func (p ContentPart) IsInlineImage() bool {
	return len(p.Data) > 0
}

// FirstInlineImage возвращает данные первого встроенного изображения.
// Кандидаты просматриваются по порядку, внутри кандидата - части по порядку.
func (r *ImageResponse) FirstInlineImage() ([]byte, bool) {
	if r == nil {
		return nil, false
	}
	for _, c := range r.Candidates {
		for _, p := range c.Parts {
			if p.IsInlineImage() {
				return p.Data, true
			}
		}
	}
	return nil, false
}

// NewAIClients создает клиентов текста и изображений для выбранного провайдера.
// Ключ API передается через cfg явно, окружение здесь не читается.
func NewAIClients(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (TextGenerator, ImageGenerator, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	log := logger.Named("ai_client").With(zap.String("provider", cfg.Provider))

	switch strings.ToLower(cfg.Provider) {
	case config.ProviderGemini:
		log.Info("Используется реализация AI клиента: Gemini")
		c, err := newGeminiClient(ctx, cfg.APIKey, cfg.BaseURL, httpClient, log)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	case config.ProviderOpenAI:
		log.Info("Используется реализация AI клиента: OpenAI")
		c := newOpenAIClient(cfg.APIKey, cfg.BaseURL, httpClient, log)
		return c, c, nil
	case config.ProviderOllama:
		log.Info("Используется реализация AI клиента: Ollama")
		c, err := newOllamaClient(cfg.BaseURL, httpClient, log)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	default:
		return nil, nil, fmt.Errorf("неизвестный тип AI клиента: '%s'", cfg.Provider)
	}
}

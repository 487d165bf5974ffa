package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const (
	providerOllama       = "ollama"
	defaultOllamaBaseURL = "http://localhost:11434"
)

// ollamaClient реализует TextGenerator через ollama/api. Изображения не поддерживаются.
type ollamaClient struct {
	client *api.Client
	logger *zap.Logger
}

func newOllamaClient(baseURL string, httpClient *http.Client, logger *zap.Logger) (*ollamaClient, error) {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	// api.NewClient требует URL без суффикса /v1
	ollamaBaseURL := strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")

	parsedURL, err := url.Parse(ollamaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга Ollama Base URL '%s': %w", ollamaBaseURL, err)
	}
	logger.Info("Ollama клиент создан", zap.String("base_url", ollamaBaseURL), zap.Duration("timeout", httpClient.Timeout))

	return &ollamaClient{
		client: api.NewClient(parsedURL, httpClient),
		logger: logger,
	}, nil
}

// GenerateText генерирует текст без стриминга.
func (c *ollamaClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	log := c.logger.With(zap.String("model", model))
	stream := false
	req := &api.ChatRequest{
		Model:    model,
		Messages: []api.Message{{Role: "user", Content: prompt}},
		Stream:   &stream,
	}

	start := time.Now()
	var resp api.ChatResponse
	err := c.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Error("Таймаут Ollama API", zap.Duration("duration", duration), zap.Error(err))
		} else {
			log.Error("Ошибка от Ollama API", zap.Duration("duration", duration), zap.Error(err))
		}
		observeRequest(providerOllama, model, "text", "error", 0)
		return "", fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}

	observeRequest(providerOllama, model, "text", "success", duration.Seconds())
	if resp.PromptEvalCount > 0 {
		aiPromptTokens.WithLabelValues(providerOllama, model).Observe(float64(resp.PromptEvalCount))
	}
	log.Info("Ответ от Ollama API получен", zap.Duration("duration", duration), zap.Int("length", len(resp.Message.Content)))

	return resp.Message.Content, nil
}

// GenerateImage всегда возвращает ErrImageUnsupported.
func (c *ollamaClient) GenerateImage(_ context.Context, model, _ string) (*ImageResponse, error) {
	observeRequest(providerOllama, model, "image", "unsupported", 0)
	return nil, ErrImageUnsupported
}

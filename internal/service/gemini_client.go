package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const providerGemini = "gemini"

// geminiClient реализует TextGenerator и ImageGenerator через Gemini API.
type geminiClient struct {
	client *genai.Client
	logger *zap.Logger
}

func newGeminiClient(ctx context.Context, apiKey, baseURL string, httpClient *http.Client, logger *zap.Logger) (*geminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента Gemini: %w", err)
	}
	logger.Info("Gemini клиент создан", zap.String("base_url", baseURL), zap.Duration("timeout", httpClient.Timeout))

	return &geminiClient{client: client, logger: logger}, nil
}

// GenerateText отправляет промпт текстовой модели и возвращает текст ответа.
func (c *geminiClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	log := c.logger.With(zap.String("model", model))
	start := time.Now()

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	duration := time.Since(start)
	if err != nil {
		log.Error("Ошибка от Gemini API", zap.Duration("duration", duration), zap.Error(err))
		observeRequest(providerGemini, model, "text", "error", 0)
		return "", fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}

	text := resp.Text()
	if resp.UsageMetadata != nil {
		aiPromptTokens.WithLabelValues(providerGemini, model).Observe(float64(resp.UsageMetadata.PromptTokenCount))
	}
	observeRequest(providerGemini, model, "text", "success", duration.Seconds())
	log.Info("Ответ от Gemini API получен", zap.Duration("duration", duration), zap.Int("length", len(text)))

	return text, nil
}

// GenerateImage запрашивает изображение (модальность ответа IMAGE).
func (c *geminiClient) GenerateImage(ctx context.Context, model, prompt string) (*ImageResponse, error) {
	log := c.logger.With(zap.String("model", model))
	start := time.Now()

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	duration := time.Since(start)
	if err != nil {
		log.Warn("Ошибка генерации изображения Gemini", zap.Duration("duration", duration), zap.Error(err))
		observeRequest(providerGemini, model, "image", "error", 0)
		return nil, fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}
	observeRequest(providerGemini, model, "image", "success", duration.Seconds())

	return imageResponseFromGemini(resp), nil
}

// imageResponseFromGemini переводит ответ SDK в ImageResponse, сохраняя порядок кандидатов и частей.
func imageResponseFromGemini(resp *genai.GenerateContentResponse) *ImageResponse {
	out := &ImageResponse{}
	if resp == nil {
		return out
	}
	for _, cand := range resp.Candidates {
		var ic ImageCandidate
		if cand != nil && cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if part == nil {
					continue
				}
				cp := ContentPart{Text: part.Text}
				if part.InlineData != nil {
					cp.MIMEType = part.InlineData.MIMEType
					cp.Data = part.InlineData.Data
				}
				ic.Parts = append(ic.Parts, cp)
			}
		}
		out.Candidates = append(out.Candidates, ic)
	}
	return out
}

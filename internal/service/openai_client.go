package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/pkoukk/tiktoken-go"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const providerOpenAI = "openai"

// openAIClient реализует TextGenerator и ImageGenerator через OpenAI-совместимый API.
type openAIClient struct {
	client *openaigo.Client
	logger *zap.Logger
}

func newOpenAIClient(apiKey, baseURL string, httpClient *http.Client, logger *zap.Logger) *openAIClient {
	openaiConfig := openaigo.DefaultConfig(apiKey)
	if baseURL != "" {
		openaiConfig.BaseURL = baseURL
	}
	openaiConfig.HTTPClient = httpClient
	logger.Info("OpenAI клиент создан", zap.String("base_url", openaiConfig.BaseURL), zap.Duration("timeout", httpClient.Timeout))

	return &openAIClient{
		client: openaigo.NewClientWithConfig(openaiConfig),
		logger: logger,
	}
}

// GenerateText отправляет промпт как единственное сообщение пользователя.
func (c *openAIClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	log := c.logger.With(zap.String("model", model))
	// Словари tiktoken загружаются по сети, поэтому оценка только в debug режиме
	if log.Core().Enabled(zap.DebugLevel) {
		if tokens, ok := estimateTokens(model, prompt); ok {
			log.Debug("Оценка токенов промпта", zap.Int("prompt_tokens", tokens))
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleUser, Content: prompt},
		},
	})
	duration := time.Since(start)
	if err != nil {
		log.Error("Ошибка от OpenAI API", zap.Duration("duration", duration), zap.Error(err))
		observeRequest(providerOpenAI, model, "text", "error", 0)
		return "", fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}

	if len(resp.Choices) == 0 {
		log.Warn("OpenAI API вернул ответ без вариантов", zap.Duration("duration", duration))
		observeRequest(providerOpenAI, model, "text", "error_empty_response", 0)
		return "", nil
	}
	observeRequest(providerOpenAI, model, "text", "success", duration.Seconds())
	if resp.Usage.PromptTokens > 0 {
		aiPromptTokens.WithLabelValues(providerOpenAI, model).Observe(float64(resp.Usage.PromptTokens))
	}

	text := resp.Choices[0].Message.Content
	log.Info("Ответ от OpenAI API получен", zap.Duration("duration", duration), zap.Int("length", len(text)))
	return text, nil
}

// GenerateImage запрашивает одно изображение в формате b64_json.
func (c *openAIClient) GenerateImage(ctx context.Context, model, prompt string) (*ImageResponse, error) {
	log := c.logger.With(zap.String("model", model))
	start := time.Now()

	resp, err := c.client.CreateImage(ctx, openaigo.ImageRequest{
		Prompt:         prompt,
		Model:          model,
		N:              1,
		ResponseFormat: openaigo.CreateImageResponseFormatB64JSON,
	})
	duration := time.Since(start)
	if err != nil {
		log.Warn("Ошибка генерации изображения OpenAI", zap.Duration("duration", duration), zap.Error(err))
		observeRequest(providerOpenAI, model, "image", "error", 0)
		return nil, fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}
	observeRequest(providerOpenAI, model, "image", "success", duration.Seconds())

	// Каждый элемент Data - отдельный кандидат с одной частью
	out := &ImageResponse{}
	for _, item := range resp.Data {
		var cand ImageCandidate
		if item.B64JSON != "" {
			data, decErr := base64.StdEncoding.DecodeString(item.B64JSON)
			if decErr != nil {
				log.Warn("Не удалось декодировать b64_json", zap.Error(decErr))
			} else {
				cand.Parts = append(cand.Parts, ContentPart{MIMEType: "image/png", Data: data})
			}
		}
		if item.RevisedPrompt != "" {
			cand.Parts = append(cand.Parts, ContentPart{Text: item.RevisedPrompt})
		}
		out.Candidates = append(out.Candidates, cand)
	}
	return out, nil
}

// estimateTokens оценивает число токенов промпта. Для неизвестных моделей используется cl100k_base.
func estimateTokens(model, text string) (int, bool) {
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tke, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, false
		}
	}
	return len(tke.Encode(text, nil, nil)), true
}

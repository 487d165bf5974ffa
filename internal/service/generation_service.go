package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"pentacore/internal/model"
	"pentacore/internal/prompt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrConfiguration - не задан ключ API. Сетевые вызовы не выполнялись.
	ErrConfiguration = errors.New("missing credential")
	// ErrGenerationFailed - текстовая модель вернула ошибку или пустой ответ.
	ErrGenerationFailed = errors.New("empty or refused response")
)

const illustrationDataURIPrefix = "data:image/png;base64,"

// GenerationService выполняет конвейер: текст, затем иллюстрация, затем сборка результата.
type GenerationService struct {
	credential string
	textModel  string
	imageModel string
	text       TextGenerator
	image      ImageGenerator
	logger     *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewGenerationService создает сервис. Ключ передается явно: пустой ключ не мешает
// созданию, но каждый Generate вернет ErrConfiguration до обращения к сети.
func NewGenerationService(credential, textModel, imageModel string, text TextGenerator, image ImageGenerator, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		credential: strings.TrimSpace(credential),
		textModel:  textModel,
		imageModel: imageModel,
		text:       text,
		image:      image,
		logger:     logger.Named("generation_service"),
		now:        time.Now,
		newID:      newResultID,
	}
}

// Generate строит промпт, вызывает текстовую модель и, при успехе, пытается получить иллюстрацию.
// Ошибки иллюстрации только логируются.
func (s *GenerationService) Generate(ctx context.Context, req model.GenerationRequest) (model.GenerationResult, error) {
	kind := string(req.ContentKind)
	log := s.logger.With(
		zap.String("content_kind", kind),
		zap.String("theme", req.EffectiveTheme()),
		zap.String("tone", string(req.Tone)),
	)

	// --- 1. Проверка ключа ---
	if s.credential == "" || s.text == nil {
		log.Error("Ключ API не настроен, генерация невозможна")
		generationsTotal.WithLabelValues(kind, "config_error").Inc()
		return model.GenerationResult{}, fmt.Errorf("%w: set AI_API_KEY", ErrConfiguration)
	}

	// --- 2. Текст ---
	textPrompt := prompt.BuildTextPrompt(req)
	start := s.now()
	raw, err := s.text.GenerateText(ctx, s.textModel, textPrompt)
	if err != nil {
		log.Error("Ошибка генерации текста", zap.Error(err))
		generationsTotal.WithLabelValues(kind, "failed").Inc()
		return model.GenerationResult{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	elapsed := roundSeconds(s.now().Sub(start))

	body := strings.TrimSpace(raw)
	if body == "" {
		log.Error("Текстовая модель вернула пустой ответ")
		generationsTotal.WithLabelValues(kind, "failed").Inc()
		return model.GenerationResult{}, fmt.Errorf("%w: blank text", ErrGenerationFailed)
	}

	// --- 3. Иллюстрация (не обязательна) ---
	illustration := s.illustrate(ctx, req, log)

	// --- 4. Сборка результата ---
	result := model.GenerationResult{
		ID:               s.newID(),
		ContentKind:      req.ContentKind,
		EffectiveTheme:   req.EffectiveTheme(),
		Tone:             req.Tone,
		Body:             body,
		ElapsedSeconds:   elapsed,
		IllustrationData: illustration,
	}
	generationsTotal.WithLabelValues(kind, "success").Inc()
	log.Info("Генерация завершена",
		zap.String("result_id", result.ID),
		zap.Float64("elapsed_seconds", elapsed),
		zap.Bool("illustrated", result.HasIllustration()),
	)
	return result, nil
}

// illustrate возвращает data URI первой встроенной картинки или пустую строку.
func (s *GenerationService) illustrate(ctx context.Context, req model.GenerationRequest, log *zap.Logger) string {
	if s.image == nil {
		illustrationsTotal.WithLabelValues("error").Inc()
		log.Warn("Клиент изображений не настроен, иллюстрация пропущена")
		return ""
	}

	resp, err := s.image.GenerateImage(ctx, s.imageModel, prompt.BuildImagePrompt(req))
	if err != nil {
		illustrationsTotal.WithLabelValues("error").Inc()
		log.Warn("Не удалось сгенерировать иллюстрацию, продолжаем без нее", zap.Error(err))
		return ""
	}

	data, ok := resp.FirstInlineImage()
	if !ok {
		illustrationsTotal.WithLabelValues("no_image").Inc()
		log.Warn("В ответе модели изображений нет встроенной картинки")
		return ""
	}

	illustrationsTotal.WithLabelValues("attached").Inc()
	return illustrationDataURIPrefix + base64.StdEncoding.EncodeToString(data)
}

// roundSeconds округляет длительность до сотых секунды. Отрицательные значения дают 0.
func roundSeconds(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	// Округляем в целых сотых секунды: через d.Seconds() половины уходят вниз
	return math.Round(float64(d)/float64(10*time.Millisecond)) / 100
}

func newResultID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "gen-" + id.String()
}

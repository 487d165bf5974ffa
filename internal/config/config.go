package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"pentacore/shared/logger"
	"pentacore/shared/utils"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Поддерживаемые провайдеры AI.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// aiAPIKeySecret - имя Docker секрета с ключом API.
const aiAPIKeySecret = "ai_api_key"

// AIConfig - общие настройки доступа к моделям для сервера и CLI.
type AIConfig struct {
	Provider   string        `envconfig:"AI_PROVIDER" default:"gemini" env:"AI_PROVIDER" env-default:"gemini" yaml:"provider"`
	APIKey     string        `envconfig:"AI_API_KEY" env:"AI_API_KEY" yaml:"api_key"`
	BaseURL    string        `envconfig:"AI_BASE_URL" env:"AI_BASE_URL" yaml:"base_url"` // Пусто - адрес провайдера по умолчанию
	TextModel  string        `envconfig:"TEXT_MODEL" default:"gemini-2.5-flash" env:"TEXT_MODEL" env-default:"gemini-2.5-flash" yaml:"text_model"`
	ImageModel string        `envconfig:"IMAGE_MODEL" default:"gemini-2.5-flash-image" env:"IMAGE_MODEL" env-default:"gemini-2.5-flash-image" yaml:"image_model"`
	Timeout    time.Duration `envconfig:"AI_TIMEOUT" default:"120s" env:"AI_TIMEOUT" env-default:"120s" yaml:"timeout"`
}

// HasCredential сообщает, задан ли ключ API.
func (c AIConfig) HasCredential() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Validate проверяет значения, которые нельзя исправить дефолтами.
func (c AIConfig) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("неизвестный AI_PROVIDER: %q", c.Provider)
	}
	if c.TextModel == "" || c.ImageModel == "" {
		return fmt.Errorf("TEXT_MODEL и IMAGE_MODEL не могут быть пустыми")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT должен быть положительным, получено %v", c.Timeout)
	}
	return nil
}

// Config содержит конфигурацию HTTP сервера.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`
	Logger     logger.Config

	AIConfig

	// Лимит хранимых результатов сессии. Сохраненные не вытесняются.
	ResultsCapacity int `envconfig:"RESULTS_CAPACITY" default:"100"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// TTF шрифт с Unicode для экспорта в PDF. Пусто - встроенные шрифты (cp1252).
	PDFFontPath string `envconfig:"PDF_FONT_PATH"`
}

// GetAllowedOrigins разбивает CORSAllowedOrigins на список.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	origins := strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
	result := origins[:0]
	for _, o := range origins {
		if o != "" {
			result = append(result, o)
		}
	}
	return result
}

// LoadConfig загружает конфигурацию из .env файла (если есть), окружения и секретов.
// Отсутствие ключа API не ошибка: сервер стартует, а генерация вернет ошибку конфигурации.
func LoadConfig(envFilePath string) (*Config, error) {
	loadDotEnv(envFilePath)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	cfg.APIKey = utils.SecretOrEnv(cfg.APIKey, aiAPIKeySecret)

	if err := cfg.AIConfig.Validate(); err != nil {
		return nil, err
	}
	if cfg.ResultsCapacity <= 0 {
		return nil, fmt.Errorf("RESULTS_CAPACITY должен быть положительным, получено %d", cfg.ResultsCapacity)
	}

	log.Printf("Конфигурация загружена: env=%s port=%s provider=%s text_model=%s image_model=%s ключ API: %s",
		cfg.Env, cfg.ServerPort, cfg.Provider, cfg.TextModel, cfg.ImageModel, maskedKeyState(cfg.AIConfig))

	return &cfg, nil
}

// CLIConfig - настройки консольного клиента.
type CLIConfig struct {
	AIConfig  `yaml:",inline"`
	Logger    logger.Config `yaml:"logger"`
	OutputDir   string        `env:"OUTPUT_DIR" env-default:"." yaml:"output_dir"`
	PDFFontPath string        `env:"PDF_FONT_PATH" yaml:"pdf_font_path"`
}

// LoadCLI читает YAML файл конфигурации, если путь задан, иначе только окружение.
// Переменные окружения перекрывают значения из файла.
func LoadCLI(path string) (*CLIConfig, error) {
	_ = godotenv.Load()

	var cfg CLIConfig
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации CLI: %w", err)
	}

	cfg.APIKey = utils.SecretOrEnv(cfg.APIKey, aiAPIKeySecret)

	if err := cfg.AIConfig.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv(envFilePath string) {
	if envFilePath == "" {
		return
	}
	if _, err := os.Stat(envFilePath); err == nil {
		if err := godotenv.Load(envFilePath); err != nil {
			log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
	}
}

func maskedKeyState(c AIConfig) string {
	if c.HasCredential() {
		return "[ЗАГРУЖЕН]"
	}
	return "[НЕ ЗАДАН]"
}

package config

import (
	"os"
	"strconv"
	"time"
)

// ModelConfig holds settings for the hosted language-model endpoint.
type ModelConfig struct {
	APIKey      string
	BaseURL     string
	Name        string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
}

// UploadConfig holds limits applied to uploaded documents and form fields.
type UploadConfig struct {
	MaxFileSizeBytes int64
	MaxQuestionChars int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables once at startup and treated as
// immutable for the process lifetime. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	LogLevel string
	Model    ModelConfig
	Upload   UploadConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"), // default only for non-sensitive value
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Model: ModelConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Name:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: getEnvFloat("MODEL_TEMPERATURE", 0.1),
			MaxTokens:   getEnvInt("MODEL_MAX_TOKENS", 1000),
			Timeout:     time.Duration(getEnvInt("MODEL_TIMEOUT_SEC", 60)) * time.Second,
			MaxRetries:  getEnvInt("MODEL_MAX_RETRIES", 0),
		},
		Upload: UploadConfig{
			MaxFileSizeBytes: int64(getEnvInt("MAX_UPLOAD_SIZE_BYTES", 10<<20)),
			MaxQuestionChars: getEnvInt("MAX_QUESTION_CHARS", 1000),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию игрового сервиса.
type Config struct {
	// Настройки сервера
	Port        string `envconfig:"SERVER_PORT" default:"8000"`
	Env         string `envconfig:"APP_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// CORS (по умолчанию фронтенд на localhost)
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Настройки оракула (Groq, OpenAI-совместимый API)
	GroqAPIKey       string `envconfig:"GROQ_API_KEY"`
	GroqBaseURL      string `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
	GroqModel        string `envconfig:"GROQ_MODEL" default:"llama3-8b-8192"`
	OracleTimeout    int    `envconfig:"ORACLE_TIMEOUT_SECONDS" default:"60"`
	OracleMaxRetries int    `envconfig:"ORACLE_MAX_RETRIES" default:"1"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	log.Printf("Конфигурация загружена:")
	log.Printf("  Port: %s", cfg.Port)
	log.Printf("  Env: %s", cfg.Env)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  CORS Allowed Origins: %s", strings.Join(cfg.CORSAllowedOrigins, ", "))
	log.Printf("  Groq Base URL: %s", cfg.GroqBaseURL)
	log.Printf("  Groq Model: %s", cfg.GroqModel)
	log.Printf("  Oracle Timeout: %ds", cfg.OracleTimeout)
	log.Printf("  Oracle Max Retries: %d", cfg.OracleMaxRetries)
	if cfg.GroqAPIKey != "" {
		log.Println("  Groq API Key: [ЗАГРУЖЕН]")
	} else {
		log.Println("  Groq API Key: [НЕ ЗАДАН]")
	}

	return &cfg, nil
}

package ai

import (
	"context"
	"errors"
	"time"

	"storygame-server/internal/models"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

var log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

const (
	defaultBaseURL   = "https://api.groq.com/openai/v1"
	defaultModelName = "llama3-8b-8192"
	defaultTimeout   = 60

	// Параметры генерации подобраны под короткие игровые ответы.
	temperature = 0.2
	maxTokens   = 500
)

// Client предоставляет интерфейс для работы с API нейросети (оракулом).
type Client struct {
	client     *openai.Client
	modelName  string
	timeout    time.Duration
	maxRetries int
}

// Config содержит конфигурацию для клиента оракула.
type Config struct {
	APIKey    string
	BaseURL   string
	ModelName string
	// Timeout - таймаут одного запроса в секундах.
	Timeout int
	// MaxRetries - общее число попыток. Повторяются ТОЛЬКО таймауты,
	// семантические отказы модератора не повторяются. 1 = без повторов.
	MaxRetries int
}

// New создает новый экземпляр клиента оракула.
// Отсутствие API ключа - фатальная ошибка конфигурации: без него ни один
// вызов не может завершиться успехом, и это должно быть видно на старте.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, models.ErrOracleUnavailable
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.ModelName == "" {
		cfg.ModelName = defaultModelName
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL

	return &Client{
		client:     openai.NewClientWithConfig(config),
		modelName:  cfg.ModelName,
		timeout:    time.Duration(cfg.Timeout) * time.Second,
		maxRetries: cfg.MaxRetries,
	}, nil
}

// Generate отправляет один запрос оракулу и возвращает текст ответа.
// roleHint передается системным сообщением ("личность" модели).
// Политика повторов узкая: повторяется только таймаут, и только если
// сконфигурировано больше одной попытки.
func (c *Client) Generate(ctx context.Context, prompt string, roleHint string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if roleHint != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: roleHint,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:       c.modelName,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		start := time.Now()
		content, err := c.complete(ctx, req)
		observeRequest(time.Since(start), err)

		if err == nil {
			return content, nil
		}
		lastErr = err

		if !errors.Is(err, models.ErrOracleTimeout) {
			return "", err
		}
		log.Warn().
			Int("attempt", attempt).
			Int("max_attempts", c.maxRetries).
			Str("model", c.modelName).
			Msg("Oracle request timed out")
	}

	return "", lastErr
}

// complete выполняет одну попытку запроса и приводит ошибку к таксономии.
func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", models.ErrMalformedOracleOutput
	}

	return resp.Choices[0].Message.Content, nil
}

// classifyError преобразует ошибку go-openai в ошибку таксономии оракула.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.ErrOracleTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &models.OracleError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &models.OracleError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}

	return &models.OracleError{StatusCode: 0, Message: err.Error()}
}

package models

import (
	"errors"
	"fmt"
)

// Ошибки бизнес-логики и поиска. Каждая соответствует стабильному коду,
// который транспортный слой преобразует в HTTP статус.
var (
	ErrSessionNotFound  = errors.New("game session not found")
	ErrDuplicateSession = errors.New("game session already exists")
	// ErrSessionCompleted возвращается при попытке мутации завершенной сессии.
	ErrSessionCompleted = errors.New("game session is completed")
	// ErrAlreadyCompleted возвращается при повторном завершении игры.
	ErrAlreadyCompleted = errors.New("game session was already completed")

	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidPace       = errors.New("pace must be between 1 and 5")
	ErrActionTooLong     = errors.New("action must be 50 words or less")
	ErrMultipleSentences = errors.New("action must be a single sentence")
)

// Ошибки оракула (внешнего генеративного сервиса).
var (
	// ErrOracleUnavailable - не сконфигурирован API ключ, вызовы невозможны.
	ErrOracleUnavailable = errors.New("oracle API key is not configured")
	// ErrOracleTimeout - запрос к оракулу не уложился в таймаут.
	ErrOracleTimeout = errors.New("oracle request timed out")
	// ErrMalformedOracleOutput - ответ оракула не удалось разобрать
	// (например, меньше двух целей в сгенерированном списке).
	ErrMalformedOracleOutput = errors.New("malformed oracle output")
)

// ActionRejectedError возвращается, когда модератор не одобрил действие.
// Reason содержит полный текст ответа оракула.
type ActionRejectedError struct {
	Reason string
}

func (e *ActionRejectedError) Error() string {
	return fmt.Sprintf("action rejected: %s", e.Reason)
}

// OracleError возвращается, когда удаленный вызов завершился неуспешно.
type OracleError struct {
	StatusCode int
	Message    string
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle request failed (status %d): %s", e.StatusCode, e.Message)
}

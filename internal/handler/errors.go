package handler

import (
	"errors"
	"net/http"

	"storygame-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError преобразует ошибку сервиса в HTTP ответ.
// Каждый вид ошибки таксономии отображается на стабильный статус,
// текст ошибки отдается клиенту как есть.
func (h *GameHandler) respondError(c *gin.Context, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	c.JSON(status, APIError{Message: err.Error()})
}

func statusFromError(err error) int {
	var rejected *models.ActionRejectedError
	var oracleErr *models.OracleError

	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateSession),
		errors.Is(err, models.ErrSessionCompleted),
		errors.Is(err, models.ErrAlreadyCompleted):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotYourTurn),
		errors.Is(err, models.ErrInvalidPace),
		errors.Is(err, models.ErrActionTooLong),
		errors.Is(err, models.ErrMultipleSentences):
		return http.StatusBadRequest
	case errors.As(err, &rejected):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrOracleUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrOracleTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, models.ErrMalformedOracleOutput),
		errors.As(err, &oracleErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

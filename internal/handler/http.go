package handler

import (
	"net/http"

	"storygame-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GameHandler обрабатывает HTTP запросы игрового сервиса.
type GameHandler struct {
	service *service.GameService
	logger  *zap.Logger
}

// NewGameHandler создает новый GameHandler.
func NewGameHandler(s *service.GameService, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		service: s,
		logger:  logger.Named("GameHandler"),
	}
}

// RegisterRoutes регистрирует маршруты игрового сервиса.
func (h *GameHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/start-game", h.startGame)
	router.POST("/player-action", h.playerAction)
	router.POST("/end-game", h.endGame)
	router.GET("/game-status/:session_id", h.gameStatus)
}

func (h *GameHandler) startGame(c *gin.Context) {
	var req StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body: " + err.Error()})
		return
	}

	result, err := h.service.StartGame(c.Request.Context(), req.SessionID, req.Player1ID, req.Player2ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StartGameResponse{
		SessionID:       result.SessionID,
		NarratorSetting: result.NarratorSetting,
		Objectives:      result.Objectives,
		CurrentPlayer:   result.CurrentTurn,
	})
}

func (h *GameHandler) playerAction(c *gin.Context) {
	var req PlayerActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body: " + err.Error()})
		return
	}

	result, err := h.service.SubmitAction(c.Request.Context(), req.SessionID, req.PlayerID, req.Action, req.Pace)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PlayerActionResponse{
		Status:        "success",
		Action:        result.Action,
		CurrentPlayer: result.CurrentTurn,
		StoryActions:  result.Actions,
	})
}

func (h *GameHandler) endGame(c *gin.Context) {
	var req EndGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body: " + err.Error()})
		return
	}

	result, err := h.service.EndGame(c.Request.Context(), req.SessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, EndGameResponse{
		SessionID:   result.SessionID,
		JudgeResult: result.Judgment,
		VideoScript: result.VideoScript,
		FinalStory:  result.Transcript,
		Objectives:  result.Objectives,
	})
}

func (h *GameHandler) gameStatus(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, err := h.service.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionStatusResponse(session))
}

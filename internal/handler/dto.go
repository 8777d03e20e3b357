package handler

import (
	"time"

	"storygame-server/internal/models"
)

// APIError представляет стандартизированный ответ об ошибке.
type APIError struct {
	Message string `json:"message"`
}

// StartGameRequest - тело запроса на создание игры.
type StartGameRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Player1ID string `json:"player1_id" binding:"required"`
	Player2ID string `json:"player2_id" binding:"required"`
}

// StartGameResponse - ответ на создание игры.
type StartGameResponse struct {
	SessionID       string            `json:"session_id"`
	NarratorSetting string            `json:"narrator_setting"`
	Objectives      []string          `json:"objectives"`
	CurrentPlayer   models.PlayerTurn `json:"current_player"`
}

// PlayerActionRequest - тело запроса с ходом игрока.
// Pace без binding:"required": ноль все равно отклоняется сервисом
// с ошибкой диапазона, а не безликой ошибкой биндинга.
type PlayerActionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	PlayerID  string `json:"player_id" binding:"required"`
	Action    string `json:"action" binding:"required"`
	Pace      int    `json:"pace"`
}

// PlayerActionResponse - ответ на принятый ход.
type PlayerActionResponse struct {
	Status        string            `json:"status"`
	Action        models.Action     `json:"action"`
	CurrentPlayer models.PlayerTurn `json:"current_player"`
	StoryActions  []models.Action   `json:"story_actions"`
}

// EndGameRequest - тело запроса на завершение игры.
type EndGameRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// EndGameResponse - ответ на завершение игры.
type EndGameResponse struct {
	SessionID   string   `json:"session_id"`
	JudgeResult string   `json:"judge_result"`
	VideoScript string   `json:"video_script"`
	FinalStory  string   `json:"final_story"`
	Objectives  []string `json:"objectives"`
}

// SessionStatusResponse - снимок сессии для GET /game-status.
// current_player сериализуется из производного значения, отдельного
// хранимого поля очередности не существует.
type SessionStatusResponse struct {
	SessionID       string               `json:"session_id"`
	Player1ID       string               `json:"player1_id"`
	Player2ID       string               `json:"player2_id"`
	NarratorSetting string               `json:"narrator_setting"`
	Objectives      []string             `json:"objectives"`
	StoryActions    []models.Action      `json:"story_actions"`
	CurrentPlayer   models.PlayerTurn    `json:"current_player"`
	GameStatus      models.SessionStatus `json:"game_status"`
	CreatedAt       time.Time            `json:"created_at"`
}

func newSessionStatusResponse(session *models.Session) SessionStatusResponse {
	return SessionStatusResponse{
		SessionID:       session.ID,
		Player1ID:       session.Player1ID,
		Player2ID:       session.Player2ID,
		NarratorSetting: session.NarratorSetting,
		Objectives:      session.Objectives,
		StoryActions:    session.Actions,
		CurrentPlayer:   session.CurrentTurn(),
		GameStatus:      session.Status,
		CreatedAt:       session.CreatedAt,
	}
}

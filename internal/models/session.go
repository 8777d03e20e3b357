package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionStatus определяет статус игровой сессии.
type SessionStatus string

const (
	StatusWaiting   SessionStatus = "waiting"
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// PlayerTurn определяет, чей сейчас ход.
type PlayerTurn string

const (
	TurnPlayer1 PlayerTurn = "player1"
	TurnPlayer2 PlayerTurn = "player2"
)

// Action представляет один принятый ход игрока.
// Действие конструируется только ПОСЛЕ прохождения всех проверок
// (очередность, pace, длина, модерация), невалидные действия не существуют.
type Action struct {
	ID        uuid.UUID `json:"id"`
	PlayerID  string    `json:"player_id"`
	Text      string    `json:"action"`
	Pace      int       `json:"pace"`
	Timestamp time.Time `json:"timestamp"`
}

// Session представляет одну игровую сессию на двух игроков.
// Очередность хода НЕ хранится отдельным полем: она выводится из длины
// журнала действий (четная длина - ход первого игрока).
type Session struct {
	ID              string        `json:"session_id"`
	Player1ID       string        `json:"player1_id"`
	Player2ID       string        `json:"player2_id"`
	NarratorSetting string        `json:"narrator_setting"`
	Objectives      []string      `json:"objectives"`
	Actions         []Action      `json:"story_actions"`
	Status          SessionStatus `json:"game_status"`
	CreatedAt       time.Time     `json:"created_at"`
}

// CurrentTurn возвращает, чей сейчас ход, исходя из длины журнала действий.
func (s *Session) CurrentTurn() PlayerTurn {
	if len(s.Actions)%2 == 0 {
		return TurnPlayer1
	}
	return TurnPlayer2
}

// CurrentPlayerID возвращает идентификатор игрока, чей сейчас ход.
func (s *Session) CurrentPlayerID() string {
	if s.CurrentTurn() == TurnPlayer1 {
		return s.Player1ID
	}
	return s.Player2ID
}

// Clone возвращает глубокую копию сессии для безопасной выдачи наружу.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Objectives = append([]string(nil), s.Objectives...)
	cp.Actions = append([]Action(nil), s.Actions...)
	return &cp
}

// Transcript собирает полный текст истории: сеттинг и пронумерованные действия.
func (s *Session) Transcript() string {
	var b strings.Builder
	b.WriteString(s.NarratorSetting)
	b.WriteString("\n\n")
	for i, action := range s.Actions {
		b.WriteString(fmt.Sprintf("Action %d: %s\n", i+1, action.Text))
	}
	return b.String()
}

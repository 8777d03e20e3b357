package service

import (
	"context"
	"strings"

	"storygame-server/internal/models"
)

const (
	maxActionTokens  = 50
	maxSentenceDots  = 1
	minPace          = 1
	maxPace          = 5
	objectivesNeeded = 2
)

// validateActionSyntax выполняет синтаксические проверки хода.
// Проверки дешевые и локальные, выполняются строго ДО обращения к оракулу
// и обрываются на первой неудаче.
func validateActionSyntax(session *models.Session, playerID string, text string, pace int) error {
	if playerID != session.CurrentPlayerID() {
		return models.ErrNotYourTurn
	}
	if pace < minPace || pace > maxPace {
		return models.ErrInvalidPace
	}
	if len(strings.Fields(text)) > maxActionTokens {
		return models.ErrActionTooLong
	}
	if strings.Count(text, ".") > maxSentenceDots {
		return models.ErrMultipleSentences
	}
	return nil
}

// moderateAction запрашивает у оракула семантическую оценку хода.
// Одобрением считается только ответ с префиксом APPROVED; любой другой
// текст - отказ с полным ответом оракула в качестве причины. Транспортные
// ошибки оракула НЕ превращаются в отказ, а поднимаются наверх как есть.
func (s *GameService) moderateAction(ctx context.Context, session *models.Session, text string, pace int) error {
	verdict, err := s.oracle.Generate(ctx, moderatorPrompt(session, text, pace), moderatorRole)
	if err != nil {
		return err
	}

	if !strings.HasPrefix(verdict, approvedPrefix) {
		return &models.ActionRejectedError{Reason: verdict}
	}
	return nil
}

// parseObjectives разбирает свободный текст оракула на список целей.
// Берутся первые две непустые строки; если их меньше двух, это проблема
// качества данных и она поднимается явной ошибкой, а не укороченным списком.
func parseObjectives(raw string) ([]string, error) {
	objectives := make([]string, 0, objectivesNeeded)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		objectives = append(objectives, line)
		if len(objectives) == objectivesNeeded {
			return objectives, nil
		}
	}
	return nil, models.ErrMalformedOracleOutput
}

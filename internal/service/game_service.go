package service

import (
	"context"
	"errors"
	"time"

	"storygame-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OracleClient - контракт внешнего генеративного сервиса.
// Повторяемость ответов не гарантируется, полагаться на нее нельзя.
type OracleClient interface {
	Generate(ctx context.Context, prompt string, roleHint string) (string, error)
}

// SessionRepository - контракт реестра сессий.
// Update обязан выполнять fn под эксклюзивной блокировкой сессии.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, id string, fn func(*models.Session) error) error
}

// GameService оркестрирует игровые операции: последовательности вызовов
// оракула, проверку ходов и переходы жизненного цикла сессии.
type GameService struct {
	repo   SessionRepository
	oracle OracleClient
	logger *zap.Logger
}

// NewGameService создает новый GameService.
func NewGameService(repo SessionRepository, oracle OracleClient, logger *zap.Logger) *GameService {
	return &GameService{
		repo:   repo,
		oracle: oracle,
		logger: logger.Named("GameService"),
	}
}

// StartGameResult - результат начала игры.
type StartGameResult struct {
	SessionID       string
	NarratorSetting string
	Objectives      []string
	CurrentTurn     models.PlayerTurn
}

// SubmitActionResult - результат принятого хода.
type SubmitActionResult struct {
	Action      models.Action
	CurrentTurn models.PlayerTurn
	Actions     []models.Action
}

// EndGameResult - результат завершения игры.
type EndGameResult struct {
	SessionID   string
	Judgment    string
	VideoScript string
	Transcript  string
	Objectives  []string
}

// StartGame создает новую сессию: генерирует сеттинг, затем две
// взаимоисключающие цели на его основе, и регистрирует сессию в статусе
// active. Любая ошибка оракула прерывает операцию целиком - частично
// созданных сессий не бывает.
func (s *GameService) StartGame(ctx context.Context, sessionID, player1ID, player2ID string) (*StartGameResult, error) {
	// Быстрая проверка дубликата до дорогих вызовов оракула.
	// Гонку двух одинаковых id окончательно разрешает Create под блокировкой.
	if _, err := s.repo.Get(ctx, sessionID); err == nil {
		return nil, models.ErrDuplicateSession
	} else if !errors.Is(err, models.ErrSessionNotFound) {
		return nil, err
	}

	setting, err := s.oracle.Generate(ctx, narratorPrompt, narratorRole)
	if err != nil {
		s.logger.Error("Failed to generate narrator setting", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	rawObjectives, err := s.oracle.Generate(ctx, objectivesPrompt(setting), objectiveRole)
	if err != nil {
		s.logger.Error("Failed to generate objectives", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	objectives, err := parseObjectives(rawObjectives)
	if err != nil {
		s.logger.Error("Objectives response could not be parsed",
			zap.String("session_id", sessionID),
			zap.String("raw_response", rawObjectives),
		)
		return nil, err
	}

	session := &models.Session{
		ID:              sessionID,
		Player1ID:       player1ID,
		Player2ID:       player2ID,
		NarratorSetting: setting,
		Objectives:      objectives,
		Actions:         []models.Action{},
		Status:          models.StatusActive,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Game started", zap.String("session_id", sessionID))
	return &StartGameResult{
		SessionID:       sessionID,
		NarratorSetting: setting,
		Objectives:      objectives,
		CurrentTurn:     session.CurrentTurn(),
	}, nil
}

// SubmitAction проводит ход через конвейер проверок и, в случае успеха,
// дописывает его в журнал сессии. Весь конвейер, включая модерацию
// оракулом, выполняется под блокировкой сессии: конкурирующий ход той же
// сессии ждет и затем проверяется уже против обновленного журнала.
func (s *GameService) SubmitAction(ctx context.Context, sessionID, playerID, text string, pace int) (*SubmitActionResult, error) {
	var result *SubmitActionResult

	err := s.repo.Update(ctx, sessionID, func(session *models.Session) error {
		if session.Status != models.StatusActive {
			return models.ErrSessionCompleted
		}
		if err := validateActionSyntax(session, playerID, text, pace); err != nil {
			return err
		}
		if err := s.moderateAction(ctx, session, text, pace); err != nil {
			return err
		}

		action := models.Action{
			ID:        uuid.New(),
			PlayerID:  playerID,
			Text:      text,
			Pace:      pace,
			Timestamp: time.Now().UTC(),
		}
		session.Actions = append(session.Actions, action)

		result = &SubmitActionResult{
			Action:      action,
			CurrentTurn: session.CurrentTurn(),
			Actions:     append([]models.Action(nil), session.Actions...),
		}
		return nil
	})
	if err != nil {
		var rejected *models.ActionRejectedError
		if errors.As(err, &rejected) {
			s.logger.Info("Action rejected by moderator",
				zap.String("session_id", sessionID),
				zap.String("player_id", playerID),
				zap.String("reason", rejected.Reason),
			)
		}
		return nil, err
	}

	s.logger.Info("Action accepted",
		zap.String("session_id", sessionID),
		zap.String("player_id", playerID),
		zap.Int("pace", pace),
		zap.Int("log_length", len(result.Actions)),
	)
	return result, nil
}

// EndGame завершает игру. Переход в completed фиксируется ПЕРВЫМ, под
// блокировкой сессии - после этого ни один конкурирующий ход уже не может
// дописаться в журнал. Затем судья и сценарист вызываются параллельно:
// их запросы независимы друг от друга.
func (s *GameService) EndGame(ctx context.Context, sessionID string) (*EndGameResult, error) {
	var transcript string
	var objectives []string

	err := s.repo.Update(ctx, sessionID, func(session *models.Session) error {
		if session.Status == models.StatusCompleted {
			return models.ErrAlreadyCompleted
		}
		session.Status = models.StatusCompleted
		transcript = session.Transcript()
		objectives = append([]string(nil), session.Objectives...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var judgment, videoScript string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var genErr error
		judgment, genErr = s.oracle.Generate(gctx, judgePrompt(transcript, objectives), judgeRole)
		return genErr
	})
	g.Go(func() error {
		var genErr error
		videoScript, genErr = s.oracle.Generate(gctx, scribePrompt(transcript), scribeRole)
		return genErr
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("End-game generation failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Game completed", zap.String("session_id", sessionID))
	return &EndGameResult{
		SessionID:   sessionID,
		Judgment:    judgment,
		VideoScript: videoScript,
		Transcript:  transcript,
		Objectives:  objectives,
	}, nil
}

// GetSession возвращает снимок сессии для чтения.
func (s *GameService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	return s.repo.Get(ctx, sessionID)
}

package repository

import (
	"context"
	"sync"

	"storygame-server/internal/models"

	"go.uber.org/zap"
)

// sessionEntry хранит сессию вместе с ее персональным мьютексом.
// Мьютекс записи удерживается на всю мутирующую операцию, включая
// сетевой вызов модератора: две конкурентные попытки хода в одной
// сессии обязаны сериализоваться, иначе оба действия могут попасть
// в один и тот же слот хода.
type sessionEntry struct {
	mu      sync.Mutex
	session *models.Session
}

// MemorySessionRepository - потокобезопасный реестр сессий в памяти.
// Время жизни реестра = время жизни процесса, долговременного хранения нет.
// Блокировка одной сессии не задерживает операции над другими сессиями:
// мьютекс реестра защищает только доступ к map.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	logger   *zap.Logger
}

// NewMemorySessionRepository создает пустой реестр сессий.
func NewMemorySessionRepository(logger *zap.Logger) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*sessionEntry),
		logger:   logger.Named("MemorySessionRepo"),
	}
}

// Create регистрирует новую сессию.
// Возвращает ErrDuplicateSession, если идентификатор уже занят:
// существующая сессия никогда молча не перезаписывается.
func (r *MemorySessionRepository) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return models.ErrDuplicateSession
	}

	r.sessions[session.ID] = &sessionEntry{session: session}
	r.logger.Info("Session created",
		zap.String("session_id", session.ID),
		zap.String("player1_id", session.Player1ID),
		zap.String("player2_id", session.Player2ID),
	)
	return nil
}

// Get возвращает глубокую копию сессии.
// Копия снимается под блокировкой сессии, чтобы читатель не увидел
// журнал действий в середине мутации.
func (r *MemorySessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	entry, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session.Clone(), nil
}

// Update выполняет fn над сессией под ее эксклюзивной блокировкой.
// fn может выполнять длительные операции (запрос к оракулу) - на это время
// остальные операции над ЭТОЙ сессией ждут, другие сессии не затрагиваются.
// Если fn возвращает ошибку, считается, что сессия не была изменена.
func (r *MemorySessionRepository) Update(ctx context.Context, id string, fn func(*models.Session) error) error {
	entry, err := r.lookup(id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(entry.session)
}

func (r *MemorySessionRepository) lookup(id string) (*sessionEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.sessions[id]
	if !exists {
		return nil, models.ErrSessionNotFound
	}
	return entry, nil
}

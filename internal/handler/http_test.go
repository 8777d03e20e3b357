package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storygame-server/internal/handler"
	"storygame-server/internal/models"
	"storygame-server/internal/repository"
	"storygame-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) Generate(ctx context.Context, prompt string, roleHint string) (string, error) {
	args := m.Called(ctx, prompt, roleHint)
	return args.String(0), args.Error(1)
}

func roleContains(substr string) interface{} {
	return mock.MatchedBy(func(role string) bool { return strings.Contains(role, substr) })
}

// newTestRouter собирает роутер с реальным сервисом и моком оракула.
func newTestRouter(oracle *mockOracle) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemorySessionRepository(zap.NewNop())
	svc := service.NewGameService(repo, oracle, zap.NewNop())
	h := handler.NewGameHandler(svc, zap.NewNop())

	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func expectStart(oracle *mockOracle) {
	oracle.On("Generate", mock.Anything, mock.Anything, roleContains("creative narrator")).
		Return("A tavern at dusk.", nil).Once()
	oracle.On("Generate", mock.Anything, mock.Anything, roleContains("objective generator")).
		Return("Steal the crown\nProtect the crown", nil).Once()
}

func startGame(t *testing.T, router *gin.Engine) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/start-game", gin.H{
		"session_id": "s1",
		"player1_id": "p1",
		"player2_id": "p2",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestStartGameEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)
		expectStart(oracle)

		rec := doJSON(t, router, http.MethodPost, "/start-game", gin.H{
			"session_id": "s1",
			"player1_id": "p1",
			"player2_id": "p2",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp handler.StartGameResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "A tavern at dusk.", resp.NarratorSetting)
		assert.Len(t, resp.Objectives, 2)
		assert.Equal(t, models.TurnPlayer1, resp.CurrentPlayer)
	})

	t.Run("Missing fields", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)

		rec := doJSON(t, router, http.MethodPost, "/start-game", gin.H{"session_id": "s1"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		oracle.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Duplicate id", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)
		expectStart(oracle)
		startGame(t, router)

		rec := doJSON(t, router, http.MethodPost, "/start-game", gin.H{
			"session_id": "s1",
			"player1_id": "p3",
			"player2_id": "p4",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestPlayerActionEndpoint(t *testing.T) {
	t.Run("Approved action", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)
		expectStart(oracle)
		startGame(t, router)

		oracle.On("Generate", mock.Anything, mock.Anything, roleContains("story moderator")).
			Return("APPROVED", nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/player-action", gin.H{
			"session_id": "s1",
			"player_id":  "p1",
			"action":     "A hero enters the tavern",
			"pace":       2,
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp handler.PlayerActionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, 2, resp.Action.Pace)
		assert.Equal(t, models.TurnPlayer2, resp.CurrentPlayer)
		assert.Len(t, resp.StoryActions, 1)
	})

	t.Run("Rejected action", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)
		expectStart(oracle)
		startGame(t, router)

		oracle.On("Generate", mock.Anything, mock.Anything, roleContains("story moderator")).
			Return("REJECTED too violent", nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/player-action", gin.H{
			"session_id": "s1",
			"player_id":  "p1",
			"action":     "A hero burns everything",
			"pace":       5,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "REJECTED too violent")
	})

	t.Run("Wrong turn", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)
		expectStart(oracle)
		startGame(t, router)

		rec := doJSON(t, router, http.MethodPost, "/player-action", gin.H{
			"session_id": "s1",
			"player_id":  "p2",
			"action":     "Out of order",
			"pace":       2,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "not your turn")
	})

	t.Run("Unknown session", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)

		rec := doJSON(t, router, http.MethodPost, "/player-action", gin.H{
			"session_id": "missing",
			"player_id":  "p1",
			"action":     "Hello",
			"pace":       2,
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Oracle timeout maps to 504", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)
		expectStart(oracle)
		startGame(t, router)

		oracle.On("Generate", mock.Anything, mock.Anything, roleContains("story moderator")).
			Return("", models.ErrOracleTimeout).Once()

		rec := doJSON(t, router, http.MethodPost, "/player-action", gin.H{
			"session_id": "s1",
			"player_id":  "p1",
			"action":     "A hero waits",
			"pace":       1,
		})

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})
}

func TestEndGameEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)
		expectStart(oracle)
		startGame(t, router)

		oracle.On("Generate", mock.Anything, mock.Anything, roleContains("fair judge")).
			Return("Player 1 wins.", nil).Once()
		oracle.On("Generate", mock.Anything, mock.Anything, roleContains("video script writer")).
			Return("FADE IN...", nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/end-game", gin.H{"session_id": "s1"})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp handler.EndGameResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Player 1 wins.", resp.JudgeResult)
		assert.Equal(t, "FADE IN...", resp.VideoScript)
		assert.Len(t, resp.Objectives, 2)
	})

	t.Run("Second call conflicts", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)
		expectStart(oracle)
		startGame(t, router)

		oracle.On("Generate", mock.Anything, mock.Anything, roleContains("fair judge")).
			Return("draw", nil).Once()
		oracle.On("Generate", mock.Anything, mock.Anything, roleContains("video script writer")).
			Return("script", nil).Once()
		first := doJSON(t, router, http.MethodPost, "/end-game", gin.H{"session_id": "s1"})
		require.Equal(t, http.StatusOK, first.Code)

		second := doJSON(t, router, http.MethodPost, "/end-game", gin.H{"session_id": "s1"})
		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("Unknown session", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)

		rec := doJSON(t, router, http.MethodPost, "/end-game", gin.H{"session_id": "missing"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGameStatusEndpoint(t *testing.T) {
	t.Run("Snapshot with derived turn", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)
		expectStart(oracle)
		startGame(t, router)

		rec := doJSON(t, router, http.MethodGet, "/game-status/s1", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp handler.SessionStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "s1", resp.SessionID)
		assert.Equal(t, models.StatusActive, resp.GameStatus)
		assert.Equal(t, models.TurnPlayer1, resp.CurrentPlayer)
		assert.Empty(t, resp.StoryActions)
	})

	t.Run("Unknown session", func(t *testing.T) {
		oracle := new(mockOracle)
		router := newTestRouter(oracle)

		rec := doJSON(t, router, http.MethodGet, "/game-status/missing", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

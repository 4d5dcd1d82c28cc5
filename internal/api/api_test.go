package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/triviagame/internal/api"
	"github.com/mcoot/triviagame/internal/api/handler"
	"github.com/mcoot/triviagame/internal/api/response"
	"github.com/mcoot/triviagame/internal/factory"
	"github.com/mcoot/triviagame/internal/middleware"
	"github.com/mcoot/triviagame/internal/testutil"
)

// testServer wraps the router around a test app with mocked randomness
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	require.NoError(t, app.LoadTestQuestions())
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		GameController: app.GameController,
		PlayerService:  app.PlayerService,
		ScoringService: app.ScoringService,
		HubManager:     app.HubManager,
		Metrics:        app.Metrics,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func (ts *testServer) createGame(t *testing.T) response.Game {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/games", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	return decode[response.Game](t, rr)
}

func (ts *testServer) join(t *testing.T, gameID, name string) response.Player {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/players", map[string]string{"name": name})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[response.Player](t, rr)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(middleware.RequestIDHeader))
}

func TestCreateAndGetGame(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueString("abcd")

	game := ts.createGame(t)
	assert.Equal(t, "abcd", game.ID)
	assert.Equal(t, "WaitingForPlayers", game.State)
	assert.Len(t, game.Questions, 3)
	assert.Empty(t, game.Players)
	for _, q := range game.Questions {
		assert.Contains(t, q.Answers, q.CorrectAnswer)
		assert.Len(t, q.Answers, 4)
	}

	rr := ts.request(http.MethodGet, "/api/v1/games/abcd", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "abcd", decode[response.Game](t, rr).ID)

	rr = ts.request(http.MethodGet, "/api/v1/games", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.GameList](t, rr).Games, 1)
}

func TestGetMissingGame(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "GAME_NOT_FOUND", decode[handler.ErrorResponse](t, rr).Error.Code)
}

func TestAddPlayerValidation(t *testing.T) {
	ts := newTestServer(t)
	game := ts.createGame(t)

	tests := []struct {
		name string
		body any
	}{
		{name: "missing name", body: map[string]string{}},
		{name: "blank name", body: map[string]string{"name": "   "}},
		{name: "wrong type", body: map[string]int{"name": 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/players", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "INVALID_REQUEST", decode[handler.ErrorResponse](t, rr).Error.Code)
		})
	}
}

func TestAddPlayerKeepsNameVerbatim(t *testing.T) {
	ts := newTestServer(t)
	game := ts.createGame(t)

	plain := ts.join(t, game.ID, "Alice")
	padded := ts.join(t, game.ID, " Alice")
	assert.NotEqual(t, plain.ID, padded.ID)
	assert.Equal(t, " Alice", padded.Name)

	again := ts.join(t, game.ID, "Alice")
	assert.Equal(t, plain.ID, again.ID)

	rr := ts.request(http.MethodGet, "/api/v1/games/"+game.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.Game](t, rr).Players, 2)
}

func TestFullGameOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	game := ts.createGame(t)

	alice := ts.join(t, game.ID, "Alice")
	bob := ts.join(t, game.ID, "Bob")
	assert.Equal(t, "Alice", alice.Name)
	assert.NotEqual(t, alice.ID, bob.ID)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/start", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	started := decode[response.Game](t, rr)
	assert.Equal(t, "Started", started.State)
	assert.Len(t, started.Players, 2)

	q := started.Questions[0]
	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/answers", map[string]string{
		"player_id":   alice.ID,
		"question_id": q.ID,
		"answer":      q.CorrectAnswer,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/answers", map[string]string{
		"player_id":   bob.ID,
		"question_id": q.ID,
		"answer":      "definitely wrong",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+game.ID+"/players/"+alice.ID+"/results", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	results := decode[response.PlayerResults](t, rr)
	require.Len(t, results.Results, 1)
	assert.True(t, results.Results[0].Correct)
	assert.Equal(t, q.CorrectAnswer, results.Results[0].SubmittedAnswer)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+game.ID+"/scores", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	board := decode[response.Scoreboard](t, rr)
	require.Len(t, board.Scores, 2)
	assert.Equal(t, alice.ID, board.Scores[0].PlayerID)
	require.NotNil(t, board.Winner)
	assert.Equal(t, alice.ID, *board.Winner)

	rr = ts.request(http.MethodGet, "/api/v1/players/"+bob.ID+"/games", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.PlayerGames](t, rr).Games, 1)

	rr = ts.request(http.MethodGet, "/api/v1/players/"+bob.ID+"/games/"+game.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSubmitAnswerErrors(t *testing.T) {
	ts := newTestServer(t)
	game := ts.createGame(t)
	player := ts.join(t, game.ID, "Player")
	question := game.Questions[0]

	// Another player exists but never joined this game
	other := ts.createGame(t)
	outsider := ts.join(t, other.ID, "Outsider")

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing player id",
			body:       map[string]string{"question_id": string(question.ID), "answer": "x"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "missing question id",
			body:       map[string]string{"player_id": player.ID, "answer": "x"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "unknown player",
			body:       map[string]string{"player_id": "zzzz", "question_id": question.ID, "answer": "x"},
			wantStatus: http.StatusNotFound,
			wantCode:   "PLAYER_NOT_FOUND",
		},
		{
			name:       "unknown question",
			body:       map[string]string{"player_id": player.ID, "question_id": "missing", "answer": "x"},
			wantStatus: http.StatusNotFound,
			wantCode:   "QUESTION_NOT_FOUND",
		},
		{
			name:       "player not in game",
			body:       map[string]string{"player_id": outsider.ID, "question_id": question.ID, "answer": "x"},
			wantStatus: http.StatusForbidden,
			wantCode:   "PLAYER_NOT_IN_GAME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/answers", tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCode, decode[handler.ErrorResponse](t, rr).Error.Code)
		})
	}
}

func TestPlayerGameGuard(t *testing.T) {
	ts := newTestServer(t)
	joined := ts.createGame(t)
	other := ts.createGame(t)
	player := ts.join(t, joined.ID, "Guarded")

	rr := ts.request(http.MethodGet, "/api/v1/players/"+player.ID+"/games/"+other.ID, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players/nobody", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestScoresWithoutWinner(t *testing.T) {
	ts := newTestServer(t)
	game := ts.createGame(t)
	ts.join(t, game.ID, "Solo")

	rr := ts.request(http.MethodGet, "/api/v1/games/"+game.ID+"/scores", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	board := decode[response.Scoreboard](t, rr)
	assert.Nil(t, board.Winner)
	assert.Len(t, board.Scores, 1)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.createGame(t)

	rr := ts.request(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "trivia_games_created_total 1")
	assert.Contains(t, body, `route="/api/v1/games"`)
}

func TestEventsStream(t *testing.T) {
	ts := newTestServer(t)
	game := ts.createGame(t)

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/games/"+game.ID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)

	// The client is registered once the connected event is sent, so a
	// sweep of empty hubs leaves the stream open
	ts.app.HubManager.CleanupEmptyHubs()
	ts.join(t, game.ID, "Watcher")

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: ") && line != "event: connected\n" {
			break
		}
	}
	assert.Equal(t, "event: player_joined\n", line)
}

func TestEventsForMissingGame(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/nope/events", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

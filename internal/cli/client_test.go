package cli

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/triviagame/internal/api/response"
)

func TestClientDecodesSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/players/abcd", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abcd","name":"Ada"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", false)
	var p response.Player
	require.NoError(t, c.Get(playerPath("abcd"), &p))
	assert.Equal(t, "Ada", p.Name)
}

func TestClientReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"GAME_NOT_FOUND","message":"Game not found"}}`))
	}))
	defer server.Close()

	err := NewClient(server.URL, false).Get(gamePath("nope"), nil)
	require.Error(t, err)
	assert.Equal(t, "Game not found (GAME_NOT_FOUND)", err.Error())
}

func TestClientReturnsRawBodyOnUnknownError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(server.URL, false).Post("/api/v1/games", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestPathsEscapeSegments(t *testing.T) {
	assert.Equal(t, "/api/v1/games/ab%2Fc/players/x/results", gamePath("ab/c", "players", "x", "results"))
	assert.Equal(t, "/api/v1/players/a%20b", playerPath("a b"))
}

func TestRootRejectsUnknownOutput(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--output", "yaml", "health"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --output")
}

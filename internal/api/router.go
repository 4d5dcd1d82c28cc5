package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/triviagame/internal/api/events"
	"github.com/mcoot/triviagame/internal/api/handler"
	"github.com/mcoot/triviagame/internal/api/middleware"
	"github.com/mcoot/triviagame/internal/metrics"
	commonmw "github.com/mcoot/triviagame/internal/middleware"
	"github.com/mcoot/triviagame/internal/services/game"
	"github.com/mcoot/triviagame/internal/services/player"
	"github.com/mcoot/triviagame/internal/services/scoring"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	PlayerService  *player.Service
	ScoringService *scoring.Service
	HubManager     *events.HubManager
	Metrics        *metrics.Recorder
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.ScoringService, cfg.HubManager)
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService, cfg.ScoringService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(commonmw.RequestID)
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(commonmw.Logging(cfg.Logger))
	api.Use(middleware.Metrics(cfg.Metrics))

	games := api.PathPrefix("/games").Subrouter()
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("", gameHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}/players", gameHandler.AddPlayer).Methods(http.MethodPost)
	games.HandleFunc("/{id}/start", gameHandler.Start).Methods(http.MethodPost)
	games.HandleFunc("/{id}/answers", gameHandler.SubmitAnswer).Methods(http.MethodPost)
	games.HandleFunc("/{id}/players/{player_id}/results", gameHandler.Results).Methods(http.MethodGet)
	games.HandleFunc("/{id}/scores", gameHandler.Scores).Methods(http.MethodGet)
	games.HandleFunc("/{id}/events", gameHandler.Events).Methods(http.MethodGet)

	players := api.PathPrefix("/players").Subrouter()
	players.HandleFunc("/{id}", playerHandler.Get).Methods(http.MethodGet)
	players.HandleFunc("/{id}/games", playerHandler.Games).Methods(http.MethodGet)
	players.HandleFunc("/{id}/games/{game_id}", playerHandler.Game).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

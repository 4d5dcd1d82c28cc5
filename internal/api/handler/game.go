package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/triviagame/internal/api/events"
	"github.com/mcoot/triviagame/internal/api/request"
	"github.com/mcoot/triviagame/internal/api/response"
	"github.com/mcoot/triviagame/internal/model"
	"github.com/mcoot/triviagame/internal/services/game"
	"github.com/mcoot/triviagame/internal/services/scoring"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController *game.Controller
	scoringService *scoring.Service
	hubManager     *events.HubManager
}

// NewGameHandler creates a new game handler
func NewGameHandler(
	gameController *game.Controller,
	scoringService *scoring.Service,
	hubManager *events.HubManager,
) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		scoringService: scoringService,
		hubManager:     hubManager,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.CreateGame(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g, h.scoringService.Choices))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameController.GetGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameListFromModels(games, h.scoringService.Choices))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, h.scoringService.Choices))
}

// AddPlayer handles POST /api/v1/games/{id}/players
func (h *GameHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var req request.AddPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	// Names match exactly, so only blank names are rejected and none are trimmed
	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	user, err := h.gameController.AddPlayerToGame(r.Context(), gameID(r), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(user))
}

// Start handles POST /api/v1/games/{id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.StartGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, h.scoringService.Choices))
}

// SubmitAnswer handles POST /api/v1/games/{id}/answers
func (h *GameHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}
	if req.QuestionID == "" {
		WriteError(w, NewInvalidRequestError("question_id is required"))
		return
	}

	user, err := h.gameController.SubmitAnswer(
		r.Context(),
		gameID(r),
		model.UserID(req.PlayerID),
		model.QuestionID(req.QuestionID),
		req.Answer,
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(user))
}

// Results handles GET /api/v1/games/{id}/players/{player_id}/results
func (h *GameHandler) Results(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	playerID := model.UserID(mux.Vars(r)["player_id"])

	results, err := h.gameController.PlayerResults(r.Context(), id, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerResultsFromModel(id, playerID, results))
}

// Scores handles GET /api/v1/games/{id}/scores
func (h *GameHandler) Scores(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)

	scores, err := h.gameController.GameScores(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	winner := h.scoringService.DetermineWinner(scores)
	response.JSON(w, http.StatusOK, response.ScoreboardFromModel(id, scores, winner))
}

// Events handles GET /api/v1/games/{id}/events as a server-sent event stream.
// The optional player_id query parameter tags the connection in logs.
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	events.Serve(w, r, h.hubManager, g.ID, model.UserID(r.URL.Query().Get("player_id")))
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

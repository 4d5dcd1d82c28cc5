package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/triviagame/internal/api/response"
	"github.com/mcoot/triviagame/internal/model"
	"github.com/mcoot/triviagame/internal/services/player"
	"github.com/mcoot/triviagame/internal/services/scoring"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	playerService  *player.Service
	scoringService *scoring.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *player.Service, scoringService *scoring.Service) *PlayerHandler {
	return &PlayerHandler{
		playerService:  playerService,
		scoringService: scoringService,
	}
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.playerService.GetPlayer(r.Context(), playerID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(user))
}

// Games handles GET /api/v1/players/{id}/games
func (h *PlayerHandler) Games(w http.ResponseWriter, r *http.Request) {
	id := playerID(r)

	games, err := h.playerService.Games(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.PlayerGames{
		PlayerID: string(id),
		Games:    response.GameListFromModels(games, h.scoringService.Choices).Games,
	}
	response.JSON(w, http.StatusOK, resp)
}

// Game handles GET /api/v1/players/{id}/games/{game_id}
func (h *PlayerHandler) Game(w http.ResponseWriter, r *http.Request) {
	g, err := h.playerService.Game(r.Context(), playerID(r), model.GameID(mux.Vars(r)["game_id"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, h.scoringService.Choices))
}

func playerID(r *http.Request) model.UserID {
	return model.UserID(mux.Vars(r)["id"])
}

package player

import (
	"context"
	"log/slog"

	"github.com/mcoot/triviagame/internal/model"
	"github.com/mcoot/triviagame/internal/storage"
)

// Service answers queries from a player's point of view
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new player Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// GetPlayer retrieves a player by ID
func (s *Service) GetPlayer(ctx context.Context, playerID model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, playerID)
}

// Games returns every game the player has joined
func (s *Service) Games(ctx context.Context, playerID model.UserID) ([]*model.Game, error) {
	if _, err := s.storage.GetUser(ctx, playerID); err != nil {
		return nil, err
	}
	return s.storage.GetUserGames(ctx, playerID)
}

// Game returns a game the player has joined. Players cannot view games
// they are not part of.
func (s *Service) Game(ctx context.Context, playerID model.UserID, gameID model.GameID) (*model.Game, error) {
	if _, err := s.storage.GetUser(ctx, playerID); err != nil {
		return nil, err
	}

	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if !game.HasPlayer(playerID) {
		s.logger.Warn("player denied access to game",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(playerID)),
		)
		return nil, model.ErrPlayerNotInGame
	}
	return game, nil
}

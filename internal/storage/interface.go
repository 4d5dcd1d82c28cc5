package storage

import (
	"context"

	"github.com/mcoot/triviagame/internal/model"
)

// Storage defines the interface for data persistence.
// Single-entity lookups return a model.Err*NotFound error when the entity is absent.
type Storage interface {
	// Game operations
	GetGames(ctx context.Context) ([]*model.Game, error)
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GetUserGames(ctx context.Context, userID model.UserID) ([]*model.Game, error)
	// CreateGame persists a new game with a random selection of up to
	// GameQuestionCount questions from the pool
	CreateGame(ctx context.Context, questions []model.Question) (*model.Game, error)
	// UpdateGame replaces the stored game. It fails with model.ErrGameConflict
	// if the stored version differs from game.Version, and bumps
	// game.Version on success.
	UpdateGame(ctx context.Context, game *model.Game) error

	// User operations
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	// CreateUser returns the existing user with this exact name, or creates one
	CreateUser(ctx context.Context, name string) (*model.User, error)

	// Question operations
	GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error)
	GetQuestions(ctx context.Context) ([]model.Question, error)
	SaveQuestions(ctx context.Context, questions []model.Question) error
}

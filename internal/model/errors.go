package model

import "errors"

// Common errors used across the application
var (
	// Lookup errors
	ErrGameNotFound     = errors.New("game not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrQuestionNotFound = errors.New("question not found")

	// Game errors
	ErrPlayerNotInGame = errors.New("player not part of the game")

	// Storage errors
	ErrGameConflict = errors.New("game was modified concurrently")
)

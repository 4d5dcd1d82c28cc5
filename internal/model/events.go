package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventPlayerJoined    EventType = "player_joined"
	EventGameStarted     EventType = "game_started"
	EventAnswerSubmitted EventType = "answer_submitted"
)

// Event is the base structure for all game events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	GameID    GameID    `json:"game_id"`
	PlayerID  UserID    `json:"player_id,omitempty"` // Empty for game-wide events
	Payload   any       `json:"payload,omitempty"`
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	PlayerID    UserID `json:"player_id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"player_count"`
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	PlayerCount   int `json:"player_count"`
	QuestionCount int `json:"question_count"`
}

// AnswerSubmittedPayload contains data for answer submitted events.
// The answer text is withheld so other players cannot see it.
type AnswerSubmittedPayload struct {
	QuestionID QuestionID `json:"question_id"`
	Resubmit   bool       `json:"resubmit"`
}

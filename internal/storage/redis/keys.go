package redis

import (
	"fmt"

	"github.com/mcoot/triviagame/internal/model"
)

// Key prefix for all trivia data
const keyPrefix = "trivia"

// documentKey returns the Redis key for an entity document, partitioned by model kind
func documentKey(kind model.ModelKind, id string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, kind, id)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return documentKey(model.KindGame, string(id))
}

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return documentKey(model.KindUser, string(id))
}

// questionKey returns the Redis key for a Question
func questionKey(id model.QuestionID) string {
	return documentKey(model.KindQuestion, string(id))
}

// kindIndexKey returns the Redis key for the LIST of ids of one model kind, in creation order
func kindIndexKey(kind model.ModelKind) string {
	return fmt.Sprintf("%s:idx:kind:%s", keyPrefix, kind)
}

// userNameIndexKey returns the Redis key for the name -> user id index
func userNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:user_name:%s", keyPrefix, name)
}

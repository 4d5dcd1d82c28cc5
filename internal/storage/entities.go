package storage

import (
	"errors"

	"github.com/mcoot/triviagame/internal/dependencies/random"
	"github.com/mcoot/triviagame/internal/model"
)

// GameQuestionCount is the number of questions selected for each game
const GameQuestionCount = 10

// MaxIDDraws bounds how many codes are tried before giving up on a free id
const MaxIDDraws = 32

// ErrNoFreeID is returned when every drawn code was already taken
var ErrNoFreeID = errors.New("no free id after repeated draws")

// NewGame builds a game with a fresh join code and a random selection of
// questions from the pool. The pool slice is shuffled in place.
// Pools smaller than GameQuestionCount yield a shorter game.
func NewGame(rnd random.Random, pool []model.Question) *model.Game {
	selected := random.Shuffle(rnd, pool)
	if len(selected) > GameQuestionCount {
		selected = selected[:GameQuestionCount]
	}
	return model.NewGame(model.GameID(random.Code(rnd)), selected)
}

// NewUser builds a user with a fresh id
func NewUser(rnd random.Random, name string) *model.User {
	return model.NewUser(model.UserID(random.Code(rnd)), name)
}

// ClaimID offers first and then freshly drawn codes to claim until claim
// reports the code as newly taken. Backends pass a claim that stores the
// document only if no document of that kind already has the id.
func ClaimID(rnd random.Random, first string, claim func(id string) (bool, error)) (string, error) {
	id := first
	for range MaxIDDraws {
		ok, err := claim(id)
		if err != nil {
			return "", err
		}
		if ok {
			return id, nil
		}
		id = random.Code(rnd)
	}
	return "", ErrNoFreeID
}

// PrepareQuestions returns copies of the questions tagged with the question model kind
func PrepareQuestions(questions []model.Question) []model.Question {
	prepared := make([]model.Question, len(questions))
	for i, q := range questions {
		q = q.Clone()
		q.Kind = model.KindQuestion
		prepared[i] = q
	}
	return prepared
}

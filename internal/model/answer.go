package model

import "fmt"

// AnswerID identifies a submitted answer.
// It is derived from the game, question and player so it doubles as an idempotency key.
type AnswerID string

// NewAnswerID derives the answer id as {gameId}-{questionId}-{playerId}
func NewAnswerID(gameID GameID, questionID QuestionID, userID UserID) AnswerID {
	return AnswerID(fmt.Sprintf("%s-%s-%s", gameID, questionID, userID))
}

// Answer records one player's answer to one question.
// User and Question are embedded by value.
type Answer struct {
	ID       AnswerID  `json:"id"`
	Kind     ModelKind `json:"modelType"`
	User     User      `json:"user"`
	Question Question  `json:"question"`
	Answer   string    `json:"answer"`
}

// NewAnswer builds an answer for the given game
func NewAnswer(gameID GameID, user User, question Question, answer string) Answer {
	return Answer{
		ID:       NewAnswerID(gameID, question.ID, user.ID),
		Kind:     KindUserAnswer,
		User:     user.Clone(),
		Question: question.Clone(),
		Answer:   answer,
	}
}

// IsCorrect reports whether the submitted answer matches the question's correct answer
func (a *Answer) IsCorrect() bool {
	return a.Question.IsCorrect(a.Answer)
}

package response

import (
	"github.com/mcoot/triviagame/internal/model"
)

// ChoicesFunc returns a question's answer choices in display order
type ChoicesFunc func(question model.Question) []string

// Player represents a player in API responses
type Player struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	IdentityProvider string   `json:"identity_provider"`
	UserDetails      string   `json:"user_details"`
	UserRoles        []string `json:"user_roles"`
}

// PlayerFromModel converts a model.User to a response Player
func PlayerFromModel(u *model.User) Player {
	roles := u.UserRoles
	if roles == nil {
		roles = []string{}
	}
	return Player{
		ID:               string(u.ID),
		Name:             u.Name,
		IdentityProvider: u.IdentityProvider,
		UserDetails:      u.UserDetails,
		UserRoles:        roles,
	}
}

// Question represents a game question with its choices shuffled
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	Type          string   `json:"type"`
	Answers       []string `json:"answers"`
	CorrectAnswer string   `json:"correct_answer"`
}

// QuestionFromModel converts a model.Question
func QuestionFromModel(q model.Question, choices ChoicesFunc) Question {
	return Question{
		ID:            string(q.ID),
		Question:      q.Question,
		Category:      q.Category,
		Difficulty:    string(q.Difficulty),
		Type:          q.Type,
		Answers:       choices(q),
		CorrectAnswer: q.CorrectAnswer,
	}
}

// Answer represents a submitted answer
type Answer struct {
	ID         string `json:"id"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	Correct    bool   `json:"correct"`
}

// AnswerFromModel converts a model.Answer
func AnswerFromModel(a model.Answer) Answer {
	return Answer{
		ID:         string(a.ID),
		PlayerID:   string(a.User.ID),
		PlayerName: a.User.Name,
		QuestionID: string(a.Question.ID),
		Answer:     a.Answer,
		Correct:    a.IsCorrect(),
	}
}

// Game represents a game in API responses
type Game struct {
	ID        string     `json:"id"`
	State     string     `json:"state"`
	Players   []Player   `json:"players"`
	Questions []Question `json:"questions"`
	Answers   []Answer   `json:"answers"`
	Version   int64      `json:"version"`
}

// GameFromModel converts a model.Game
func GameFromModel(g *model.Game, choices ChoicesFunc) Game {
	players := make([]Player, len(g.Players))
	for i := range g.Players {
		players[i] = PlayerFromModel(&g.Players[i])
	}

	questions := make([]Question, len(g.Questions))
	for i, q := range g.Questions {
		questions[i] = QuestionFromModel(q, choices)
	}

	answers := make([]Answer, len(g.Answers))
	for i, a := range g.Answers {
		answers[i] = AnswerFromModel(a)
	}

	return Game{
		ID:        string(g.ID),
		State:     string(g.State),
		Players:   players,
		Questions: questions,
		Answers:   answers,
		Version:   g.Version,
	}
}

// GameList is the response for listing games
type GameList struct {
	Games []Game `json:"games"`
}

// GameListFromModels converts a slice of games
func GameListFromModels(games []*model.Game, choices ChoicesFunc) GameList {
	list := GameList{Games: make([]Game, len(games))}
	for i, g := range games {
		list.Games[i] = GameFromModel(g, choices)
	}
	return list
}

// PlayerResult describes how a player answered one question
type PlayerResult struct {
	Name            string   `json:"name"`
	Answers         []string `json:"answers"`
	Question        string   `json:"question"`
	CorrectAnswer   string   `json:"correct_answer"`
	SubmittedAnswer string   `json:"submitted_answer"`
	Correct         bool     `json:"correct"`
}

// PlayerResults is the response for a player's results in a game
type PlayerResults struct {
	GameID   string         `json:"game_id"`
	PlayerID string         `json:"player_id"`
	Results  []PlayerResult `json:"results"`
}

// PlayerResultsFromModel converts a player's results
func PlayerResultsFromModel(gameID model.GameID, playerID model.UserID, results []model.PlayerResult) PlayerResults {
	resp := PlayerResults{
		GameID:   string(gameID),
		PlayerID: string(playerID),
		Results:  make([]PlayerResult, len(results)),
	}
	for i, r := range results {
		resp.Results[i] = PlayerResult{
			Name:            r.Name,
			Answers:         r.Answers,
			Question:        r.Question,
			CorrectAnswer:   r.CorrectAnswer,
			SubmittedAnswer: r.SubmittedAnswer,
			Correct:         r.Correct,
		}
	}
	return resp
}

// PlayerScore is one scoreboard row
type PlayerScore struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Answered int    `json:"answered"`
	Correct  int    `json:"correct"`
}

// Scoreboard is the response for a game's scores
type Scoreboard struct {
	GameID string        `json:"game_id"`
	Scores []PlayerScore `json:"scores"`
	Winner *string       `json:"winner"`
}

// ScoreboardFromModel converts scores and the winner, if any
func ScoreboardFromModel(gameID model.GameID, scores []model.PlayerScore, winner model.UserID) Scoreboard {
	resp := Scoreboard{
		GameID: string(gameID),
		Scores: make([]PlayerScore, len(scores)),
	}
	for i, s := range scores {
		resp.Scores[i] = PlayerScore{
			PlayerID: string(s.PlayerID),
			Name:     s.Name,
			Answered: s.Answered,
			Correct:  s.Correct,
		}
	}
	if winner != "" {
		w := string(winner)
		resp.Winner = &w
	}
	return resp
}

// PlayerGames is the response for the games a player has joined
type PlayerGames struct {
	PlayerID string `json:"player_id"`
	Games    []Game `json:"games"`
}

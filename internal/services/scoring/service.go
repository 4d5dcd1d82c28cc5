package scoring

import (
	"sort"

	"github.com/mcoot/triviagame/internal/dependencies/random"
	"github.com/mcoot/triviagame/internal/model"
)

// Service computes per-player results and scoreboards from a game's answers
type Service struct {
	random random.Random
}

// New creates a new ScoringService
func New(random random.Random) *Service {
	return &Service{
		random: random,
	}
}

// Choices returns every answer choice for a question in a random order
func (s *Service) Choices(question model.Question) []string {
	return random.Shuffle(s.random, question.Choices())
}

// PlayerResults reports each answer the player submitted, in submission order
func (s *Service) PlayerResults(game *model.Game, playerID model.UserID) []model.PlayerResult {
	answers := game.AnswersFor(playerID)
	results := make([]model.PlayerResult, 0, len(answers))
	for _, answer := range answers {
		question := answer.Question
		results = append(results, model.PlayerResult{
			Name:            answer.User.Name,
			Answers:         s.Choices(question),
			Question:        question.Question,
			CorrectAnswer:   question.CorrectAnswer,
			SubmittedAnswer: answer.Answer,
			Correct:         answer.IsCorrect(),
		})
	}
	return results
}

// GameScores tallies every player's answers, sorted by correct answers
// descending and then by name. Players who never answered score zero.
func (s *Service) GameScores(game *model.Game) []model.PlayerScore {
	scores := make([]model.PlayerScore, 0, len(game.Players))
	index := make(map[model.UserID]int, len(game.Players))
	for _, player := range game.Players {
		index[player.ID] = len(scores)
		scores = append(scores, model.PlayerScore{
			PlayerID: player.ID,
			Name:     player.Name,
		})
	}

	for _, answer := range game.Answers {
		i, ok := index[answer.User.ID]
		if !ok {
			continue
		}
		scores[i].Answered++
		if answer.IsCorrect() {
			scores[i].Correct++
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Correct != scores[j].Correct {
			return scores[i].Correct > scores[j].Correct
		}
		return scores[i].Name < scores[j].Name
	})

	return scores
}

// DetermineWinner returns the leading player's id, or empty string if tied or nobody scored
func (s *Service) DetermineWinner(scores []model.PlayerScore) model.UserID {
	if len(scores) == 0 || scores[0].Correct == 0 {
		return ""
	}

	if len(scores) > 1 && scores[1].Correct == scores[0].Correct {
		return "" // Tie
	}

	return scores[0].PlayerID
}

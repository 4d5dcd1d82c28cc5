package scoring

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/triviagame/internal/dependencies/mocks"
	"github.com/mcoot/triviagame/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	service *Service
	game    *model.Game
	alice   model.User
	bob     model.User
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.service = New(s.random)

	s.game = model.NewGame("abcd", []model.Question{
		question("1", "Capital of France?", "Paris", "Lyon", "Nice"),
		question("2", "2 + 2?", "4", "3", "5"),
		question("3", "Largest planet?", "Jupiter", "Mars", "Venus"),
	})
	s.alice = *model.NewUser("u1", "Alice")
	s.bob = *model.NewUser("u2", "Bob")
	s.game.AddPlayer(s.alice)
	s.game.AddPlayer(s.bob)
}

func question(id, text, correct string, incorrect ...string) model.Question {
	return model.Question{
		ID:               model.QuestionID(id),
		Kind:             model.KindQuestion,
		Question:         text,
		CorrectAnswer:    correct,
		IncorrectAnswers: incorrect,
	}
}

func (s *ServiceSuite) answer(user model.User, questionIdx int, text string) {
	s.game.UpsertAnswer(model.NewAnswer(s.game.ID, user, s.game.Questions[questionIdx], text))
}

// Choices tests

func (s *ServiceSuite) TestChoicesContainsEveryAnswer() {
	choices := s.service.Choices(s.game.Questions[0])
	s.ElementsMatch([]string{"Paris", "Lyon", "Nice"}, choices)
}

func (s *ServiceSuite) TestChoicesUsesRandomSource() {
	// Fisher-Yates over [Lyon Nice Paris]: i=2 swaps with 0, i=1 swaps with 0
	s.random.QueueIntn(0, 0)
	choices := s.service.Choices(s.game.Questions[0])
	s.Equal([]string{"Nice", "Paris", "Lyon"}, choices)
}

func (s *ServiceSuite) TestChoicesDoesNotModifyQuestion() {
	q := s.game.Questions[0]
	_ = s.service.Choices(q)
	s.Equal([]string{"Lyon", "Nice"}, q.IncorrectAnswers)
}

// PlayerResults tests

func (s *ServiceSuite) TestPlayerResultsNoAnswers() {
	results := s.service.PlayerResults(s.game, s.alice.ID)
	s.Empty(results)
}

func (s *ServiceSuite) TestPlayerResultsInSubmissionOrder() {
	s.answer(s.alice, 2, "Jupiter")
	s.answer(s.bob, 0, "Paris")
	s.answer(s.alice, 0, "Lyon")

	results := s.service.PlayerResults(s.game, s.alice.ID)
	s.Require().Len(results, 2)

	s.Equal("Alice", results[0].Name)
	s.Equal("Largest planet?", results[0].Question)
	s.Equal("Jupiter", results[0].CorrectAnswer)
	s.Equal("Jupiter", results[0].SubmittedAnswer)
	s.True(results[0].Correct)
	s.ElementsMatch([]string{"Jupiter", "Mars", "Venus"}, results[0].Answers)

	s.Equal("Capital of France?", results[1].Question)
	s.Equal("Lyon", results[1].SubmittedAnswer)
	s.False(results[1].Correct)
}

func (s *ServiceSuite) TestPlayerResultsCorrectnessIsExactMatch() {
	s.answer(s.alice, 0, "paris")
	results := s.service.PlayerResults(s.game, s.alice.ID)
	s.Require().Len(results, 1)
	s.False(results[0].Correct)
}

func (s *ServiceSuite) TestPlayerResultsAfterResubmission() {
	s.answer(s.alice, 0, "Lyon")
	s.answer(s.alice, 1, "4")
	s.answer(s.alice, 0, "Paris")

	results := s.service.PlayerResults(s.game, s.alice.ID)
	s.Require().Len(results, 2)
	s.Equal("Paris", results[0].SubmittedAnswer)
	s.True(results[0].Correct)
	s.Equal("4", results[1].SubmittedAnswer)
}

// GameScores tests

func (s *ServiceSuite) TestGameScoresNoAnswers() {
	scores := s.service.GameScores(s.game)
	s.Require().Len(scores, 2)
	// Ties sort by name
	s.Equal("Alice", scores[0].Name)
	s.Equal("Bob", scores[1].Name)
	s.Equal(0, scores[0].Correct)
	s.Equal(0, scores[0].Answered)
}

func (s *ServiceSuite) TestGameScoresSortedByCorrect() {
	s.answer(s.alice, 0, "Lyon")
	s.answer(s.alice, 1, "4")
	s.answer(s.bob, 0, "Paris")
	s.answer(s.bob, 1, "4")
	s.answer(s.bob, 2, "Mars")

	scores := s.service.GameScores(s.game)
	s.Require().Len(scores, 2)
	s.Equal(model.PlayerScore{PlayerID: "u2", Name: "Bob", Answered: 3, Correct: 2}, scores[0])
	s.Equal(model.PlayerScore{PlayerID: "u1", Name: "Alice", Answered: 2, Correct: 1}, scores[1])
}

func (s *ServiceSuite) TestGameScoresIgnoresNonPlayers() {
	stranger := *model.NewUser("u9", "Mallory")
	s.answer(stranger, 0, "Paris")

	scores := s.service.GameScores(s.game)
	s.Len(scores, 2)
	for _, score := range scores {
		s.NotEqual("Mallory", score.Name)
	}
}

// DetermineWinner tests

func (s *ServiceSuite) TestDetermineWinner() {
	s.answer(s.bob, 0, "Paris")

	winner := s.service.DetermineWinner(s.service.GameScores(s.game))
	s.Equal(s.bob.ID, winner)
}

func (s *ServiceSuite) TestDetermineWinnerTie() {
	s.answer(s.alice, 0, "Paris")
	s.answer(s.bob, 1, "4")

	winner := s.service.DetermineWinner(s.service.GameScores(s.game))
	s.Empty(winner)
}

func (s *ServiceSuite) TestDetermineWinnerNobodyScored() {
	s.Empty(s.service.DetermineWinner(s.service.GameScores(s.game)))
	s.Empty(s.service.DetermineWinner(nil))
}

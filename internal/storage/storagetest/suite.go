// Package storagetest holds a test suite every storage backend must pass.
package storagetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/triviagame/internal/dependencies/mocks"
	"github.com/mcoot/triviagame/internal/dependencies/random"
	"github.com/mcoot/triviagame/internal/model"
	"github.com/mcoot/triviagame/internal/storage"
)

// ContractSuite exercises the storage.Storage contract.
// Backends embed it and set NewStorage.
type ContractSuite struct {
	suite.Suite
	Ctx     context.Context
	Storage storage.Storage

	// NewStorage creates an empty storage instance drawing ids from rnd
	NewStorage func(rnd random.Random) storage.Storage
}

// SetupTest creates a fresh storage for each test
func (s *ContractSuite) SetupTest() {
	s.Ctx = context.Background()
	s.Storage = s.NewStorage(random.New())
}

// Questions builds n distinct test questions
func Questions(n int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			ID:               model.QuestionID(fmt.Sprintf("%d", i+1)),
			Kind:             model.KindQuestion,
			Question:         fmt.Sprintf("Question %d?", i+1),
			Category:         "General Knowledge",
			CorrectAnswer:    "right",
			IncorrectAnswers: []string{"wrong a", "wrong b", "wrong c"},
			Difficulty:       model.DifficultyMedium,
			Type:             "multiple",
		}
	}
	return questions
}

// Game tests

func (s *ContractSuite) TestCreateGame() {
	game, err := s.Storage.CreateGame(s.Ctx, Questions(15))
	s.Require().NoError(err)

	s.NotEmpty(game.ID)
	s.Equal(model.KindGame, game.Kind)
	s.Equal(model.GameStateWaitingForPlayers, game.State)
	s.Len(game.Questions, storage.GameQuestionCount)
	s.Empty(game.Players)
	s.Empty(game.Answers)

	retrieved, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(game.Questions, retrieved.Questions)
	s.Equal(game.Version, retrieved.Version)
}

func (s *ContractSuite) TestCreateGameSelectsDistinctQuestions() {
	game, err := s.Storage.CreateGame(s.Ctx, Questions(25))
	s.Require().NoError(err)

	seen := make(map[model.QuestionID]bool)
	for _, q := range game.Questions {
		s.False(seen[q.ID], "duplicate question %s", q.ID)
		seen[q.ID] = true
	}
}

func (s *ContractSuite) TestCreateGameWithSmallPool() {
	game, err := s.Storage.CreateGame(s.Ctx, Questions(3))
	s.Require().NoError(err)
	s.Len(game.Questions, 3)
}

func (s *ContractSuite) TestCreateGameWithEmptyPool() {
	game, err := s.Storage.CreateGame(s.Ctx, nil)
	s.Require().NoError(err)
	s.Empty(game.Questions)
}

func (s *ContractSuite) TestGetGameNotFound() {
	_, err := s.Storage.GetGame(s.Ctx, "nope")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ContractSuite) TestGetGames() {
	empty, err := s.Storage.GetGames(s.Ctx)
	s.Require().NoError(err)
	s.Empty(empty)

	g1, err := s.Storage.CreateGame(s.Ctx, Questions(2))
	s.Require().NoError(err)
	g2, err := s.Storage.CreateGame(s.Ctx, Questions(2))
	s.Require().NoError(err)

	games, err := s.Storage.GetGames(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(g1.ID, games[0].ID)
	s.Equal(g2.ID, games[1].ID)
}

func (s *ContractSuite) TestCreateGameRedrawsTakenID() {
	rnd := mocks.NewMockRandom()
	rnd.QueueString("aaaa", "aaaa", "gggg")
	store := s.NewStorage(rnd)

	first, err := store.CreateGame(s.Ctx, Questions(2))
	s.Require().NoError(err)
	second, err := store.CreateGame(s.Ctx, Questions(3))
	s.Require().NoError(err)
	s.Equal(model.GameID("aaaa"), first.ID)
	s.Equal(model.GameID("gggg"), second.ID)

	retrieved, err := store.GetGame(s.Ctx, first.ID)
	s.Require().NoError(err)
	s.Len(retrieved.Questions, 2)

	games, err := store.GetGames(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(first.ID, games[0].ID)
	s.Equal(second.ID, games[1].ID)
}

func (s *ContractSuite) TestCreateUserRedrawsTakenID() {
	rnd := mocks.NewMockRandom()
	rnd.QueueString("aaaa", "aaaa", "gggg")
	store := s.NewStorage(rnd)

	alice, err := store.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)
	bob, err := store.CreateUser(s.Ctx, "Bob")
	s.Require().NoError(err)
	s.Equal(model.UserID("aaaa"), alice.ID)
	s.Equal(model.UserID("gggg"), bob.ID)
	s.Equal("Bob", bob.Name)

	again, err := store.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(alice.ID, again.ID)
	s.Equal("Alice", again.Name)

	retrieved, err := store.GetUser(s.Ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.Name)
}

func (s *ContractSuite) TestCreateUserKeepsSurroundingWhitespace() {
	plain, err := s.Storage.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)
	padded, err := s.Storage.CreateUser(s.Ctx, " Alice")
	s.Require().NoError(err)
	s.NotEqual(plain.ID, padded.ID)
	s.Equal(" Alice", padded.Name)
}

func (s *ContractSuite) TestUpdateGameReplacesDocument() {
	game, err := s.Storage.CreateGame(s.Ctx, Questions(2))
	s.Require().NoError(err)
	user, err := s.Storage.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)

	version := game.Version
	game.State = model.GameStateStarted
	game.AddPlayer(*user)
	game.UpsertAnswer(model.NewAnswer(game.ID, *user, game.Questions[0], "right"))

	s.Require().NoError(s.Storage.UpdateGame(s.Ctx, game))
	s.Equal(version+1, game.Version)

	retrieved, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateStarted, retrieved.State)
	s.Require().Len(retrieved.Players, 1)
	s.Equal("Alice", retrieved.Players[0].Name)
	s.Require().Len(retrieved.Answers, 1)
	s.Equal(model.NewAnswerID(game.ID, game.Questions[0].ID, user.ID), retrieved.Answers[0].ID)
	s.Equal(game.Version, retrieved.Version)
}

func (s *ContractSuite) TestUpdateGameRejectsStaleVersion() {
	game, err := s.Storage.CreateGame(s.Ctx, Questions(2))
	s.Require().NoError(err)

	first, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.Require().NoError(err)
	second, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.Require().NoError(err)

	first.AddPlayer(*model.NewUser("u1", "Alice"))
	s.Require().NoError(s.Storage.UpdateGame(s.Ctx, first))

	second.AddPlayer(*model.NewUser("u2", "Bob"))
	staleVersion := second.Version
	err = s.Storage.UpdateGame(s.Ctx, second)
	s.ErrorIs(err, model.ErrGameConflict)
	s.Equal(staleVersion, second.Version)

	retrieved, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.Require().NoError(err)
	s.Require().Len(retrieved.Players, 1)
	s.Equal("Alice", retrieved.Players[0].Name)
}

func (s *ContractSuite) TestUpdateGameNotFound() {
	game := model.NewGame("nope", nil)
	err := s.Storage.UpdateGame(s.Ctx, game)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ContractSuite) TestReturnedGamesAreDetached() {
	game, err := s.Storage.CreateGame(s.Ctx, Questions(2))
	s.Require().NoError(err)

	game.State = model.GameStateStarted
	game.AddPlayer(*model.NewUser("u1", "Alice"))

	retrieved, err := s.Storage.GetGame(s.Ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateWaitingForPlayers, retrieved.State)
	s.Empty(retrieved.Players)
}

func (s *ContractSuite) TestGetUserGames() {
	alice, err := s.Storage.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)
	bob, err := s.Storage.CreateUser(s.Ctx, "Bob")
	s.Require().NoError(err)

	g1, err := s.Storage.CreateGame(s.Ctx, Questions(2))
	s.Require().NoError(err)
	g2, err := s.Storage.CreateGame(s.Ctx, Questions(2))
	s.Require().NoError(err)
	g3, err := s.Storage.CreateGame(s.Ctx, Questions(2))
	s.Require().NoError(err)

	g1.AddPlayer(*alice)
	s.Require().NoError(s.Storage.UpdateGame(s.Ctx, g1))

	g2.AddPlayer(*bob)
	// An answer from Alice alone does not make her a player of g2
	g2.UpsertAnswer(model.NewAnswer(g2.ID, *alice, g2.Questions[0], "right"))
	s.Require().NoError(s.Storage.UpdateGame(s.Ctx, g2))

	g3.AddPlayer(*bob)
	g3.AddPlayer(*alice)
	s.Require().NoError(s.Storage.UpdateGame(s.Ctx, g3))

	games, err := s.Storage.GetUserGames(s.Ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(g1.ID, games[0].ID)
	s.Equal(g3.ID, games[1].ID)

	none, err := s.Storage.GetUserGames(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(none)
}

// User tests

func (s *ContractSuite) TestCreateUser() {
	user, err := s.Storage.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)

	s.NotEmpty(user.ID)
	s.Equal(model.KindUser, user.Kind)
	s.Equal("Alice", user.Name)
	s.Equal(model.UnknownIdentityProvider, user.IdentityProvider)
	s.Equal(model.UnknownUserDetails, user.UserDetails)
	s.Equal(model.DefaultUserRoles(), user.UserRoles)

	retrieved, err := s.Storage.GetUser(s.Ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user, retrieved)
}

func (s *ContractSuite) TestCreateUserDedupesByName() {
	first, err := s.Storage.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)
	second, err := s.Storage.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	// Name matching is case sensitive
	other, err := s.Storage.CreateUser(s.Ctx, "alice")
	s.Require().NoError(err)
	s.NotEqual(first.ID, other.ID)
}

func (s *ContractSuite) TestCreateUserConcurrentSameName() {
	const workers = 8
	ids := make([]model.UserID, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := s.Storage.CreateUser(s.Ctx, "Alice")
			if err == nil {
				ids[i] = user.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		s.Equal(ids[0], id)
	}
	s.NotEmpty(ids[0])
}

func (s *ContractSuite) TestGetUserNotFound() {
	_, err := s.Storage.GetUser(s.Ctx, "nope")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Question tests

func (s *ContractSuite) TestSaveAndGetQuestions() {
	questions := Questions(4)
	questions[0].Kind = ""
	s.Require().NoError(s.Storage.SaveQuestions(s.Ctx, questions))

	retrieved, err := s.Storage.GetQuestions(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(retrieved, 4)
	for i, q := range retrieved {
		s.Equal(questions[i].ID, q.ID)
		s.Equal(model.KindQuestion, q.Kind)
	}

	q, err := s.Storage.GetQuestion(s.Ctx, "3")
	s.Require().NoError(err)
	s.Equal("Question 3?", q.Question)
	s.Equal("right", q.CorrectAnswer)
	s.Equal([]string{"wrong a", "wrong b", "wrong c"}, q.IncorrectAnswers)
}

func (s *ContractSuite) TestSaveQuestionsReplacesExisting() {
	s.Require().NoError(s.Storage.SaveQuestions(s.Ctx, Questions(5)))
	s.Require().NoError(s.Storage.SaveQuestions(s.Ctx, Questions(2)))

	retrieved, err := s.Storage.GetQuestions(s.Ctx)
	s.Require().NoError(err)
	s.Len(retrieved, 2)

	_, err = s.Storage.GetQuestion(s.Ctx, "5")
	s.ErrorIs(err, model.ErrQuestionNotFound)
}

func (s *ContractSuite) TestGetQuestionsEmpty() {
	questions, err := s.Storage.GetQuestions(s.Ctx)
	s.Require().NoError(err)
	s.Empty(questions)
}

func (s *ContractSuite) TestGetQuestionNotFound() {
	_, err := s.Storage.GetQuestion(s.Ctx, "nope")
	s.ErrorIs(err, model.ErrQuestionNotFound)
}

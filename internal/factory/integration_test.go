package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/triviagame/internal/config"
	"github.com/mcoot/triviagame/internal/model"
	sqlitestorage "github.com/mcoot/triviagame/internal/storage/sqlite"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.Require().NoError(s.app.LoadTestQuestions())
}

func (s *IntegrationSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

func questionByID(game *model.Game, id model.QuestionID) model.Question {
	for _, q := range game.Questions {
		if q.ID == id {
			return q
		}
	}
	return model.Question{}
}

// Test: Complete game flow from creation to scoreboard
func (s *IntegrationSuite) TestCompleteGameFlow() {
	s.app.MockRandom.QueueString("game", "alic", "bobb")

	// Step 1: Create a game from the loaded pool
	game, err := s.app.GameController.CreateGame(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.GameID("game"), game.ID)
	s.Equal(model.GameStateWaitingForPlayers, game.State)
	s.Len(game.Questions, 3)

	// Step 2: Two players join
	alice, err := s.app.GameController.AddPlayerToGame(s.ctx, game.ID, "Alice")
	s.Require().NoError(err)
	bob, err := s.app.GameController.AddPlayerToGame(s.ctx, game.ID, "Bob")
	s.Require().NoError(err)

	// Step 3: Start the game
	game, err = s.app.GameController.StartGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStateStarted, game.State)
	s.Len(game.Players, 2)

	// Step 4: Answer questions
	q1 := questionByID(game, "q1")
	q2 := questionByID(game, "q2")
	_, err = s.app.GameController.SubmitAnswer(s.ctx, game.ID, alice.ID, q1.ID, q1.CorrectAnswer)
	s.Require().NoError(err)
	_, err = s.app.GameController.SubmitAnswer(s.ctx, game.ID, alice.ID, q2.ID, q2.CorrectAnswer)
	s.Require().NoError(err)
	_, err = s.app.GameController.SubmitAnswer(s.ctx, game.ID, bob.ID, q1.ID, "Lyon")
	s.Require().NoError(err)

	// Step 5: Results follow submission order
	results, err := s.app.GameController.PlayerResults(s.ctx, game.ID, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(q1.Question, results[0].Question)
	s.True(results[0].Correct)
	s.ElementsMatch(q1.Choices(), results[0].Answers)

	// Step 6: Scoreboard and winner
	scores, err := s.app.GameController.GameScores(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Require().Len(scores, 2)
	s.Equal(alice.ID, scores[0].PlayerID)
	s.Equal(2, scores[0].Correct)
	s.Equal(0, scores[1].Correct)
	s.Equal(alice.ID, s.app.ScoringService.DetermineWinner(scores))

	// Step 7: Each player sees the game in their list
	games, err := s.app.PlayerService.Games(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(game.ID, games[0].ID)
}

// Test: Rejoining with the same name reuses the user
func (s *IntegrationSuite) TestJoinSameNameAcrossGames() {
	s.app.MockRandom.QueueString("gam1", "gam2", "user")

	first, err := s.app.GameController.CreateGame(s.ctx)
	s.Require().NoError(err)
	second, err := s.app.GameController.CreateGame(s.ctx)
	s.Require().NoError(err)

	u1, err := s.app.GameController.AddPlayerToGame(s.ctx, first.ID, "Sam")
	s.Require().NoError(err)
	u2, err := s.app.GameController.AddPlayerToGame(s.ctx, second.ID, "Sam")
	s.Require().NoError(err)
	s.Equal(u1.ID, u2.ID)

	games, err := s.app.PlayerService.Games(s.ctx, u1.ID)
	s.Require().NoError(err)
	s.Len(games, 2)
}

// Test: Guard rejects a player reading a game they did not join
func (s *IntegrationSuite) TestPlayerGameGuard() {
	s.app.MockRandom.QueueString("gam1", "gam2", "user")

	joined, err := s.app.GameController.CreateGame(s.ctx)
	s.Require().NoError(err)
	other, err := s.app.GameController.CreateGame(s.ctx)
	s.Require().NoError(err)

	user, err := s.app.GameController.AddPlayerToGame(s.ctx, joined.ID, "Kim")
	s.Require().NoError(err)

	got, err := s.app.PlayerService.Game(s.ctx, user.ID, joined.ID)
	s.Require().NoError(err)
	s.Equal(joined.ID, got.ID)

	_, err = s.app.PlayerService.Game(s.ctx, user.ID, other.ID)
	s.ErrorIs(err, model.ErrPlayerNotInGame)
}

// Test: Events are published to watchers of the game
func (s *IntegrationSuite) TestEventsReachHub() {
	s.app.MockRandom.QueueString("game")

	game, err := s.app.GameController.CreateGame(s.ctx)
	s.Require().NoError(err)

	s.app.HubManager.Subscribe(game.ID, "")
	hub := s.app.HubManager.GetHub(game.ID)
	s.Require().NotNil(hub)
	s.Equal(1, hub.ClientCount())

	_, err = s.app.GameController.StartGame(s.ctx, game.ID)
	s.Require().NoError(err)
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	_, err := New(context.Background(), Config{StorageType: "cassandra"})
	require.Error(t, err)
}

func TestNewRequiresBackendConfig(t *testing.T) {
	_, err := New(context.Background(), Config{StorageType: StorageTypeRedis})
	require.Error(t, err)

	_, err = New(context.Background(), Config{StorageType: StorageTypeSQLite})
	require.Error(t, err)
}

func TestNewSQLite(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, Config{
		StorageType:  StorageTypeSQLite,
		SQLiteConfig: &sqlitestorage.Config{Path: filepath.Join(t.TempDir(), "trivia.db"), BusyTimeoutMillis: 1000},
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, app.Close()) }()

	require.NoError(t, app.QuestionBank.LoadQuestions(ctx, TestQuestions()))
	game, err := app.GameController.CreateGame(ctx)
	require.NoError(t, err)
	assert.Len(t, game.Questions, 3)
}

func TestConfigFrom(t *testing.T) {
	cfg := config.Config{
		StorageType:       StorageTypeRedis,
		RedisURL:          "redis://localhost:6379/0",
		MaxUpdateAttempts: 4,
	}

	got := ConfigFrom(cfg, nil)
	require.NotNil(t, got.RedisConfig)
	assert.Equal(t, "redis://localhost:6379/0", got.RedisConfig.URL)
	assert.Nil(t, got.SQLiteConfig)
	assert.Equal(t, uint(4), got.Game.MaxUpdateAttempts)

	cfg = config.Config{StorageType: StorageTypeSQLite, SQLitePath: "/tmp/x.db", MaxUpdateAttempts: 1}
	got = ConfigFrom(cfg, nil)
	require.NotNil(t, got.SQLiteConfig)
	assert.Equal(t, "/tmp/x.db", got.SQLiteConfig.Path)
}

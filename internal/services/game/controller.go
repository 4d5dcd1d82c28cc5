package game

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/triviagame/internal/dependencies/clock"
	"github.com/mcoot/triviagame/internal/model"
	"github.com/mcoot/triviagame/internal/services/scoring"
	"github.com/mcoot/triviagame/internal/storage"
)

// EventPublisher receives game events after each successful mutation
type EventPublisher interface {
	Publish(ctx context.Context, event model.Event)
}

// MetricsRecorder counts game activity
type MetricsRecorder interface {
	GameCreated()
	PlayerJoined()
	GameStarted()
	AnswerSubmitted(correct bool)
	UpdateConflict(operation string)
}

// Config controls how game writes are retried after a concurrent update
type Config struct {
	// MaxUpdateAttempts bounds the read-modify-write attempts per mutation
	MaxUpdateAttempts uint

	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultConfig returns sensible retry defaults
func DefaultConfig() Config {
	return Config{
		MaxUpdateAttempts:    10,
		RetryInitialInterval: 5 * time.Millisecond,
		RetryMaxInterval:     200 * time.Millisecond,
	}
}

// Controller runs the game lifecycle: creating games, joining players,
// starting games and recording answers
type Controller struct {
	storage        storage.Storage
	scoringService *scoring.Service
	publisher      EventPublisher
	metrics        MetricsRecorder
	clock          clock.Clock
	cfg            Config
	logger         *slog.Logger
}

// NewController creates a new GameController. A nil publisher or metrics recorder is ignored.
func NewController(
	storage storage.Storage,
	scoringService *scoring.Service,
	publisher EventPublisher,
	metrics MetricsRecorder,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if cfg.MaxUpdateAttempts == 0 {
		cfg.MaxUpdateAttempts = 1
	}
	return &Controller{
		storage:        storage,
		scoringService: scoringService,
		publisher:      publisher,
		metrics:        metrics,
		clock:          clock,
		cfg:            cfg,
		logger:         logger,
	}
}

// CreateGame creates a game in the waiting state with questions drawn from the question pool
func (c *Controller) CreateGame(ctx context.Context) (*model.Game, error) {
	questions, err := c.storage.GetQuestions(ctx)
	if err != nil {
		return nil, err
	}

	game, err := c.storage.CreateGame(ctx, questions)
	if err != nil {
		c.logger.Error("failed to create game", slog.String("error", err.Error()))
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.Int("question_count", len(game.Questions)),
		slog.Int("pool_size", len(questions)),
	)
	// Nobody can be watching a game that did not exist, so there is no event
	c.metrics.GameCreated()

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// GetGames retrieves every game
func (c *Controller) GetGames(ctx context.Context) ([]*model.Game, error) {
	return c.storage.GetGames(ctx)
}

// AddPlayerToGame joins a player to a game by name. The user is created
// (or reused by name) before the game is read. Joining twice is a no-op.
func (c *Controller) AddPlayerToGame(ctx context.Context, gameID model.GameID, name string) (*model.User, error) {
	user, err := c.storage.CreateUser(ctx, name)
	if err != nil {
		return nil, err
	}

	var added bool
	game, err := c.mutateGame(ctx, "add_player", gameID, nil, func(game *model.Game) (bool, error) {
		added = game.AddPlayer(*user)
		return added, nil
	})
	if err != nil {
		return nil, err
	}

	if !added {
		c.logger.Debug("player already in game",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(user.ID)),
		)
		return user, nil
	}

	c.logger.Info("player joined",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(user.ID)),
		slog.String("name", user.Name),
		slog.Int("player_count", len(game.Players)),
	)
	c.metrics.PlayerJoined()
	c.publish(ctx, model.EventPlayerJoined, gameID, user.ID, model.PlayerJoinedPayload{
		PlayerID:    user.ID,
		Name:        user.Name,
		PlayerCount: len(game.Players),
	})

	return user, nil
}

// StartGame moves a game to the started state. Starting a started game changes nothing.
func (c *Controller) StartGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	var started bool
	game, err := c.mutateGame(ctx, "start_game", gameID, nil, func(game *model.Game) (bool, error) {
		started = game.State != model.GameStateStarted
		game.State = model.GameStateStarted
		return started, nil
	})
	if err != nil {
		return nil, err
	}

	if started {
		c.logger.Info("game started",
			slog.String("game_id", string(gameID)),
			slog.Int("player_count", len(game.Players)),
		)
		c.metrics.GameStarted()
		c.publish(ctx, model.EventGameStarted, gameID, "", model.GameStartedPayload{
			PlayerCount:   len(game.Players),
			QuestionCount: len(game.Questions),
		})
	}

	return game, nil
}

// SubmitAnswer records a player's answer to a question, replacing any
// earlier answer the player gave to the same question
func (c *Controller) SubmitAnswer(
	ctx context.Context,
	gameID model.GameID,
	playerID model.UserID,
	questionID model.QuestionID,
	answerText string,
) (*model.User, error) {
	var (
		game     *model.Game
		user     *model.User
		question *model.Question
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		game, err = c.storage.GetGame(gctx, gameID)
		return err
	})
	g.Go(func() (err error) {
		user, err = c.storage.GetUser(gctx, playerID)
		return err
	})
	g.Go(func() (err error) {
		question, err = c.storage.GetQuestion(gctx, questionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	answer := model.NewAnswer(gameID, *user, *question, answerText)

	var resubmit bool
	_, err := c.mutateGame(ctx, "submit_answer", gameID, game, func(game *model.Game) (bool, error) {
		if !game.HasPlayer(user.ID) {
			return false, model.ErrPlayerNotInGame
		}
		resubmit = game.UpsertAnswer(answer)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("answer submitted",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.String("question_id", string(questionID)),
		slog.Bool("resubmit", resubmit),
	)
	c.metrics.AnswerSubmitted(answer.IsCorrect())
	c.publish(ctx, model.EventAnswerSubmitted, gameID, playerID, model.AnswerSubmittedPayload{
		QuestionID: questionID,
		Resubmit:   resubmit,
	})

	return user, nil
}

// PlayerResults reports each answer the player submitted to the game
func (c *Controller) PlayerResults(ctx context.Context, gameID model.GameID, playerID model.UserID) ([]model.PlayerResult, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return c.scoringService.PlayerResults(game, playerID), nil
}

// GameScores returns the game's scoreboard
func (c *Controller) GameScores(ctx context.Context, gameID model.GameID) ([]model.PlayerScore, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return c.scoringService.GameScores(game), nil
}

// mutateGame applies fn to the stored game and writes it back. When another
// writer updated the game in between, the game is re-read and fn applied
// again. fn returns false to skip the write; its errors are not retried.
// A prefetched game, if given, is used for the first attempt.
func (c *Controller) mutateGame(
	ctx context.Context,
	operation string,
	gameID model.GameID,
	prefetched *model.Game,
	fn func(game *model.Game) (bool, error),
) (*model.Game, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.RetryInitialInterval
	policy.MaxInterval = c.cfg.RetryMaxInterval

	next := prefetched
	attempt := 0

	return backoff.Retry(ctx, func() (*model.Game, error) {
		attempt++
		game := next
		next = nil
		if game == nil {
			var err error
			game, err = c.storage.GetGame(ctx, gameID)
			if err != nil {
				return nil, backoff.Permanent(err)
			}
		}

		write, err := fn(game)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if !write {
			return game, nil
		}

		err = c.storage.UpdateGame(ctx, game)
		if errors.Is(err, model.ErrGameConflict) {
			c.metrics.UpdateConflict(operation)
			c.logger.Warn("game update conflict",
				slog.String("game_id", string(gameID)),
				slog.String("operation", operation),
				slog.Int("attempt", attempt),
			)
			return nil, err
		}
		if err != nil {
			c.logger.Error("failed to save game",
				slog.String("game_id", string(gameID)),
				slog.String("operation", operation),
				slog.String("error", err.Error()),
			)
			return nil, backoff.Permanent(err)
		}
		return game, nil
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.cfg.MaxUpdateAttempts),
	)
}

func (c *Controller) publish(ctx context.Context, eventType model.EventType, gameID model.GameID, playerID model.UserID, payload any) {
	c.publisher.Publish(ctx, model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		GameID:    gameID,
		PlayerID:  playerID,
		Payload:   payload,
	})
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, model.Event) {}

type nopMetrics struct{}

func (nopMetrics) GameCreated()          {}
func (nopMetrics) PlayerJoined()         {}
func (nopMetrics) GameStarted()          {}
func (nopMetrics) AnswerSubmitted(bool)  {}
func (nopMetrics) UpdateConflict(string) {}

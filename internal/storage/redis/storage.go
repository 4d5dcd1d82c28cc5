package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/triviagame/internal/dependencies/random"
	"github.com/mcoot/triviagame/internal/model"
	"github.com/mcoot/triviagame/internal/storage"
)

// Storage is a Redis-backed document store implementation of the storage interface.
// Each entity is a JSON document keyed by model kind and id.
type Storage struct {
	client *redis.Client
	cfg    Config
	random random.Random
}

// New creates a new Redis storage instance
func New(cfg Config, rnd random.Random) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
		random: rnd,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, rnd random.Random) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		random: rnd,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) GetGames(ctx context.Context) ([]*model.Game, error) {
	ids, err := s.client.LRange(ctx, kindIndexKey(model.KindGame), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return s.getGamesByIDs(ctx, ids)
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := s.getDocument(ctx, gameKey(id), &game, model.ErrGameNotFound); err != nil {
		return nil, err
	}
	return &game, nil
}

// GetUserGames scans the games of the kind index and keeps those with the
// user among their players
func (s *Storage) GetUserGames(ctx context.Context, userID model.UserID) ([]*model.Game, error) {
	games, err := s.GetGames(ctx)
	if err != nil {
		return nil, err
	}
	var result []*model.Game
	for _, game := range games {
		if game.HasPlayer(userID) {
			result = append(result, game)
		}
	}
	return result, nil
}

// CreateGame claims the game key with SETNX, redrawing the code while it is
// taken, and only then appends the id to the kind index
func (s *Storage) CreateGame(ctx context.Context, questions []model.Question) (*model.Game, error) {
	game := storage.NewGame(s.random, questions)
	id, err := storage.ClaimID(s.random, string(game.ID), func(id string) (bool, error) {
		game.ID = model.GameID(id)
		data, err := json.Marshal(game)
		if err != nil {
			return false, err
		}
		return s.client.SetNX(ctx, gameKey(game.ID), data, s.cfg.GameTTL).Result()
	})
	if err != nil {
		return nil, err
	}
	game.ID = model.GameID(id)

	if err := s.client.RPush(ctx, kindIndexKey(model.KindGame), id).Err(); err != nil {
		return nil, err
	}
	return game, nil
}

// UpdateGame replaces the game document using WATCH/MULTI so that a
// concurrent writer between the version check and the write is detected
func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	key := gameKey(game.ID)

	next := game.Clone()
	next.Version = game.Version + 1
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrGameNotFound
			}
			return err
		}

		var stored struct {
			Version int64 `json:"version"`
		}
		if err := json.Unmarshal(current, &stored); err != nil {
			return fmt.Errorf("decode game %s: %w", game.ID, err)
		}
		if stored.Version != game.Version {
			return model.ErrGameConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.cfg.GameTTL)
			// Players live at least as long as the games they are in
			if s.cfg.UserTTL > 0 {
				for _, player := range next.Players {
					pipe.Expire(ctx, userKey(player.ID), s.cfg.UserTTL)
					pipe.Expire(ctx, userNameIndexKey(player.Name), s.cfg.UserTTL)
				}
			}
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrGameConflict
	}
	if err != nil {
		return err
	}

	game.Version = next.Version
	return nil
}

func (s *Storage) getGamesByIDs(ctx context.Context, ids []string) ([]*model.Game, error) {
	if len(ids) == 0 {
		return []*model.Game{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(model.GameID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(values))
	var expired []string
	for i, val := range values {
		str, ok := val.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var game model.Game
		if err := json.Unmarshal([]byte(str), &game); err != nil {
			return nil, fmt.Errorf("decode game: %w", err)
		}
		games = append(games, &game)
	}

	if len(expired) > 0 {
		pipe := s.client.Pipeline()
		for _, id := range expired {
			pipe.LRem(ctx, kindIndexKey(model.KindGame), 0, id)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("prune expired games: %w", err)
		}
	}
	return games, nil
}

// User operations

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.getDocument(ctx, userKey(id), &user, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser claims a free user key with SETNX, redrawing the code while it
// is taken, and then claims the name with SETNX. The name index therefore
// never points at a missing document. A losing writer removes its document
// and returns the existing user.
func (s *Storage) CreateUser(ctx context.Context, name string) (*model.User, error) {
	existing, err := s.getUserByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	user := storage.NewUser(s.random, name)
	id, err := storage.ClaimID(s.random, string(user.ID), func(id string) (bool, error) {
		user.ID = model.UserID(id)
		data, err := json.Marshal(user)
		if err != nil {
			return false, err
		}
		return s.client.SetNX(ctx, userKey(user.ID), data, s.cfg.UserTTL).Result()
	})
	if err != nil {
		return nil, err
	}
	user.ID = model.UserID(id)

	claimed, err := s.client.SetNX(ctx, userNameIndexKey(name), id, s.cfg.UserTTL).Result()
	if err != nil {
		return nil, err
	}
	if !claimed {
		if err := s.client.Del(ctx, userKey(user.ID)).Err(); err != nil {
			return nil, err
		}
		return s.getUserByName(ctx, name)
	}
	return user, nil
}

func (s *Storage) getUserByName(ctx context.Context, name string) (*model.User, error) {
	id, err := s.client.Get(ctx, userNameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(id))
}

// Question operations

func (s *Storage) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	var question model.Question
	if err := s.getDocument(ctx, questionKey(id), &question, model.ErrQuestionNotFound); err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *Storage) GetQuestions(ctx context.Context) ([]model.Question, error) {
	ids, err := s.client.LRange(ctx, kindIndexKey(model.KindQuestion), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Question{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = questionKey(model.QuestionID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	questions := make([]model.Question, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var question model.Question
		if err := json.Unmarshal([]byte(str), &question); err != nil {
			return nil, fmt.Errorf("decode question: %w", err)
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// SaveQuestions replaces the whole question pool atomically
func (s *Storage) SaveQuestions(ctx context.Context, questions []model.Question) error {
	indexKey := kindIndexKey(model.KindQuestion)

	oldIDs, err := s.client.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, id := range oldIDs {
		pipe.Del(ctx, questionKey(model.QuestionID(id)))
	}
	pipe.Del(ctx, indexKey)

	seen := make(map[model.QuestionID]bool, len(questions))
	for _, q := range storage.PrepareQuestions(questions) {
		data, err := json.Marshal(q)
		if err != nil {
			return err
		}
		pipe.Set(ctx, questionKey(q.ID), data, 0) // No TTL
		if !seen[q.ID] {
			seen[q.ID] = true
			pipe.RPush(ctx, indexKey, string(q.ID))
		}
	}

	_, err = pipe.Exec(ctx)
	return err
}

// getDocument loads and decodes the JSON document at key, returning notFound if absent
func (s *Storage) getDocument(ctx context.Context, key string, dest any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

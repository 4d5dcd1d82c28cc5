package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/triviagame/internal/dependencies/mocks"
	"github.com/mcoot/triviagame/internal/dependencies/random"
	"github.com/mcoot/triviagame/internal/model"
	"github.com/mcoot/triviagame/internal/storage"
	"github.com/mcoot/triviagame/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.ContractSuite
	mini *miniredis.Miniredis
}

func TestStorageSuite(t *testing.T) {
	s := new(StorageSuite)
	s.NewStorage = func(rnd random.Random) storage.Storage {
		return s.newStorage(rnd, DefaultConfig())
	}
	suite.Run(t, s)
}

func (s *StorageSuite) newStorage(rnd random.Random, cfg Config) *Storage {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})
	s.T().Cleanup(func() { _ = client.Close() })

	return NewWithClient(client, cfg, rnd)
}

func (s *StorageSuite) TestDocumentKeys() {
	game, err := s.Storage.CreateGame(s.Ctx, storagetest.Questions(2))
	s.Require().NoError(err)
	user, err := s.Storage.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.Require().NoError(s.Storage.SaveQuestions(s.Ctx, storagetest.Questions(1)))

	s.True(s.mini.Exists("trivia:Game:" + string(game.ID)))
	s.True(s.mini.Exists("trivia:User:" + string(user.ID)))
	s.True(s.mini.Exists("trivia:Question:1"))

	name, err := s.mini.Get("trivia:idx:user_name:Alice")
	s.Require().NoError(err)
	s.Equal(string(user.ID), name)
}

func (s *StorageSuite) expiringStorage() *Storage {
	cfg := DefaultConfig()
	cfg.GameTTL = time.Hour
	cfg.UserTTL = time.Hour
	return s.newStorage(random.New(), cfg)
}

func (s *StorageSuite) TestNoExpiryByDefault() {
	game, err := s.Storage.CreateGame(s.Ctx, storagetest.Questions(2))
	s.Require().NoError(err)
	user, err := s.Storage.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)
	game.AddPlayer(*user)
	s.Require().NoError(s.Storage.UpdateGame(s.Ctx, game))

	s.Equal(time.Duration(0), s.mini.TTL(gameKey(game.ID)))
	s.Equal(time.Duration(0), s.mini.TTL(userKey(user.ID)))
	s.Equal(time.Duration(0), s.mini.TTL(userNameIndexKey("Alice")))

	s.mini.FastForward(48 * time.Hour)
	_, err = s.Storage.GetGame(s.Ctx, game.ID)
	s.NoError(err)
	_, err = s.Storage.GetUser(s.Ctx, user.ID)
	s.NoError(err)
}

func (s *StorageSuite) TestGameAndUserTTL() {
	store := s.expiringStorage()
	game, err := store.CreateGame(s.Ctx, storagetest.Questions(2))
	s.Require().NoError(err)
	user, err := store.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)

	s.Equal(time.Hour, s.mini.TTL(gameKey(game.ID)))
	s.Equal(time.Hour, s.mini.TTL(userKey(user.ID)))

	// Questions do not expire
	s.Require().NoError(store.SaveQuestions(s.Ctx, storagetest.Questions(1)))
	s.Equal(time.Duration(0), s.mini.TTL(questionKey("1")))
}

func (s *StorageSuite) TestUpdateGameRefreshesPlayerTTL() {
	store := s.expiringStorage()
	game, err := store.CreateGame(s.Ctx, storagetest.Questions(2))
	s.Require().NoError(err)
	alice, err := store.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)
	game.AddPlayer(*alice)
	s.Require().NoError(store.UpdateGame(s.Ctx, game))

	s.mini.FastForward(50 * time.Minute)
	s.Require().NoError(store.UpdateGame(s.Ctx, game))
	s.mini.FastForward(20 * time.Minute)

	retrieved, err := store.GetGame(s.Ctx, game.ID)
	s.Require().NoError(err)
	s.Len(retrieved.Players, 1)

	_, err = store.GetUser(s.Ctx, alice.ID)
	s.Require().NoError(err)
	again, err := store.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(alice.ID, again.ID)
}

func (s *StorageSuite) TestGetGamesPrunesExpired() {
	store := s.expiringStorage()
	g1, err := store.CreateGame(s.Ctx, storagetest.Questions(2))
	s.Require().NoError(err)
	s.mini.FastForward(2 * time.Hour)
	g2, err := store.CreateGame(s.Ctx, storagetest.Questions(2))
	s.Require().NoError(err)

	_, err = store.GetGame(s.Ctx, g1.ID)
	s.ErrorIs(err, model.ErrGameNotFound)

	games, err := store.GetGames(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(g2.ID, games[0].ID)

	ids, err := s.mini.List(kindIndexKey(model.KindGame))
	s.Require().NoError(err)
	s.Equal([]string{string(g2.ID)}, ids)
}

func (s *StorageSuite) TestCreateUserReusesClaimedName() {
	rnd := mocks.NewMockRandom()
	rnd.QueueString("aaaa")
	rnd.QueueString("bbbb")
	store := s.newStorage(rnd, DefaultConfig())

	first, err := store.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("aaaa"), first.ID)

	second, err := store.CreateUser(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.False(s.mini.Exists(userKey("bbbb")))
}

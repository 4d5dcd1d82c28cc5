package memory

import (
	"context"
	"sync"

	"github.com/mcoot/triviagame/internal/dependencies/random"
	"github.com/mcoot/triviagame/internal/model"
	"github.com/mcoot/triviagame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Its collections live for the lifetime of the process.
type Storage struct {
	mu     sync.RWMutex
	random random.Random

	games     map[model.GameID]*model.Game
	gameOrder []model.GameID

	users     map[model.UserID]*model.User
	nameIndex map[string]model.UserID

	questions     map[model.QuestionID]*model.Question
	questionOrder []model.QuestionID
}

// New creates a new in-memory storage instance
func New(rnd random.Random) *Storage {
	return &Storage{
		random:    rnd,
		games:     make(map[model.GameID]*model.Game),
		users:     make(map[model.UserID]*model.User),
		nameIndex: make(map[string]model.UserID),
		questions: make(map[model.QuestionID]*model.Question),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) GetGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*model.Game, 0, len(s.gameOrder))
	for _, id := range s.gameOrder {
		games = append(games, s.games[id].Clone())
	}
	return games, nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) GetUserGames(ctx context.Context, userID model.UserID) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.Game
	for _, id := range s.gameOrder {
		if game := s.games[id]; game.HasPlayer(userID) {
			games = append(games, game.Clone())
		}
	}
	return games, nil
}

func (s *Storage) CreateGame(ctx context.Context, questions []model.Question) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game := storage.NewGame(s.random, questions)
	id, err := storage.ClaimID(s.random, string(game.ID), func(id string) (bool, error) {
		_, taken := s.games[model.GameID(id)]
		return !taken, nil
	})
	if err != nil {
		return nil, err
	}
	game.ID = model.GameID(id)
	s.games[game.ID] = game.Clone()
	s.gameOrder = append(s.gameOrder, game.ID)
	return game, nil
}

func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.games[game.ID]
	if !ok {
		return model.ErrGameNotFound
	}
	if stored.Version != game.Version {
		return model.ErrGameConflict
	}
	game.Version++
	s.games[game.ID] = game.Clone()
	return nil
}

// User operations

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	clone := user.Clone()
	return &clone, nil
}

func (s *Storage) CreateUser(ctx context.Context, name string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.nameIndex[name]; ok {
		clone := s.users[id].Clone()
		return &clone, nil
	}
	user := storage.NewUser(s.random, name)
	id, err := storage.ClaimID(s.random, string(user.ID), func(id string) (bool, error) {
		_, taken := s.users[model.UserID(id)]
		return !taken, nil
	})
	if err != nil {
		return nil, err
	}
	user.ID = model.UserID(id)
	stored := user.Clone()
	s.users[user.ID] = &stored
	s.nameIndex[name] = user.ID
	return user, nil
}

// Question operations

func (s *Storage) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[id]
	if !ok {
		return nil, model.ErrQuestionNotFound
	}
	clone := question.Clone()
	return &clone, nil
}

func (s *Storage) GetQuestions(ctx context.Context) ([]model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions := make([]model.Question, 0, len(s.questionOrder))
	for _, id := range s.questionOrder {
		questions = append(questions, s.questions[id].Clone())
	}
	return questions, nil
}

func (s *Storage) SaveQuestions(ctx context.Context, questions []model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = make(map[model.QuestionID]*model.Question, len(questions))
	s.questionOrder = make([]model.QuestionID, 0, len(questions))
	for _, q := range storage.PrepareQuestions(questions) {
		if _, exists := s.questions[q.ID]; !exists {
			s.questionOrder = append(s.questionOrder, q.ID)
		}
		s.questions[q.ID] = &q
	}
	return nil
}

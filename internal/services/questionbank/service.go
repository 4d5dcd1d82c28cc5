package questionbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mcoot/triviagame/internal/model"
	"github.com/mcoot/triviagame/internal/storage"
)

// ErrInvalidQuestion is returned when a question bank entry is missing required fields
var ErrInvalidQuestion = errors.New("invalid question")

// Service loads the question bank into storage and serves the question pool
type Service struct {
	storage storage.Storage
}

// New creates a new question bank Service
func New(storage storage.Storage) *Service {
	return &Service{
		storage: storage,
	}
}

// LoadFromFile loads questions from a JSON file holding an array of questions
// and replaces the stored pool with them. It returns the number loaded.
func (s *Service) LoadFromFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return 0, fmt.Errorf("parse question bank %s: %w", path, err)
	}

	if err := s.LoadQuestions(ctx, questions); err != nil {
		return 0, err
	}
	return len(questions), nil
}

// LoadQuestions validates and stores a question pool (useful for testing)
func (s *Service) LoadQuestions(ctx context.Context, questions []model.Question) error {
	for i, q := range questions {
		if err := validate(q); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return s.storage.SaveQuestions(ctx, questions)
}

// GetQuestions returns the full question pool
func (s *Service) GetQuestions(ctx context.Context) ([]model.Question, error) {
	return s.storage.GetQuestions(ctx)
}

// GetQuestion returns a single question from the pool
func (s *Service) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	return s.storage.GetQuestion(ctx, id)
}

// Count returns the size of the question pool
func (s *Service) Count(ctx context.Context) (int, error) {
	questions, err := s.storage.GetQuestions(ctx)
	if err != nil {
		return 0, err
	}
	return len(questions), nil
}

func validate(q model.Question) error {
	switch {
	case strings.TrimSpace(string(q.ID)) == "":
		return fmt.Errorf("%w: missing id", ErrInvalidQuestion)
	case strings.TrimSpace(q.Question) == "":
		return fmt.Errorf("%w: %s has no question text", ErrInvalidQuestion, q.ID)
	case q.CorrectAnswer == "":
		return fmt.Errorf("%w: %s has no correct answer", ErrInvalidQuestion, q.ID)
	}

	switch q.Difficulty {
	case "", model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		return nil
	default:
		return fmt.Errorf("%w: %s has unknown difficulty %q", ErrInvalidQuestion, q.ID, q.Difficulty)
	}
}

package factory

import (
	"context"
	"time"

	"github.com/mcoot/triviagame/internal/dependencies/mocks"
	"github.com/mcoot/triviagame/internal/metrics"
	"github.com/mcoot/triviagame/internal/model"
	"github.com/mcoot/triviagame/internal/services/game"
	"github.com/mcoot/triviagame/internal/storage/memory"
	"github.com/mcoot/triviagame/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	store := memory.New(mockRandom)

	app := newWithDependencies(store, mockClock, mockRandom, metrics.NewRecorder(), game.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// TestQuestions returns a small fixed question pool
func TestQuestions() []model.Question {
	return []model.Question{
		testQuestion("q1", "What is the capital of France?", "Paris", "Lyon", "Marseille", "Nice"),
		testQuestion("q2", "How many legs does a spider have?", "8", "6", "10", "12"),
		testQuestion("q3", "Who wrote Hamlet?", "William Shakespeare", "Christopher Marlowe", "Ben Jonson", "John Milton"),
	}
}

func testQuestion(id, text, correct string, incorrect ...string) model.Question {
	return model.Question{
		ID:               model.QuestionID(id),
		Kind:             model.KindQuestion,
		Question:         text,
		Category:         "General Knowledge",
		CorrectAnswer:    correct,
		IncorrectAnswers: incorrect,
		Difficulty:       model.DifficultyEasy,
		Type:             "multiple",
	}
}

// LoadTestQuestions loads TestQuestions into the question bank
func (t *TestApp) LoadTestQuestions() error {
	return t.QuestionBank.LoadQuestions(context.Background(), TestQuestions())
}

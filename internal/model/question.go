package model

// QuestionID identifies a question in the question bank
type QuestionID string

// Difficulty tags how hard a question is
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a single trivia question from the question bank.
// Games embed questions by value, so a Question is never mutated after loading.
type Question struct {
	ID               QuestionID `json:"id"`
	Kind             ModelKind  `json:"modelType"`
	Question         string     `json:"question"`
	Category         string     `json:"category"`
	CorrectAnswer    string     `json:"correct_answer"`
	IncorrectAnswers []string   `json:"incorrect_answers"`
	Difficulty       Difficulty `json:"difficulty"`
	Type             string     `json:"type"`
}

// Choices returns a new slice holding every answer choice: the incorrect
// answers followed by the correct one. Callers shuffle it for display.
func (q Question) Choices() []string {
	choices := make([]string, 0, len(q.IncorrectAnswers)+1)
	choices = append(choices, q.IncorrectAnswers...)
	return append(choices, q.CorrectAnswer)
}

// IsCorrect reports whether the submitted text exactly matches the correct answer
func (q Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}

// Clone returns a deep copy of the question
func (q Question) Clone() Question {
	q.IncorrectAnswers = cloneStrings(q.IncorrectAnswers)
	return q
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

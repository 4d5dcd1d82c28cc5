package model

// GameID uniquely identifies a game. It is also the join code shared with players.
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStateWaitingForPlayers GameState = "WaitingForPlayers" // Created, players may join
	GameStateStarted           GameState = "Started"           // Players are answering questions
)

// Game is one trivia session. It is the unit of update: every change to
// players or answers is persisted by replacing the whole document.
type Game struct {
	ID        GameID     `json:"id"`
	Kind      ModelKind  `json:"modelType"`
	State     GameState  `json:"state"`
	Players   []User     `json:"players"`
	Questions []Question `json:"questions"` // Fixed at creation
	Answers   []Answer   `json:"answers"`   // Submission order

	// Version is checked and bumped on every update to detect lost updates
	Version int64 `json:"version"`
}

// NewGame creates a game waiting for players with the given questions
func NewGame(id GameID, questions []Question) *Game {
	qs := make([]Question, len(questions))
	for i, q := range questions {
		qs[i] = q.Clone()
	}
	return &Game{
		ID:        id,
		Kind:      KindGame,
		State:     GameStateWaitingForPlayers,
		Players:   []User{},
		Questions: qs,
		Answers:   []Answer{},
		Version:   1,
	}
}

// HasPlayer returns true if the user has joined the game
func (g *Game) HasPlayer(userID UserID) bool {
	return g.GetPlayer(userID) != nil
}

// GetPlayer returns the player with the given ID, or nil if not found
func (g *Game) GetPlayer(userID UserID) *User {
	for i := range g.Players {
		if g.Players[i].ID == userID {
			return &g.Players[i]
		}
	}
	return nil
}

// AddPlayer appends the user to the players list.
// Returns false if the user had already joined.
func (g *Game) AddPlayer(user User) bool {
	if g.HasPlayer(user.ID) {
		return false
	}
	g.Players = append(g.Players, user.Clone())
	return true
}

// GetQuestion returns the game question with the given ID, or nil if not found
func (g *Game) GetQuestion(questionID QuestionID) *Question {
	for i := range g.Questions {
		if g.Questions[i].ID == questionID {
			return &g.Questions[i]
		}
	}
	return nil
}

// UpsertAnswer stores the answer keyed by its derived ID. A resubmission
// replaces the earlier answer in place so submission order is kept.
// Returns true if an existing answer was replaced.
func (g *Game) UpsertAnswer(answer Answer) bool {
	for i := range g.Answers {
		if g.Answers[i].ID == answer.ID {
			g.Answers[i] = answer
			return true
		}
	}
	g.Answers = append(g.Answers, answer)
	return false
}

// AnswersFor returns the answers submitted by a player, in submission order
func (g *Game) AnswersFor(userID UserID) []Answer {
	var answers []Answer
	for _, a := range g.Answers {
		if a.User.ID == userID {
			answers = append(answers, a)
		}
	}
	return answers
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	c := *g
	c.Players = make([]User, len(g.Players))
	for i, p := range g.Players {
		c.Players[i] = p.Clone()
	}
	c.Questions = make([]Question, len(g.Questions))
	for i, q := range g.Questions {
		c.Questions[i] = q.Clone()
	}
	c.Answers = make([]Answer, len(g.Answers))
	for i, a := range g.Answers {
		a.User = a.User.Clone()
		a.Question = a.Question.Clone()
		c.Answers[i] = a
	}
	return &c
}

package model

// PlayerResult describes how a player answered one question
type PlayerResult struct {
	Name            string
	Answers         []string // All choices, shuffled
	Question        string
	CorrectAnswer   string
	SubmittedAnswer string
	Correct         bool
}

// PlayerScore is a player's tally for a game
type PlayerScore struct {
	PlayerID UserID
	Name     string
	Answered int
	Correct  int
}

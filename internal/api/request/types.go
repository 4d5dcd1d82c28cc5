package request

// AddPlayerRequest is the request body for joining a game
type AddPlayerRequest struct {
	Name string `json:"name"`
}

// SubmitAnswerRequest is the request body for answering a question
type SubmitAnswerRequest struct {
	PlayerID   string `json:"player_id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

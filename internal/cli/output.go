package cli

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/mcoot/triviagame/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.Game:
		o.printGame(v)
	case response.GameList:
		o.printGameList(v.Games)
	case response.PlayerGames:
		fmt.Printf("Player: %s\n", v.PlayerID)
		o.printGameList(v.Games)
	case response.PlayerResults:
		o.printPlayerResults(v)
	case response.Scoreboard:
		o.printScoreboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p response.Player) {
	fmt.Printf("Player: %s (%s)\n", p.Name, p.ID)
}

func (o *Output) printGame(g response.Game) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("State: %s\n", g.State)

	names := make([]string, len(g.Players))
	for i, p := range g.Players {
		names[i] = fmt.Sprintf("%s (%s)", p.Name, p.ID)
	}
	fmt.Printf("Players (%d): %s\n", len(g.Players), strings.Join(names, ", "))

	fmt.Printf("Questions (%d):\n", len(g.Questions))
	for i, q := range g.Questions {
		fmt.Printf("  %d. [%s] %s\n", i+1, q.ID, html.UnescapeString(q.Question))
		for _, a := range q.Answers {
			fmt.Printf("       - %s\n", html.UnescapeString(a))
		}
	}

	if len(g.Answers) > 0 {
		fmt.Printf("Answers (%d):\n", len(g.Answers))
		for _, a := range g.Answers {
			fmt.Printf("  %s -> %s: %s%s\n", a.PlayerName, a.QuestionID, a.Answer, mark(a.Correct))
		}
	}
}

func (o *Output) printGameList(games []response.Game) {
	if len(games) == 0 {
		fmt.Println("No games")
		return
	}
	for _, g := range games {
		fmt.Printf("%s  %-18s players=%d answers=%d\n", g.ID, g.State, len(g.Players), len(g.Answers))
	}
}

func (o *Output) printPlayerResults(r response.PlayerResults) {
	fmt.Printf("Results for %s in game %s\n", r.PlayerID, r.GameID)
	if len(r.Results) == 0 {
		fmt.Println("No answers yet")
		return
	}
	for i, res := range r.Results {
		fmt.Printf("%d. %s\n", i+1, html.UnescapeString(res.Question))
		fmt.Printf("   Answered: %s%s\n", res.SubmittedAnswer, mark(res.Correct))
		if !res.Correct {
			fmt.Printf("   Correct:  %s\n", res.CorrectAnswer)
		}
	}
}

func (o *Output) printScoreboard(s response.Scoreboard) {
	fmt.Printf("Scores for game %s\n", s.GameID)
	for i, score := range s.Scores {
		fmt.Printf("  %d. %s (%s): %d/%d correct\n", i+1, score.Name, score.PlayerID, score.Correct, score.Answered)
	}
	if s.Winner != nil {
		fmt.Printf("\nWinner: %s\n", *s.Winner)
	} else {
		fmt.Println("\nNo winner")
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func mark(correct bool) string {
	if correct {
		return " (correct)"
	}
	return " (wrong)"
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/mcoot/crackthecode/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
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
	o.Print(response.Message{Message: msg})
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Message:
		fmt.Fprintln(o.w, v.Message)
	case ServerHealth:
		fmt.Fprintf(o.w, "%s is %s (%dms)\n", v.Server, v.Status, v.LatencyMS)
	case Whoami:
		fmt.Fprintf(o.w, "%s on %s\n", v.Username, v.Server)
	case response.Signup:
		fmt.Fprintf(o.w, "%s: %s\n", v.Message, v.Username)
	case response.Login:
		fmt.Fprintln(o.w, "Logged in")
	case response.Player:
		o.printPlayer(v)
	case response.PublicProfile:
		o.printPublicProfile(v)
	case response.Streak:
		fmt.Fprintf(o.w, "Streak: %d (longest %d)\n", v.Current, v.Longest)
	case response.Picture:
		fmt.Fprintf(o.w, "Picture: %s\n", v.Picture)
	case response.DailyPuzzle:
		fmt.Fprintf(o.w, "Daily puzzle for %s\n", v.Date)
		fmt.Fprintln(o.w, RenderPuzzle(v.Sentence, v.LetterMap, v.RevealedLetters))
		fmt.Fprintln(o.w, v.Hint)
	case response.Puzzle:
		o.printPuzzle(v)
	case []response.Puzzle:
		for i, p := range v {
			if i > 0 {
				fmt.Fprintln(o.w)
			}
			o.printPuzzle(p)
		}
	case response.BogusHint:
		fmt.Fprintf(o.w, "Hint: %s\n", v.Text)
	case response.Score:
		fmt.Fprintf(o.w, "%d  %s  %s\n", v.Score, v.SessionID, v.Timestamp.Format("2006-01-02 15:04"))
	case []response.Score:
		for _, s := range v {
			o.printText(s)
		}
	case []response.LeaderboardEntry:
		for _, e := range v {
			fmt.Fprintf(o.w, "%3d. %-20s %d\n", e.Rank, e.Username, e.Score)
		}
	case []response.PlayerSummary:
		for _, p := range v {
			fmt.Fprintf(o.w, "  - %s\n", p.Username)
		}
	case response.Group:
		fmt.Fprintf(o.w, "Group: %s (admin %s)\n", v.Name, v.Admin)
		fmt.Fprintf(o.w, "Members (%d): %s\n", len(v.Members), strings.Join(v.Members, ", "))
	case []response.Group:
		for _, g := range v {
			fmt.Fprintf(o.w, "  - %s (%d members)\n", g.Name, len(g.Members))
		}
	case []response.ChatMessage:
		for _, m := range v {
			fmt.Fprintf(o.w, "<%s> %s\n", m.Sender, m.Text)
		}
	case []string:
		for _, s := range v {
			fmt.Fprintf(o.w, "  - %s\n", s)
		}
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printPlayer(p response.Player) {
	fmt.Fprintf(o.w, "Player: %s (joined %s)\n", p.Username, p.Joined)
	fmt.Fprintf(o.w, "About: %s\n", p.About)
	if p.Picture != "" {
		fmt.Fprintf(o.w, "Picture: %s\n", p.Picture)
	}
	fmt.Fprintf(o.w, "Streak: %d (longest %d)\n", p.Streak.Current, p.Streak.Longest)
	if len(p.Stamps) > 0 {
		fmt.Fprintf(o.w, "Stamps: %s\n", strings.Join(p.Stamps, ", "))
	}
	fmt.Fprintf(o.w, "Friends (%d): %s\n", len(p.Friends), strings.Join(p.Friends, ", "))
	if len(p.FriendRequests) > 0 {
		fmt.Fprintf(o.w, "Pending requests: %s\n", strings.Join(p.FriendRequests, ", "))
	}
}

func (o *Output) printPublicProfile(p response.PublicProfile) {
	fmt.Fprintf(o.w, "Player: %s (joined %s)\n", p.Username, p.Joined)
	fmt.Fprintf(o.w, "About: %s\n", p.About)
	fmt.Fprintf(o.w, "Streak: %d (longest %d)\n", p.Streak.Current, p.Streak.Longest)
	friends := make([]string, len(p.Friends))
	for i, f := range p.Friends {
		friends[i] = f.Username
	}
	fmt.Fprintf(o.w, "Friends (%d): %s\n", len(friends), strings.Join(friends, ", "))
	if len(p.Groups) > 0 {
		fmt.Fprintf(o.w, "Groups: %s\n", strings.Join(p.Groups, ", "))
	}
}

func (o *Output) printPuzzle(p response.Puzzle) {
	if p.Category != "" {
		fmt.Fprintf(o.w, "[%s] ", p.Category)
	}
	fmt.Fprintln(o.w, RenderPuzzle(p.Sentence, p.LetterMap, p.RevealedLetters))
	if p.Hint != "" {
		fmt.Fprintf(o.w, "Hint: %s\n", p.Hint)
	}
}

// RenderPuzzle shows revealed letters as themselves and the rest as their
// numbers. Words are separated by " / ".
func RenderPuzzle(sentence string, letterMap map[string]int, revealed []string) string {
	words := strings.Fields(sentence)
	rendered := make([]string, len(words))
	for i, word := range words {
		cells := make([]string, 0, len(word))
		for _, r := range strings.ToLower(word) {
			letter := string(r)
			if slices.Contains(revealed, letter) {
				cells = append(cells, strings.ToUpper(letter))
				continue
			}
			if n, ok := letterMap[letter]; ok {
				cells = append(cells, strconv.Itoa(n))
			} else {
				cells = append(cells, "?")
			}
		}
		rendered[i] = strings.Join(cells, " ")
	}
	return strings.Join(rendered, " / ")
}

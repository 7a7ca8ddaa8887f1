package response

import (
	"time"

	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/services/daily"
	"github.com/mcoot/crackthecode/internal/services/profile"
)

// Message is a plain acknowledgement
type Message struct {
	Message string `json:"message"`
}

// Streak is a player's daily puzzle streak
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

func StreakFromModel(s model.Streak) Streak {
	return Streak{Current: s.Current, Longest: s.Longest}
}

// Player is a player's own profile. The password hash is never included.
type Player struct {
	Username       string   `json:"username"`
	About          string   `json:"about"`
	Picture        string   `json:"picture"`
	Streak         Streak   `json:"streak"`
	Stamps         []string `json:"stamps"`
	Joined         string   `json:"joined"`
	Friends        []string `json:"friends"`
	FriendRequests []string `json:"friendRequests"`
	SentRequests   []string `json:"sentRequests"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		Username:       p.Username,
		About:          p.About,
		Picture:        p.Picture,
		Streak:         StreakFromModel(p.Streak),
		Stamps:         nonNil(p.Stamps),
		Joined:         p.Joined,
		Friends:        nonNil(p.Friends),
		FriendRequests: nonNil(p.FriendRequests),
		SentRequests:   nonNil(p.SentRequests),
	}
}

// PlayerSummary is the short form used in lists
type PlayerSummary struct {
	Username string `json:"username"`
	Picture  string `json:"picture"`
}

func SummariesFromModel(in []model.PlayerSummary) []PlayerSummary {
	out := make([]PlayerSummary, len(in))
	for i, s := range in {
		out[i] = PlayerSummary{Username: s.Username, Picture: s.Picture}
	}
	return out
}

// PublicProfile is what other players see
type PublicProfile struct {
	Username string          `json:"username"`
	About    string          `json:"about"`
	Picture  string          `json:"picture"`
	Streak   Streak          `json:"streak"`
	Stamps   []string        `json:"stamps"`
	Joined   string          `json:"joined"`
	Friends  []PlayerSummary `json:"friends"`
	Groups   []string        `json:"groups"`
}

func PublicProfileFromModel(p *profile.PublicProfile) PublicProfile {
	return PublicProfile{
		Username: p.Player.Username,
		About:    p.Player.About,
		Picture:  p.Player.Picture,
		Streak:   StreakFromModel(p.Player.Streak),
		Stamps:   nonNil(p.Player.Stamps),
		Joined:   p.Player.Joined,
		Friends:  SummariesFromModel(p.Friends),
		Groups:   nonNil(p.Groups),
	}
}

// Login carries the bearer token
type Login struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// Signup acknowledges a new account
type Signup struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// Picture is the URL of an uploaded picture
type Picture struct {
	Picture string `json:"picture"`
}

// DailyPuzzle is the puzzle of the day
type DailyPuzzle struct {
	Date            string         `json:"date"`
	Sentence        string         `json:"sentence"`
	LetterMap       map[string]int `json:"letterMap"`
	RevealedLetters []string       `json:"revealedLetters"`
	Hint            string         `json:"hint"`
}

func DailyPuzzleFromModel(p *daily.Puzzle) DailyPuzzle {
	return DailyPuzzle{
		Date:            p.Date,
		Sentence:        p.Sentence,
		LetterMap:       p.LetterMap,
		RevealedLetters: nonNil(p.RevealedLetters),
		Hint:            p.Hint,
	}
}

// Puzzle is an authored pool puzzle
type Puzzle struct {
	ID              string         `json:"id"`
	Category        string         `json:"category,omitempty"`
	Hint            string         `json:"hint"`
	Sentence        string         `json:"sentence"`
	LetterMap       map[string]int `json:"letterMap"`
	RevealedLetters []string       `json:"revealedLetters"`
}

func PuzzleFromModel(p *model.PoolPuzzle) Puzzle {
	return Puzzle{
		ID:              p.ID,
		Category:        p.Category,
		Hint:            p.Hint,
		Sentence:        p.Sentence,
		LetterMap:       p.LetterMap,
		RevealedLetters: nonNil(p.RevealedLetters),
	}
}

func PuzzlesFromModel(in []*model.PoolPuzzle) []Puzzle {
	out := make([]Puzzle, len(in))
	for i, p := range in {
		out[i] = PuzzleFromModel(p)
	}
	return out
}

// BogusHint is a deliberately unhelpful hint
type BogusHint struct {
	Text string `json:"text"`
}

// Score is one submitted result
type Score struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}

func ScoreFromModel(s *model.Score) Score {
	return Score{
		ID:        s.ID,
		Username:  s.Username,
		Score:     s.Value,
		SessionID: s.SessionID,
		Timestamp: s.Timestamp,
	}
}

func ScoresFromModel(in []*model.Score) []Score {
	out := make([]Score, len(in))
	for i, s := range in {
		out[i] = ScoreFromModel(s)
	}
	return out
}

// LeaderboardEntry is a player's best score
type LeaderboardEntry struct {
	Rank      int       `json:"rank"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

func LeaderboardFromModel(in []model.LeaderboardEntry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(in))
	for i, e := range in {
		out[i] = LeaderboardEntry{Rank: i + 1, Username: e.Username, Score: e.Score, Timestamp: e.Timestamp}
	}
	return out
}

// Group is a group as listed to players. The password hash is never included.
type Group struct {
	Name    string   `json:"name"`
	Admin   string   `json:"admin"`
	Members []string `json:"members"`
}

func GroupFromModel(g *model.Group) Group {
	return Group{Name: g.Name, Admin: g.Admin, Members: nonNil(g.Members)}
}

func GroupsFromModel(in []*model.Group) []Group {
	out := make([]Group, len(in))
	for i, g := range in {
		out[i] = GroupFromModel(g)
	}
	return out
}

// ChatMessage is one chat entry
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

func ChatFromModel(in []model.ChatMessage) []ChatMessage {
	out := make([]ChatMessage, len(in))
	for i, m := range in {
		out[i] = ChatMessage{Sender: m.Sender, Text: m.Text}
	}
	return out
}

// Health is the health check payload
type Health struct {
	Status string `json:"status"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

package model

import "time"

// DefaultLeaderboardLimit is the number of leaderboard entries returned by default
const DefaultLeaderboardLimit = 250

// Score is one submitted game result. At most one per (Username, SessionID).
type Score struct {
	ID        string
	Username  string
	Value     int
	SessionID string
	Timestamp time.Time
}

// LeaderboardEntry is a player's best score
type LeaderboardEntry struct {
	Username  string
	Score     int
	Timestamp time.Time // when the best score was achieved
}

// Package scoreboard records per-session scores and ranks players by their best.
package scoreboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/crackthecode/internal/dependencies/clock"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/storage"
)

// Service provides score submission and ranking
type Service struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a scoreboard Service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
	}
}

// Submit records a score once per (username, sessionID).
// A zero timestamp means now.
func (s *Service) Submit(ctx context.Context, username string, value int, sessionID string, timestamp time.Time) (*model.Score, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", model.ErrInvalidInput)
	}
	if value < 0 {
		return nil, fmt.Errorf("%w: score must not be negative", model.ErrInvalidInput)
	}

	// Best-effort pre-check; SaveScore's guard is authoritative
	exists, err := s.storage.HasScore(ctx, username, sessionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrDuplicateSubmission
	}

	if timestamp.IsZero() {
		timestamp = s.clock.Now()
	}
	score := &model.Score{
		ID:        uuid.NewString(),
		Username:  username,
		Value:     value,
		SessionID: sessionID,
		Timestamp: timestamp.UTC(),
	}
	if err := s.storage.SaveScore(ctx, score); err != nil {
		return nil, err
	}
	return score, nil
}

// Leaderboard returns each player's best score, highest first.
// Ties keep the order in which the best scores were first recorded.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = model.DefaultLeaderboardLimit
	}

	scores, err := s.storage.ListScores(ctx)
	if err != nil {
		return nil, err
	}

	best := make(map[string]int)
	var entries []model.LeaderboardEntry
	for _, sc := range scores {
		idx, seen := best[sc.Username]
		if !seen {
			best[sc.Username] = len(entries)
			entries = append(entries, model.LeaderboardEntry{
				Username:  sc.Username,
				Score:     sc.Value,
				Timestamp: sc.Timestamp,
			})
			continue
		}
		if sc.Value > entries[idx].Score {
			entries[idx].Score = sc.Value
			entries[idx].Timestamp = sc.Timestamp
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// History returns a player's scores, highest first
func (s *Service) History(ctx context.Context, username string) ([]*model.Score, error) {
	scores, err := s.storage.ListPlayerScores(ctx, username)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Value > scores[j].Value
	})
	return scores, nil
}

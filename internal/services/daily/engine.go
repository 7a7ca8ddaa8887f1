// Package daily serves the puzzle of the day and tracks completion streaks.
package daily

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/crackthecode/internal/dependencies/clock"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/services/encoder"
	"github.com/mcoot/crackthecode/internal/services/quote"
	"github.com/mcoot/crackthecode/internal/storage"
)

// UnknownAuthor is used in the hint when a quote has no author
const UnknownAuthor = "Unknown"

// Puzzle is a daily puzzle as served to a player
type Puzzle struct {
	*model.DailyPuzzle
	Hint string
}

// Engine creates one puzzle per UTC date and records one attempt per player per date
type Engine struct {
	storage storage.Storage
	quotes  quote.Provider
	encoder *encoder.Encoder
	clock   clock.Clock
	logger  *slog.Logger
}

// NewEngine creates a daily Engine
func NewEngine(storage storage.Storage, quotes quote.Provider, enc *encoder.Encoder, clock clock.Clock, logger *slog.Logger) *Engine {
	return &Engine{
		storage: storage,
		quotes:  quotes,
		encoder: enc,
		clock:   clock,
		logger:  logger,
	}
}

// Today returns the current UTC date
func (e *Engine) Today() string {
	return clock.Today(e.clock)
}

// GetOrCreateDaily returns the puzzle for date, creating it on first request.
// Concurrent creators all observe the single stored puzzle.
func (e *Engine) GetOrCreateDaily(ctx context.Context, date string) (*Puzzle, error) {
	if _, err := model.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: bad date %q", model.ErrInvalidInput, date)
	}

	existing, err := e.storage.GetDailyPuzzle(ctx, date)
	if err == nil {
		return withHint(existing), nil
	}
	if !errors.Is(err, model.ErrDailyPuzzleNotFound) {
		return nil, err
	}

	q, err := e.quotes.Random(ctx)
	if err != nil {
		return nil, err
	}

	candidate := &model.DailyPuzzle{
		Date:      date,
		Cipher:    e.encoder.Encode(q.Text, encoder.DailyOptions()),
		Author:    q.Author,
		CreatedAt: e.clock.Now(),
	}
	stored, created, err := e.storage.CreateDailyPuzzleIfAbsent(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if created {
		e.logger.Info("daily puzzle created", "date", date, "author", stored.Author)
	}
	return withHint(stored), nil
}

// GetDailyForPlayer returns the puzzle unless the player already completed it
func (e *Engine) GetDailyForPlayer(ctx context.Context, username, date string) (*Puzzle, error) {
	attempted, err := e.storage.HasDailyAttempt(ctx, username, date)
	if err != nil {
		return nil, err
	}
	if attempted {
		return nil, model.ErrAlreadyAttempted
	}
	return e.GetOrCreateDaily(ctx, date)
}

// CompleteDaily records the attempt and advances the streak.
// Exactly one call per (username, date) succeeds.
func (e *Engine) CompleteDaily(ctx context.Context, username, date string) (model.Streak, error) {
	yesterday, err := model.PreviousDate(date)
	if err != nil {
		return model.Streak{}, fmt.Errorf("%w: bad date %q", model.ErrInvalidInput, date)
	}

	player, err := e.storage.GetPlayer(ctx, username)
	if err != nil {
		return model.Streak{}, err
	}

	// Best-effort pre-check; RecordDailyAttempt's guard is authoritative
	attempted, err := e.storage.HasDailyAttempt(ctx, username, date)
	if err != nil {
		return model.Streak{}, err
	}
	if attempted {
		return model.Streak{}, model.ErrAlreadyAttempted
	}

	if err := e.storage.RecordDailyAttempt(ctx, model.DailyAttempt{Username: username, Date: date}); err != nil {
		return model.Streak{}, err
	}

	continued, err := e.storage.HasDailyAttempt(ctx, username, yesterday)
	if err != nil {
		return model.Streak{}, err
	}

	streak := NextStreak(player.Streak, continued)
	if err := e.storage.SetStreak(ctx, username, streak); err != nil {
		return model.Streak{}, err
	}
	return streak, nil
}

// ResetStreaks zeroes the current streak of every player who completed
// neither the day before date nor date itself. Safe to re-run, and safe
// against a completion landing mid-sweep: storage makes each reset
// conditional on the attempts it checks.
func (e *Engine) ResetStreaks(ctx context.Context, date string) (int, error) {
	yesterday, err := model.PreviousDate(date)
	if err != nil {
		return 0, fmt.Errorf("%w: bad date %q", model.ErrInvalidInput, date)
	}

	players, err := e.storage.ListPlayers(ctx)
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, p := range players {
		if err := ctx.Err(); err != nil {
			return reset, err
		}
		if p.Streak.Current == 0 {
			continue
		}
		ok, err := e.storage.ResetStreakUnlessAttempted(ctx, p.Username, yesterday, date)
		if err != nil {
			return reset, err
		}
		if ok {
			reset++
		}
	}
	return reset, nil
}

// NextStreak returns the streak after a completion
func NextStreak(prev model.Streak, continued bool) model.Streak {
	next := model.Streak{Current: 1, Longest: prev.Longest}
	if continued {
		next.Current = prev.Current + 1
	}
	next.Longest = max(next.Longest, next.Current)
	return next
}

func withHint(p *model.DailyPuzzle) *Puzzle {
	author := p.Author
	if author == "" {
		author = UnknownAuthor
	}
	return &Puzzle{DailyPuzzle: p, Hint: "By " + author}
}

package daily

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crackthecode/internal/dependencies/mocks"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/services/encoder"
	"github.com/mcoot/crackthecode/internal/services/quote"
	"github.com/mcoot/crackthecode/internal/storage"
	"github.com/mcoot/crackthecode/internal/storage/memory"
	"github.com/mcoot/crackthecode/internal/testutil"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type EngineSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	quotes  *quote.Static
	engine  *Engine
	ctx     context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(epoch)
	s.quotes = &quote.Static{Quote: quote.Quote{Text: "Hello there", Author: "Kenobi"}}
	s.engine = NewEngine(s.storage, s.quotes, encoder.New(mocks.NewMockRandom()), s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	s.Require().NoError(s.storage.CreatePlayer(s.ctx, model.NewPlayer("alice", "hash", epoch)))
}

func (s *EngineSuite) TestToday() {
	s.Equal("2024-01-01", s.engine.Today())
	s.clock.Set(time.Date(2024, 1, 1, 23, 59, 0, 0, time.FixedZone("X", -5*3600)))
	s.Equal("2024-01-02", s.engine.Today())
}

func (s *EngineSuite) TestGetOrCreateDaily() {
	p, err := s.engine.GetOrCreateDaily(s.ctx, "2024-01-01")
	s.Require().NoError(err)
	s.Equal("Hello there", p.Sentence)
	s.Equal("By Kenobi", p.Hint)
	s.Equal(map[string]int{"e": 1, "h": 2, "l": 3, "o": 4, "r": 5, "t": 6}, p.LetterMap)
	s.Len(p.RevealedLetters, 2)

	// Stored puzzle is immutable even when the quote source changes
	s.quotes.Quote = quote.Quote{Text: "Something else"}
	again, err := s.engine.GetOrCreateDaily(s.ctx, "2024-01-01")
	s.Require().NoError(err)
	s.Equal("Hello there", again.Sentence)
}

func (s *EngineSuite) TestUnknownAuthor() {
	s.quotes.Quote = quote.Quote{Text: "anon"}
	p, err := s.engine.GetOrCreateDaily(s.ctx, "2024-01-01")
	s.Require().NoError(err)
	s.Equal("By Unknown", p.Hint)
}

func (s *EngineSuite) TestBadDate() {
	_, err := s.engine.GetOrCreateDaily(s.ctx, "yesterday")
	s.ErrorIs(err, model.ErrInvalidInput)

	_, err = s.engine.CompleteDaily(s.ctx, "alice", "2024-13-01")
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *EngineSuite) TestUpstreamFailure() {
	s.quotes.Err = &model.UpstreamError{Provider: "zenquotes", Err: errors.New("status 503")}

	_, err := s.engine.GetOrCreateDaily(s.ctx, "2024-01-01")
	var upstream *model.UpstreamError
	s.Require().ErrorAs(err, &upstream)
	s.Equal("zenquotes", upstream.Provider)

	_, err = s.storage.GetDailyPuzzle(s.ctx, "2024-01-01")
	s.ErrorIs(err, model.ErrDailyPuzzleNotFound)
}

func (s *EngineSuite) TestConcurrentCreateYieldsOnePuzzle() {
	const n = 20
	results := make([]*Puzzle, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.engine.GetOrCreateDaily(s.ctx, "2024-01-01")
			s.NoError(err)
			results[i] = p
		}()
	}
	wg.Wait()

	for _, p := range results {
		s.Require().NotNil(p)
		s.Equal(results[0].LetterMap, p.LetterMap)
		s.Equal(results[0].RevealedLetters, p.RevealedLetters)
	}
}

// Attempts and streaks

func (s *EngineSuite) TestGetDailyForPlayerAfterCompletion() {
	_, err := s.engine.GetDailyForPlayer(s.ctx, "alice", "2024-01-01")
	s.Require().NoError(err)

	_, err = s.engine.CompleteDaily(s.ctx, "alice", "2024-01-01")
	s.Require().NoError(err)

	_, err = s.engine.GetDailyForPlayer(s.ctx, "alice", "2024-01-01")
	s.ErrorIs(err, model.ErrAlreadyAttempted)
}

func (s *EngineSuite) TestConsecutiveDaysBuildStreak() {
	for i, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		streak, err := s.engine.CompleteDaily(s.ctx, "alice", date)
		s.Require().NoError(err)
		s.Equal(model.Streak{Current: i + 1, Longest: i + 1}, streak)
	}

	// Skipping a day restarts the current streak but keeps the longest
	streak, err := s.engine.CompleteDaily(s.ctx, "alice", "2024-01-05")
	s.Require().NoError(err)
	s.Equal(model.Streak{Current: 1, Longest: 3}, streak)

	p, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.Streak{Current: 1, Longest: 3}, p.Streak)
}

func (s *EngineSuite) TestCompleteTwiceFails() {
	_, err := s.engine.CompleteDaily(s.ctx, "alice", "2024-01-01")
	s.Require().NoError(err)

	_, err = s.engine.CompleteDaily(s.ctx, "alice", "2024-01-01")
	s.ErrorIs(err, model.ErrAlreadyAttempted)

	p, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, p.Streak.Current)
}

func (s *EngineSuite) TestConcurrentCompleteSucceedsOnce() {
	const n = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.engine.CompleteDaily(s.ctx, "alice", "2024-01-01")
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			s.ErrorIs(err, model.ErrAlreadyAttempted)
		}()
	}
	wg.Wait()
	s.Equal(1, successes)
}

func (s *EngineSuite) TestCompleteUnknownPlayer() {
	_, err := s.engine.CompleteDaily(s.ctx, "ghost", "2024-01-01")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *EngineSuite) TestResetStreaks() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, model.NewPlayer("bob", "hash", epoch)))
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, model.NewPlayer("carol", "hash", epoch)))

	_, err := s.engine.CompleteDaily(s.ctx, "alice", "2024-01-01")
	s.Require().NoError(err)
	_, err = s.engine.CompleteDaily(s.ctx, "alice", "2024-01-02")
	s.Require().NoError(err)
	_, err = s.engine.CompleteDaily(s.ctx, "bob", "2024-01-01")
	s.Require().NoError(err)

	// On the 3rd, alice played yesterday; bob did not; carol has no streak
	count, err := s.engine.ResetStreaks(s.ctx, "2024-01-03")
	s.Require().NoError(err)
	s.Equal(1, count)

	alice, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.Streak{Current: 2, Longest: 2}, alice.Streak)

	bob, err := s.storage.GetPlayer(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(model.Streak{Current: 0, Longest: 1}, bob.Streak)

	count, err = s.engine.ResetStreaks(s.ctx, "2024-01-03")
	s.Require().NoError(err)
	s.Zero(count)
}

// sweepRaceStorage lets a completion land after the reset sweep has listed
// players but before it writes any streak.
type sweepRaceStorage struct {
	storage.Storage
	duringSweep func()
}

func (r *sweepRaceStorage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	players, err := r.Storage.ListPlayers(ctx)
	if r.duringSweep != nil {
		r.duringSweep()
	}
	return players, err
}

func (s *EngineSuite) TestResetStreaksKeepsCompletionDuringSweep() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, model.NewPlayer("bob", "hash", epoch)))
	_, err := s.engine.CompleteDaily(s.ctx, "bob", "2024-01-01")
	s.Require().NoError(err)

	racy := &sweepRaceStorage{Storage: s.storage}
	engine := NewEngine(racy, s.quotes, encoder.New(mocks.NewMockRandom()), s.clock, testutil.NopLogger())
	racy.duringSweep = func() {
		streak, err := engine.CompleteDaily(s.ctx, "bob", "2024-01-03")
		s.Require().NoError(err)
		s.Equal(model.Streak{Current: 1, Longest: 1}, streak)
	}

	count, err := engine.ResetStreaks(s.ctx, "2024-01-03")
	s.Require().NoError(err)
	s.Zero(count)

	bob, err := s.storage.GetPlayer(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(model.Streak{Current: 1, Longest: 1}, bob.Streak)

	racy.duringSweep = nil
	streak, err := engine.CompleteDaily(s.ctx, "bob", "2024-01-04")
	s.Require().NoError(err)
	s.Equal(model.Streak{Current: 2, Longest: 2}, streak)
}

func TestNextStreak(t *testing.T) {
	cases := []struct {
		name      string
		prev      model.Streak
		continued bool
		want      model.Streak
	}{
		{"first", model.Streak{}, false, model.Streak{Current: 1, Longest: 1}},
		{"continued", model.Streak{Current: 4, Longest: 4}, true, model.Streak{Current: 5, Longest: 5}},
		{"broken", model.Streak{Current: 4, Longest: 7}, false, model.Streak{Current: 1, Longest: 7}},
		{"below longest", model.Streak{Current: 2, Longest: 7}, true, model.Streak{Current: 3, Longest: 7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextStreak(tc.prev, tc.continued); got != tc.want {
				t.Errorf("NextStreak(%+v, %v) = %+v, want %+v", tc.prev, tc.continued, got, tc.want)
			}
		})
	}
}

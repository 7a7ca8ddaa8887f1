package factory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crackthecode/internal/config"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/services/quote"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) signup(username string) string {
	_, err := s.app.AuthService.Signup(s.ctx, username, "pw-"+username)
	s.Require().NoError(err)
	token, err := s.app.AuthService.Login(s.ctx, username, "pw-"+username)
	s.Require().NoError(err)
	return token
}

// Test: a player's first week, from signup to a three-day streak
func (s *IntegrationSuite) TestDailyStreakFlow() {
	token := s.signup("alice")
	username, err := s.app.AuthService.Authenticate(token)
	s.Require().NoError(err)
	s.Equal("alice", username)

	for day := 1; day <= 3; day++ {
		today := s.app.Daily.Today()
		puzzle, err := s.app.Daily.GetDailyForPlayer(s.ctx, "alice", today)
		s.Require().NoError(err)
		s.Equal("Stay hungry stay foolish", puzzle.Sentence)
		s.Equal("By Steve Jobs", puzzle.Hint)

		streak, err := s.app.Daily.CompleteDaily(s.ctx, "alice", today)
		s.Require().NoError(err)
		s.Equal(day, streak.Current)

		_, err = s.app.Daily.GetDailyForPlayer(s.ctx, "alice", today)
		s.ErrorIs(err, model.ErrAlreadyAttempted)

		s.app.MockClock.AdvanceDays(1)
	}

	// Day 4 is skipped; the scheduled reset on day 5 breaks the streak
	s.app.MockClock.AdvanceDays(1)
	count, err := s.app.Daily.ResetStreaks(s.ctx, s.app.Daily.Today())
	s.Require().NoError(err)
	s.Equal(1, count)

	player, err := s.app.Profiles.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.Streak{Current: 0, Longest: 3}, player.Streak)
}

// Test: friends and groups feeding into chat
func (s *IntegrationSuite) TestSocialFlow() {
	s.signup("alice")
	s.signup("bob")
	s.signup("carol")

	s.Require().NoError(s.app.Relationships.SendRequest(s.ctx, "alice", "bob"))
	s.Require().NoError(s.app.Relationships.Accept(s.ctx, "bob", "alice"))

	pub, err := s.app.Profiles.PublicProfile(s.ctx, "bob")
	s.Require().NoError(err)
	s.Require().Len(pub.Friends, 1)
	s.Equal("alice", pub.Friends[0].Username)

	s.Require().NoError(s.app.Chat.Post(s.ctx, model.ChatFriend, "alice", "bob", "hi bob"))
	history, err := s.app.Chat.History(s.ctx, model.ChatFriend, "bob", "alice")
	s.Require().NoError(err)
	s.Equal([]model.ChatMessage{{Sender: "alice", Text: "hi bob"}}, history)

	_, err = s.app.Relationships.CreateGroup(s.ctx, "puzzlers", "alice", "secret")
	s.Require().NoError(err)
	s.ErrorIs(s.app.Relationships.JoinGroup(s.ctx, "puzzlers", "carol", "wrong"), model.ErrBadGroupPassword)
	s.Require().NoError(s.app.Relationships.JoinGroup(s.ctx, "puzzlers", "carol", "secret"))

	s.Require().NoError(s.app.Chat.Post(s.ctx, model.ChatGroup, "carol", "puzzlers", "hello all"))
	s.ErrorIs(s.app.Chat.Post(s.ctx, model.ChatGroup, "bob", "puzzlers", "let me in"), model.ErrAccessDenied)

	s.Require().NoError(s.app.Relationships.RemoveMember(s.ctx, "alice", "puzzlers", "carol"))
	s.ErrorIs(s.app.Chat.Post(s.ctx, model.ChatGroup, "carol", "puzzlers", "again"), model.ErrAccessDenied)
}

// Test: pool content authored then served, and scores reaching the leaderboard
func (s *IntegrationSuite) TestContentAndScores() {
	_, err := s.app.Pool.AddPuzzle(s.ctx, "To be or not to be", "shakespeare", "Hamlet", model.PuzzleCategory)
	s.Require().NoError(err)
	s.Require().NoError(s.app.Pool.AddFlavor(s.ctx, model.FlavorPhoneLine, "Is it me you're looking for?"))

	names, err := s.app.Pool.Categories(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"shakespeare"}, names)

	_, err = s.app.Pool.RandomEndless(s.ctx)
	s.ErrorIs(err, model.ErrPuzzleNotFound)

	s.signup("alice")
	_, err = s.app.Scores.Submit(s.ctx, "alice", 40, "run-1", s.app.MockClock.Now())
	s.Require().NoError(err)
	_, err = s.app.Scores.Submit(s.ctx, "alice", 40, "run-1", s.app.MockClock.Now())
	s.ErrorIs(err, model.ErrDuplicateSubmission)

	board, err := s.app.Scores.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(board, 1)
	s.Equal(40, board[0].Score)
}

func (s *IntegrationSuite) TestUpstreamFailureLeavesNoPuzzle() {
	s.app.StaticQuote.Err = &model.UpstreamError{Provider: "zenquotes", Err: errors.New("timeout")}
	_, err := s.app.Daily.GetOrCreateDaily(s.ctx, s.app.Daily.Today())
	var upstream *model.UpstreamError
	s.ErrorAs(err, &upstream)

	s.app.StaticQuote.Err = nil
	s.app.StaticQuote.Quote = quote.Quote{Text: "Back again"}
	p, err := s.app.Daily.GetOrCreateDaily(s.ctx, s.app.Daily.Today())
	s.Require().NoError(err)
	s.Equal("By Unknown", p.Hint)
}

func TestNewMemoryApp(t *testing.T) {
	cfg := config.Default()
	cfg.Uploads.Dir = t.TempDir()

	app, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	require.NotNil(t, app.StreakReset)
	_, err = app.AuthService.Signup(context.Background(), "alice", "pw")
	require.NoError(t, err)
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	cfg := config.Default()
	cfg.Uploads.Dir = t.TempDir()
	cfg.Storage.Type = "mongo"

	_, err := New(context.Background(), cfg, nil)
	require.ErrorContains(t, err, "invalid storage type")
}

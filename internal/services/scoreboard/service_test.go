package scoreboard

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crackthecode/internal/dependencies/mocks"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/storage/memory"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(epoch)
	s.service = New(s.storage, s.clock)
	s.ctx = context.Background()
}

func (s *ServiceSuite) submit(username string, value int, session string) {
	_, err := s.service.Submit(s.ctx, username, value, session, time.Time{})
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
}

// Submit tests

func (s *ServiceSuite) TestSubmitScenario() {
	score, err := s.service.Submit(s.ctx, "alice", 100, "s1", time.Time{})
	s.Require().NoError(err)
	s.NotEmpty(score.ID)
	s.True(epoch.Equal(score.Timestamp))

	_, err = s.service.Submit(s.ctx, "alice", 100, "s1", time.Time{})
	s.ErrorIs(err, model.ErrDuplicateSubmission)

	board, err := s.service.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(board, 1)
	s.Equal("alice", board[0].Username)
	s.Equal(100, board[0].Score)
}

func (s *ServiceSuite) TestSubmitKeepsGivenTimestamp() {
	at := epoch.Add(-time.Hour)
	score, err := s.service.Submit(s.ctx, "alice", 5, "s1", at)
	s.Require().NoError(err)
	s.True(at.Equal(score.Timestamp))
}

func (s *ServiceSuite) TestSubmitValidation() {
	_, err := s.service.Submit(s.ctx, "alice", 5, "", time.Time{})
	s.ErrorIs(err, model.ErrInvalidInput)
	_, err = s.service.Submit(s.ctx, "alice", -1, "s1", time.Time{})
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *ServiceSuite) TestConcurrentDuplicateSubmissionsStoreOnce() {
	const racers = 10
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.service.Submit(s.ctx, "alice", 10+i, "same", time.Time{})
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			s.ErrorIs(err, model.ErrDuplicateSubmission)
		}
	}
	s.Equal(1, ok)

	history, err := s.service.History(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(history, 1)
}

// Leaderboard tests

func (s *ServiceSuite) TestLeaderboardBestPerPlayer() {
	s.submit("alice", 50, "a1")
	s.submit("bob", 80, "b1")
	s.submit("alice", 120, "a2")
	s.submit("carol", 10, "c1")
	s.submit("bob", 20, "b2")

	board, err := s.service.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(board, 3)
	s.Equal(model.LeaderboardEntry{Username: "alice", Score: 120, Timestamp: epoch.Add(2 * time.Minute)}, board[0])
	s.Equal("bob", board[1].Username)
	s.Equal(80, board[1].Score)
	s.Equal("carol", board[2].Username)
}

func (s *ServiceSuite) TestLeaderboardTiesAreStable() {
	s.submit("zed", 50, "z")
	s.submit("amy", 50, "a")
	s.submit("max", 50, "m")

	board, err := s.service.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal([]string{"zed", "amy", "max"}, []string{board[0].Username, board[1].Username, board[2].Username})
}

func (s *ServiceSuite) TestLeaderboardLimit() {
	for i := range 300 {
		s.submit(fmt.Sprintf("p%03d", i), i, "s")
	}

	board, err := s.service.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(board, model.DefaultLeaderboardLimit)
	s.Equal(299, board[0].Score)

	board, err = s.service.Leaderboard(s.ctx, 3)
	s.Require().NoError(err)
	s.Len(board, 3)
}

// History tests

func (s *ServiceSuite) TestHistorySortedByScore() {
	s.submit("alice", 30, "1")
	s.submit("alice", 90, "2")
	s.submit("alice", 60, "3")
	s.submit("bob", 1000, "1")

	history, err := s.service.History(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Equal([]int{90, 60, 30}, []int{history[0].Value, history[1].Value, history[2].Value})
}

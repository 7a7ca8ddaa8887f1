package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crackthecode/internal/config"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/storage/storagetest"
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type StorageSuite struct {
	storagetest.Suite
	mini  *miniredis.Miniredis
	redis *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.redis = NewWithClient(client, Config{})
	s.Storage = s.redis
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestKeysUsePrefix() {
	s.Require().NoError(s.redis.CreatePlayer(s.Ctx, model.NewPlayer("alice", "h", testEpoch)))
	s.Require().NoError(s.redis.UpdatePlayerSets(s.Ctx, "alice", model.AddTo(model.SetFriends, "bob")))

	s.True(s.mini.Exists("ctc:player:alice"))
	s.True(s.mini.Exists("ctc:player:alice:friends"))
	members, err := s.mini.Members("ctc:idx:players")
	s.Require().NoError(err)
	s.Equal([]string{"alice"}, members)
}

func (s *StorageSuite) TestPlayerHashFields() {
	p := model.NewPlayer("alice", "h", testEpoch)
	p.Streak = model.Streak{Current: 3, Longest: 7}
	s.Require().NoError(s.redis.CreatePlayer(s.Ctx, p))

	s.Equal("3", s.mini.HGet("ctc:player:alice", "streak_current"))
	s.Equal("7", s.mini.HGet("ctc:player:alice", "streak_longest"))
	s.Equal("2024-01-01", s.mini.HGet("ctc:player:alice", "joined"))

	got, err := s.redis.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.True(testEpoch.Equal(got.CreatedAt))
}

func (s *StorageSuite) TestCustomKeyPrefix() {
	store := NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), Config{KeyPrefix: "other"})
	defer func() { _ = store.Close() }()

	s.Require().NoError(store.AddFlavorText(s.Ctx, model.FlavorPhoneLine, "hello?"))
	s.True(s.mini.Exists("other:flavor:phone_line"))

	// Namespaces are isolated
	texts, err := s.redis.ListFlavorTexts(s.Ctx, model.FlavorPhoneLine)
	s.Require().NoError(err)
	s.Empty(texts)
}

func (s *StorageSuite) TestSeparatorInNameCannotAddressAnotherKey() {
	s.Require().NoError(s.redis.CreatePlayer(s.Ctx, model.NewPlayer("bob", "h", testEpoch)))
	s.Require().NoError(s.redis.CreatePlayer(s.Ctx, model.NewPlayer("bob:friends", "h", testEpoch)))
	s.True(s.mini.Exists("ctc:player:bob%3Afriends"))

	s.Require().NoError(s.redis.UpdatePlayerSets(s.Ctx, "bob", model.AddTo(model.SetFriends, "carol")))
	bob, err := s.redis.GetPlayer(s.Ctx, "bob")
	s.Require().NoError(err)
	s.Contains(bob.Friends, "carol")

	other, err := s.redis.GetPlayer(s.Ctx, "bob:friends")
	s.Require().NoError(err)
	s.Equal("bob:friends", other.Username)
	s.Empty(other.Friends)
}

func (s *StorageSuite) TestScoreKeysOfDistinctSessionsAreSeparate() {
	s.Require().NoError(s.redis.SaveScore(s.Ctx, &model.Score{ID: "1", Username: "a", SessionID: "b:c", Value: 1, Timestamp: testEpoch}))
	s.Require().NoError(s.redis.SaveScore(s.Ctx, &model.Score{ID: "2", Username: "a:b", SessionID: "c", Value: 2, Timestamp: testEpoch}))

	has, err := s.redis.HasScore(s.Ctx, "a:b", "c")
	s.Require().NoError(err)
	s.True(has)
	has, err = s.redis.HasScore(s.Ctx, "a", "b")
	s.Require().NoError(err)
	s.False(has)
}

// failingExecHook fails every pipeline, so a create dies after its
// existence check has passed.
type failingExecHook struct{}

func (failingExecHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (failingExecHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook { return next }

func (failingExecHook) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(context.Context, []redis.Cmder) error { return errors.New("connection reset") }
}

func (s *StorageSuite) TestFailedCreateLeavesNoPartialRecord() {
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	client.AddHook(failingExecHook{})
	broken := NewWithClient(client, Config{})
	defer broken.Close()

	s.Error(broken.CreatePlayer(s.Ctx, model.NewPlayer("alice", "h", testEpoch)))
	s.Error(broken.CreateGroup(s.Ctx, &model.Group{Name: "chess", PasswordHash: "pw", Admin: "alice", Members: []string{"alice"}, CreatedAt: testEpoch}))
	s.False(s.mini.Exists("ctc:player:alice"))
	s.False(s.mini.Exists("ctc:group:chess"))

	s.Require().NoError(s.redis.CreatePlayer(s.Ctx, model.NewPlayer("alice", "h", testEpoch)))
	alice, err := s.redis.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", alice.Username)
	s.Require().NoError(s.redis.CreateGroup(s.Ctx, &model.Group{Name: "chess", PasswordHash: "pw", Admin: "alice", Members: []string{"alice"}, CreatedAt: testEpoch}))
}

func (s *StorageSuite) TestConcurrentCreateOneWins() {
	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.redis.CreatePlayer(s.Ctx, model.NewPlayer("alice", "h", testEpoch))
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		s.ErrorIs(err, model.ErrUserExists)
	}
	s.Equal(1, created)
}

func (s *StorageSuite) TestDailyAttemptsStoredAsSet() {
	s.Require().NoError(s.redis.RecordDailyAttempt(s.Ctx, model.DailyAttempt{Username: "alice", Date: "2024-01-01"}))
	ok, err := s.mini.SIsMember("ctc:daily_attempts:2024-01-01", "alice")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *StorageSuite) TestCategoryListAcrossCategories() {
	s.Require().NoError(s.redis.SavePoolPuzzle(s.Ctx, &model.PoolPuzzle{ID: "1", Kind: model.PuzzleCategory, Category: "B"}))
	s.Require().NoError(s.redis.SavePoolPuzzle(s.Ctx, &model.PoolPuzzle{ID: "2", Kind: model.PuzzleCategory, Category: "A"}))

	all, err := s.redis.ListPoolPuzzles(s.Ctx, model.PuzzleCategory, "")
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("2", all[0].ID)
	s.Equal("1", all[1].ID)
}

func (s *StorageSuite) TestNewPingsServer() {
	store, err := New(s.Ctx, ConfigFrom(config.StorageConfig{RedisURL: "redis://" + s.mini.Addr(), RedisPoolSize: 2}))
	s.Require().NoError(err)
	s.Require().NoError(store.Close())

	_, err = New(s.Ctx, Config{URL: "not a url"})
	s.ErrorContains(err, "parse redis url")

	addr := s.mini.Addr()
	s.mini.Close()
	_, err = New(s.Ctx, Config{URL: "redis://" + addr, PingTimeout: time.Second})
	s.ErrorContains(err, "ping")
	s.mini = nil
}

// Package storagetest holds behaviour tests shared by every storage backend.
package storagetest

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/storage"
)

// Suite runs the storage contract against a backend.
// Backends embed it and set NewStorage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) createPlayer(username string) {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, model.NewPlayer(username, "hash-"+username, epoch)))
}

// Player tests

func (s *Suite) TestCreateAndGetPlayer() {
	s.createPlayer("alice")

	p, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", p.Username)
	s.Equal("hash-alice", p.PasswordHash)
	s.Equal(model.DefaultAbout, p.About)
	s.Equal("2024-01-01", p.Joined)
	s.Equal(model.Streak{}, p.Streak)
	s.Empty(p.Friends)
}

func (s *Suite) TestCreatePlayerDuplicateUsername() {
	s.createPlayer("alice")

	err := s.Storage.CreatePlayer(s.Ctx, model.NewPlayer("alice", "other", epoch))
	s.ErrorIs(err, model.ErrUserExists)

	p, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("hash-alice", p.PasswordHash)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestGetPlayersSkipsMissing() {
	s.createPlayer("alice")
	s.createPlayer("bob")

	players, err := s.Storage.GetPlayers(s.Ctx, []string{"bob", "ghost", "alice"})
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal("bob", players[0].Username)
	s.Equal("alice", players[1].Username)
}

func (s *Suite) TestListAndSearchPlayers() {
	s.createPlayer("alice")
	s.createPlayer("Alfred")
	s.createPlayer("bob")

	all, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Len(all, 3)

	found, err := s.Storage.SearchPlayers(s.Ctx, "AL")
	s.Require().NoError(err)
	names := usernames(found)
	s.ElementsMatch([]string{"alice", "Alfred"}, names)
}

func (s *Suite) TestProfileUpdates() {
	s.createPlayer("alice")

	s.Require().NoError(s.Storage.UpdateAbout(s.Ctx, "alice", "hello"))
	s.Require().NoError(s.Storage.UpdatePicture(s.Ctx, "alice", "/uploads/a.png"))
	s.Require().NoError(s.Storage.UpdatePasswordHash(s.Ctx, "alice", "new-hash"))
	s.Require().NoError(s.Storage.SetStreak(s.Ctx, "alice", model.Streak{Current: 2, Longest: 5}))

	p, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("hello", p.About)
	s.Equal("/uploads/a.png", p.Picture)
	s.Equal("new-hash", p.PasswordHash)
	s.Equal(model.Streak{Current: 2, Longest: 5}, p.Streak)
}

func (s *Suite) TestUpdatesOnMissingPlayer() {
	s.ErrorIs(s.Storage.UpdateAbout(s.Ctx, "ghost", "x"), model.ErrPlayerNotFound)
	s.ErrorIs(s.Storage.SetStreak(s.Ctx, "ghost", model.Streak{}), model.ErrPlayerNotFound)
	s.ErrorIs(s.Storage.UpdatePlayerSets(s.Ctx, "ghost", model.AddTo(model.SetFriends, "x")), model.ErrPlayerNotFound)
}

func (s *Suite) TestUpdatePlayerSetsHasSetSemantics() {
	s.createPlayer("alice")

	err := s.Storage.UpdatePlayerSets(s.Ctx, "alice",
		model.AddTo(model.SetFriends, "carol"),
		model.AddTo(model.SetFriends, "bob"),
		model.AddTo(model.SetFriends, "bob"),
		model.AddTo(model.SetFriendRequests, "dave"),
		model.AddTo(model.SetStamps, "SCIENCE"),
	)
	s.Require().NoError(err)

	err = s.Storage.UpdatePlayerSets(s.Ctx, "alice",
		model.RemoveFrom(model.SetFriendRequests, "dave"),
		model.RemoveFrom(model.SetSentRequests, "nobody"),
		model.AddTo(model.SetSentRequests, "erin"),
	)
	s.Require().NoError(err)

	p, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]string{"bob", "carol"}, p.Friends)
	s.Empty(p.FriendRequests)
	s.Equal([]string{"erin"}, p.SentRequests)
	s.Equal([]string{"SCIENCE"}, p.Stamps)
}

// Group tests

func (s *Suite) newGroup(name, admin string) *model.Group {
	return &model.Group{Name: name, PasswordHash: "pw", Admin: admin, Members: []string{admin}, CreatedAt: epoch}
}

func (s *Suite) TestCreateAndGetGroup() {
	s.Require().NoError(s.Storage.CreateGroup(s.Ctx, s.newGroup("chess", "alice")))

	g, err := s.Storage.GetGroup(s.Ctx, "chess")
	s.Require().NoError(err)
	s.Equal("alice", g.Admin)
	s.Equal([]string{"alice"}, g.Members)
	s.Equal("pw", g.PasswordHash)

	s.ErrorIs(s.Storage.CreateGroup(s.Ctx, s.newGroup("chess", "bob")), model.ErrGroupNameTaken)
}

func (s *Suite) TestGetGroupNotFound() {
	_, err := s.Storage.GetGroup(s.Ctx, "nope")
	s.ErrorIs(err, model.ErrGroupNotFound)
	s.ErrorIs(s.Storage.AddGroupMember(s.Ctx, "nope", "alice"), model.ErrGroupNotFound)
	s.ErrorIs(s.Storage.RemoveGroupMember(s.Ctx, "nope", "alice"), model.ErrGroupNotFound)
}

func (s *Suite) TestGroupMembership() {
	s.Require().NoError(s.Storage.CreateGroup(s.Ctx, s.newGroup("chess", "alice")))
	s.Require().NoError(s.Storage.CreateGroup(s.Ctx, s.newGroup("Chessmasters", "carol")))

	s.Require().NoError(s.Storage.AddGroupMember(s.Ctx, "chess", "bob"))
	s.Require().NoError(s.Storage.AddGroupMember(s.Ctx, "chess", "bob"))

	g, err := s.Storage.GetGroup(s.Ctx, "chess")
	s.Require().NoError(err)
	s.Equal([]string{"alice", "bob"}, g.Members)

	groups, err := s.Storage.GroupsForMember(s.Ctx, "bob")
	s.Require().NoError(err)
	s.Require().Len(groups, 1)
	s.Equal("chess", groups[0].Name)

	found, err := s.Storage.SearchGroups(s.Ctx, "CHESS")
	s.Require().NoError(err)
	s.Len(found, 2)

	s.Require().NoError(s.Storage.RemoveGroupMember(s.Ctx, "chess", "alice"))
	g, err = s.Storage.GetGroup(s.Ctx, "chess")
	s.Require().NoError(err)
	s.Equal([]string{"bob"}, g.Members)
	s.Equal("alice", g.Admin)

	groups, err = s.Storage.GroupsForMember(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Empty(groups)
}

// Daily puzzle tests

func dailyPuzzle(date, sentence string) *model.DailyPuzzle {
	return &model.DailyPuzzle{
		Date: date,
		Cipher: model.Cipher{
			Sentence:        sentence,
			LetterMap:       map[string]int{"a": 1, "b": 2},
			RevealedLetters: []string{"a"},
		},
		Author:    "Someone",
		CreatedAt: epoch,
	}
}

func (s *Suite) TestDailyPuzzleInsertIfAbsent() {
	_, err := s.Storage.GetDailyPuzzle(s.Ctx, "2024-01-01")
	s.ErrorIs(err, model.ErrDailyPuzzleNotFound)

	stored, created, err := s.Storage.CreateDailyPuzzleIfAbsent(s.Ctx, dailyPuzzle("2024-01-01", "ab"))
	s.Require().NoError(err)
	s.True(created)
	s.Equal("ab", stored.Sentence)

	stored, created, err = s.Storage.CreateDailyPuzzleIfAbsent(s.Ctx, dailyPuzzle("2024-01-01", "ba"))
	s.Require().NoError(err)
	s.False(created)
	s.Equal("ab", stored.Sentence)

	got, err := s.Storage.GetDailyPuzzle(s.Ctx, "2024-01-01")
	s.Require().NoError(err)
	s.Equal("ab", got.Sentence)
	s.Equal(map[string]int{"a": 1, "b": 2}, got.LetterMap)
	s.Equal([]string{"a"}, got.RevealedLetters)
}

func (s *Suite) TestConcurrentDailyCreateAgrees() {
	const racers = 8
	results := make([]*model.DailyPuzzle, racers)
	var wg sync.WaitGroup
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, _, err := s.Storage.CreateDailyPuzzleIfAbsent(s.Ctx, dailyPuzzle("2024-02-02", string(rune('a'+i))))
			s.NoError(err)
			results[i] = p
		}()
	}
	wg.Wait()

	for _, p := range results {
		s.Require().NotNil(p)
		s.Equal(results[0].Sentence, p.Sentence)
	}
}

func (s *Suite) TestDailyAttemptUniqueness() {
	attempt := model.DailyAttempt{Username: "alice", Date: "2024-01-01"}

	has, err := s.Storage.HasDailyAttempt(s.Ctx, "alice", "2024-01-01")
	s.Require().NoError(err)
	s.False(has)

	s.Require().NoError(s.Storage.RecordDailyAttempt(s.Ctx, attempt))
	s.ErrorIs(s.Storage.RecordDailyAttempt(s.Ctx, attempt), model.ErrAlreadyAttempted)

	has, err = s.Storage.HasDailyAttempt(s.Ctx, "alice", "2024-01-01")
	s.Require().NoError(err)
	s.True(has)

	has, err = s.Storage.HasDailyAttempt(s.Ctx, "alice", "2024-01-02")
	s.Require().NoError(err)
	s.False(has)
}

func (s *Suite) TestResetStreakUnlessAttempted() {
	s.createPlayer("alice")
	s.createPlayer("bob")
	s.createPlayer("carol")
	s.Require().NoError(s.Storage.SetStreak(s.Ctx, "alice", model.Streak{Current: 3, Longest: 5}))
	s.Require().NoError(s.Storage.SetStreak(s.Ctx, "bob", model.Streak{Current: 2, Longest: 2}))
	s.Require().NoError(s.Storage.RecordDailyAttempt(s.Ctx, model.DailyAttempt{Username: "bob", Date: "2024-01-03"}))

	reset, err := s.Storage.ResetStreakUnlessAttempted(s.Ctx, "alice", "2024-01-02", "2024-01-03")
	s.Require().NoError(err)
	s.True(reset)

	reset, err = s.Storage.ResetStreakUnlessAttempted(s.Ctx, "bob", "2024-01-02", "2024-01-03")
	s.Require().NoError(err)
	s.False(reset)

	reset, err = s.Storage.ResetStreakUnlessAttempted(s.Ctx, "carol", "2024-01-02", "2024-01-03")
	s.Require().NoError(err)
	s.False(reset, "a zero streak is left alone")

	_, err = s.Storage.ResetStreakUnlessAttempted(s.Ctx, "ghost", "2024-01-02")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	alice, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.Streak{Current: 0, Longest: 5}, alice.Streak)

	bob, err := s.Storage.GetPlayer(s.Ctx, "bob")
	s.Require().NoError(err)
	s.Equal(model.Streak{Current: 2, Longest: 2}, bob.Streak)
}

// Score tests

func (s *Suite) TestScoreUniquenessPerSession() {
	first := &model.Score{ID: "1", Username: "alice", Value: 100, SessionID: "s1", Timestamp: epoch}
	s.Require().NoError(s.Storage.SaveScore(s.Ctx, first))

	dup := &model.Score{ID: "2", Username: "alice", Value: 999, SessionID: "s1", Timestamp: epoch}
	s.ErrorIs(s.Storage.SaveScore(s.Ctx, dup), model.ErrDuplicateSubmission)

	// Same session id for another player is fine
	other := &model.Score{ID: "3", Username: "bob", Value: 50, SessionID: "s1", Timestamp: epoch}
	s.Require().NoError(s.Storage.SaveScore(s.Ctx, other))

	has, err := s.Storage.HasScore(s.Ctx, "alice", "s1")
	s.Require().NoError(err)
	s.True(has)

	all, err := s.Storage.ListScores(s.Ctx)
	s.Require().NoError(err)
	s.Len(all, 2)

	mine, err := s.Storage.ListPlayerScores(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(100, mine[0].Value)
	s.True(epoch.Equal(mine[0].Timestamp))
}

// Chat tests

func (s *Suite) TestChatMessages() {
	key := model.FriendThread("bob", "alice")

	msgs, err := s.Storage.GetChatMessages(s.Ctx, key)
	s.Require().NoError(err)
	s.Empty(msgs)

	want := []model.ChatMessage{{Sender: "alice", Text: "hi"}, {Sender: "bob", Text: "hey"}}
	s.Require().NoError(s.Storage.SaveChatMessages(s.Ctx, key, want))

	msgs, err = s.Storage.GetChatMessages(s.Ctx, model.FriendThread("alice", "bob"))
	s.Require().NoError(err)
	s.Equal(want, msgs)
}

// Pool tests

func (s *Suite) TestPoolPuzzlesAndCategories() {
	puzzles := []*model.PoolPuzzle{
		{ID: "e1", Kind: model.PuzzleEndless, Hint: "h", Cipher: model.Cipher{Sentence: "one", LetterMap: map[string]int{"o": 3}}},
		{ID: "c1", Kind: model.PuzzleCategory, Category: "SCIENCE", Cipher: model.Cipher{Sentence: "atom"}},
		{ID: "c2", Kind: model.PuzzleCategory, Category: "EARTH", Cipher: model.Cipher{Sentence: "rock"}},
		{ID: "c3", Kind: model.PuzzleCategory, Category: "SCIENCE", Cipher: model.Cipher{Sentence: "cell"}},
	}
	for _, p := range puzzles {
		s.Require().NoError(s.Storage.SavePoolPuzzle(s.Ctx, p))
	}

	endless, err := s.Storage.ListPoolPuzzles(s.Ctx, model.PuzzleEndless, "")
	s.Require().NoError(err)
	s.Require().Len(endless, 1)
	s.Equal("one", endless[0].Sentence)
	s.Equal(3, endless[0].LetterMap["o"])

	science, err := s.Storage.ListPoolPuzzles(s.Ctx, model.PuzzleCategory, "SCIENCE")
	s.Require().NoError(err)
	s.Len(science, 2)

	cats, err := s.Storage.ListCategories(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]string{"EARTH", "SCIENCE"}, cats)
}

func (s *Suite) TestFlavorTexts() {
	texts, err := s.Storage.ListFlavorTexts(s.Ctx, model.FlavorBogusHint)
	s.Require().NoError(err)
	s.Empty(texts)

	s.Require().NoError(s.Storage.AddFlavorText(s.Ctx, model.FlavorBogusHint, "It's a trap"))
	s.Require().NoError(s.Storage.AddFlavorText(s.Ctx, model.FlavorPhoneLine, "Ring ring"))

	texts, err = s.Storage.ListFlavorTexts(s.Ctx, model.FlavorBogusHint)
	s.Require().NoError(err)
	s.Equal([]string{"It's a trap"}, texts)
}

func usernames(players []*model.Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Username
	}
	return names
}

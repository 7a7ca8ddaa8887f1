package profile

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/storage/memory"
	"github.com/mcoot/crackthecode/internal/testutil"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	files   *testutil.MemoryFiles
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.files = testutil.NewMemoryFiles()
	s.service = New(s.storage, s.files, testutil.NopLogger())
	s.ctx = context.Background()

	for _, name := range []string{"alice", "Alfred", "bob"} {
		s.Require().NoError(s.storage.CreatePlayer(s.ctx, model.NewPlayer(name, "h", epoch)))
	}
}

func (s *ServiceSuite) TestUpdateAbout() {
	s.Require().NoError(s.service.UpdateAbout(s.ctx, "alice", "I like puzzles"))

	p, err := s.service.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("I like puzzles", p.About)

	s.ErrorIs(s.service.UpdateAbout(s.ctx, "alice", "  "), model.ErrInvalidInput)
	s.ErrorIs(s.service.UpdateAbout(s.ctx, "ghost", "x"), model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestUploadPictureReplacesOld() {
	first, err := s.service.UploadPicture(s.ctx, "alice", "me.PNG", []byte("one"))
	s.Require().NoError(err)
	s.True(strings.HasSuffix(first, ".png"))
	s.True(s.files.Has(first))

	second, err := s.service.UploadPicture(s.ctx, "alice", "me.jpg", []byte("two"))
	s.Require().NoError(err)
	s.NotEqual(first, second)
	s.False(s.files.Has(first))
	s.True(s.files.Has(second))

	p, err := s.service.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(second, p.Picture)
}

func (s *ServiceSuite) TestUploadPictureValidation() {
	_, err := s.service.UploadPicture(s.ctx, "alice", "script.sh", []byte("x"))
	s.ErrorIs(err, model.ErrInvalidInput)

	_, err = s.service.UploadPicture(s.ctx, "alice", "empty.png", nil)
	s.ErrorIs(err, model.ErrInvalidInput)

	_, err = s.service.UploadPicture(s.ctx, "ghost", "a.png", []byte("x"))
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.Zero(s.files.Len())
}

func (s *ServiceSuite) TestCompleteCategoryIsIdempotent() {
	s.Require().NoError(s.service.CompleteCategory(s.ctx, "alice", "SCIENCE"))
	s.Require().NoError(s.service.CompleteCategory(s.ctx, "alice", "SCIENCE"))
	s.Require().NoError(s.service.CompleteCategory(s.ctx, "alice", "ANIMALS"))

	p, err := s.service.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]string{"ANIMALS", "SCIENCE"}, p.Stamps)

	s.ErrorIs(s.service.CompleteCategory(s.ctx, "alice", ""), model.ErrInvalidInput)
}

func (s *ServiceSuite) TestPublicProfile() {
	s.Require().NoError(s.storage.UpdatePlayerSets(s.ctx, "alice", model.AddTo(model.SetFriends, "bob")))
	s.Require().NoError(s.storage.UpdatePicture(s.ctx, "bob", "/uploads/bob.png"))
	s.Require().NoError(s.storage.CreateGroup(s.ctx, &model.Group{Name: "chess", Admin: "alice", Members: []string{"alice"}}))

	pp, err := s.service.PublicProfile(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", pp.Player.Username)
	s.Equal([]model.PlayerSummary{{Username: "bob", Picture: "/uploads/bob.png"}}, pp.Friends)
	s.Equal([]string{"chess"}, pp.Groups)

	_, err = s.service.PublicProfile(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestSearchPlayersExcludesViewer() {
	found, err := s.service.SearchPlayers(s.ctx, "alice", "al")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("Alfred", found[0].Username)
}

package admincli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crackthecode/internal/admincli"
	"github.com/mcoot/crackthecode/internal/factory"
	"github.com/mcoot/crackthecode/internal/model"
)

type AdminCLISuite struct {
	suite.Suite
	app *factory.TestApp
}

func TestAdminCLISuite(t *testing.T) {
	suite.Run(t, new(AdminCLISuite))
}

func (s *AdminCLISuite) SetupTest() {
	s.app = factory.NewTestApp()
}

func (s *AdminCLISuite) run(args ...string) (string, error) {
	cmd := admincli.NewRootCmd(func(ctx context.Context, configPath string) (*factory.App, error) {
		return s.app.App, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(s.T().Context())
	return out.String(), err
}

func (s *AdminCLISuite) TestPuzzleAdd() {
	out, err := s.run("puzzle", "add", "May the force be with you", "--category", "movies", "--hint", "Star Wars")
	s.Require().NoError(err, out)
	s.Contains(out, "Added category puzzle")

	puzzles, err := s.app.Pool.Category(s.T().Context(), "movies")
	s.Require().NoError(err)
	s.Require().Len(puzzles, 1)
	s.Equal("Star Wars", puzzles[0].Hint)
	s.Len(puzzles[0].LetterMap, 26)

	out, err = s.run("puzzle", "add", "Keep going")
	s.Require().NoError(err, out)
	s.Contains(out, "Added endless puzzle")

	endless, err := s.app.Pool.RandomEndless(s.T().Context())
	s.Require().NoError(err)
	s.Equal("Keep going", endless.Sentence)
}

func (s *AdminCLISuite) TestPuzzleAddRejectsEmptySentence() {
	_, err := s.run("puzzle", "add", "  ")
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *AdminCLISuite) TestPuzzleImport() {
	path := filepath.Join(s.T().TempDir(), "puzzles.tsv")
	content := "# category\thint\tsentence\n" +
		"movies\tJaws\tWere going to need a bigger boat\n" +
		"\t\tEndless sentence\n"
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))

	out, err := s.run("puzzle", "import", path)
	s.Require().NoError(err, out)
	s.Contains(out, "Imported 2 puzzles")

	categories, err := s.app.Pool.Categories(s.T().Context())
	s.Require().NoError(err)
	s.Equal([]string{"movies"}, categories)
}

func (s *AdminCLISuite) TestFlavorAdd() {
	out, err := s.run("flavor", "add", "bogus-hint", "Try vowels first")
	s.Require().NoError(err, out)
	out, err = s.run("flavor", "add", "phone-line", "Hello?")
	s.Require().NoError(err, out)

	hint, err := s.app.Pool.RandomBogusHint(s.T().Context())
	s.Require().NoError(err)
	s.Equal("Try vowels first", hint)

	line, err := s.app.Pool.RandomPhoneLine(s.T().Context())
	s.Require().NoError(err)
	s.Equal("Hello?", line)

	_, err = s.run("flavor", "add", "riddle", "What?")
	s.ErrorIs(err, model.ErrInvalidInput)
}

func (s *AdminCLISuite) TestDailyCreate() {
	out, err := s.run("daily", "--date", "2024-02-01")
	s.Require().NoError(err, out)
	s.Contains(out, "2024-02-01")
	s.Contains(out, "Steve Jobs")

	p, err := s.app.Storage.GetDailyPuzzle(s.T().Context(), "2024-02-01")
	s.Require().NoError(err)
	s.Equal("Stay hungry stay foolish", p.Sentence)
}

func (s *AdminCLISuite) TestResetPassword() {
	ctx := s.T().Context()
	_, err := s.app.AuthService.Signup(ctx, "alice", "old-password")
	s.Require().NoError(err)

	out, err := s.run("reset-password", "alice", "--pass", "new-password")
	s.Require().NoError(err, out)

	_, err = s.app.AuthService.Login(ctx, "alice", "old-password")
	s.Error(err)
	_, err = s.app.AuthService.Login(ctx, "alice", "new-password")
	s.NoError(err)

	_, err = s.run("reset-password", "ghost", "--pass", "x")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *AdminCLISuite) TestResetStreaks() {
	ctx := s.T().Context()
	_, err := s.app.AuthService.Signup(ctx, "alice", "pw")
	s.Require().NoError(err)
	_, err = s.app.Daily.CompleteDaily(ctx, "alice", "2024-01-01")
	s.Require().NoError(err)

	out, err := s.run("reset-streaks", "--date", "2024-01-02")
	s.Require().NoError(err, out)
	s.Contains(out, "Reset 0 streaks")

	out, err = s.run("reset-streaks", "--date", "2024-01-03")
	s.Require().NoError(err, out)
	s.Contains(out, "Reset 1 streaks for 2024-01-03")

	player, err := s.app.Storage.GetPlayer(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.Streak{Current: 0, Longest: 1}, player.Streak)
}

func (s *AdminCLISuite) TestOpenerError() {
	cmd := admincli.NewRootCmd(func(ctx context.Context, configPath string) (*factory.App, error) {
		return nil, errors.New("no storage")
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"reset-streaks"})
	s.EqualError(cmd.ExecuteContext(s.T().Context()), "no storage")
}

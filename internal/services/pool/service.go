// Package pool serves authored puzzles and flavour text.
package pool

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/crackthecode/internal/dependencies/clock"
	"github.com/mcoot/crackthecode/internal/dependencies/random"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/services/encoder"
	"github.com/mcoot/crackthecode/internal/storage"
)

// Service reads and authors pool content
type Service struct {
	storage storage.Storage
	encoder *encoder.Encoder
	random  random.Random
	clock   clock.Clock
}

// New creates a pool Service
func New(storage storage.Storage, enc *encoder.Encoder, rnd random.Random, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		encoder: enc,
		random:  rnd,
		clock:   clock,
	}
}

// RandomEndless picks a puzzle from the endless pool
func (s *Service) RandomEndless(ctx context.Context) (*model.PoolPuzzle, error) {
	puzzles, err := s.storage.ListPoolPuzzles(ctx, model.PuzzleEndless, "")
	if err != nil {
		return nil, err
	}
	p, ok := random.Pick(s.random, puzzles)
	if !ok {
		return nil, model.ErrPuzzleNotFound
	}
	return p, nil
}

// Category returns every puzzle in the named category, in authoring order
func (s *Service) Category(ctx context.Context, name string) ([]*model.PoolPuzzle, error) {
	puzzles, err := s.storage.ListPoolPuzzles(ctx, model.PuzzleCategory, name)
	if err != nil {
		return nil, err
	}
	if len(puzzles) == 0 {
		return nil, model.ErrPuzzleNotFound
	}
	return puzzles, nil
}

// Categories lists the category names that have at least one puzzle
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	names, err := s.storage.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *Service) RandomBogusHint(ctx context.Context) (string, error) {
	return s.randomFlavor(ctx, model.FlavorBogusHint)
}

func (s *Service) RandomPhoneLine(ctx context.Context) (string, error) {
	return s.randomFlavor(ctx, model.FlavorPhoneLine)
}

func (s *Service) randomFlavor(ctx context.Context, kind model.FlavorKind) (string, error) {
	texts, err := s.storage.ListFlavorTexts(ctx, kind)
	if err != nil {
		return "", err
	}
	text, ok := random.Pick(s.random, texts)
	if !ok {
		return "", model.ErrFlavorNotFound
	}
	return text, nil
}

// AddPuzzle encodes sentence and stores it in the pool.
// Category puzzles need a category; endless puzzles ignore it.
func (s *Service) AddPuzzle(ctx context.Context, sentence, category, hint string, kind model.PuzzleKind) (*model.PoolPuzzle, error) {
	if strings.TrimSpace(sentence) == "" {
		return nil, fmt.Errorf("%w: sentence is required", model.ErrInvalidInput)
	}
	switch kind {
	case model.PuzzleEndless:
		category = ""
	case model.PuzzleCategory:
		if strings.TrimSpace(category) == "" {
			return nil, fmt.Errorf("%w: category is required", model.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: unknown puzzle kind %q", model.ErrInvalidInput, kind)
	}

	puzzle := &model.PoolPuzzle{
		ID:        uuid.NewString(),
		Kind:      kind,
		Category:  strings.TrimSpace(category),
		Hint:      hint,
		Cipher:    s.encoder.Encode(sentence, encoder.AuthoringOptions()),
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.SavePoolPuzzle(ctx, puzzle); err != nil {
		return nil, err
	}
	return puzzle, nil
}

// AddFlavor stores a bogus hint or phone line
func (s *Service) AddFlavor(ctx context.Context, kind model.FlavorKind, text string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown flavour kind %q", model.ErrInvalidInput, kind)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: text is required", model.ErrInvalidInput)
	}
	return s.storage.AddFlavorText(ctx, kind, text)
}

// ImportFile loads puzzles from a file, one per line:
//
//	category<TAB>hint<TAB>sentence
//
// An empty category adds the puzzle to the endless pool. Blank lines and
// lines starting with # are skipped.
func (s *Service) ImportFile(ctx context.Context, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return s.Import(ctx, file)
}

// Import reads puzzles in the ImportFile format from r
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	added := 0
	line := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		raw := strings.TrimRight(scanner.Text(), "\r")
		if text := strings.TrimSpace(raw); text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		// The leading tab of an endless line is significant, so split before trimming
		fields := strings.SplitN(raw, "\t", 3)
		if len(fields) != 3 {
			return added, fmt.Errorf("line %d: %w: want 3 tab-separated fields, got %d", line, model.ErrInvalidInput, len(fields))
		}

		kind := model.PuzzleCategory
		if strings.TrimSpace(fields[0]) == "" {
			kind = model.PuzzleEndless
		}
		if _, err := s.AddPuzzle(ctx, fields[2], fields[0], strings.TrimSpace(fields[1]), kind); err != nil {
			return added, fmt.Errorf("line %d: %w", line, err)
		}
		added++
	}
	if err := scanner.Err(); err != nil {
		return added, err
	}
	return added, nil
}

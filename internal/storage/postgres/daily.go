package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mcoot/crackthecode/internal/model"
)

const (
	selectDaily = `
SELECT date, sentence, letter_map, revealed_letters, author, created_at
FROM daily_puzzles WHERE date=$1`
	insertDailyIfAbsent = `
INSERT INTO daily_puzzles (date, sentence, letter_map, revealed_letters, author, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (date) DO NOTHING`
	insertAttempt = `
INSERT INTO daily_attempts (username, date) VALUES ($1, $2)
ON CONFLICT DO NOTHING`
	attemptExists = `
SELECT EXISTS (SELECT 1 FROM daily_attempts WHERE username=$1 AND date=$2)`
	resetStreakUnlessAttempted = `
UPDATE players SET streak_current=0
WHERE username=$1 AND streak_current > 0
AND NOT EXISTS (SELECT 1 FROM daily_attempts WHERE username=$1 AND date = ANY($2))`
	playerExists = `SELECT EXISTS (SELECT 1 FROM players WHERE username=$1)`
)

func (s *Storage) GetDailyPuzzle(ctx context.Context, date string) (*model.DailyPuzzle, error) {
	var (
		p                 model.DailyPuzzle
		letters, revealed []byte
	)
	err := s.db.Pool.QueryRow(ctx, selectDaily, date).
		Scan(&p.Date, &p.Sentence, &letters, &revealed, &p.Author, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrDailyPuzzleNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := decodeCipher(&p.Cipher, letters, revealed); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Storage) CreateDailyPuzzleIfAbsent(ctx context.Context, puzzle *model.DailyPuzzle) (*model.DailyPuzzle, bool, error) {
	letters, revealed, err := encodeCipher(puzzle.Cipher)
	if err != nil {
		return nil, false, err
	}
	tag, err := s.db.Pool.Exec(ctx, insertDailyIfAbsent,
		puzzle.Date, puzzle.Sentence, letters, revealed, puzzle.Author, puzzle.CreatedAt)
	if err != nil {
		return nil, false, err
	}
	if tag.RowsAffected() == 1 {
		stored := *puzzle
		return &stored, true, nil
	}
	existing, err := s.GetDailyPuzzle(ctx, puzzle.Date)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *Storage) RecordDailyAttempt(ctx context.Context, attempt model.DailyAttempt) error {
	tag, err := s.db.Pool.Exec(ctx, insertAttempt, attempt.Username, attempt.Date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAlreadyAttempted
	}
	return nil
}

func (s *Storage) HasDailyAttempt(ctx context.Context, username, date string) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, attemptExists, username, date).Scan(&exists)
	return exists, err
}

func encodeCipher(c model.Cipher) (letters, revealed []byte, err error) {
	lm := c.LetterMap
	if lm == nil {
		lm = map[string]int{}
	}
	if letters, err = json.Marshal(lm); err != nil {
		return nil, nil, err
	}
	rl := c.RevealedLetters
	if rl == nil {
		rl = []string{}
	}
	if revealed, err = json.Marshal(rl); err != nil {
		return nil, nil, err
	}
	return letters, revealed, nil
}

func decodeCipher(c *model.Cipher, letters, revealed []byte) error {
	if err := json.Unmarshal(letters, &c.LetterMap); err != nil {
		return err
	}
	return json.Unmarshal(revealed, &c.RevealedLetters)
}

func (s *Storage) ResetStreakUnlessAttempted(ctx context.Context, username string, dates ...string) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, resetStreakUnlessAttempted, username, dates)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	var exists bool
	if err := s.db.Pool.QueryRow(ctx, playerExists, username).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, model.ErrPlayerNotFound
	}
	return false, nil
}

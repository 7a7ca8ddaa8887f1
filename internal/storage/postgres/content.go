package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mcoot/crackthecode/internal/model"
)

// Chat operations

const (
	selectChat = `SELECT messages FROM chat_threads WHERE thread_key=$1`
	upsertChat = `
INSERT INTO chat_threads (thread_key, messages) VALUES ($1, $2)
ON CONFLICT (thread_key) DO UPDATE SET messages = EXCLUDED.messages`
)

func (s *Storage) GetChatMessages(ctx context.Context, key model.ThreadKey) ([]model.ChatMessage, error) {
	var raw []byte
	err := s.db.Pool.QueryRow(ctx, selectChat, string(key)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var messages []model.ChatMessage
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *Storage) SaveChatMessages(ctx context.Context, key model.ThreadKey, messages []model.ChatMessage) error {
	if messages == nil {
		messages = []model.ChatMessage{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	_, err = s.db.Pool.Exec(ctx, upsertChat, string(key), raw)
	return err
}

// Puzzle pool operations

const (
	insertPoolPuzzle = `
INSERT INTO pool_puzzles (id, kind, category, hint, sentence, letter_map, revealed_letters, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	selectPoolPuzzles = `
SELECT id, kind, category, hint, sentence, letter_map, revealed_letters, created_at
FROM pool_puzzles WHERE kind=$1 AND ($2 = '' OR category=$2) ORDER BY seq`
	selectCategories = `
SELECT DISTINCT category FROM pool_puzzles WHERE kind='category' ORDER BY category`
	insertFlavor = `INSERT INTO flavor_texts (kind, text) VALUES ($1, $2)`
	selectFlavor = `SELECT text FROM flavor_texts WHERE kind=$1 ORDER BY seq`
)

func (s *Storage) SavePoolPuzzle(ctx context.Context, puzzle *model.PoolPuzzle) error {
	letters, revealed, err := encodeCipher(puzzle.Cipher)
	if err != nil {
		return err
	}
	_, err = s.db.Pool.Exec(ctx, insertPoolPuzzle,
		puzzle.ID, string(puzzle.Kind), puzzle.Category, puzzle.Hint,
		puzzle.Sentence, letters, revealed, puzzle.CreatedAt)
	return err
}

func (s *Storage) ListPoolPuzzles(ctx context.Context, kind model.PuzzleKind, category string) ([]*model.PoolPuzzle, error) {
	rows, err := s.db.Pool.Query(ctx, selectPoolPuzzles, string(kind), category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var puzzles []*model.PoolPuzzle
	for rows.Next() {
		var (
			p                 model.PoolPuzzle
			k                 string
			letters, revealed []byte
		)
		if err := rows.Scan(&p.ID, &k, &p.Category, &p.Hint, &p.Sentence, &letters, &revealed, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Kind = model.PuzzleKind(k)
		if err := decodeCipher(&p.Cipher, letters, revealed); err != nil {
			return nil, err
		}
		puzzles = append(puzzles, &p)
	}
	return puzzles, rows.Err()
}

func (s *Storage) ListCategories(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, selectCategories)
}

func (s *Storage) AddFlavorText(ctx context.Context, kind model.FlavorKind, text string) error {
	_, err := s.db.Pool.Exec(ctx, insertFlavor, string(kind), text)
	return err
}

func (s *Storage) ListFlavorTexts(ctx context.Context, kind model.FlavorKind) ([]string, error) {
	return s.queryStrings(ctx, selectFlavor, string(kind))
}

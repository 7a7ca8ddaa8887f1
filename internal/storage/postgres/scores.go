package postgres

import (
	"context"

	"github.com/mcoot/crackthecode/internal/model"
)

const (
	insertScore = `
INSERT INTO scores (id, username, value, session_id, ts) VALUES ($1, $2, $3, $4, $5)`
	scoreExists = `
SELECT EXISTS (SELECT 1 FROM scores WHERE username=$1 AND session_id=$2)`
	selectScores = `
SELECT id, username, value, session_id, ts FROM scores ORDER BY seq`
	selectPlayerScores = `
SELECT id, username, value, session_id, ts FROM scores WHERE username=$1 ORDER BY seq`
)

func (s *Storage) SaveScore(ctx context.Context, score *model.Score) error {
	_, err := s.db.Pool.Exec(ctx, insertScore,
		score.ID, score.Username, score.Value, score.SessionID, score.Timestamp)
	if isUniqueViolation(err) {
		return model.ErrDuplicateSubmission
	}
	return err
}

func (s *Storage) HasScore(ctx context.Context, username, sessionID string) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, scoreExists, username, sessionID).Scan(&exists)
	return exists, err
}

func (s *Storage) ListScores(ctx context.Context) ([]*model.Score, error) {
	return s.queryScores(ctx, selectScores)
}

func (s *Storage) ListPlayerScores(ctx context.Context, username string) ([]*model.Score, error) {
	return s.queryScores(ctx, selectPlayerScores, username)
}

func (s *Storage) queryScores(ctx context.Context, q string, args ...any) ([]*model.Score, error) {
	rows, err := s.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []*model.Score
	for rows.Next() {
		var sc model.Score
		if err := rows.Scan(&sc.ID, &sc.Username, &sc.Value, &sc.SessionID, &sc.Timestamp); err != nil {
			return nil, err
		}
		scores = append(scores, &sc)
	}
	return scores, rows.Err()
}

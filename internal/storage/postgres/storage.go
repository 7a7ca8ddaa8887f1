package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/storage"
)

// Storage is a PostgreSQL-backed implementation of the storage interface.
// Uniqueness guards are primary keys and UNIQUE constraints.
type Storage struct{ db *DB }

// New constructs a storage over an open pool.
func New(db *DB) *Storage { return &Storage{db: db} }

// Close closes the pool.
func (s *Storage) Close() error {
	s.db.Close()
	return nil
}

var _ storage.Storage = (*Storage)(nil)

// inTx runs fn in a transaction, committing on success.
func (s *Storage) inTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()
	return fn(tx)
}

// Player operations

const (
	insertPlayer = `
INSERT INTO players (username, password_hash, about, picture, joined, created_at, streak_current, streak_longest)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	insertPlayerSet = `
INSERT INTO player_sets (username, set_name, value) VALUES ($1, $2, $3)
ON CONFLICT DO NOTHING`
	deletePlayerSet = `
DELETE FROM player_sets WHERE username=$1 AND set_name=$2 AND value=$3`
	selectPlayers = `
SELECT username, password_hash, about, picture, joined, created_at, streak_current, streak_longest
FROM players WHERE username = ANY($1)`
	selectPlayerSets = `
SELECT username, set_name, value FROM player_sets WHERE username = ANY($1)`
	selectAllUsernames = `SELECT username FROM players ORDER BY username`
	searchUsernames    = `
SELECT username FROM players WHERE position(lower($1) in lower(username)) > 0 ORDER BY username`
	lockPlayer = `SELECT 1 FROM players WHERE username=$1 FOR UPDATE`
)

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	p := player.Clone()
	p.Normalize()
	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertPlayer,
			p.Username, p.PasswordHash, p.About, p.Picture, p.Joined, p.CreatedAt,
			p.Streak.Current, p.Streak.Longest)
		if isUniqueViolation(err) {
			return model.ErrUserExists
		}
		if err != nil {
			return err
		}
		for _, set := range []model.PlayerSet{model.SetFriends, model.SetFriendRequests, model.SetSentRequests, model.SetStamps} {
			for _, v := range p.Values(set) {
				if _, err := tx.Exec(ctx, insertPlayerSet, p.Username, string(set), v); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Storage) GetPlayer(ctx context.Context, username string) (*model.Player, error) {
	players, err := s.loadPlayers(ctx, []string{username})
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return players[0], nil
}

func (s *Storage) GetPlayers(ctx context.Context, usernames []string) ([]*model.Player, error) {
	return s.loadPlayers(ctx, usernames)
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	names, err := s.queryStrings(ctx, selectAllUsernames)
	if err != nil {
		return nil, err
	}
	return s.loadPlayers(ctx, names)
}

func (s *Storage) SearchPlayers(ctx context.Context, query string) ([]*model.Player, error) {
	names, err := s.queryStrings(ctx, searchUsernames, query)
	if err != nil {
		return nil, err
	}
	return s.loadPlayers(ctx, names)
}

// loadPlayers returns players in the order of usernames, skipping unknown ones.
func (s *Storage) loadPlayers(ctx context.Context, usernames []string) ([]*model.Player, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	rows, err := s.db.Pool.Query(ctx, selectPlayers, usernames)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*model.Player, len(usernames))
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.Username, &p.PasswordHash, &p.About, &p.Picture, &p.Joined,
			&p.CreatedAt, &p.Streak.Current, &p.Streak.Longest); err != nil {
			rows.Close()
			return nil, err
		}
		byName[p.Username] = &p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(byName) == 0 {
		return nil, nil
	}

	rows, err = s.db.Pool.Query(ctx, selectPlayerSets, usernames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var username, set, value string
		if err := rows.Scan(&username, &set, &value); err != nil {
			return nil, err
		}
		if p, ok := byName[username]; ok {
			p.Apply(model.AddTo(model.PlayerSet(set), value))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(byName))
	for _, username := range usernames {
		if p, ok := byName[username]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

func (s *Storage) UpdateAbout(ctx context.Context, username, about string) error {
	return s.updatePlayer(ctx, `UPDATE players SET about=$2 WHERE username=$1`, username, about)
}

func (s *Storage) UpdatePicture(ctx context.Context, username, picture string) error {
	return s.updatePlayer(ctx, `UPDATE players SET picture=$2 WHERE username=$1`, username, picture)
}

func (s *Storage) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	return s.updatePlayer(ctx, `UPDATE players SET password_hash=$2 WHERE username=$1`, username, hash)
}

func (s *Storage) SetStreak(ctx context.Context, username string, streak model.Streak) error {
	return s.updatePlayer(ctx, `UPDATE players SET streak_current=$2, streak_longest=$3 WHERE username=$1`,
		username, streak.Current, streak.Longest)
}

func (s *Storage) updatePlayer(ctx context.Context, q string, args ...any) error {
	tag, err := s.db.Pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Storage) UpdatePlayerSets(ctx context.Context, username string, ops ...model.SetOp) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		var one int
		if err := tx.QueryRow(ctx, lockPlayer, username).Scan(&one); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrPlayerNotFound
			}
			return err
		}
		for _, op := range ops {
			q := insertPlayerSet
			if op.Remove {
				q = deletePlayerSet
			}
			if _, err := tx.Exec(ctx, q, username, string(op.Set), op.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Storage) queryStrings(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := s.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

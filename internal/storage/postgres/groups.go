package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mcoot/crackthecode/internal/model"
)

const (
	insertGroup = `
INSERT INTO groups (name, password_hash, admin, created_at) VALUES ($1, $2, $3, $4)`
	insertGroupMember = `
INSERT INTO group_members (group_name, username) VALUES ($1, $2)
ON CONFLICT DO NOTHING`
	deleteGroupMember = `
DELETE FROM group_members WHERE group_name=$1 AND username=$2`
	selectGroupByName = `
SELECT name, password_hash, admin, created_at FROM groups WHERE name=$1`
	searchGroups = `
SELECT name, password_hash, admin, created_at FROM groups
WHERE position(lower($1) in lower(name)) > 0 ORDER BY name`
	selectGroupsForMember = `
SELECT g.name, g.password_hash, g.admin, g.created_at FROM groups g
JOIN group_members m ON m.group_name = g.name
WHERE m.username=$1 ORDER BY g.name`
	selectGroupMembers = `
SELECT group_name, username FROM group_members WHERE group_name = ANY($1) ORDER BY username`
	groupExists = `SELECT EXISTS (SELECT 1 FROM groups WHERE name=$1)`
)

func (s *Storage) CreateGroup(ctx context.Context, group *model.Group) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertGroup, group.Name, group.PasswordHash, group.Admin, group.CreatedAt)
		if isUniqueViolation(err) {
			return model.ErrGroupNameTaken
		}
		if err != nil {
			return err
		}
		for _, member := range group.Members {
			if _, err := tx.Exec(ctx, insertGroupMember, group.Name, member); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Storage) GetGroup(ctx context.Context, name string) (*model.Group, error) {
	var g model.Group
	err := s.db.Pool.QueryRow(ctx, selectGroupByName, name).Scan(&g.Name, &g.PasswordHash, &g.Admin, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	groups := []*model.Group{&g}
	if err := s.attachMembers(ctx, groups); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Storage) SearchGroups(ctx context.Context, query string) ([]*model.Group, error) {
	return s.queryGroups(ctx, searchGroups, query)
}

func (s *Storage) GroupsForMember(ctx context.Context, username string) ([]*model.Group, error) {
	return s.queryGroups(ctx, selectGroupsForMember, username)
}

func (s *Storage) queryGroups(ctx context.Context, q string, args ...any) ([]*model.Group, error) {
	rows, err := s.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	var groups []*model.Group
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.Name, &g.PasswordHash, &g.Admin, &g.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		groups = append(groups, &g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachMembers(ctx, groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *Storage) attachMembers(ctx context.Context, groups []*model.Group) error {
	if len(groups) == 0 {
		return nil
	}
	names := make([]string, len(groups))
	byName := make(map[string]*model.Group, len(groups))
	for i, g := range groups {
		names[i] = g.Name
		byName[g.Name] = g
	}

	rows, err := s.db.Pool.Query(ctx, selectGroupMembers, names)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var group, member string
		if err := rows.Scan(&group, &member); err != nil {
			return err
		}
		if g, ok := byName[group]; ok {
			g.Members = append(g.Members, member)
		}
	}
	return rows.Err()
}

func (s *Storage) AddGroupMember(ctx context.Context, name, username string) error {
	_, err := s.db.Pool.Exec(ctx, insertGroupMember, name, username)
	if isForeignKeyViolation(err) {
		return model.ErrGroupNotFound
	}
	return err
}

func (s *Storage) RemoveGroupMember(ctx context.Context, name, username string) error {
	tag, err := s.db.Pool.Exec(ctx, deleteGroupMember, name, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := s.db.Pool.QueryRow(ctx, groupExists, name).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return model.ErrGroupNotFound
	}
	return nil
}

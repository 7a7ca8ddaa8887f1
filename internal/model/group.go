package model

import (
	"slices"
	"time"
)

// Group is a password-protected set of players sharing a chat
type Group struct {
	Name         string // unique
	PasswordHash string
	Admin        string
	Members      []string // sorted; the admin is a member at creation only
	CreatedAt    time.Time
}

// IsMember reports whether username belongs to the group
func (g *Group) IsMember(username string) bool {
	return slices.Contains(g.Members, username)
}

// Clone returns a deep copy of g
func (g *Group) Clone() *Group {
	c := *g
	c.Members = slices.Clone(g.Members)
	return &c
}

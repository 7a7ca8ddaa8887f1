// Package relationship manages friend requests and group membership.
package relationship

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mcoot/crackthecode/internal/dependencies/clock"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/passhash"
	"github.com/mcoot/crackthecode/internal/storage"
)

// Controller owns the friend-request lifecycle and group membership.
//
// Pending requests live on both records (SentRequests on the sender,
// FriendRequests on the receiver). Each record is updated with a single
// UpdatePlayerSets call; there is no transaction spanning both players.
type Controller struct {
	storage storage.Storage
	hasher  *passhash.Hasher
	clock   clock.Clock
}

// NewController creates a relationship Controller
func NewController(storage storage.Storage, hasher *passhash.Hasher, clock clock.Clock) *Controller {
	return &Controller{
		storage: storage,
		hasher:  hasher,
		clock:   clock,
	}
}

// Friends

// SendRequest records a pending request from one player to another
func (c *Controller) SendRequest(ctx context.Context, from, to string) error {
	if from == to {
		return model.ErrSelfRequest
	}

	receiver, err := c.storage.GetPlayer(ctx, to)
	if err != nil {
		return err
	}
	sender, err := c.storage.GetPlayer(ctx, from)
	if err != nil {
		return err
	}

	if slices.Contains(sender.SentRequests, to) || slices.Contains(receiver.FriendRequests, from) {
		return model.ErrDuplicatePending
	}

	if err := c.storage.UpdatePlayerSets(ctx, from, model.AddTo(model.SetSentRequests, to)); err != nil {
		return err
	}
	return c.storage.UpdatePlayerSets(ctx, to, model.AddTo(model.SetFriendRequests, from))
}

// Accept turns a pending request into a friendship on both sides.
// A missing pending request is tolerated.
func (c *Controller) Accept(ctx context.Context, accepter, requester string) error {
	if accepter == requester {
		return model.ErrSelfRequest
	}
	if _, err := c.storage.GetPlayer(ctx, requester); err != nil {
		return err
	}

	err := c.storage.UpdatePlayerSets(ctx, accepter,
		model.RemoveFrom(model.SetFriendRequests, requester),
		model.RemoveFrom(model.SetSentRequests, requester),
		model.AddTo(model.SetFriends, requester),
	)
	if err != nil {
		return err
	}
	return c.storage.UpdatePlayerSets(ctx, requester,
		model.RemoveFrom(model.SetSentRequests, accepter),
		model.RemoveFrom(model.SetFriendRequests, accepter),
		model.AddTo(model.SetFriends, accepter),
	)
}

// Deny clears pending state on both sides without creating a friendship
func (c *Controller) Deny(ctx context.Context, accepter, requester string) error {
	if accepter == requester {
		return model.ErrSelfRequest
	}
	if err := c.storage.UpdatePlayerSets(ctx, accepter, model.RemoveFrom(model.SetFriendRequests, requester)); err != nil {
		return err
	}
	err := c.storage.UpdatePlayerSets(ctx, requester, model.RemoveFrom(model.SetSentRequests, accepter))
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil
	}
	return err
}

// Remove ends a friendship on both sides. Idempotent.
func (c *Controller) Remove(ctx context.Context, a, b string) error {
	if a == b {
		return model.ErrSelfRequest
	}
	if _, err := c.storage.GetPlayer(ctx, b); err != nil {
		return err
	}
	if err := c.storage.UpdatePlayerSets(ctx, a, model.RemoveFrom(model.SetFriends, b)); err != nil {
		return err
	}
	return c.storage.UpdatePlayerSets(ctx, b, model.RemoveFrom(model.SetFriends, a))
}

// Friends returns the player's friend usernames
func (c *Controller) Friends(ctx context.Context, username string) ([]string, error) {
	p, err := c.storage.GetPlayer(ctx, username)
	if err != nil {
		return nil, err
	}
	return p.Friends, nil
}

// FriendRequests returns usernames with a pending request to the player
func (c *Controller) FriendRequests(ctx context.Context, username string) ([]string, error) {
	p, err := c.storage.GetPlayer(ctx, username)
	if err != nil {
		return nil, err
	}
	return p.FriendRequests, nil
}

// Groups

// CreateGroup creates a group whose only member is its admin
func (c *Controller) CreateGroup(ctx context.Context, name, admin, password string) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, fmt.Errorf("%w: group name and password are required", model.ErrInvalidInput)
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	group := &model.Group{
		Name:         name,
		PasswordHash: hash,
		Admin:        admin,
		Members:      []string{admin},
		CreatedAt:    c.clock.Now(),
	}
	if err := c.storage.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// JoinGroup adds a player who knows the group password
func (c *Controller) JoinGroup(ctx context.Context, name, username, password string) error {
	group, err := c.storage.GetGroup(ctx, name)
	if err != nil {
		return err
	}
	if err := c.hasher.Check(group.PasswordHash, password); err != nil {
		return model.ErrBadGroupPassword
	}
	if group.IsMember(username) {
		return model.ErrAlreadyMember
	}
	return c.storage.AddGroupMember(ctx, name, username)
}

// LeaveGroup removes the player from a group they belong to
func (c *Controller) LeaveGroup(ctx context.Context, name, username string) error {
	group, err := c.storage.GetGroup(ctx, name)
	if err != nil {
		return err
	}
	if !group.IsMember(username) {
		return model.ErrNotMember
	}
	return c.storage.RemoveGroupMember(ctx, name, username)
}

// RemoveMember lets the admin remove any member, themselves included.
// Removing the admin leaves the group without an admin member.
func (c *Controller) RemoveMember(ctx context.Context, requester, name, target string) error {
	group, err := c.storage.GetGroup(ctx, name)
	if err != nil {
		return err
	}
	if group.Admin != requester {
		return model.ErrNotAdmin
	}
	return c.storage.RemoveGroupMember(ctx, name, target)
}

// SearchGroups matches group names case-insensitively
func (c *Controller) SearchGroups(ctx context.Context, query string) ([]*model.Group, error) {
	return c.storage.SearchGroups(ctx, query)
}

// GroupsOf returns the groups a player belongs to
func (c *Controller) GroupsOf(ctx context.Context, username string) ([]*model.Group, error) {
	return c.storage.GroupsForMember(ctx, username)
}

// GroupMembers returns a group's member usernames
func (c *Controller) GroupMembers(ctx context.Context, name string) ([]string, error) {
	group, err := c.storage.GetGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	return group.Members, nil
}

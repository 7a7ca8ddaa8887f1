package model

import (
	"slices"
	"time"
)

// DefaultAbout is the about text given to new players
const DefaultAbout = "This is your start text"

// MaxUsernameLength bounds usernames
const MaxUsernameLength = 32

// ValidUsername reports whether name is 1-32 ASCII letters, digits, '.', '_' or '-'.
// Key separators such as ':' are never valid.
func ValidUsername(name string) bool {
	if name == "" || len(name) > MaxUsernameLength {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// Streak tracks consecutive days with a completed daily puzzle
type Streak struct {
	Current int
	Longest int
}

// Player is a registered account together with its profile and social state
type Player struct {
	Username     string // unique, immutable
	PasswordHash string // bcrypt hash, never returned by the API
	About        string
	Picture      string // URL from the picture store, empty when unset
	Streak       Streak
	Stamps       []string // completed categories
	Joined       string   // UTC date, YYYY-MM-DD
	CreatedAt    time.Time

	Friends        []string
	FriendRequests []string // incoming, pending
	SentRequests   []string // outgoing, pending
}

// NewPlayer returns a player with signup defaults
func NewPlayer(username, passwordHash string, now time.Time) *Player {
	return &Player{
		Username:     username,
		PasswordHash: passwordHash,
		About:        DefaultAbout,
		Joined:       DateOf(now),
		CreatedAt:    now.UTC(),
	}
}

// Clone returns a deep copy so callers can't mutate stored state
func (p *Player) Clone() *Player {
	c := *p
	c.Stamps = slices.Clone(p.Stamps)
	c.Friends = slices.Clone(p.Friends)
	c.FriendRequests = slices.Clone(p.FriendRequests)
	c.SentRequests = slices.Clone(p.SentRequests)
	return &c
}

// Normalize sorts and de-duplicates every set on p
func (p *Player) Normalize() {
	for _, set := range []PlayerSet{SetFriends, SetFriendRequests, SetSentRequests, SetStamps} {
		values := slices.Clone(p.Values(set))
		slices.Sort(values)
		p.setValues(set, slices.Compact(values))
	}
}

// PlayerSet names one of the set-valued fields on a player record
type PlayerSet string

const (
	SetFriends        PlayerSet = "friends"
	SetFriendRequests PlayerSet = "friend_requests"
	SetSentRequests   PlayerSet = "sent_requests"
	SetStamps         PlayerSet = "stamps"
)

// Valid reports whether s names a known set
func (s PlayerSet) Valid() bool {
	switch s {
	case SetFriends, SetFriendRequests, SetSentRequests, SetStamps:
		return true
	}
	return false
}

// SetOp is a single add or remove against one of a player's sets.
// A batch of SetOps against one player is applied atomically by storage.
type SetOp struct {
	Set    PlayerSet
	Value  string
	Remove bool
}

// AddTo returns an op adding value to set
func AddTo(set PlayerSet, value string) SetOp {
	return SetOp{Set: set, Value: value}
}

// RemoveFrom returns an op removing value from set
func RemoveFrom(set PlayerSet, value string) SetOp {
	return SetOp{Set: set, Value: value, Remove: true}
}

// Values returns the current contents of the named set
func (p *Player) Values(set PlayerSet) []string {
	switch set {
	case SetFriends:
		return p.Friends
	case SetFriendRequests:
		return p.FriendRequests
	case SetSentRequests:
		return p.SentRequests
	case SetStamps:
		return p.Stamps
	}
	return nil
}

// Apply applies ops to p in order with set semantics. Sets stay sorted.
func (p *Player) Apply(ops ...SetOp) {
	for _, op := range ops {
		values := p.Values(op.Set)
		idx, found := slices.BinarySearch(values, op.Value)
		switch {
		case op.Remove && found:
			values = slices.Delete(values, idx, idx+1)
		case !op.Remove && !found:
			values = slices.Insert(values, idx, op.Value)
		}
		p.setValues(op.Set, values)
	}
}

func (p *Player) setValues(set PlayerSet, values []string) {
	switch set {
	case SetFriends:
		p.Friends = values
	case SetFriendRequests:
		p.FriendRequests = values
	case SetSentRequests:
		p.SentRequests = values
	case SetStamps:
		p.Stamps = values
	}
}

// PlayerSummary is the short form of a player used in friend lists and search
type PlayerSummary struct {
	Username string
	Picture  string
}

// Summary returns the short form of p
func (p *Player) Summary() PlayerSummary {
	return PlayerSummary{Username: p.Username, Picture: p.Picture}
}

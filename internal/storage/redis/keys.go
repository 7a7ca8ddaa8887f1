package redis

import (
	"fmt"
	"strings"

	"github.com/mcoot/crackthecode/internal/model"
)

// keys builds every Redis key under one prefix. Caller-supplied components
// are escaped so a ':' inside a name can never address another record's key.
type keys struct {
	prefix string
}

var componentEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

func esc(component string) string {
	return componentEscaper.Replace(component)
}

// player returns the HASH holding a player's scalar fields
func (k keys) player(username string) string {
	return fmt.Sprintf("%s:player:%s", k.prefix, esc(username))
}

// playerSet returns the SET backing one of a player's set fields
func (k keys) playerSet(username string, set model.PlayerSet) string {
	return fmt.Sprintf("%s:player:%s:%s", k.prefix, esc(username), set)
}

// playerGroups returns the SET of group names a player belongs to
func (k keys) playerGroups(username string) string {
	return fmt.Sprintf("%s:player:%s:groups", k.prefix, esc(username))
}

// playerIndex returns the SET of all usernames
func (k keys) playerIndex() string {
	return fmt.Sprintf("%s:idx:players", k.prefix)
}

// group returns the HASH holding a group's scalar fields
func (k keys) group(name string) string {
	return fmt.Sprintf("%s:group:%s", k.prefix, esc(name))
}

// groupMembers returns the SET of a group's members
func (k keys) groupMembers(name string) string {
	return fmt.Sprintf("%s:group:%s:members", k.prefix, esc(name))
}

// groupIndex returns the SET of all group names
func (k keys) groupIndex() string {
	return fmt.Sprintf("%s:idx:groups", k.prefix)
}

// daily returns the key of the JSON daily puzzle for a date
func (k keys) daily(date string) string {
	return fmt.Sprintf("%s:daily:%s", k.prefix, esc(date))
}

// dailyAttempts returns the SET of usernames that completed a date
func (k keys) dailyAttempts(date string) string {
	return fmt.Sprintf("%s:daily_attempts:%s", k.prefix, esc(date))
}

// score returns the key of a JSON score, unique per player and session
func (k keys) score(username, sessionID string) string {
	return fmt.Sprintf("%s:score:%s:%s", k.prefix, esc(username), esc(sessionID))
}

// scoreIndex returns the LIST of all score keys in submission order
func (k keys) scoreIndex() string {
	return fmt.Sprintf("%s:idx:scores", k.prefix)
}

// playerScores returns the LIST of a player's score keys
func (k keys) playerScores(username string) string {
	return fmt.Sprintf("%s:player:%s:scores", k.prefix, esc(username))
}

// chat returns the key of a thread's JSON message list
func (k keys) chat(thread model.ThreadKey) string {
	return fmt.Sprintf("%s:chat:%s", k.prefix, esc(string(thread)))
}

// endlessPool returns the LIST of endless puzzles
func (k keys) endlessPool() string {
	return fmt.Sprintf("%s:pool:endless", k.prefix)
}

// categoryPool returns the LIST of puzzles in a category
func (k keys) categoryPool(category string) string {
	return fmt.Sprintf("%s:pool:category:%s", k.prefix, esc(category))
}

// categoryIndex returns the SET of category names
func (k keys) categoryIndex() string {
	return fmt.Sprintf("%s:idx:categories", k.prefix)
}

// flavor returns the LIST of flavour texts of a kind
func (k keys) flavor(kind model.FlavorKind) string {
	return fmt.Sprintf("%s:flavor:%s", k.prefix, kind)
}

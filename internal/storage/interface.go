package storage

import (
	"context"

	"github.com/mcoot/crackthecode/internal/model"
)

// Storage defines the interface for data persistence.
//
// Every method touches a single record atomically; there are no
// cross-record transactions. Uniqueness guards live here and are the
// authoritative defence against duplicate usernames, group names, score
// sessions and daily attempts.
type Storage interface {
	// Player operations
	CreatePlayer(ctx context.Context, player *model.Player) error // ErrUserExists on duplicate username
	GetPlayer(ctx context.Context, username string) (*model.Player, error)
	GetPlayers(ctx context.Context, usernames []string) ([]*model.Player, error) // missing usernames are skipped
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	SearchPlayers(ctx context.Context, query string) ([]*model.Player, error) // case-insensitive substring
	UpdateAbout(ctx context.Context, username, about string) error
	UpdatePicture(ctx context.Context, username, picture string) error
	UpdatePasswordHash(ctx context.Context, username, hash string) error
	SetStreak(ctx context.Context, username string, streak model.Streak) error
	// ResetStreakUnlessAttempted zeroes the current streak, keeping the longest,
	// unless it is already zero or the player has an attempt on any of dates.
	// The check and the write are one atomic step; reports whether it reset.
	ResetStreakUnlessAttempted(ctx context.Context, username string, dates ...string) (bool, error)
	UpdatePlayerSets(ctx context.Context, username string, ops ...model.SetOp) error

	// Group operations
	CreateGroup(ctx context.Context, group *model.Group) error // ErrGroupNameTaken on duplicate name
	GetGroup(ctx context.Context, name string) (*model.Group, error)
	SearchGroups(ctx context.Context, query string) ([]*model.Group, error)
	GroupsForMember(ctx context.Context, username string) ([]*model.Group, error)
	AddGroupMember(ctx context.Context, name, username string) error
	RemoveGroupMember(ctx context.Context, name, username string) error

	// Daily puzzle operations
	GetDailyPuzzle(ctx context.Context, date string) (*model.DailyPuzzle, error)
	// CreateDailyPuzzleIfAbsent stores puzzle unless one exists for its date.
	// It returns whichever puzzle is stored and whether this call created it.
	CreateDailyPuzzleIfAbsent(ctx context.Context, puzzle *model.DailyPuzzle) (*model.DailyPuzzle, bool, error)
	RecordDailyAttempt(ctx context.Context, attempt model.DailyAttempt) error // ErrAlreadyAttempted on duplicate
	HasDailyAttempt(ctx context.Context, username, date string) (bool, error)

	// Score operations
	SaveScore(ctx context.Context, score *model.Score) error // ErrDuplicateSubmission on duplicate session
	HasScore(ctx context.Context, username, sessionID string) (bool, error)
	ListScores(ctx context.Context) ([]*model.Score, error)
	ListPlayerScores(ctx context.Context, username string) ([]*model.Score, error)

	// Chat operations
	GetChatMessages(ctx context.Context, key model.ThreadKey) ([]model.ChatMessage, error)
	SaveChatMessages(ctx context.Context, key model.ThreadKey, messages []model.ChatMessage) error

	// Puzzle pool operations
	SavePoolPuzzle(ctx context.Context, puzzle *model.PoolPuzzle) error
	ListPoolPuzzles(ctx context.Context, kind model.PuzzleKind, category string) ([]*model.PoolPuzzle, error)
	ListCategories(ctx context.Context) ([]string, error)
	AddFlavorText(ctx context.Context, kind model.FlavorKind, text string) error
	ListFlavorTexts(ctx context.Context, kind model.FlavorKind) ([]string, error)
}

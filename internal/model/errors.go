package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// ErrInvalidInput marks missing or malformed input
	ErrInvalidInput = errors.New("invalid input")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrUserExists     = errors.New("user already exists")

	// Friend errors
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrDuplicatePending = errors.New("friend request already pending")

	// Group errors
	ErrGroupNotFound    = errors.New("group not found")
	ErrGroupNameTaken   = errors.New("group name already exists")
	ErrBadGroupPassword = errors.New("incorrect group password")
	ErrAlreadyMember    = errors.New("already a member of this group")
	ErrNotMember        = errors.New("not a member of this group")
	ErrNotAdmin         = errors.New("only the group admin can do this")

	// Chat errors
	ErrEmptyMessage    = errors.New("message is empty")
	ErrInvalidChatType = errors.New("invalid chat type")
	ErrAccessDenied    = errors.New("access denied")

	// Daily puzzle errors
	ErrDailyPuzzleNotFound = errors.New("daily puzzle not found")
	ErrAlreadyAttempted    = errors.New("daily puzzle already attempted")

	// Score errors
	ErrDuplicateSubmission = errors.New("score already submitted for this session")

	// Content errors
	ErrPuzzleNotFound = errors.New("puzzle not found")
	ErrFlavorNotFound = errors.New("no flavour text found")
)

// UpstreamError reports a failure of an external content provider
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

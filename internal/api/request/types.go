package request

import "time"

// SignupRequest is the request body for creating an account
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=32,username"`
	Password string `json:"password" validate:"required,max=128"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the request body for editing the about text
type UpdateProfileRequest struct {
	About string `json:"about" validate:"required,max=500"`
}

// CompleteCategoryRequest stamps a finished category
type CompleteCategoryRequest struct {
	Category string `json:"category" validate:"required,max=64"`
}

// SubmitScoreRequest records the result of a game session.
// Timestamp defaults to the server time when omitted.
type SubmitScoreRequest struct {
	Score     *int       `json:"score" validate:"required,min=0"`
	SessionID string     `json:"sessionId" validate:"required,max=128,excludes=:"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// UsernameRequest names another player (friend operations)
type UsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

// GroupRequest creates or joins a group
type GroupRequest struct {
	Name     string `json:"name" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

// LeaveGroupRequest leaves a group
type LeaveGroupRequest struct {
	Name string `json:"name" validate:"required"`
}

// RemoveMemberRequest removes a member from a group
type RemoveMemberRequest struct {
	Group    string `json:"group" validate:"required"`
	Username string `json:"username" validate:"required"`
}

// ChatMessageRequest posts a chat message. An empty message is rejected by
// the chat service with EMPTY_MESSAGE before the thread is checked.
type ChatMessageRequest struct {
	Message string `json:"message" validate:"max=1000"`
}

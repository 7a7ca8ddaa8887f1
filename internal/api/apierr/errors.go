package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeEmptyMessage        = "EMPTY_MESSAGE"
	CodeInvalidChatType     = "INVALID_CHAT_TYPE"
	CodeSelfRequest         = "SELF_REQUEST"
	CodeNotMember           = "NOT_MEMBER"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeGroupNotFound       = "GROUP_NOT_FOUND"
	CodePuzzleNotFound      = "PUZZLE_NOT_FOUND"
	CodeUserExists          = "USER_EXISTS"
	CodeGroupNameTaken      = "GROUP_NAME_TAKEN"
	CodeDuplicateSubmission = "DUPLICATE_SUBMISSION"
	CodeDuplicatePending    = "DUPLICATE_PENDING"
	CodeAlreadyMember       = "ALREADY_MEMBER"
	CodeAlreadyCompleted    = "ALREADY_COMPLETED"
	CodeAlreadyAttempted    = "ALREADY_ATTEMPTED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeNotAdmin            = "NOT_ADMIN"
	CodeBadGroupPassword    = "BAD_GROUP_PASSWORD"
	CodeAccessDenied        = "ACCESS_DENIED"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var upstream *model.UpstreamError
	if errors.As(err, &upstream) {
		return &httpError{http.StatusInternalServerError, APIError{
			Code:    CodeUpstreamError,
			Message: "Content provider unavailable",
			Details: map[string]string{"provider": upstream.Provider, "error": upstream.Err.Error()},
		}}
	}

	switch {
	// Validation
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: err.Error()}}
	case errors.Is(err, model.ErrEmptyMessage):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeEmptyMessage, Message: "Message cannot be empty"}}
	case errors.Is(err, model.ErrInvalidChatType):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidChatType, Message: "Chat type must be friend or group"}}
	case errors.Is(err, model.ErrSelfRequest):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeSelfRequest, Message: "You cannot befriend yourself"}}
	case errors.Is(err, model.ErrNotMember):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeNotMember, Message: "Not a member of this group"}}

	// Not found
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodePlayerNotFound, Message: "Player not found"}}
	case errors.Is(err, model.ErrGroupNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeGroupNotFound, Message: "Group not found"}}
	case errors.Is(err, model.ErrPuzzleNotFound), errors.Is(err, model.ErrDailyPuzzleNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodePuzzleNotFound, Message: "Puzzle not found"}}
	case errors.Is(err, model.ErrFlavorNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodePuzzleNotFound, Message: "No flavour text available"}}

	// Conflicts
	case errors.Is(err, model.ErrUserExists):
		return &httpError{http.StatusConflict, APIError{Code: CodeUserExists, Message: "Username already exists"}}
	case errors.Is(err, model.ErrGroupNameTaken):
		return &httpError{http.StatusConflict, APIError{Code: CodeGroupNameTaken, Message: "Group name already exists"}}
	case errors.Is(err, model.ErrDuplicateSubmission):
		return &httpError{http.StatusConflict, APIError{Code: CodeDuplicateSubmission, Message: "Score already submitted for this session"}}
	case errors.Is(err, model.ErrDuplicatePending):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeDuplicatePending, Message: "Friend request already pending"}}
	case errors.Is(err, model.ErrAlreadyMember):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeAlreadyMember, Message: "Already a member of this group"}}
	case errors.Is(err, model.ErrAlreadyAttempted):
		return &httpError{http.StatusForbidden, APIError{Code: CodeAlreadyAttempted, Message: "You have already attempted today's puzzle"}}

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidCredentials, Message: "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid or expired token"}}
	case errors.Is(err, model.ErrNotAdmin):
		return &httpError{http.StatusForbidden, APIError{Code: CodeNotAdmin, Message: "Only the group admin can do this"}}
	case errors.Is(err, model.ErrBadGroupPassword):
		return &httpError{http.StatusForbidden, APIError{Code: CodeBadGroupPassword, Message: "Incorrect group password"}}
	case errors.Is(err, model.ErrAccessDenied):
		return &httpError{http.StatusForbidden, APIError{Code: CodeAccessDenied, Message: "Access denied"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewValidationError creates an invalid request error listing the failing fields
func NewValidationError(message string, details any) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message, Details: details}}
}

// NewAlreadyCompletedError is returned when the daily puzzle is completed twice
func NewAlreadyCompletedError() error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeAlreadyCompleted, Message: "Daily puzzle already completed"}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewInternalErrorWithDetails creates an internal server error with extra context
// for the client, such as a request ID to quote in a bug report
func NewInternalErrorWithDetails(details any) error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error", Details: details}}
}

// NewRouteNotFoundError is returned for unknown paths
func NewRouteNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: "Route not found"}}
}

// NewMethodNotAllowedError is returned for known paths with the wrong method
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{Code: CodeMethodNotAllowed, Message: "Method not allowed"}}
}

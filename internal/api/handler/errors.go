package handler

import (
	"net/http"

	"github.com/mcoot/crackthecode/internal/api/apierr"
	"github.com/mcoot/crackthecode/internal/api/response"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

var okMessage = response.Message{Message: "ok"}

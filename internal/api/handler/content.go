package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/crackthecode/internal/api/response"
	"github.com/mcoot/crackthecode/internal/services/pool"
)

// ContentHandler serves pool puzzles and flavour text
type ContentHandler struct {
	pool *pool.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(pool *pool.Service) *ContentHandler {
	return &ContentHandler{pool: pool}
}

// RandomPuzzle handles GET /get-puzzle
func (h *ContentHandler) RandomPuzzle(w http.ResponseWriter, r *http.Request) {
	p, err := h.pool.RandomEndless(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PuzzleFromModel(p))
}

// Categories handles GET /categories
func (h *ContentHandler) Categories(w http.ResponseWriter, r *http.Request) {
	names, err := h.pool.Categories(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, names)
}

// Category handles GET /get-category/{category}
func (h *ContentHandler) Category(w http.ResponseWriter, r *http.Request) {
	puzzles, err := h.pool.Category(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PuzzlesFromModel(puzzles))
}

// BogusHint handles GET /get-bogus-hint
func (h *ContentHandler) BogusHint(w http.ResponseWriter, r *http.Request) {
	text, err := h.pool.RandomBogusHint(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.BogusHint{Text: text})
}

// PhoneLine handles GET /phoneline
func (h *ContentHandler) PhoneLine(w http.ResponseWriter, r *http.Request) {
	text, err := h.pool.RandomPhoneLine(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Message{Message: text})
}

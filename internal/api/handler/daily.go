package handler

import (
	"errors"
	"net/http"

	"github.com/mcoot/crackthecode/internal/api/apierr"
	"github.com/mcoot/crackthecode/internal/api/middleware"
	"github.com/mcoot/crackthecode/internal/api/response"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/services/daily"
)

// DailyHandler serves the puzzle of the day
type DailyHandler struct {
	engine *daily.Engine
}

// NewDailyHandler creates a new daily handler
func NewDailyHandler(engine *daily.Engine) *DailyHandler {
	return &DailyHandler{engine: engine}
}

// Get handles GET /daily-puzzle
func (h *DailyHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())
	p, err := h.engine.GetDailyForPlayer(r.Context(), username, h.engine.Today())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.DailyPuzzleFromModel(p))
}

// Complete handles POST /complete-daily-puzzle
func (h *DailyHandler) Complete(w http.ResponseWriter, r *http.Request) {
	username := middleware.MustGetUsername(r.Context())
	streak, err := h.engine.CompleteDaily(r.Context(), username, h.engine.Today())
	if errors.Is(err, model.ErrAlreadyAttempted) {
		// This endpoint reports a repeat completion as 400, unlike GET
		WriteError(w, apierr.NewAlreadyCompletedError())
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.StreakFromModel(streak))
}

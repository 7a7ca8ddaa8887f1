package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mcoot/crackthecode/internal/api/middleware"
	"github.com/mcoot/crackthecode/internal/api/request"
	"github.com/mcoot/crackthecode/internal/api/response"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/services/scoreboard"
)

// ScoreHandler handles score submission and leaderboards
type ScoreHandler struct {
	scores *scoreboard.Service
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(scores *scoreboard.Service) *ScoreHandler {
	return &ScoreHandler{scores: scores}
}

// Submit handles POST /submit-score
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitScoreRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	var ts time.Time
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}
	score, err := h.scores.Submit(r.Context(), middleware.MustGetUsername(r.Context()), *req.Score, req.SessionID, ts)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ScoreFromModel(score))
}

// Highscores handles GET /get-highscores?limit=N
func (h *ScoreHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	limit := model.DefaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > model.DefaultLeaderboardLimit {
			WriteError(w, NewInvalidRequestError("limit must be between 1 and 250"))
			return
		}
		limit = n
	}

	board, err := h.scores.Leaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(board))
}

// Mine handles GET /my-scores
func (h *ScoreHandler) Mine(w http.ResponseWriter, r *http.Request) {
	scores, err := h.scores.History(r.Context(), middleware.MustGetUsername(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ScoresFromModel(scores))
}

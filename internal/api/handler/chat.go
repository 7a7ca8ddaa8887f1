package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/crackthecode/internal/api/middleware"
	"github.com/mcoot/crackthecode/internal/api/request"
	"github.com/mcoot/crackthecode/internal/api/response"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/services/chat"
)

// ChatHandler handles friend and group chat
type ChatHandler struct {
	chat *chat.Service
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *chat.Service) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// History handles GET /chat/{type}/{target}
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	messages, err := h.chat.History(r.Context(), model.ChatKind(vars["type"]), middleware.MustGetUsername(r.Context()), vars["target"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ChatFromModel(messages))
}

// Post handles POST /chat/{type}/{target}
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req request.ChatMessageRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	vars := mux.Vars(r)
	if err := h.chat.Post(r.Context(), model.ChatKind(vars["type"]), middleware.MustGetUsername(r.Context()), vars["target"], req.Message); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, okMessage)
}

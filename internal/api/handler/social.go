package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/crackthecode/internal/api/middleware"
	"github.com/mcoot/crackthecode/internal/api/request"
	"github.com/mcoot/crackthecode/internal/api/response"
	"github.com/mcoot/crackthecode/internal/services/profile"
	"github.com/mcoot/crackthecode/internal/services/relationship"
)

// SocialHandler handles friend and group endpoints
type SocialHandler struct {
	relationships *relationship.Controller
	profiles      *profile.Service
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(relationships *relationship.Controller, profiles *profile.Service) *SocialHandler {
	return &SocialHandler{relationships: relationships, profiles: profiles}
}

// friendAction decodes {username} and applies action from the caller to that player
func (h *SocialHandler) friendAction(action func(r *http.Request, me, other string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request.UsernameRequest
		if err := request.Decode(w, r, &req); err != nil {
			WriteError(w, err)
			return
		}
		if err := action(r, middleware.MustGetUsername(r.Context()), req.Username); err != nil {
			WriteError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, okMessage)
	}
}

// SendRequest handles POST /send-friend-request
func (h *SocialHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	h.friendAction(func(r *http.Request, me, other string) error {
		return h.relationships.SendRequest(r.Context(), me, other)
	})(w, r)
}

// AcceptRequest handles POST /accept-friend-request
func (h *SocialHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	h.friendAction(func(r *http.Request, me, other string) error {
		return h.relationships.Accept(r.Context(), me, other)
	})(w, r)
}

// DenyRequest handles POST /deny-friend-request
func (h *SocialHandler) DenyRequest(w http.ResponseWriter, r *http.Request) {
	h.friendAction(func(r *http.Request, me, other string) error {
		return h.relationships.Deny(r.Context(), me, other)
	})(w, r)
}

// RemoveFriend handles POST /remove-friend
func (h *SocialHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	h.friendAction(func(r *http.Request, me, other string) error {
		return h.relationships.Remove(r.Context(), me, other)
	})(w, r)
}

// Friends handles GET /get-friends
func (h *SocialHandler) Friends(w http.ResponseWriter, r *http.Request) {
	names, err := h.relationships.Friends(r.Context(), middleware.MustGetUsername(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeSummaries(w, r, names)
}

// FriendRequests handles GET /friend-requests
func (h *SocialHandler) FriendRequests(w http.ResponseWriter, r *http.Request) {
	names, err := h.relationships.FriendRequests(r.Context(), middleware.MustGetUsername(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeSummaries(w, r, names)
}

func (h *SocialHandler) writeSummaries(w http.ResponseWriter, r *http.Request, names []string) {
	summaries, err := h.profiles.Summaries(r.Context(), names)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SummariesFromModel(summaries))
}

// Groups

// CreateGroup handles POST /create-group
func (h *SocialHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req request.GroupRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	group, err := h.relationships.CreateGroup(r.Context(), req.Name, middleware.MustGetUsername(r.Context()), req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.GroupFromModel(group))
}

// JoinGroup handles POST /join-group
func (h *SocialHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	var req request.GroupRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.relationships.JoinGroup(r.Context(), req.Name, middleware.MustGetUsername(r.Context()), req.Password); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, okMessage)
}

// LeaveGroup handles POST /leave-group
func (h *SocialHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	var req request.LeaveGroupRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.relationships.LeaveGroup(r.Context(), req.Name, middleware.MustGetUsername(r.Context())); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, okMessage)
}

// RemoveMember handles POST /remove-member
func (h *SocialHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	var req request.RemoveMemberRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.relationships.RemoveMember(r.Context(), middleware.MustGetUsername(r.Context()), req.Group, req.Username); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, okMessage)
}

// SearchGroups handles GET /search-groups/{query}
func (h *SocialHandler) SearchGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.relationships.SearchGroups(r.Context(), mux.Vars(r)["query"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GroupsFromModel(groups))
}

// MyGroups handles GET /my-groups
func (h *SocialHandler) MyGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.relationships.GroupsOf(r.Context(), middleware.MustGetUsername(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GroupsFromModel(groups))
}

// GroupMembers handles GET /group-members/{name}
func (h *SocialHandler) GroupMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.relationships.GroupMembers(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeSummaries(w, r, members)
}

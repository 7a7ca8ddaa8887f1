package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/crackthecode/internal/api/middleware"
	"github.com/mcoot/crackthecode/internal/api/request"
	"github.com/mcoot/crackthecode/internal/api/response"
	"github.com/mcoot/crackthecode/internal/services/profile"
)

// multipart overhead allowed on top of the picture itself
const uploadSlack = 1 << 20

// ProfileHandler handles profile, picture and user search endpoints
type ProfileHandler struct {
	profiles *profile.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Me handles GET /profile and GET /user-profile
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	player, err := h.profiles.Get(r.Context(), middleware.MustGetUsername(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// UpdateAbout handles POST /update-profile
func (h *ProfileHandler) UpdateAbout(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateProfileRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.profiles.UpdateAbout(r.Context(), middleware.MustGetUsername(r.Context()), req.About); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, okMessage)
}

// UploadPicture handles POST /upload-picture (multipart field "picture")
func (h *ProfileHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, profile.MaxPictureBytes+uploadSlack)
	file, header, err := r.FormFile("picture")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, NewInvalidRequestError("picture is too large"))
			return
		}
		WriteError(w, NewInvalidRequestError("picture is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, profile.MaxPictureBytes+1))
	if err != nil {
		WriteError(w, NewInvalidRequestError("could not read picture"))
		return
	}

	url, err := h.profiles.UploadPicture(r.Context(), middleware.MustGetUsername(r.Context()), header.Filename, data)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Picture{Picture: url})
}

// CompleteCategory handles POST /complete-category
func (h *ProfileHandler) CompleteCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CompleteCategoryRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.profiles.CompleteCategory(r.Context(), middleware.MustGetUsername(r.Context()), req.Category); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, okMessage)
}

// Public handles GET /public-profile/{username}
func (h *ProfileHandler) Public(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.PublicProfile(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PublicProfileFromModel(p))
}

// Search handles GET /search-users/{query}
func (h *ProfileHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.profiles.SearchPlayers(r.Context(), middleware.MustGetUsername(r.Context()), mux.Vars(r)["query"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SummariesFromModel(users))
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/crackthecode/internal/api/apierr"
	"github.com/mcoot/crackthecode/internal/api/handler"
	"github.com/mcoot/crackthecode/internal/api/middleware"
	"github.com/mcoot/crackthecode/internal/api/response"
	basemw "github.com/mcoot/crackthecode/internal/middleware"
	"github.com/mcoot/crackthecode/internal/services/auth"
	"github.com/mcoot/crackthecode/internal/services/chat"
	"github.com/mcoot/crackthecode/internal/services/daily"
	"github.com/mcoot/crackthecode/internal/services/pool"
	"github.com/mcoot/crackthecode/internal/services/profile"
	"github.com/mcoot/crackthecode/internal/services/relationship"
	"github.com/mcoot/crackthecode/internal/services/scoreboard"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string

	AuthService   *auth.Service
	Profiles      *profile.Service
	Relationships *relationship.Controller
	Chat          *chat.Service
	Daily         *daily.Engine
	Scores        *scoreboard.Service
	Pool          *pool.Service

	// UploadsDir is served under UploadsPrefix when set
	UploadsDir    string
	UploadsPrefix string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	profileHandler := handler.NewProfileHandler(cfg.Profiles)
	socialHandler := handler.NewSocialHandler(cfg.Relationships, cfg.Profiles)
	chatHandler := handler.NewChatHandler(cfg.Chat)
	dailyHandler := handler.NewDailyHandler(cfg.Daily)
	scoreHandler := handler.NewScoreHandler(cfg.Scores)
	contentHandler := handler.NewContentHandler(cfg.Pool)

	// Common middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(basemw.Logging(cfg.Logger))

	// Public routes
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	r.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/get-highscores", scoreHandler.Highscores).Methods(http.MethodGet)
	r.HandleFunc("/get-puzzle", contentHandler.RandomPuzzle).Methods(http.MethodGet)
	r.HandleFunc("/categories", contentHandler.Categories).Methods(http.MethodGet)
	r.HandleFunc("/get-category/{category}", contentHandler.Category).Methods(http.MethodGet)
	r.HandleFunc("/get-bogus-hint", contentHandler.BogusHint).Methods(http.MethodGet)
	r.HandleFunc("/phoneline", contentHandler.PhoneLine).Methods(http.MethodGet)

	if cfg.UploadsDir != "" {
		prefix := cfg.UploadsPrefix + "/"
		r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.UploadsDir)))).
			Methods(http.MethodGet, http.MethodHead)
	}

	// Authenticated routes. The subrouter matches every path; routes not
	// registered on it fall through to the 404 handler.
	authed := r.NewRoute().Subrouter()
	authed.Use(middleware.Auth(cfg.AuthService))

	// Profile
	authed.HandleFunc("/profile", profileHandler.Me).Methods(http.MethodGet)
	authed.HandleFunc("/user-profile", profileHandler.Me).Methods(http.MethodGet)
	authed.HandleFunc("/update-profile", profileHandler.UpdateAbout).Methods(http.MethodPost)
	authed.HandleFunc("/upload-picture", profileHandler.UploadPicture).Methods(http.MethodPost)
	authed.HandleFunc("/complete-category", profileHandler.CompleteCategory).Methods(http.MethodPost)
	authed.HandleFunc("/public-profile/{username}", profileHandler.Public).Methods(http.MethodGet)
	authed.HandleFunc("/search-users/{query}", profileHandler.Search).Methods(http.MethodGet)

	// Daily puzzle and scores
	authed.HandleFunc("/daily-puzzle", dailyHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/complete-daily-puzzle", dailyHandler.Complete).Methods(http.MethodPost)
	authed.HandleFunc("/submit-score", scoreHandler.Submit).Methods(http.MethodPost)
	authed.HandleFunc("/my-scores", scoreHandler.Mine).Methods(http.MethodGet)

	// Friends
	authed.HandleFunc("/send-friend-request", socialHandler.SendRequest).Methods(http.MethodPost)
	authed.HandleFunc("/friend-requests", socialHandler.FriendRequests).Methods(http.MethodGet)
	authed.HandleFunc("/accept-friend-request", socialHandler.AcceptRequest).Methods(http.MethodPost)
	authed.HandleFunc("/deny-friend-request", socialHandler.DenyRequest).Methods(http.MethodPost)
	authed.HandleFunc("/remove-friend", socialHandler.RemoveFriend).Methods(http.MethodPost)
	authed.HandleFunc("/get-friends", socialHandler.Friends).Methods(http.MethodGet)

	// Groups
	authed.HandleFunc("/create-group", socialHandler.CreateGroup).Methods(http.MethodPost)
	authed.HandleFunc("/join-group", socialHandler.JoinGroup).Methods(http.MethodPost)
	authed.HandleFunc("/leave-group", socialHandler.LeaveGroup).Methods(http.MethodPost)
	authed.HandleFunc("/remove-member", socialHandler.RemoveMember).Methods(http.MethodPost)
	authed.HandleFunc("/search-groups/{query}", socialHandler.SearchGroups).Methods(http.MethodGet)
	authed.HandleFunc("/my-groups", socialHandler.MyGroups).Methods(http.MethodGet)
	authed.HandleFunc("/group-members/{name}", socialHandler.GroupMembers).Methods(http.MethodGet)

	// Chat
	authed.HandleFunc("/chat/{type}/{target}", chatHandler.History).Methods(http.MethodGet)
	authed.HandleFunc("/chat/{type}/{target}", chatHandler.Post).Methods(http.MethodPost)

	// CORS wraps the router so preflight requests never reach route matching
	return basemw.CORS(cfg.AllowedOrigins)(r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewRouteNotFoundError())
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewMethodNotAllowedError())
}

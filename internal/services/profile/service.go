// Package profile serves player profiles, pictures, stamps and user search.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/crackthecode/internal/filestore"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/storage"
)

// MaxPictureBytes bounds uploaded pictures
const MaxPictureBytes = 5 << 20

var pictureExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// PublicProfile is what other players see
type PublicProfile struct {
	Player  *model.Player
	Friends []model.PlayerSummary
	Groups  []string
}

// Service manages player profiles
type Service struct {
	storage storage.Storage
	files   filestore.Store
	logger  *slog.Logger
}

// New creates a profile Service
func New(storage storage.Storage, files filestore.Store, logger *slog.Logger) *Service {
	return &Service{storage: storage, files: files, logger: logger}
}

// Get returns a player record
func (s *Service) Get(ctx context.Context, username string) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, username)
}

// UpdateAbout replaces the about text
func (s *Service) UpdateAbout(ctx context.Context, username, about string) error {
	if strings.TrimSpace(about) == "" {
		return fmt.Errorf("%w: about is required", model.ErrInvalidInput)
	}
	return s.storage.UpdateAbout(ctx, username, about)
}

// UploadPicture stores a new picture and removes the previous one
func (s *Service) UploadPicture(ctx context.Context, username, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !pictureExtensions[ext] {
		return "", fmt.Errorf("%w: unsupported picture type %q", model.ErrInvalidInput, ext)
	}
	if len(data) == 0 || len(data) > MaxPictureBytes {
		return "", fmt.Errorf("%w: picture must be between 1 byte and %d bytes", model.ErrInvalidInput, MaxPictureBytes)
	}

	player, err := s.storage.GetPlayer(ctx, username)
	if err != nil {
		return "", err
	}

	url, err := s.files.Store(ctx, uuid.NewString()+ext, data)
	if err != nil {
		return "", err
	}
	if err := s.storage.UpdatePicture(ctx, username, url); err != nil {
		_ = s.files.Delete(ctx, url)
		return "", err
	}

	if player.Picture != "" {
		if err := s.files.Delete(ctx, player.Picture); err != nil {
			s.logger.Warn("failed to delete old picture", "username", username, "picture", player.Picture, "error", err)
		}
	}
	return url, nil
}

// CompleteCategory stamps a completed category. Repeats are no-ops.
func (s *Service) CompleteCategory(ctx context.Context, username, category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return fmt.Errorf("%w: category is required", model.ErrInvalidInput)
	}
	return s.storage.UpdatePlayerSets(ctx, username, model.AddTo(model.SetStamps, category))
}

// PublicProfile returns a player with friend summaries and group names
func (s *Service) PublicProfile(ctx context.Context, username string) (*PublicProfile, error) {
	player, err := s.storage.GetPlayer(ctx, username)
	if err != nil {
		return nil, err
	}
	friends, err := s.Summaries(ctx, player.Friends)
	if err != nil {
		return nil, err
	}
	groups, err := s.storage.GroupsForMember(ctx, username)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return &PublicProfile{Player: player, Friends: friends, Groups: names}, nil
}

// SearchPlayers matches usernames case-insensitively, excluding the viewer
func (s *Service) SearchPlayers(ctx context.Context, viewer, query string) ([]model.PlayerSummary, error) {
	players, err := s.storage.SearchPlayers(ctx, query)
	if err != nil {
		return nil, err
	}
	result := make([]model.PlayerSummary, 0, len(players))
	for _, p := range players {
		if p.Username != viewer {
			result = append(result, p.Summary())
		}
	}
	return result, nil
}

// Summaries resolves usernames to summaries, skipping unknown players
func (s *Service) Summaries(ctx context.Context, usernames []string) ([]model.PlayerSummary, error) {
	players, err := s.storage.GetPlayers(ctx, usernames)
	if err != nil {
		return nil, err
	}
	result := make([]model.PlayerSummary, len(players))
	for i, p := range players {
		result[i] = p.Summary()
	}
	return result, nil
}

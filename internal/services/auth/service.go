package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/crackthecode/internal/dependencies/clock"
	"github.com/mcoot/crackthecode/internal/model"
	"github.com/mcoot/crackthecode/internal/passhash"
	"github.com/mcoot/crackthecode/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// Service handles signup, login and access token verification.
// Tokens are stateless HS256 JWTs whose subject is the username.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	hasher  *passhash.Hasher

	secret   []byte
	tokenTTL time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		Secret:   "dev-secret-change-me",
		TokenTTL: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, hasher *passhash.Hasher, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaults.TokenTTL
	}
	if cfg.Secret == "" {
		cfg.Secret = defaults.Secret
	}
	return &Service{
		storage:  storage,
		clock:    clock,
		hasher:   hasher,
		secret:   []byte(cfg.Secret),
		tokenTTL: cfg.TokenTTL,
	}
}

// Signup creates a player account with default profile values
func (s *Service) Signup(ctx context.Context, username, password string) (*model.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", model.ErrInvalidInput)
	}
	if !model.ValidUsername(username) {
		return nil, fmt.Errorf("%w: username may only contain letters, digits, '.', '_' and '-'", model.ErrInvalidInput)
	}

	// Best-effort pre-check; CreatePlayer's guard is authoritative
	if _, err := s.storage.GetPlayer(ctx, username); err == nil {
		return nil, model.ErrUserExists
	} else if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	player := model.NewPlayer(username, hash, s.clock.Now())
	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// Login verifies credentials and issues an access token
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", model.ErrInvalidInput)
	}

	player, err := s.storage.GetPlayer(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.hasher.Check(player.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.IssueToken(player.Username)
}

// IssueToken signs an access token for username
func (s *Service) IssueToken(username string) (string, error) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Authenticate verifies a token and returns its username
func (s *Service) Authenticate(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	parsed, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}

// ResetPassword replaces a player's password hash
func (s *Service) ResetPassword(ctx context.Context, username, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", model.ErrInvalidInput)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.storage.UpdatePasswordHash(ctx, username, hash)
}

// Package admin implements the shared-secret override that unlocks all
// content for a reviewer.
package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/chitouru-maker/khoushou3/internal/store"
	"github.com/chitouru-maker/khoushou3/internal/unlock"
)

var (
	// ErrInvalidCredentials is returned for a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid admin credentials")

	// ErrNotConfigured is returned when no admin password hash is set.
	ErrNotConfigured = errors.New("admin login not configured")
)

// Authenticator checks admin credentials against a configured username
// and bcrypt hash.
type Authenticator struct {
	username string
	hash     []byte
}

// NewAuthenticator creates an authenticator. An empty hash disables login.
func NewAuthenticator(username, passwordHash string) *Authenticator {
	return &Authenticator{username: username, hash: []byte(passwordHash)}
}

// Verify returns nil when the credentials match.
func (a *Authenticator) Verify(username, password string) error {
	if len(a.hash) == 0 {
		return ErrNotConfigured
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	// bcrypt runs even when the username is wrong.
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for configuration.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Session persists the admin flag so it survives restarts.
type Session struct {
	blobs  store.BlobStore
	auth   *Authenticator
	logger *zap.Logger
}

// NewSession creates a session over the blob store.
func NewSession(blobs store.BlobStore, auth *Authenticator, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{blobs: blobs, auth: auth, logger: logger}
}

// Viewer returns the current viewer. Missing or unreadable state means a
// regular learner.
func (s *Session) Viewer(ctx context.Context) unlock.Viewer {
	data, err := s.blobs.Load(ctx, store.KeyAdmin)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("load admin flag", zap.Error(err))
		}
		return unlock.Viewer{}
	}
	isAdmin, err := strconv.ParseBool(string(data))
	if err != nil {
		s.logger.Warn("discarding malformed blob", zap.String("key", store.KeyAdmin), zap.Error(err))
		return unlock.Viewer{}
	}
	return unlock.Viewer{IsAdmin: isAdmin}
}

// Login verifies credentials and persists the admin flag.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if err := s.auth.Verify(username, password); err != nil {
		s.logger.Info("admin login rejected", zap.String("username", username))
		return err
	}
	if err := s.blobs.Save(ctx, store.KeyAdmin, []byte("true")); err != nil {
		return fmt.Errorf("save admin flag: %w", err)
	}
	s.logger.Info("admin login", zap.String("username", username))
	return nil
}

// Logout clears the admin flag.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.blobs.Delete(ctx, store.KeyAdmin); err != nil {
		return fmt.Errorf("clear admin flag: %w", err)
	}
	return nil
}

package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/drive/v3"
)

// Service authenticates Google Drive API calls as a service account
type Service struct {
	config *jwt.Config
}

// TokenInfo represents token information for display
type TokenInfo struct {
	Email  string   `json:"email"`
	Scopes []string `json:"scopes"`
}

// NewService creates a new auth service from a service account JSON key.
// The read-only Drive scope is used when no scopes are given.
func NewService(credentialsJSON []byte, scopes ...string) (*Service, error) {
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("service account credentials are required")
	}

	if len(scopes) == 0 {
		scopes = []string{drive.DriveReadonlyScope}
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	return &Service{
		config: config,
	}, nil
}

// NewServiceFromFile reads a service account JSON key from disk
func NewServiceFromFile(path string, scopes ...string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}
	return NewService(data, scopes...)
}

// HTTPClient returns an HTTP client that attaches service account tokens
func (s *Service) HTTPClient(ctx context.Context) *http.Client {
	return s.config.Client(ctx)
}

// GetTokenInfo returns information about the configured identity
func (s *Service) GetTokenInfo() *TokenInfo {
	return &TokenInfo{
		Email:  s.config.Email,
		Scopes: s.config.Scopes,
	}
}

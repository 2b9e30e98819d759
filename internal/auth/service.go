package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidKey is returned when the provided API key does not match any team.
var ErrInvalidKey = errors.New("invalid API key")

const keyPrefix = "wcs_"

// Service provides authentication operations.
type Service struct {
	repo       KeyRepository
	bcryptCost int
}

// NewService creates a new auth Service.
func NewService(repo KeyRepository, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
	}
}

// GenerateKey creates a new API key. Returns the raw key, its prefix (first 8 chars),
// and the bcrypt hash. The raw key is: 32 random bytes -> base64url -> prepend "wcs_".
func (s *Service) GenerateKey() (rawKey, prefix, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	rawKey = keyPrefix + base64.RawURLEncoding.EncodeToString(b)
	prefix = rawKey[:8]

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(rawKey), s.bcryptCost)
	if err != nil {
		return "", "", "", fmt.Errorf("hashing key: %w", err)
	}
	hash = string(hashBytes)

	return rawKey, prefix, hash, nil
}

// IssueKey generates a key for teamCode, replacing any previous one, and
// returns the raw key. The raw key is not stored and cannot be recovered.
func (s *Service) IssueKey(ctx context.Context, teamCode string) (string, error) {
	rawKey, prefix, hash, err := s.GenerateKey()
	if err != nil {
		return "", err
	}
	if err := s.repo.SetKey(ctx, teamCode, prefix, hash); err != nil {
		return "", fmt.Errorf("storing key for team %s: %w", teamCode, err)
	}
	slog.Info("team API key issued", "team", teamCode, "prefix", prefix)
	return rawKey, nil
}

// Authenticate resolves a raw API key to an Identity. It extracts the prefix,
// looks up candidates, and bcrypt-compares each one.
func (s *Service) Authenticate(ctx context.Context, rawKey string) (*Identity, error) {
	if len(rawKey) < 8 {
		return nil, ErrInvalidKey
	}

	prefix := rawKey[:8]

	candidates, err := s.repo.FindByPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("finding teams by prefix: %w", err)
	}

	for _, k := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(k.ApiKeyHash), []byte(rawKey)) == nil {
			return &Identity{TeamCode: k.TeamCode, TeamName: k.TeamName, IsAdmin: k.IsAdmin}, nil
		}
	}

	return nil, ErrInvalidKey
}

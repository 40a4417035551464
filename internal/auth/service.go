package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/msousapenha/clinica-crm/internal/modules"
	"github.com/msousapenha/clinica-crm/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Authenticate validates username/password credentials and issues a bearer
// token. Inactive accounts fail exactly like wrong credentials so the login
// form leaks nothing about account state.
func (s *Service) Authenticate(ctx context.Context, username, senha string) (string, *shared.Principal, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return "", nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(senha)); err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}

	principal := &shared.Principal{
		ID:         user.ID,
		Nome:       user.Nome,
		Username:   user.Username,
		Cargo:      user.Cargo,
		Permissoes: modules.Sanitize(user.Permissoes),
		Status:     user.Status,
	}
	token, err := s.tokens.Issue(ctx, principal)
	if err != nil {
		return "", nil, err
	}
	return token, principal, nil
}

// Logout revokes the bearer token. Idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

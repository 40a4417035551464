package users

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/msousapenha/clinica-crm/internal/modules"
	"github.com/msousapenha/clinica-crm/internal/shared"
)

// TokenRevoker invalidates live tokens for a user after account changes.
type TokenRevoker interface {
	RevokeUser(ctx context.Context, userID int64) error
}

// Service handles user administration business logic.
type Service struct {
	repo    RepositoryPort
	revoker TokenRevoker
	audit   *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, revoker TokenRevoker, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, revoker: revoker, audit: audit}
}

// List returns users matching the optional search term.
func (s *Service) List(ctx context.Context, search string) ([]User, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

// Get fetches one user.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new user. The password is mandatory here, unlike Update.
func (s *Service) Create(ctx context.Context, actorID int64, in CreateInput) (User, error) {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Username = strings.TrimSpace(in.Username)
	if in.Nome == "" || in.Username == "" {
		return User{}, fmt.Errorf("%w: nome e username são obrigatórios", shared.ErrValidation)
	}
	if in.Senha == "" {
		return User{}, fmt.Errorf("%w: senha é obrigatória para novos usuários", shared.ErrValidation)
	}
	if in.Status == "" {
		in.Status = StatusAtivo
	}
	if err := validateStatus(in.Status); err != nil {
		return User{}, err
	}
	if len(in.Permissoes) == 0 {
		in.Permissoes = modules.DefaultGrant
	}
	in.Permissoes = modules.Sanitize(in.Permissoes)

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Senha), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user, err := s.repo.Insert(ctx, in, string(hash))
	if err != nil {
		return User{}, err
	}
	s.record(ctx, actorID, "create", user.ID, map[string]any{"username": user.Username})
	return user, nil
}

// Update rewrites an existing user. An empty password keeps the current one.
func (s *Service) Update(ctx context.Context, actorID, id int64, in UpdateInput) (User, error) {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Username = strings.TrimSpace(in.Username)
	if in.Nome == "" || in.Username == "" {
		return User{}, fmt.Errorf("%w: nome e username são obrigatórios", shared.ErrValidation)
	}
	if err := validateStatus(in.Status); err != nil {
		return User{}, err
	}
	in.Permissoes = modules.Sanitize(in.Permissoes)

	hash := ""
	if in.Senha != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Senha), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		hash = string(hashed)
	}

	user, err := s.repo.Update(ctx, id, in, hash)
	if err != nil {
		return User{}, err
	}
	if user.Status == StatusInativo && s.revoker != nil {
		_ = s.revoker.RevokeUser(ctx, id)
	}
	s.record(ctx, actorID, "update", user.ID, map[string]any{"username": user.Username})
	return user, nil
}

// Delete removes a user. A user can never delete their own account.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return fmt.Errorf("%w: você não pode excluir a si mesmo", shared.ErrConflict)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.revoker != nil {
		_ = s.revoker.RevokeUser(ctx, id)
	}
	s.record(ctx, actorID, "delete", id, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, userID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "usuarios." + action,
		Entity:   "usuario",
		EntityID: strconv.FormatInt(userID, 10),
		Meta:     meta,
	})
}

func validateStatus(status string) error {
	if status != StatusAtivo && status != StatusInativo {
		return fmt.Errorf("%w: status deve ser ativo ou inativo", shared.ErrValidation)
	}
	return nil
}

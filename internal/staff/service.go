package staff

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// Service handles the professionals roster.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns professionals, optionally filtered by name or specialty.
func (s *Service) List(ctx context.Context, search string) ([]Professional, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

// Get fetches one professional.
func (s *Service) Get(ctx context.Context, id int64) (Professional, error) {
	return s.repo.Get(ctx, id)
}

// Create adds a professional to the roster.
func (s *Service) Create(ctx context.Context, actorID int64, in Input) (Professional, error) {
	if err := validate(&in); err != nil {
		return Professional{}, err
	}
	prof, err := s.repo.Insert(ctx, in)
	if err != nil {
		return Professional{}, err
	}
	s.record(ctx, actorID, "create", prof.ID)
	return prof, nil
}

// Update rewrites a roster entry.
func (s *Service) Update(ctx context.Context, actorID, id int64, in Input) (Professional, error) {
	if err := validate(&in); err != nil {
		return Professional{}, err
	}
	prof, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return Professional{}, err
	}
	s.record(ctx, actorID, "update", prof.ID)
	return prof, nil
}

// Delete removes a professional without appointment history.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "delete", id)
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, profID int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "equipe." + action,
		Entity:   "profissional",
		EntityID: strconv.FormatInt(profID, 10),
	})
}

func validate(in *Input) error {
	if strings.TrimSpace(in.Nome) == "" {
		return fmt.Errorf("%w: nome é obrigatório", shared.ErrValidation)
	}
	if in.Status == "" {
		in.Status = StatusAtivo
	}
	if in.Status != StatusAtivo && in.Status != StatusInativo {
		return fmt.Errorf("%w: status deve ser ativo ou inativo", shared.ErrValidation)
	}
	if in.ComissaoPct < 0 || in.ComissaoPct > 100 {
		return fmt.Errorf("%w: comissão deve ficar entre 0 e 100", shared.ErrValidation)
	}
	return nil
}

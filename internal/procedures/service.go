package procedures

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// Service handles procedure catalog rules.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns active procedures, or the whole catalog when includeInactive.
func (s *Service) List(ctx context.Context, includeInactive bool) ([]Procedure, error) {
	return s.repo.List(ctx, includeInactive)
}

// Get fetches one procedure.
func (s *Service) Get(ctx context.Context, id int64) (Procedure, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new catalog item.
func (s *Service) Create(ctx context.Context, actorID int64, in Input) (Procedure, error) {
	if err := validate(&in); err != nil {
		return Procedure{}, err
	}
	proc, err := s.repo.Insert(ctx, in)
	if err != nil {
		return Procedure{}, err
	}
	s.record(ctx, actorID, "create", proc.ID)
	return proc, nil
}

// Update rewrites a catalog item.
func (s *Service) Update(ctx context.Context, actorID, id int64, in Input) (Procedure, error) {
	if err := validate(&in); err != nil {
		return Procedure{}, err
	}
	proc, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return Procedure{}, err
	}
	s.record(ctx, actorID, "update", proc.ID)
	return proc, nil
}

// Delete inactivates a procedure instead of removing the row, so history
// referencing it keeps resolving.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.Inactivate(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "inactivate", id)
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, procID int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "procedimentos." + action,
		Entity:   "procedimento",
		EntityID: strconv.FormatInt(procID, 10),
	})
}

func validate(in *Input) error {
	if strings.TrimSpace(in.Nome) == "" {
		return fmt.Errorf("%w: nome é obrigatório", shared.ErrValidation)
	}
	if in.DuracaoMin <= 0 {
		return fmt.Errorf("%w: duração deve ser positiva", shared.ErrValidation)
	}
	if in.Valor < 0 {
		return fmt.Errorf("%w: valor não pode ser negativo", shared.ErrValidation)
	}
	if in.Status == "" {
		in.Status = StatusAtivo
	}
	if in.Status != StatusAtivo && in.Status != StatusInativo {
		return fmt.Errorf("%w: status deve ser ativo ou inativo", shared.ErrValidation)
	}
	return nil
}

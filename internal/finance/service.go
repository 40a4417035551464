package finance

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// SnapshotInvalidator drops cached dashboard aggregates after a write
// changes the numbers behind them.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service handles cash book business rules.
type Service struct {
	repo      RepositoryPort
	audit     *shared.AuditLogger
	snapshots SnapshotInvalidator
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// InvalidateSnapshotsWith registers the dashboard cache to refresh
// after mutations. Leaving it unset keeps TTL-only expiry.
func (s *Service) InvalidateSnapshotsWith(inv SnapshotInvalidator) {
	s.snapshots = inv
}

// List returns transactions within the filter window.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	if err := validateTipo(filter.Tipo, true); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

// Get fetches one transaction.
func (s *Service) Get(ctx context.Context, id int64) (Transaction, error) {
	return s.repo.Get(ctx, id)
}

// Create books a new cash book line.
func (s *Service) Create(ctx context.Context, actorID int64, in TransactionInput) (Transaction, error) {
	if err := validateInput(in); err != nil {
		return Transaction{}, err
	}
	tx, err := s.repo.Insert(ctx, in)
	if err != nil {
		return Transaction{}, err
	}
	s.record(ctx, actorID, "create", tx.ID)
	s.bumpSnapshots(ctx)
	return tx, nil
}

// Update rewrites a cash book line.
func (s *Service) Update(ctx context.Context, actorID, id int64, in TransactionInput) (Transaction, error) {
	if err := validateInput(in); err != nil {
		return Transaction{}, err
	}
	tx, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return Transaction{}, err
	}
	s.record(ctx, actorID, "update", tx.ID)
	s.bumpSnapshots(ctx)
	return tx, nil
}

// Delete removes a cash book line.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "delete", id)
	s.bumpSnapshots(ctx)
	return nil
}

// Summary aggregates the window into totals and per-category balances.
func (s *Service) Summary(ctx context.Context, filter ListFilter) (Summary, error) {
	filter.Tipo = ""
	txs, err := s.repo.List(ctx, filter)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(txs), nil
}

// bumpSnapshots is best effort, a failed invalidation only delays the
// dashboard until the cache TTL expires.
func (s *Service) bumpSnapshots(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	_ = s.snapshots.Invalidate(ctx)
}

func (s *Service) record(ctx context.Context, actorID int64, action string, txID int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "financeiro." + action,
		Entity:   "transacao",
		EntityID: strconv.FormatInt(txID, 10),
	})
}

func validateInput(in TransactionInput) error {
	if in.Data.IsZero() || strings.TrimSpace(in.Descricao) == "" {
		return fmt.Errorf("%w: data e descrição são obrigatórias", shared.ErrValidation)
	}
	if in.Valor <= 0 {
		return fmt.Errorf("%w: valor deve ser positivo", shared.ErrValidation)
	}
	return validateTipo(in.Tipo, false)
}

func validateTipo(tipo string, allowEmpty bool) error {
	if tipo == "" && allowEmpty {
		return nil
	}
	if tipo != TipoEntrada && tipo != TipoSaida {
		return fmt.Errorf("%w: tipo deve ser entrada ou saida", shared.ErrValidation)
	}
	return nil
}

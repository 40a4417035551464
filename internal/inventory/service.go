package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// Service handles stock room business rules.
type Service struct {
	repo      RepositoryPort
	audit     *shared.AuditLogger
	snapshots SnapshotInvalidator
}

// SnapshotInvalidator drops cached dashboard aggregates after a write
// changes the numbers behind them.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context) error
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// InvalidateSnapshotsWith registers the dashboard cache to refresh
// after stock mutations. Leaving it unset keeps TTL-only expiry.
func (s *Service) InvalidateSnapshotsWith(inv SnapshotInvalidator) {
	s.snapshots = inv
}

// Products lists products, optionally filtered by name or category.
func (s *Service) Products(ctx context.Context, search string) ([]Product, error) {
	return s.repo.ListProducts(ctx, strings.TrimSpace(search))
}

// LowStock lists products at or below their minimum quantity.
func (s *Service) LowStock(ctx context.Context) ([]Product, error) {
	return s.repo.ListLowStock(ctx)
}

// Product fetches one product.
func (s *Service) Product(ctx context.Context, id int64) (Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// CreateProduct registers a new product with its opening quantity.
func (s *Service) CreateProduct(ctx context.Context, actorID int64, in ProductInput) (Product, error) {
	if err := validateProduct(in); err != nil {
		return Product{}, err
	}
	product, err := s.repo.InsertProduct(ctx, in)
	if err != nil {
		return Product{}, err
	}
	s.record(ctx, actorID, "create", product.ID, map[string]any{"nome": product.Nome})
	return product, nil
}

// UpdateProduct changes descriptive fields. Quantity only moves through
// RegisterEntry, RegisterExit or an appointment finalization.
func (s *Service) UpdateProduct(ctx context.Context, actorID, id int64, in ProductInput) (Product, error) {
	if err := validateProduct(in); err != nil {
		return Product{}, err
	}
	product, err := s.repo.UpdateProduct(ctx, id, in)
	if err != nil {
		return Product{}, err
	}
	s.record(ctx, actorID, "update", product.ID, nil)
	return product, nil
}

// DeleteProduct removes a product that has no movement history.
func (s *Service) DeleteProduct(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "delete", id, nil)
	return nil
}

// Movements lists one page of movements, optionally for a single product.
func (s *Service) Movements(ctx context.Context, produtoID int64, page, perPage int) ([]Movement, shared.Pagination, error) {
	total, err := s.repo.CountMovements(ctx, produtoID)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	pagination := shared.NewPagination(page, perPage, total)
	movements, err := s.repo.ListMovements(ctx, produtoID, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return movements, pagination, nil
}

// RegisterEntry books arriving stock and increments the product quantity
// in the same transaction.
func (s *Service) RegisterEntry(ctx context.Context, actorID int64, in EntryInput) error {
	if in.ProdutoID == 0 || in.Qtd <= 0 {
		return fmt.Errorf("%w: produto e quantidade positiva são obrigatórios", shared.ErrValidation)
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.AddStock(ctx, in.ProdutoID, in.Qtd); err != nil {
			return err
		}
		return tx.InsertMovement(ctx, Movement{
			ProdutoID:     in.ProdutoID,
			Tipo:          MovementEntrada,
			Qtd:           in.Qtd,
			Fornecedor:    in.Fornecedor,
			Lote:          in.Lote,
			ValorUnitario: in.ValorUnitario,
		})
	})
	if err != nil {
		return err
	}
	s.record(ctx, actorID, "entrada", in.ProdutoID, map[string]any{"qtd": in.Qtd})
	s.bumpSnapshots(ctx)
	return nil
}

// RegisterExit books stock leaving outside an appointment, refusing any
// exit that would drive the quantity negative.
func (s *Service) RegisterExit(ctx context.Context, actorID int64, in ExitInput) error {
	if in.ProdutoID == 0 || in.Qtd <= 0 {
		return fmt.Errorf("%w: produto e quantidade positiva são obrigatórios", shared.ErrValidation)
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.RemoveStock(ctx, in.ProdutoID, in.Qtd); err != nil {
			return err
		}
		return tx.InsertMovement(ctx, Movement{
			ProdutoID:  in.ProdutoID,
			Tipo:       MovementSaida,
			Qtd:        in.Qtd,
			Referencia: in.Referencia,
		})
	})
	if err != nil {
		return err
	}
	s.record(ctx, actorID, "saida", in.ProdutoID, map[string]any{"qtd": in.Qtd})
	s.bumpSnapshots(ctx)
	return nil
}

// bumpSnapshots is best effort, a failed invalidation only delays the
// dashboard until the cache TTL expires.
func (s *Service) bumpSnapshots(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	_ = s.snapshots.Invalidate(ctx)
}

func (s *Service) record(ctx context.Context, actorID int64, action string, produtoID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "estoque." + action,
		Entity:   "produto",
		EntityID: strconv.FormatInt(produtoID, 10),
		Meta:     meta,
	})
}

func validateProduct(in ProductInput) error {
	if strings.TrimSpace(in.Nome) == "" || strings.TrimSpace(in.Unidade) == "" {
		return fmt.Errorf("%w: nome e unidade são obrigatórios", shared.ErrValidation)
	}
	if in.Qtd < 0 || in.EstoqueMinimo < 0 {
		return fmt.Errorf("%w: quantidades não podem ser negativas", shared.ErrValidation)
	}
	return nil
}

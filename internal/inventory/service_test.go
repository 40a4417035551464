package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msousapenha/clinica-crm/internal/shared"
	_ "github.com/msousapenha/clinica-crm/testing"
)

type memoryRepo struct {
	products  map[int64]Product
	movements []Movement
	nextID    int64
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[int64]Product)}
}

func (r *memoryRepo) ListProducts(ctx context.Context, search string) ([]Product, error) {
	var out []Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepo) ListLowStock(ctx context.Context) ([]Product, error) {
	var out []Product
	for _, p := range r.products {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetProduct(ctx context.Context, id int64) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) InsertProduct(ctx context.Context, in ProductInput) (Product, error) {
	r.nextID++
	p := Product{
		ID:            r.nextID,
		Nome:          in.Nome,
		Categoria:     in.Categoria,
		Unidade:       in.Unidade,
		Qtd:           in.Qtd,
		EstoqueMinimo: in.EstoqueMinimo,
		Preco:         in.Preco,
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryRepo) UpdateProduct(ctx context.Context, id int64, in ProductInput) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	p.Nome = in.Nome
	p.Categoria = in.Categoria
	p.Unidade = in.Unidade
	p.EstoqueMinimo = in.EstoqueMinimo
	p.Preco = in.Preco
	r.products[id] = p
	return p, nil
}

func (r *memoryRepo) DeleteProduct(ctx context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memoryRepo) ListMovements(ctx context.Context, produtoID int64, limit, offset int) ([]Movement, error) {
	var all []Movement
	for _, m := range r.movements {
		if produtoID != 0 && m.ProdutoID != produtoID {
			continue
		}
		all = append(all, m)
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryRepo) CountMovements(ctx context.Context, produtoID int64) (int, error) {
	count := 0
	for _, m := range r.movements {
		if produtoID != 0 && m.ProdutoID != produtoID {
			continue
		}
		count++
	}
	return count, nil
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	backupProducts := make(map[int64]Product, len(r.products))
	for k, v := range r.products {
		backupProducts[k] = v
	}
	backupMovements := append([]Movement(nil), r.movements...)
	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.products = backupProducts
		r.movements = backupMovements
		return err
	}
	return nil
}

func (tx *memoryTx) AddStock(ctx context.Context, produtoID int64, qtd float64) error {
	p, ok := tx.repo.products[produtoID]
	if !ok {
		return shared.ErrNotFound
	}
	p.Qtd += qtd
	tx.repo.products[produtoID] = p
	return nil
}

func (tx *memoryTx) RemoveStock(ctx context.Context, produtoID int64, qtd float64) error {
	p, ok := tx.repo.products[produtoID]
	if !ok {
		return shared.ErrNotFound
	}
	if p.Qtd < qtd {
		return ErrStockWouldGoNegative
	}
	p.Qtd -= qtd
	tx.repo.products[produtoID] = p
	return nil
}

func (tx *memoryTx) InsertMovement(ctx context.Context, m Movement) error {
	tx.repo.movements = append(tx.repo.movements, m)
	return nil
}

func seedProduct(t *testing.T, repo *memoryRepo, qtd, minimo float64) Product {
	t.Helper()
	p, err := repo.InsertProduct(context.Background(), ProductInput{
		Nome:          "Luva de procedimento",
		Categoria:     "descartáveis",
		Unidade:       "cx",
		Qtd:           qtd,
		EstoqueMinimo: minimo,
	})
	require.NoError(t, err)
	return p
}

func TestRegisterEntryIncrementsStock(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	p := seedProduct(t, repo, 2, 1)

	err := svc.RegisterEntry(ctx, 1, EntryInput{
		ProdutoID:     p.ID,
		Qtd:           5,
		Fornecedor:    "Distribuidora Santos",
		Lote:          "L-2026-09",
		ValorUnitario: 12.5,
	})
	require.NoError(t, err)

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 7.0, got.Qtd)

	moves, pagination, err := svc.Movements(ctx, p.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	require.Equal(t, MovementEntrada, moves[0].Tipo)
	require.Equal(t, "Distribuidora Santos", moves[0].Fornecedor)
	require.Equal(t, 1, pagination.Total)
}

func TestRegisterExitDecrementsStock(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	p := seedProduct(t, repo, 10, 1)

	err := svc.RegisterExit(ctx, 1, ExitInput{ProdutoID: p.ID, Qtd: 4, Referencia: "uso interno"})
	require.NoError(t, err)

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 6.0, got.Qtd)
}

func TestRegisterExitRefusesNegativeStock(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	p := seedProduct(t, repo, 2, 1)

	err := svc.RegisterExit(ctx, 1, ExitInput{ProdutoID: p.ID, Qtd: 3})
	require.ErrorIs(t, err, ErrStockWouldGoNegative)

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 2.0, got.Qtd)

	moves, _, err := svc.Movements(ctx, p.ID, 0, 0)
	require.NoError(t, err)
	require.Empty(t, moves)
}

func TestMovementsPagination(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	p := seedProduct(t, repo, 0, 1)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.RegisterEntry(ctx, 1, EntryInput{ProdutoID: p.ID, Qtd: 1}))
	}

	first, pagination, err := svc.Movements(ctx, p.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, 5, pagination.Total)
	require.Equal(t, 3, pagination.TotalPages)

	last, pagination, err := svc.Movements(ctx, p.ID, 3, 2)
	require.NoError(t, err)
	require.Len(t, last, 1)
	require.Equal(t, 3, pagination.Page)

	beyond, _, err := svc.Movements(ctx, p.ID, 4, 2)
	require.NoError(t, err)
	require.Empty(t, beyond)
}

func TestRegisterEntryValidatesInput(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	err := svc.RegisterEntry(context.Background(), 1, EntryInput{ProdutoID: 0, Qtd: 5})
	require.ErrorIs(t, err, shared.ErrValidation)

	err = svc.RegisterEntry(context.Background(), 1, EntryInput{ProdutoID: 1, Qtd: -2})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestLowStockListing(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	low := seedProduct(t, repo, 1, 5)
	seedProduct(t, repo, 50, 5)

	products, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, low.ID, products[0].ID)
}

func TestProductLowStockAtExactMinimum(t *testing.T) {
	p := Product{Qtd: 5, EstoqueMinimo: 5}
	require.True(t, p.LowStock())
	p.Qtd = 5.5
	require.False(t, p.LowStock())
}

type recordingInvalidator struct {
	calls int
}

func (r *recordingInvalidator) Invalidate(ctx context.Context) error {
	r.calls++
	return nil
}

func TestStockMovesDropDashboardSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	inv := &recordingInvalidator{}
	svc.InvalidateSnapshotsWith(inv)
	p := seedProduct(t, repo, 4, 1)

	require.NoError(t, svc.RegisterEntry(ctx, 1, EntryInput{ProdutoID: p.ID, Qtd: 2}))
	require.Equal(t, 1, inv.calls)

	require.NoError(t, svc.RegisterExit(ctx, 1, ExitInput{ProdutoID: p.ID, Qtd: 1}))
	require.Equal(t, 2, inv.calls)

	// A refused exit leaves the cache alone.
	err := svc.RegisterExit(ctx, 1, ExitInput{ProdutoID: p.ID, Qtd: 50})
	require.ErrorIs(t, err, ErrStockWouldGoNegative)
	require.Equal(t, 2, inv.calls)
}

package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msousapenha/clinica-crm/internal/platform/db"
	"github.com/msousapenha/clinica-crm/internal/shared"
)

// RepositoryPort defines data access methods for the stock room.
type RepositoryPort interface {
	ListProducts(ctx context.Context, search string) ([]Product, error)
	ListLowStock(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	InsertProduct(ctx context.Context, in ProductInput) (Product, error)
	UpdateProduct(ctx context.Context, id int64, in ProductInput) (Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListMovements(ctx context.Context, produtoID int64, limit, offset int) ([]Movement, error)
	CountMovements(ctx context.Context, produtoID int64) (int, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the transactional stock adjustments.
type TxRepository interface {
	AddStock(ctx context.Context, produtoID int64, qtd float64) error
	RemoveStock(ctx context.Context, produtoID int64, qtd float64) error
	InsertMovement(ctx context.Context, m Movement) error
}

// Repository persists products and movements in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `id, nome, COALESCE(categoria, ''), unidade, qtd, estoque_minimo, COALESCE(preco, 0), created_at, updated_at`

func (r *Repository) ListProducts(ctx context.Context, search string) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM produtos
WHERE ($1 = '' OR nome ILIKE '%' || $1 || '%' OR categoria ILIKE '%' || $1 || '%')
ORDER BY nome ASC`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *Repository) ListLowStock(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM produtos WHERE qtd <= estoque_minimo ORDER BY nome ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM produtos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *Repository) InsertProduct(ctx context.Context, in ProductInput) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `INSERT INTO produtos (nome, categoria, unidade, qtd, estoque_minimo, preco, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, NOW(), NOW())
RETURNING `+productColumns, in.Nome, in.Categoria, in.Unidade, in.Qtd, in.EstoqueMinimo, in.Preco))
	if err != nil {
		return Product{}, shared.MapPgError(err)
	}
	return p, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, id int64, in ProductInput) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `UPDATE produtos
SET nome = $2, categoria = NULLIF($3, ''), unidade = $4, estoque_minimo = $5, preco = $6, updated_at = NOW()
WHERE id = $1
RETURNING `+productColumns, id, in.Nome, in.Categoria, in.Unidade, in.EstoqueMinimo, in.Preco))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, shared.MapPgError(err)
	}
	return p, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM produtos WHERE id = $1`, id)
	if err != nil {
		return shared.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) ListMovements(ctx context.Context, produtoID int64, limit, offset int) ([]Movement, error) {
	rows, err := r.pool.Query(ctx, `SELECT m.id, m.produto_id, COALESCE(p.nome, ''), m.tipo, m.qtd,
COALESCE(m.fornecedor, ''), COALESCE(m.lote, ''), COALESCE(m.valor_unitario, 0), COALESCE(m.referencia, ''), m.registrado_em
FROM movimentos_estoque m
LEFT JOIN produtos p ON p.id = m.produto_id
WHERE ($1 = 0 OR m.produto_id = $1)
ORDER BY m.registrado_em DESC
LIMIT $2 OFFSET $3`, produtoID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := []Movement{}
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.ProdutoID, &m.Produto, &m.Tipo, &m.Qtd, &m.Fornecedor, &m.Lote, &m.ValorUnitario, &m.Referencia, &m.RegistradoEm); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func (r *Repository) CountMovements(ctx context.Context, produtoID int64) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM movimentos_estoque WHERE ($1 = 0 OR produto_id = $1)`, produtoID).Scan(&total)
	return total, err
}

// WithTx runs fn inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) AddStock(ctx context.Context, produtoID int64, qtd float64) error {
	tag, err := r.tx.Exec(ctx, `UPDATE produtos SET qtd = qtd + $2, updated_at = NOW() WHERE id = $1`, produtoID, qtd)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepository) RemoveStock(ctx context.Context, produtoID int64, qtd float64) error {
	tag, err := r.tx.Exec(ctx, `UPDATE produtos SET qtd = qtd - $2, updated_at = NOW() WHERE id = $1 AND qtd >= $2`, produtoID, qtd)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStockWouldGoNegative
	}
	return nil
}

func (r *txRepository) InsertMovement(ctx context.Context, m Movement) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO movimentos_estoque (produto_id, tipo, qtd, fornecedor, lote, valor_unitario, referencia, registrado_em)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, 0), NULLIF($7, ''), COALESCE($8, NOW()))`,
		m.ProdutoID, m.Tipo, m.Qtd, m.Fornecedor, m.Lote, m.ValorUnitario, m.Referencia, nullableTime(m.RegistradoEm))
	return err
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Nome, &p.Categoria, &p.Unidade, &p.Qtd, &p.EstoqueMinimo, &p.Preco, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

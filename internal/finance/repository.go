package finance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// RepositoryPort defines data access methods for the cash book.
type RepositoryPort interface {
	List(ctx context.Context, filter ListFilter) ([]Transaction, error)
	Get(ctx context.Context, id int64) (Transaction, error)
	Insert(ctx context.Context, in TransactionInput) (Transaction, error)
	Update(ctx context.Context, id int64, in TransactionInput) (Transaction, error)
	Delete(ctx context.Context, id int64) error
}

// Repository persists transactions in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const txColumns = `id, data, descricao, COALESCE(categoria, ''), tipo, valor, created_at, updated_at`

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+txColumns+` FROM transacoes
WHERE data >= COALESCE(NULLIF($1, '0001-01-01T00:00:00Z'::timestamptz), '-infinity')
  AND data <= COALESCE(NULLIF($2, '0001-01-01T00:00:00Z'::timestamptz), 'infinity')
  AND ($3 = '' OR tipo = $3)
ORDER BY data DESC, id DESC`, filter.From, filter.To, filter.Tipo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Transaction, error) {
	tx, err := scanTransaction(r.pool.QueryRow(ctx, `SELECT `+txColumns+` FROM transacoes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, shared.ErrNotFound
		}
		return Transaction{}, err
	}
	return tx, nil
}

func (r *Repository) Insert(ctx context.Context, in TransactionInput) (Transaction, error) {
	tx, err := scanTransaction(r.pool.QueryRow(ctx, `INSERT INTO transacoes (data, descricao, categoria, tipo, valor, created_at, updated_at)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, NOW(), NOW())
RETURNING `+txColumns, in.Data, in.Descricao, in.Categoria, in.Tipo, in.Valor))
	if err != nil {
		return Transaction{}, shared.MapPgError(err)
	}
	return tx, nil
}

func (r *Repository) Update(ctx context.Context, id int64, in TransactionInput) (Transaction, error) {
	tx, err := scanTransaction(r.pool.QueryRow(ctx, `UPDATE transacoes
SET data = $2, descricao = $3, categoria = NULLIF($4, ''), tipo = $5, valor = $6, updated_at = NOW()
WHERE id = $1
RETURNING `+txColumns, id, in.Data, in.Descricao, in.Categoria, in.Tipo, in.Valor))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, shared.ErrNotFound
		}
		return Transaction{}, shared.MapPgError(err)
	}
	return tx, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transacoes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var tx Transaction
	err := row.Scan(&tx.ID, &tx.Data, &tx.Descricao, &tx.Categoria, &tx.Tipo, &tx.Valor, &tx.CreatedAt, &tx.UpdatedAt)
	return tx, err
}

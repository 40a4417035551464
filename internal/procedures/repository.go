package procedures

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// RepositoryPort defines data access methods for procedures.
type RepositoryPort interface {
	List(ctx context.Context, includeInactive bool) ([]Procedure, error)
	Get(ctx context.Context, id int64) (Procedure, error)
	Insert(ctx context.Context, in Input) (Procedure, error)
	Update(ctx context.Context, id int64, in Input) (Procedure, error)
	Inactivate(ctx context.Context, id int64) error
}

// Repository persists procedures in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const procColumns = `id, nome, duracao_min, valor, status, created_at, updated_at`

func (r *Repository) List(ctx context.Context, includeInactive bool) ([]Procedure, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+procColumns+` FROM procedimentos
WHERE ($1 OR status = 'ativo')
ORDER BY nome ASC`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	procs := []Procedure{}
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, err
		}
		procs = append(procs, p)
	}
	return procs, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Procedure, error) {
	p, err := scanProcedure(r.pool.QueryRow(ctx, `SELECT `+procColumns+` FROM procedimentos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Procedure{}, shared.ErrNotFound
		}
		return Procedure{}, err
	}
	return p, nil
}

func (r *Repository) Insert(ctx context.Context, in Input) (Procedure, error) {
	p, err := scanProcedure(r.pool.QueryRow(ctx, `INSERT INTO procedimentos (nome, duracao_min, valor, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())
RETURNING `+procColumns, in.Nome, in.DuracaoMin, in.Valor, in.Status))
	if err != nil {
		return Procedure{}, shared.MapPgError(err)
	}
	return p, nil
}

func (r *Repository) Update(ctx context.Context, id int64, in Input) (Procedure, error) {
	p, err := scanProcedure(r.pool.QueryRow(ctx, `UPDATE procedimentos
SET nome = $2, duracao_min = $3, valor = $4, status = $5, updated_at = NOW()
WHERE id = $1
RETURNING `+procColumns, id, in.Nome, in.DuracaoMin, in.Valor, in.Status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Procedure{}, shared.ErrNotFound
		}
		return Procedure{}, shared.MapPgError(err)
	}
	return p, nil
}

// Inactivate soft-deletes, keeping the procedure resolvable from past
// appointments and cash book lines.
func (r *Repository) Inactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE procedimentos SET status = 'inativo', updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanProcedure(row pgx.Row) (Procedure, error) {
	var p Procedure
	err := row.Scan(&p.ID, &p.Nome, &p.DuracaoMin, &p.Valor, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

package staff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// RepositoryPort defines data access methods for professionals.
type RepositoryPort interface {
	List(ctx context.Context, search string) ([]Professional, error)
	Get(ctx context.Context, id int64) (Professional, error)
	Insert(ctx context.Context, in Input) (Professional, error)
	Update(ctx context.Context, id int64, in Input) (Professional, error)
	Delete(ctx context.Context, id int64) error
}

// Repository persists professionals in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const profColumns = `id, nome, COALESCE(especialidade, ''), COALESCE(registro, ''), COALESCE(whatsapp, ''), comissao_pct, atende_pacientes, status, created_at, updated_at`

func (r *Repository) List(ctx context.Context, search string) ([]Professional, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+profColumns+` FROM profissionais
WHERE ($1 = '' OR nome ILIKE '%' || $1 || '%' OR especialidade ILIKE '%' || $1 || '%')
ORDER BY nome ASC`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profs := []Professional{}
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, err
		}
		profs = append(profs, p)
	}
	return profs, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Professional, error) {
	p, err := scanProfessional(r.pool.QueryRow(ctx, `SELECT `+profColumns+` FROM profissionais WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Professional{}, shared.ErrNotFound
		}
		return Professional{}, err
	}
	return p, nil
}

func (r *Repository) Insert(ctx context.Context, in Input) (Professional, error) {
	p, err := scanProfessional(r.pool.QueryRow(ctx, `INSERT INTO profissionais (nome, especialidade, registro, whatsapp, comissao_pct, atende_pacientes, status, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, NOW(), NOW())
RETURNING `+profColumns, in.Nome, in.Especialidade, in.Registro, in.Whatsapp, in.ComissaoPct, in.AtendePacientes, in.Status))
	if err != nil {
		return Professional{}, shared.MapPgError(err)
	}
	return p, nil
}

func (r *Repository) Update(ctx context.Context, id int64, in Input) (Professional, error) {
	p, err := scanProfessional(r.pool.QueryRow(ctx, `UPDATE profissionais
SET nome = $2, especialidade = NULLIF($3, ''), registro = NULLIF($4, ''), whatsapp = NULLIF($5, ''), comissao_pct = $6, atende_pacientes = $7, status = $8, updated_at = NOW()
WHERE id = $1
RETURNING `+profColumns, id, in.Nome, in.Especialidade, in.Registro, in.Whatsapp, in.ComissaoPct, in.AtendePacientes, in.Status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Professional{}, shared.ErrNotFound
		}
		return Professional{}, shared.MapPgError(err)
	}
	return p, nil
}

// Delete removes a professional. Rows referenced by appointments or
// clinical notes trip the foreign key and surface as a conflict.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profissionais WHERE id = $1`, id)
	if err != nil {
		return shared.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanProfessional(row pgx.Row) (Professional, error) {
	var p Professional
	err := row.Scan(&p.ID, &p.Nome, &p.Especialidade, &p.Registro, &p.Whatsapp, &p.ComissaoPct, &p.AtendePacientes, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

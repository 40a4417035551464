package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, search string) ([]User, error)
	Get(ctx context.Context, id int64) (User, error)
	Insert(ctx context.Context, in CreateInput, passwordHash string) (User, error)
	Update(ctx context.Context, id int64, in UpdateInput, passwordHash string) (User, error)
	Delete(ctx context.Context, id int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, nome, username, cargo, permissoes, status, created_at, updated_at`

// List returns users ordered by name, optionally filtered by a search term.
func (r *Repository) List(ctx context.Context, search string) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM usuarios
WHERE ($1 = '' OR nome ILIKE '%' || $1 || '%' OR username ILIKE '%' || $1 || '%')
ORDER BY nome ASC`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// Get fetches a single user by ID.
func (r *Repository) Get(ctx context.Context, id int64) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// Insert creates a user record.
func (r *Repository) Insert(ctx context.Context, in CreateInput, passwordHash string) (User, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO usuarios (nome, username, password_hash, cargo, permissoes, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING `+userColumns, in.Nome, in.Username, passwordHash, in.Cargo, in.Permissoes, in.Status)
	user, err := scanUser(row)
	if err != nil {
		return User{}, shared.MapPgError(err)
	}
	return user, nil
}

// Update rewrites a user record. When passwordHash is empty the stored hash
// is preserved.
func (r *Repository) Update(ctx context.Context, id int64, in UpdateInput, passwordHash string) (User, error) {
	row := r.pool.QueryRow(ctx, `UPDATE usuarios
SET nome = $2, username = $3, cargo = $4, permissoes = $5, status = $6,
    password_hash = CASE WHEN $7 = '' THEN password_hash ELSE $7 END,
    updated_at = NOW()
WHERE id = $1
RETURNING `+userColumns, id, in.Nome, in.Username, in.Cargo, in.Permissoes, in.Status, passwordHash)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, shared.MapPgError(err)
	}
	return user, nil
}

// Delete removes a user record.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return shared.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Nome, &user.Username, &user.Cargo, &user.Permissoes, &user.Status, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	users := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)

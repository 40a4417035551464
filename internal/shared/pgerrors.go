package shared

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// MapPgError translates PostgreSQL constraint violations into domain errors.
// Foreign key violations become ErrConflict, unique violations ErrDuplicate;
// anything else passes through untouched.
func MapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23503":
		return fmt.Errorf("%w: registro em uso por outros cadastros", ErrConflict)
	case "23505":
		return fmt.Errorf("%w: registro já existe", ErrDuplicate)
	default:
		return err
	}
}

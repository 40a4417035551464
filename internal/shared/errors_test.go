package shared

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	_ "github.com/msousapenha/clinica-crm/testing"
)

func TestMapPgErrorForeignKey(t *testing.T) {
	err := MapPgError(&pgconn.PgError{Code: "23503"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestMapPgErrorUnique(t *testing.T) {
	err := MapPgError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestMapPgErrorPassthrough(t *testing.T) {
	plain := errors.New("timeout")
	require.Equal(t, plain, MapPgError(plain))
	require.NoError(t, MapPgError(nil))

	other := &pgconn.PgError{Code: "40001"}
	require.Equal(t, error(other), MapPgError(other))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	require.Equal(t, 2, p.Page)
	require.Equal(t, 4, p.TotalPages)
	require.Equal(t, 10, p.Offset())

	p = NewPagination(0, 0, 0)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PerPage)
	require.Zero(t, p.TotalPages)
	require.Zero(t, p.Offset())
}

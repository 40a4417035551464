package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/msousapenha/clinica-crm/internal/auth"
	"github.com/msousapenha/clinica-crm/internal/shared"
	_ "github.com/msousapenha/clinica-crm/testing"
)

type stubRepo struct {
	user *auth.User
}

func (s *stubRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func newTokenStore(t *testing.T) *auth.TokenStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return auth.NewTokenStore(client, time.Hour)
}

func activeUser(t *testing.T, senha string) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &auth.User{
		ID:           7,
		Nome:         "Maria Recepção",
		Username:     "recepcao",
		PasswordHash: string(hash),
		Cargo:        "Recepcionista",
		Permissoes:   []string{"pacientes", "agenda", "dashboard"},
		Status:       auth.StatusAtivo,
	}
}

func TestAuthenticateIssuesToken(t *testing.T) {
	ctx := context.Background()
	tokens := newTokenStore(t)
	svc := auth.NewService(&stubRepo{user: activeUser(t, "recepcao123")}, tokens)

	token, principal, err := svc.Authenticate(ctx, "recepcao", "recepcao123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, int64(7), principal.ID)
	require.Equal(t, "recepcao", principal.Username)
	require.Equal(t, []string{"dashboard", "agenda", "pacientes"}, principal.Permissoes)

	resolved, err := tokens.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, principal.ID, resolved.ID)
	require.Equal(t, principal.Permissoes, resolved.Permissoes)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := auth.NewService(&stubRepo{user: activeUser(t, "recepcao123")}, newTokenStore(t))

	_, _, err := svc.Authenticate(context.Background(), "recepcao", "errada")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := auth.NewService(&stubRepo{}, newTokenStore(t))

	_, _, err := svc.Authenticate(context.Background(), "ninguem", "qualquer")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateInactiveUser(t *testing.T) {
	user := activeUser(t, "recepcao123")
	user.Status = "inativo"
	svc := auth.NewService(&stubRepo{user: user}, newTokenStore(t))

	_, _, err := svc.Authenticate(context.Background(), "recepcao", "recepcao123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	tokens := newTokenStore(t)
	svc := auth.NewService(&stubRepo{user: activeUser(t, "recepcao123")}, tokens)

	token, _, err := svc.Authenticate(ctx, "recepcao", "recepcao123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = tokens.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	// Logging out again is a no-op.
	require.NoError(t, svc.Logout(ctx, token))
}

func TestTokenStoreResolveUnknown(t *testing.T) {
	tokens := newTokenStore(t)

	_, err := tokens.Resolve(context.Background(), "nao-existe")
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = tokens.Resolve(context.Background(), "")
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestTokenStoreRevokeUser(t *testing.T) {
	ctx := context.Background()
	tokens := newTokenStore(t)

	principal := &shared.Principal{ID: 3, Username: "carlos", Permissoes: []string{"dashboard"}, Status: "ativo"}
	other := &shared.Principal{ID: 4, Username: "paula", Permissoes: []string{"dashboard"}, Status: "ativo"}

	first, err := tokens.Issue(ctx, principal)
	require.NoError(t, err)
	second, err := tokens.Issue(ctx, principal)
	require.NoError(t, err)
	kept, err := tokens.Issue(ctx, other)
	require.NoError(t, err)

	require.NoError(t, tokens.RevokeUser(ctx, 3))

	_, err = tokens.Resolve(ctx, first)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
	_, err = tokens.Resolve(ctx, second)
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	resolved, err := tokens.Resolve(ctx, kept)
	require.NoError(t, err)
	require.Equal(t, int64(4), resolved.ID)
}

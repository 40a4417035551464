package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msousapenha/clinica-crm/pkg/client"
	_ "github.com/msousapenha/clinica-crm/testing"
)

// fakeAPI is a minimal clinic server: one valid account, opaque tokens
// issued at login and revoked at logout.
type fakeAPI struct {
	tokens  atomic.Int64
	valid   map[string]client.User
	logouts atomic.Int64
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{valid: make(map[string]client.User)}
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds client.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username != "recepcao" || creds.Senha != "recepcao123" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"erro": "usuário ou senha inválidos"})
			return
		}
		n := f.tokens.Add(1)
		token := "tok-" + string(rune('0'+n))
		user := client.User{
			ID:         7,
			Nome:       "Maria Recepção",
			Username:   "recepcao",
			Permissoes: []string{"dashboard", "agenda", "pacientes"},
			Status:     "ativo",
		}
		f.valid[token] = user
		_ = json.NewEncoder(w).Encode(map[string]any{"token": token, "usuario": user})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		token := bearer(r)
		if _, ok := f.valid[token]; !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"erro": "sessão expirada ou inválida"})
			return
		}
		delete(f.valid, token)
		f.logouts.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		user, ok := f.valid[bearer(r)]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"erro": "sessão expirada ou inválida"})
			return
		}
		_ = json.NewEncoder(w).Encode(user)
	})
	return mux
}

func bearer(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) {
		return header[len(prefix):]
	}
	return ""
}

func newStore(t *testing.T) (*client.SessionStore, *fakeAPI, string) {
	t.Helper()
	api := newFakeAPI()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)
	path := filepath.Join(t.TempDir(), "sessao.json")
	store := client.NewSessionStore(client.NewGateway(server.URL), path)
	return store, api, path
}

func TestLoginPersistsSession(t *testing.T) {
	ctx := context.Background()
	store, _, path := newStore(t)

	user, err := store.Login(ctx, client.Credentials{Username: "recepcao", Senha: "recepcao123"})
	require.NoError(t, err)
	require.Equal(t, "recepcao", user.Username)
	require.True(t, store.IsAuthenticated())
	require.NotEmpty(t, store.Token())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var record struct {
		Token   string      `json:"token"`
		Usuario client.User `json:"usuario"`
	}
	require.NoError(t, json.Unmarshal(raw, &record))
	require.Equal(t, store.Token(), record.Token)
	require.Equal(t, "recepcao", record.Usuario.Username)
}

func TestLoginFailureLeavesStorageUntouched(t *testing.T) {
	ctx := context.Background()
	store, _, path := newStore(t)

	_, err := store.Login(ctx, client.Credentials{Username: "recepcao", Senha: "errada"})
	require.ErrorIs(t, err, client.ErrInvalidCredentials)
	require.False(t, store.IsAuthenticated())
	require.Empty(t, store.Token())

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _, path := newStore(t)

	_, err := store.Login(ctx, client.Credentials{Username: "recepcao", Senha: "recepcao123"})
	require.NoError(t, err)
	token := store.Token()

	reopened := client.NewSessionStore(nil, path)
	require.True(t, reopened.Booting())
	require.NoError(t, reopened.Restore())
	require.False(t, reopened.Booting())
	require.True(t, reopened.IsAuthenticated())
	require.Equal(t, token, reopened.Token())

	user, ok := reopened.Current()
	require.True(t, ok)
	require.Equal(t, "recepcao", user.Username)
}

func TestRestoreMissingFile(t *testing.T) {
	store := client.NewSessionStore(nil, filepath.Join(t.TempDir(), "sessao.json"))

	require.NoError(t, store.Restore())
	require.False(t, store.Booting())
	require.False(t, store.IsAuthenticated())
}

func TestRestoreCorruptFileIsDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessao.json")
	require.NoError(t, os.WriteFile(path, []byte("{nao é json"), 0o600))

	store := client.NewSessionStore(nil, path)
	require.NoError(t, store.Restore())
	require.False(t, store.IsAuthenticated())

	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	store, api, path := newStore(t)

	_, err := store.Login(ctx, client.Credentials{Username: "recepcao", Senha: "recepcao123"})
	require.NoError(t, err)

	require.NoError(t, store.Logout(ctx))
	require.False(t, store.IsAuthenticated())
	require.Empty(t, store.Token())
	require.Equal(t, int64(1), api.logouts.Load())

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	// Logging out while unauthenticated is a no-op.
	require.NoError(t, store.Logout(ctx))
	require.Equal(t, int64(1), api.logouts.Load())
}

func TestLogoutWithDeadTokenStillClears(t *testing.T) {
	ctx := context.Background()
	store, api, _ := newStore(t)

	_, err := store.Login(ctx, client.Credentials{Username: "recepcao", Senha: "recepcao123"})
	require.NoError(t, err)

	// Revoke server side behind the store's back.
	for token := range api.valid {
		delete(api.valid, token)
	}

	require.NoError(t, store.Logout(ctx))
	require.False(t, store.IsAuthenticated())
}

func TestLogoutClearsEvenWhenServerRefuses(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"erro": "sessão em uso"})
	})
	mux.Handle("/", api.handler())
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	path := filepath.Join(t.TempDir(), "sessao.json")
	store := client.NewSessionStore(client.NewGateway(server.URL), path)
	_, err := store.Login(ctx, client.Credentials{Username: "recepcao", Senha: "recepcao123"})
	require.NoError(t, err)

	err = store.Logout(ctx)
	require.ErrorIs(t, err, client.ErrConflict)
	require.False(t, store.IsAuthenticated())
	require.Empty(t, store.Token())
	_, statErr := os.Stat(path)
	require.ErrorIs(t, statErr, os.ErrNotExist)

	// A fresh store over the same file must not resurrect the session.
	next := client.NewSessionStore(client.NewGateway(server.URL), path)
	require.NoError(t, next.Restore())
	require.False(t, next.IsAuthenticated())
}

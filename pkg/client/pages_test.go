package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msousapenha/clinica-crm/pkg/client"
	_ "github.com/msousapenha/clinica-crm/testing"
)

func newUsersPage(t *testing.T) (*client.UsersPage, *client.Shell, *atomic.Int64) {
	t.Helper()
	var deletes atomic.Int64
	api := newFakeAPI()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /usuarios", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]client.User{})
	})
	mux.HandleFunc("DELETE /usuarios/{id}", func(w http.ResponseWriter, r *http.Request) {
		deletes.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.Handle("/", api.handler())
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	gateway := client.NewGateway(server.URL)
	store := client.NewSessionStore(gateway, filepath.Join(t.TempDir(), "sessao.json"))
	shell := client.NewShell(store)
	require.NoError(t, shell.Boot())
	_, err := shell.Login(context.Background(), client.Credentials{Username: "recepcao", Senha: "recepcao123"})
	require.NoError(t, err)
	return client.NewUsersPage(shell, gateway), shell, &deletes
}

func TestUsersPageSelfDeleteRejected(t *testing.T) {
	page, shell, deletes := newUsersPage(t)

	err := page.Delete(context.Background(), 7, func(string) bool { return true })
	require.ErrorIs(t, err, client.ErrConflict)
	require.Zero(t, deletes.Load())
	require.Equal(t, client.StateAuthenticated, shell.State())
}

func TestUsersPageDeleteDeclinedSkipsRequest(t *testing.T) {
	page, _, deletes := newUsersPage(t)

	require.NoError(t, page.Delete(context.Background(), 9, func(string) bool { return false }))
	require.Zero(t, deletes.Load())
}

func TestUsersPageDeleteOtherUser(t *testing.T) {
	page, _, deletes := newUsersPage(t)

	require.NoError(t, page.Delete(context.Background(), 9, func(string) bool { return true }))
	require.Equal(t, int64(1), deletes.Load())
}

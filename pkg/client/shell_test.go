package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msousapenha/clinica-crm/internal/modules"
	"github.com/msousapenha/clinica-crm/pkg/client"
	_ "github.com/msousapenha/clinica-crm/testing"
)

func newShell(t *testing.T) (*client.Shell, *fakeAPI) {
	t.Helper()
	store, api, _ := newStore(t)
	return client.NewShell(store), api
}

func login(t *testing.T, shell *client.Shell) client.User {
	t.Helper()
	user, err := shell.Login(context.Background(), client.Credentials{Username: "recepcao", Senha: "recepcao123"})
	require.NoError(t, err)
	return user
}

func TestShellBootWithoutSession(t *testing.T) {
	shell, _ := newShell(t)
	require.Equal(t, client.StateBooting, shell.State())

	require.NoError(t, shell.Boot())
	require.Equal(t, client.StateUnauthenticated, shell.State())
	require.Empty(t, shell.ActiveSection())
	require.Empty(t, shell.Sections())
}

func TestShellLoginEntersDefaultSection(t *testing.T) {
	shell, _ := newShell(t)
	require.NoError(t, shell.Boot())

	user := login(t, shell)
	require.Equal(t, "recepcao", user.Username)
	require.Equal(t, client.StateAuthenticated, shell.State())
	require.Equal(t, modules.Dashboard, shell.ActiveSection())
}

func TestShellSectionsAreGrantedOnly(t *testing.T) {
	shell, _ := newShell(t)
	require.NoError(t, shell.Boot())
	login(t, shell)

	require.Equal(t, []modules.ID{modules.Dashboard, modules.Agenda, modules.Pacientes}, shell.Sections())
}

func TestShellSelectSectionGated(t *testing.T) {
	shell, _ := newShell(t)
	require.NoError(t, shell.Boot())
	login(t, shell)

	require.True(t, shell.SelectSection(modules.Pacientes))
	require.Equal(t, modules.Pacientes, shell.ActiveSection())

	// A section outside the grant leaves the selection unchanged.
	require.False(t, shell.SelectSection(modules.Financeiro))
	require.Equal(t, modules.Pacientes, shell.ActiveSection())

	require.False(t, shell.SelectSection(modules.ID("relatorios")))
	require.Equal(t, modules.Pacientes, shell.ActiveSection())
}

func TestShellLogout(t *testing.T) {
	shell, _ := newShell(t)
	require.NoError(t, shell.Boot())
	login(t, shell)

	require.NoError(t, shell.Logout(context.Background()))
	require.Equal(t, client.StateUnauthenticated, shell.State())
	require.Empty(t, shell.ActiveSection())
	require.Empty(t, shell.Sections())
}

func TestShellObserveErrorForcesLogout(t *testing.T) {
	shell, _ := newShell(t)
	require.NoError(t, shell.Boot())
	login(t, shell)

	err := shell.ObserveError(client.ErrUnauthorized)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	require.Equal(t, client.StateUnauthenticated, shell.State())
	require.Empty(t, shell.ActiveSection())
}

func TestShellObserveErrorPassesOthersThrough(t *testing.T) {
	shell, _ := newShell(t)
	require.NoError(t, shell.Boot())
	login(t, shell)

	err := shell.ObserveError(client.ErrNotFound)
	require.ErrorIs(t, err, client.ErrNotFound)
	require.Equal(t, client.StateAuthenticated, shell.State())

	require.NoError(t, shell.ObserveError(nil))
	require.Equal(t, client.StateAuthenticated, shell.State())
}

func TestShellBootRestoresSession(t *testing.T) {
	store, _, path := newStore(t)
	first := client.NewShell(store)
	require.NoError(t, first.Boot())
	login(t, first)

	// A new process over the same session file resumes authenticated.
	reopened := client.NewSessionStore(nil, path)
	second := client.NewShell(reopened)
	require.NoError(t, second.Boot())
	require.Equal(t, client.StateAuthenticated, second.State())
	require.Equal(t, modules.Dashboard, second.ActiveSection())
}

package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msousapenha/clinica-crm/pkg/client"
	_ "github.com/msousapenha/clinica-crm/testing"
)

func TestListViewRefresh(t *testing.T) {
	shell, _ := newShell(t)
	require.NoError(t, shell.Boot())
	login(t, shell)

	view := client.NewListView(shell, func(ctx context.Context, token string) ([]string, error) {
		require.NotEmpty(t, token)
		return []string{"Ana", "Bruno"}, nil
	})

	items, err := view.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Ana", "Bruno"}, items)
	require.Equal(t, []string{"Ana", "Bruno"}, view.Items())
}

func TestListViewFailureDegradesToEmpty(t *testing.T) {
	shell, _ := newShell(t)
	require.NoError(t, shell.Boot())
	login(t, shell)

	calls := 0
	view := client.NewListView(shell, func(ctx context.Context, token string) ([]string, error) {
		calls++
		if calls == 1 {
			return []string{"Ana"}, nil
		}
		return nil, client.ErrUnavailable
	})

	_, err := view.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Ana"}, view.Items())

	_, err = view.Refresh(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	require.Empty(t, view.Items())
	require.Equal(t, client.StateAuthenticated, shell.State())
}

func TestListViewUnauthorizedForcesLogout(t *testing.T) {
	shell, _ := newShell(t)
	require.NoError(t, shell.Boot())
	login(t, shell)

	view := client.NewListView(shell, func(ctx context.Context, token string) ([]string, error) {
		return nil, client.ErrUnauthorized
	})

	_, err := view.Refresh(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	require.Equal(t, client.StateUnauthenticated, shell.State())
}

func TestListViewStaleResponseDiscarded(t *testing.T) {
	shell, _ := newShell(t)
	require.NoError(t, shell.Boot())
	login(t, shell)

	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	view := client.NewListView(shell, func(ctx context.Context, token string) ([]string, error) {
		calls++
		if calls == 1 {
			close(started)
			<-release
			return []string{"resposta antiga"}, nil
		}
		return []string{"resposta nova"}, nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = view.Refresh(context.Background())
	}()

	<-started
	items, err := view.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"resposta nova"}, items)

	close(release)
	<-done

	// The slow first response must not overwrite the newer one.
	require.Equal(t, []string{"resposta nova"}, view.Items())
}

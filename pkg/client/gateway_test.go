package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msousapenha/clinica-crm/pkg/client"
	_ "github.com/msousapenha/clinica-crm/testing"
)

func TestGatewayLoginInvalidCredentials(t *testing.T) {
	api := newFakeAPI()
	server := httptest.NewServer(api.handler())
	defer server.Close()
	gateway := client.NewGateway(server.URL)

	_, _, err := gateway.Login(context.Background(), client.Credentials{Username: "recepcao", Senha: "errada"})
	require.ErrorIs(t, err, client.ErrInvalidCredentials)
}

func TestGatewayLoginServerDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	gateway := client.NewGateway(url)

	_, _, err := gateway.Login(context.Background(), client.Credentials{Username: "recepcao", Senha: "recepcao123"})
	require.ErrorIs(t, err, client.ErrUnavailable)
}

func TestGatewayMe(t *testing.T) {
	api := newFakeAPI()
	server := httptest.NewServer(api.handler())
	defer server.Close()
	gateway := client.NewGateway(server.URL)

	token, user, err := gateway.Login(context.Background(), client.Credentials{Username: "recepcao", Senha: "recepcao123"})
	require.NoError(t, err)
	require.Equal(t, "recepcao", user.Username)

	me, err := gateway.Me(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)

	_, err = gateway.Me(context.Background(), "token-morto")
	require.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestGatewayLogoutDeadTokenIsFine(t *testing.T) {
	api := newFakeAPI()
	server := httptest.NewServer(api.handler())
	defer server.Close()
	gateway := client.NewGateway(server.URL)

	require.NoError(t, gateway.Logout(context.Background(), "token-morto"))
}

func TestGatewayStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, client.ErrUnauthorized},
		{http.StatusForbidden, client.ErrForbidden},
		{http.StatusNotFound, client.ErrNotFound},
		{http.StatusConflict, client.ErrConflict},
		{http.StatusUnprocessableEntity, client.ErrValidation},
		{http.StatusBadRequest, client.ErrValidation},
		{http.StatusInternalServerError, client.ErrUnavailable},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_ = json.NewEncoder(w).Encode(map[string]string{"erro": "mensagem do servidor"})
		}))
		gateway := client.NewGateway(server.URL)

		err := gateway.Do(context.Background(), http.MethodGet, "/qualquer", "tok", nil, nil)
		require.ErrorIs(t, err, tc.want, "status %d", tc.status)
		require.Contains(t, err.Error(), "mensagem do servidor")
		server.Close()
	}
}

func TestGatewayDoSendsBearer(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()
	gateway := client.NewGateway(server.URL)

	var out map[string]string
	require.NoError(t, gateway.Do(context.Background(), http.MethodGet, "/pacientes", "tok-1", nil, &out))
	require.Equal(t, "Bearer tok-1", got)

	require.NoError(t, gateway.Do(context.Background(), http.MethodPost, "/auth/login", "", client.Credentials{}, &out))
	require.Empty(t, got)
}

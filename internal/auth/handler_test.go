package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/msousapenha/clinica-crm/internal/app"
	"github.com/msousapenha/clinica-crm/internal/auth"
	"github.com/msousapenha/clinica-crm/internal/modules"
	"github.com/msousapenha/clinica-crm/internal/shared"
	_ "github.com/msousapenha/clinica-crm/testing"
)

type countingFailures struct {
	count int
}

func (c *countingFailures) RecordLoginFailure() {
	c.count++
}

func newAuthRouter(t *testing.T, repo auth.Repository) (http.Handler, *auth.TokenStore, *countingFailures) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tokens := auth.NewTokenStore(client, time.Hour)
	failures := &countingFailures{}
	handler := auth.NewHandler(app.NewLogger(nil), auth.NewService(repo, tokens), failures)
	mw := auth.Middleware{Tokens: tokens}

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		handler.MountRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth)
			handler.MountProtectedRoutes(r)
		})
	})
	return r, tokens, failures
}

func postLogin(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestLoginHappyPath(t *testing.T) {
	router, _, failures := newAuthRouter(t, &stubRepo{user: activeUser(t, "recepcao123")})

	res := postLogin(t, router, `{"username":"recepcao","senha":"recepcao123"}`)
	require.Equal(t, http.StatusOK, res.Code)

	var payload struct {
		Token   string `json:"token"`
		Usuario struct {
			Username   string   `json:"username"`
			Permissoes []string `json:"permissoes"`
		} `json:"usuario"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Token)
	require.Equal(t, "recepcao", payload.Usuario.Username)
	require.Equal(t, []string{"dashboard", "agenda", "pacientes"}, payload.Usuario.Permissoes)
	require.Zero(t, failures.count)
}

func TestLoginRejected(t *testing.T) {
	router, _, failures := newAuthRouter(t, &stubRepo{user: activeUser(t, "recepcao123")})

	res := postLogin(t, router, `{"username":"recepcao","senha":"errada"}`)
	require.Equal(t, http.StatusUnauthorized, res.Code)

	var payload struct {
		Erro string `json:"erro"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	require.Equal(t, "usuário ou senha inválidos", payload.Erro)
	require.Equal(t, 1, failures.count)
}

func TestLoginMissingFields(t *testing.T) {
	router, _, _ := newAuthRouter(t, &stubRepo{})

	res := postLogin(t, router, `{"username":"recepcao"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestMeRequiresToken(t *testing.T) {
	router, tokens, _ := newAuthRouter(t, &stubRepo{user: activeUser(t, "recepcao123")})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)

	loginRes := postLogin(t, router, `{"username":"recepcao","senha":"recepcao123"}`)
	require.Equal(t, http.StatusOK, loginRes.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(loginRes.Body.Bytes(), &login))

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	principal, err := tokens.Resolve(context.Background(), login.Token)
	require.NoError(t, err)
	require.Equal(t, "recepcao", principal.Username)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	router, tokens, _ := newAuthRouter(t, &stubRepo{user: activeUser(t, "recepcao123")})

	loginRes := postLogin(t, router, `{"username":"recepcao","senha":"recepcao123"}`)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(loginRes.Body.Bytes(), &login))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusNoContent, res.Code)

	_, err := tokens.Resolve(context.Background(), login.Token)
	require.Error(t, err)
}

func TestRequireModuleGating(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tokens := auth.NewTokenStore(client, time.Hour)
	mw := auth.Middleware{Tokens: tokens}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.With(mw.RequireModule(modules.Financeiro)).Get("/transacoes", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.With(mw.RequireModule(modules.Agenda)).Get("/agendamentos", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	principal := &shared.Principal{
		ID:         7,
		Username:   "recepcao",
		Permissoes: []string{"dashboard", "agenda", "pacientes"},
		Status:     "ativo",
	}
	token, err := tokens.Issue(context.Background(), principal)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/agendamentos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	req = httptest.NewRequest(http.MethodGet, "/transacoes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = httptest.NewRecorder()
	r.ServeHTTP(res, req)
	require.Equal(t, http.StatusForbidden, res.Code)
}

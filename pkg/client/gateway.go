package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// User is the authenticated account as returned by the server.
type User struct {
	ID         int64    `json:"id"`
	Nome       string   `json:"nome"`
	Username   string   `json:"username"`
	Cargo      string   `json:"cargo"`
	Permissoes []string `json:"permissoes"`
	Status     string   `json:"status"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Senha    string `json:"senha"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Usuario User   `json:"usuario"`
}

type errorPayload struct {
	Erro string `json:"erro"`
}

// Gateway talks to the clinic API. One instance is safe for concurrent
// use; the bearer token travels per call, not as gateway state.
type Gateway struct {
	baseURL string
	http    *http.Client
}

// NewGateway builds a Gateway against the given base URL.
func NewGateway(baseURL string) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewGatewayWithClient allows injecting a custom http.Client.
func NewGatewayWithClient(baseURL string, httpClient *http.Client) *Gateway {
	g := NewGateway(baseURL)
	if httpClient != nil {
		g.http = httpClient
	}
	return g
}

// Login exchanges credentials for a token and the account record. The
// request carries no Authorization header. Rejected credentials come
// back as ErrInvalidCredentials; anything else that prevents the login
// is ErrAuthFailed or ErrUnavailable.
func (g *Gateway) Login(ctx context.Context, creds Credentials) (string, User, error) {
	var resp loginResponse
	err := g.Do(ctx, http.MethodPost, "/auth/login", "", creds, &resp)
	if err != nil {
		switch {
		case isErr(err, ErrUnauthorized):
			return "", User{}, fmt.Errorf("%w", ErrInvalidCredentials)
		case isErr(err, ErrUnavailable):
			return "", User{}, err
		default:
			return "", User{}, fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
	}
	return resp.Token, resp.Usuario, nil
}

// Logout revokes the token server side. A token already dead is fine.
func (g *Gateway) Logout(ctx context.Context, token string) error {
	err := g.Do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
	if isErr(err, ErrUnauthorized) {
		return nil
	}
	return err
}

// Me returns the account bound to the token.
func (g *Gateway) Me(ctx context.Context, token string) (User, error) {
	var user User
	err := g.Do(ctx, http.MethodGet, "/auth/me", token, nil, &user)
	return user, err
}

// Do performs one JSON request. Every call except login passes the
// bearer token. Non-2xx responses are decoded into the {"erro": ...}
// payload and mapped onto the typed failures. There are no retries.
func (g *Gateway) Do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if resp.StatusCode == http.StatusNoContent {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return statusError(resp.StatusCode, payload.Erro)
}

func statusError(status int, message string) error {
	base := ErrUnavailable
	switch status {
	case http.StatusUnauthorized:
		base = ErrUnauthorized
	case http.StatusForbidden:
		base = ErrForbidden
	case http.StatusNotFound:
		base = ErrNotFound
	case http.StatusConflict:
		base = ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		base = ErrValidation
	}
	if message == "" {
		return fmt.Errorf("%w (HTTP %d)", base, status)
	}
	return fmt.Errorf("%w: %s", base, message)
}

func isErr(err, target error) bool {
	return err != nil && errors.Is(err, target)
}

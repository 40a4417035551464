package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/msousapenha/clinica-crm/internal/modules"
	"github.com/msousapenha/clinica-crm/internal/platform/httpx"
	"github.com/msousapenha/clinica-crm/internal/shared"
)

// Middleware resolves bearer tokens and gates routes per module permission.
type Middleware struct {
	Tokens *TokenStore
	Logger *slog.Logger
}

// RequireAuth rejects requests without a valid bearer token and injects the
// resolved principal into the request context.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		principal, err := m.Tokens.Resolve(r.Context(), token)
		if err != nil {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		ctx := shared.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireModule ensures the principal was granted the given module.
func (m Middleware) RequireModule(id modules.ID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			if !modules.Contains(principal.Permissoes, id) {
				if m.Logger != nil {
					m.Logger.Warn("module access denied", slog.String("module", string(id)), slog.String("username", principal.Username))
				}
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the bearer credential from the Authorization header,
// empty string when absent or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

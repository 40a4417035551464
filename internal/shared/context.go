package shared

import "context"

// Principal describes the authenticated actor attached to a request.
type Principal struct {
	ID         int64    `json:"id"`
	Nome       string   `json:"nome"`
	Username   string   `json:"username"`
	Cargo      string   `json:"cargo,omitempty"`
	Permissoes []string `json:"permissoes"`
	Status     string   `json:"status"`
}

type principalContextKey struct{}

// ContextWithPrincipal stores the authenticated principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context, nil when absent.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}

package client

import "errors"

// Typed failures surfaced by the Gateway. Callers branch on these with
// errors.Is instead of inspecting HTTP status codes.
var (
	ErrInvalidCredentials = errors.New("client: usuário ou senha inválidos")
	ErrAuthFailed         = errors.New("client: falha de autenticação")
	ErrUnauthorized       = errors.New("client: sessão expirada ou inválida")
	ErrForbidden          = errors.New("client: acesso negado")
	ErrNotFound           = errors.New("client: registro não encontrado")
	ErrConflict           = errors.New("client: conflito com o estado atual")
	ErrValidation         = errors.New("client: dados inválidos")
	ErrUnavailable        = errors.New("client: serviço indisponível")
)

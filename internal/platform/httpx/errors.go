package httpx

import (
	"errors"
	"net/http"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// RespondError maps domain errors to HTTP status codes and a JSON body.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, "registro não encontrado")
	case errors.Is(err, shared.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "usuário ou senha inválidos")
	case errors.Is(err, shared.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, "sessão expirada ou inválida")
	case errors.Is(err, shared.ErrForbidden):
		Error(w, http.StatusForbidden, "acesso negado")
	case errors.Is(err, shared.ErrConflict):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, shared.ErrValidation):
		Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "erro interno")
	}
}

package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/msousapenha/clinica-crm/internal/platform/httpx"
	"github.com/msousapenha/clinica-crm/internal/shared"
)

// FailureRecorder counts rejected login attempts.
type FailureRecorder interface {
	RecordLoginFailure()
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	failures  FailureRecorder
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, failures FailureRecorder) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		failures:  failures,
	}
}

// MountRoutes registers the unauthenticated auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

// MountProtectedRoutes registers routes that require a valid token.
func (h *Handler) MountProtectedRoutes(r chi.Router) {
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Senha    string `json:"senha" validate:"required"`
}

type loginResponse struct {
	Token   string            `json:"token"`
	Usuario *shared.Principal `json:"usuario"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "informe usuário e senha")
		return
	}

	token, principal, err := h.service.Authenticate(r.Context(), req.Username, req.Senha)
	if err != nil {
		h.logger.Warn("login rejected", slog.String("username", req.Username))
		if h.failures != nil {
			h.failures.RecordLoginFailure()
		}
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("login accepted", slog.String("username", principal.Username))
	httpx.JSON(w, http.StatusOK, loginResponse{Token: token, Usuario: principal})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), BearerToken(r)); err != nil {
		h.logger.Warn("logout", slog.Any("error", err))
	}
	httpx.NoContent(w)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, principal)
}

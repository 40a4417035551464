package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/msousapenha/clinica-crm/internal/platform/httpx"
)

// Handler exposes the landing page HTTP surface.
type Handler struct {
	service *Service
}

// NewHandler builds a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers dashboard routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.snapshot)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}

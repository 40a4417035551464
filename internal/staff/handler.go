package staff

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/msousapenha/clinica-crm/internal/platform/httpx"
	"github.com/msousapenha/clinica-crm/internal/shared"
)

// Handler exposes the professionals roster HTTP surface.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// MountRoutes registers staff routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type professionalPayload struct {
	Nome            string  `json:"nome" validate:"required"`
	Especialidade   string  `json:"especialidade"`
	Registro        string  `json:"registro"`
	Whatsapp        string  `json:"whatsapp"`
	ComissaoPct     float64 `json:"comissaoPct" validate:"gte=0,lte=100"`
	AtendePacientes bool    `json:"atendePacientes"`
	Status          string  `json:"status" validate:"omitempty,oneof=ativo inativo"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	profs, err := h.service.List(r.Context(), r.URL.Query().Get("busca"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profs)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	prof, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, prof)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	prof, err := h.service.Create(r.Context(), actorID(r), payload)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, prof)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	prof, err := h.service.Update(r.Context(), actorID(r), id, payload)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, prof)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actorID(r), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var payload professionalPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return Input{}, false
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "dados do profissional inválidos")
		return Input{}, false
	}
	return Input{
		Nome:            payload.Nome,
		Especialidade:   payload.Especialidade,
		Registro:        payload.Registro,
		Whatsapp:        payload.Whatsapp,
		ComissaoPct:     payload.ComissaoPct,
		AtendePacientes: payload.AtendePacientes,
		Status:          payload.Status,
	}, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusUnprocessableEntity, "identificador inválido")
		return 0, false
	}
	return id, true
}

func actorID(r *http.Request) int64 {
	if p := shared.PrincipalFromContext(r.Context()); p != nil {
		return p.ID
	}
	return 0
}

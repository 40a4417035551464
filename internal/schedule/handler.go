package schedule

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/msousapenha/clinica-crm/internal/platform/httpx"
	"github.com/msousapenha/clinica-crm/internal/shared"
)

// Handler exposes the schedule HTTP surface.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// MountRoutes registers schedule routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/finalizar", h.finalize)
}

type appointmentPayload struct {
	PacienteID     int64     `json:"pacienteId" validate:"required"`
	ProfissionalID int64     `json:"profissionalId" validate:"required"`
	ProcedimentoID int64     `json:"procedimentoId" validate:"required"`
	Inicio         time.Time `json:"inicio" validate:"required"`
	Fim            time.Time `json:"fim" validate:"required"`
	Status         string    `json:"status"`
	Observacoes    string    `json:"observacoes"`
}

type finalizePayload struct {
	Texto         string         `json:"texto" validate:"required"`
	ItensConsumo  []ConsumedItem `json:"itensConsumo"`
	Procedimentos []int64        `json:"procedimentos"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{}
	if raw := r.URL.Query().Get("de"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.Error(w, http.StatusUnprocessableEntity, "parâmetro 'de' inválido")
			return
		}
		filter.From = parsed
	}
	if raw := r.URL.Query().Get("ate"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.Error(w, http.StatusUnprocessableEntity, "parâmetro 'ate' inválido")
			return
		}
		filter.To = parsed
	}

	appts, err := h.service.List(r.Context(), filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, appts)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	appt, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, appt)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload appointmentPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "paciente, profissional, procedimento e horário são obrigatórios")
		return
	}

	appt, err := h.service.Create(r.Context(), actorID(r), CreateInput{
		PacienteID:     payload.PacienteID,
		ProfissionalID: payload.ProfissionalID,
		ProcedimentoID: payload.ProcedimentoID,
		Inicio:         payload.Inicio,
		Fim:            payload.Fim,
		Status:         Status(payload.Status),
		Observacoes:    payload.Observacoes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, appt)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload appointmentPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "paciente, profissional, procedimento e horário são obrigatórios")
		return
	}

	appt, err := h.service.Update(r.Context(), actorID(r), id, UpdateInput{
		ProfissionalID: payload.ProfissionalID,
		ProcedimentoID: payload.ProcedimentoID,
		Inicio:         payload.Inicio,
		Fim:            payload.Fim,
		Status:         Status(payload.Status),
		Observacoes:    payload.Observacoes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, appt)
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

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload finalizePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "registro clínico é obrigatório")
		return
	}

	appt, err := h.service.Finalize(r.Context(), actorID(r), id, FinalizeInput{
		Texto:         payload.Texto,
		ItensConsumo:  payload.ItensConsumo,
		Procedimentos: payload.Procedimentos,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, appt)
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
	if principal := shared.PrincipalFromContext(r.Context()); principal != nil {
		return principal.ID
	}
	return 0
}

package finance

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/msousapenha/clinica-crm/internal/platform/httpx"
	"github.com/msousapenha/clinica-crm/internal/shared"
)

// Handler exposes the cash book HTTP surface.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// MountRoutes registers finance routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/resumo", h.summary)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type transactionPayload struct {
	Data      time.Time `json:"data" validate:"required"`
	Descricao string    `json:"descricao" validate:"required"`
	Categoria string    `json:"categoria"`
	Tipo      string    `json:"tipo" validate:"required,oneof=entrada saida"`
	Valor     float64   `json:"valor" validate:"required,gt=0"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	txs, err := h.service.List(r.Context(), filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, txs)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tx, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tx)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	tx, err := h.service.Create(r.Context(), actorID(r), payload)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tx)
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
	tx, err := h.service.Update(r.Context(), actorID(r), id, payload)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tx)
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

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (TransactionInput, bool) {
	var payload transactionPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return TransactionInput{}, false
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "data, descrição, tipo e valor positivo são obrigatórios")
		return TransactionInput{}, false
	}
	return TransactionInput{
		Data:      payload.Data,
		Descricao: payload.Descricao,
		Categoria: payload.Categoria,
		Tipo:      payload.Tipo,
		Valor:     payload.Valor,
	}, true
}

func parseFilter(w http.ResponseWriter, r *http.Request) (ListFilter, bool) {
	filter := ListFilter{Tipo: r.URL.Query().Get("tipo")}
	if raw := r.URL.Query().Get("de"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.Error(w, http.StatusUnprocessableEntity, "parâmetro 'de' inválido")
			return ListFilter{}, false
		}
		filter.From = parsed
	}
	if raw := r.URL.Query().Get("ate"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.Error(w, http.StatusUnprocessableEntity, "parâmetro 'ate' inválido")
			return ListFilter{}, false
		}
		filter.To = parsed
	}
	return filter, true
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

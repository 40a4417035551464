package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/msousapenha/clinica-crm/internal/platform/httpx"
	"github.com/msousapenha/clinica-crm/internal/shared"
)

// Handler exposes the stock room HTTP surface.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// MountRoutes registers inventory routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/produtos", h.listProducts)
	r.Post("/produtos", h.createProduct)
	r.Get("/produtos/baixo-estoque", h.listLowStock)
	r.Get("/produtos/{id}", h.getProduct)
	r.Put("/produtos/{id}", h.updateProduct)
	r.Delete("/produtos/{id}", h.deleteProduct)
	r.Get("/movimentos", h.listMovements)
	r.Post("/entradas", h.registerEntry)
	r.Post("/saidas", h.registerExit)
}

type productPayload struct {
	Nome          string  `json:"nome" validate:"required"`
	Categoria     string  `json:"categoria"`
	Unidade       string  `json:"unidade" validate:"required"`
	Qtd           float64 `json:"qtd"`
	EstoqueMinimo float64 `json:"estoqueMinimo"`
	Preco         float64 `json:"preco" validate:"gte=0"`
}

type entryPayload struct {
	ProdutoID     int64   `json:"produtoId" validate:"required"`
	Qtd           float64 `json:"qtd" validate:"required,gt=0"`
	Fornecedor    string  `json:"fornecedor"`
	Lote          string  `json:"lote"`
	ValorUnitario float64 `json:"valorUnitario"`
}

type exitPayload struct {
	ProdutoID  int64   `json:"produtoId" validate:"required"`
	Qtd        float64 `json:"qtd" validate:"required,gt=0"`
	Referencia string  `json:"referencia"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.Context(), r.URL.Query().Get("busca"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) listLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.LowStock(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := h.service.Product(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "nome e unidade são obrigatórios")
		return
	}
	product, err := h.service.CreateProduct(r.Context(), actorID(r), ProductInput{
		Nome:          payload.Nome,
		Categoria:     payload.Categoria,
		Unidade:       payload.Unidade,
		Qtd:           payload.Qtd,
		EstoqueMinimo: payload.EstoqueMinimo,
		Preco:         payload.Preco,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload productPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "nome e unidade são obrigatórios")
		return
	}
	product, err := h.service.UpdateProduct(r.Context(), actorID(r), id, ProductInput{
		Nome:          payload.Nome,
		Categoria:     payload.Categoria,
		Unidade:       payload.Unidade,
		EstoqueMinimo: payload.EstoqueMinimo,
		Preco:         payload.Preco,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(r.Context(), actorID(r), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

type movementsResponse struct {
	Movimentos []Movement        `json:"movimentos"`
	Paginacao  shared.Pagination `json:"paginacao"`
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	var produtoID int64
	if raw := r.URL.Query().Get("produtoId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			httpx.Error(w, http.StatusUnprocessableEntity, "parâmetro 'produtoId' inválido")
			return
		}
		produtoID = parsed
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("pagina"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("porPagina"))
	movements, pagination, err := h.service.Movements(r.Context(), produtoID, page, perPage)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, movementsResponse{Movimentos: movements, Paginacao: pagination})
}

func (h *Handler) registerEntry(w http.ResponseWriter, r *http.Request) {
	var payload entryPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "produto e quantidade positiva são obrigatórios")
		return
	}
	err := h.service.RegisterEntry(r.Context(), actorID(r), EntryInput{
		ProdutoID:     payload.ProdutoID,
		Qtd:           payload.Qtd,
		Fornecedor:    payload.Fornecedor,
		Lote:          payload.Lote,
		ValorUnitario: payload.ValorUnitario,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) registerExit(w http.ResponseWriter, r *http.Request) {
	var payload exitPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Error(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Error(w, http.StatusUnprocessableEntity, "produto e quantidade positiva são obrigatórios")
		return
	}
	err := h.service.RegisterExit(r.Context(), actorID(r), ExitInput{
		ProdutoID:  payload.ProdutoID,
		Qtd:        payload.Qtd,
		Referencia: payload.Referencia,
	})
	if err != nil {
		if errors.Is(err, ErrStockWouldGoNegative) {
			httpx.Error(w, http.StatusConflict, "quantidade em estoque insuficiente")
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
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

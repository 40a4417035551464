package inventory

import (
	"errors"
	"time"
)

// ErrStockWouldGoNegative rejects exits larger than the available quantity.
var ErrStockWouldGoNegative = errors.New("inventory: quantidade em estoque insuficiente")

// MovementEntrada and MovementSaida classify stock movements.
const (
	MovementEntrada = "entrada"
	MovementSaida   = "saida"
)

// Product is one stocked item.
type Product struct {
	ID            int64     `json:"id"`
	Nome          string    `json:"nome"`
	Categoria     string    `json:"categoria,omitempty"`
	Unidade       string    `json:"unidade"`
	Qtd           float64   `json:"qtd"`
	EstoqueMinimo float64   `json:"estoqueMinimo"`
	Preco         float64   `json:"preco"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LowStock reports whether the product sits at or below its floor.
func (p Product) LowStock() bool {
	return p.Qtd <= p.EstoqueMinimo
}

// Movement is one entry or exit of stock.
type Movement struct {
	ID            int64     `json:"id"`
	ProdutoID     int64     `json:"produtoId"`
	Produto       string    `json:"produto,omitempty"`
	Tipo          string    `json:"tipo"`
	Qtd           float64   `json:"qtd"`
	Fornecedor    string    `json:"fornecedor,omitempty"`
	Lote          string    `json:"lote,omitempty"`
	ValorUnitario float64   `json:"valorUnitario,omitempty"`
	Referencia    string    `json:"referencia,omitempty"`
	RegistradoEm  time.Time `json:"registradoEm"`
}

// ProductInput carries fields for creating or updating a product.
type ProductInput struct {
	Nome          string
	Categoria     string
	Unidade       string
	Qtd           float64
	EstoqueMinimo float64
	Preco         float64
}

// EntryInput records a stock purchase arriving at the clinic.
type EntryInput struct {
	ProdutoID     int64
	Qtd           float64
	Fornecedor    string
	Lote          string
	ValorUnitario float64
}

// ExitInput records stock leaving outside a finalized appointment.
type ExitInput struct {
	ProdutoID  int64
	Qtd        float64
	Referencia string
}

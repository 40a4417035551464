package finance

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TipoEntrada and TipoSaida classify cash flow direction.
const (
	TipoEntrada = "entrada"
	TipoSaida   = "saida"
)

// Transaction is one cash book line.
type Transaction struct {
	ID        int64     `json:"id"`
	Data      time.Time `json:"data"`
	Descricao string    `json:"descricao"`
	Categoria string    `json:"categoria,omitempty"`
	Tipo      string    `json:"tipo"`
	Valor     float64   `json:"valor"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionInput carries fields for creating or updating a transaction.
type TransactionInput struct {
	Data      time.Time
	Descricao string
	Categoria string
	Tipo      string
	Valor     float64
}

// ListFilter narrows the cash book to a date window.
type ListFilter struct {
	From time.Time
	To   time.Time
	Tipo string
}

// Summary aggregates the cash book for a period.
type Summary struct {
	Entradas          float64            `json:"entradas"`
	Saidas            float64            `json:"saidas"`
	Lucro             float64            `json:"lucro"`
	EntradasFormatado string             `json:"entradasFormatado"`
	SaidasFormatado   string             `json:"saidasFormatado"`
	LucroFormatado    string             `json:"lucroFormatado"`
	TotalLancamentos  int                `json:"totalLancamentos"`
	PorCategoria      map[string]float64 `json:"porCategoria"`
}

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders a value as Brazilian currency, e.g. "R$ 1.234,56".
func FormatBRL(v float64) string {
	return brl.Sprintf("R$ %.2f", v)
}

// Summarize reduces a slice of transactions into period totals.
func Summarize(txs []Transaction) Summary {
	s := Summary{PorCategoria: map[string]float64{}}
	for _, tx := range txs {
		switch tx.Tipo {
		case TipoEntrada:
			s.Entradas += tx.Valor
			s.PorCategoria[tx.Categoria] += tx.Valor
		case TipoSaida:
			s.Saidas += tx.Valor
			s.PorCategoria[tx.Categoria] -= tx.Valor
		}
	}
	s.Lucro = s.Entradas - s.Saidas
	s.TotalLancamentos = len(txs)
	s.EntradasFormatado = FormatBRL(s.Entradas)
	s.SaidasFormatado = FormatBRL(s.Saidas)
	s.LucroFormatado = FormatBRL(s.Lucro)
	return s
}

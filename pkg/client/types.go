package client

import "time"

// Patient mirrors the server's patient record.
type Patient struct {
	ID           int64      `json:"id"`
	Nome         string     `json:"nome"`
	Whatsapp     string     `json:"whatsapp,omitempty"`
	Status       string     `json:"status"`
	UltimaVisita *time.Time `json:"ultimaVisita,omitempty"`
}

// Anamnese mirrors the server's anamnesis form.
type Anamnese struct {
	PacienteID       int64  `json:"pacienteId"`
	Alergias         string `json:"alergias,omitempty"`
	Roacutan         bool   `json:"roacutan"`
	GestanteLactante bool   `json:"gestanteLactante"`
}

// Evolucao is one clinical note.
type Evolucao struct {
	ID           int64     `json:"id"`
	PacienteID   int64     `json:"pacienteId"`
	Profissional string    `json:"profissional,omitempty"`
	Texto        string    `json:"texto"`
	RegistradoEm time.Time `json:"registradoEm"`
}

// Appointment mirrors the server's calendar entry.
type Appointment struct {
	ID           int64     `json:"id"`
	Codigo       string    `json:"codigo"`
	Paciente     string    `json:"paciente,omitempty"`
	Profissional string    `json:"profissional,omitempty"`
	Procedimento string    `json:"procedimento,omitempty"`
	Inicio       time.Time `json:"inicio"`
	Fim          time.Time `json:"fim"`
	Status       string    `json:"status"`
}

// ConsumedItem is one stock item recorded on finalization.
type ConsumedItem struct {
	ProdutoID int64   `json:"produtoId"`
	Qtd       float64 `json:"qtd"`
}

// Product mirrors the server's stocked item.
type Product struct {
	ID            int64   `json:"id"`
	Nome          string  `json:"nome"`
	Unidade       string  `json:"unidade"`
	Qtd           float64 `json:"qtd"`
	EstoqueMinimo float64 `json:"estoqueMinimo"`
	Preco         float64 `json:"preco"`
}

// Transaction mirrors one cash book line.
type Transaction struct {
	ID        int64     `json:"id"`
	Data      time.Time `json:"data"`
	Descricao string    `json:"descricao"`
	Categoria string    `json:"categoria,omitempty"`
	Tipo      string    `json:"tipo"`
	Valor     float64   `json:"valor"`
}

// Summary mirrors the server's cash book aggregate.
type Summary struct {
	Entradas       float64 `json:"entradas"`
	Saidas         float64 `json:"saidas"`
	Lucro          float64 `json:"lucro"`
	LucroFormatado string  `json:"lucroFormatado"`
}

// Procedure mirrors one catalog item.
type Procedure struct {
	ID         int64   `json:"id"`
	Nome       string  `json:"nome"`
	DuracaoMin int     `json:"duracaoMin"`
	Valor      float64 `json:"valor"`
	Status     string  `json:"status"`
}

// Professional mirrors one roster entry.
type Professional struct {
	ID              int64   `json:"id"`
	Nome            string  `json:"nome"`
	Especialidade   string  `json:"especialidade,omitempty"`
	ComissaoPct     float64 `json:"comissaoPct"`
	AtendePacientes bool    `json:"atendePacientes"`
	Status          string  `json:"status"`
}

// DashboardSnapshot mirrors the landing page aggregate.
type DashboardSnapshot struct {
	AgendamentosHoje int              `json:"agendamentosHoje"`
	PacientesAtivos  int              `json:"pacientesAtivos"`
	ReceitaMes       float64          `json:"receitaMes"`
	ReceitaMesFmt    string           `json:"receitaMesFormatado"`
	ProdutosEmFalta  int              `json:"produtosEmFalta"`
	Proximos         []Appointment    `json:"proximosAtendimentos"`
	FluxoMensal      []MonthPoint     `json:"fluxoMensal"`
	MixProcedimentos []ProcedureShare `json:"mixProcedimentos"`
}

// ProcedureShare mirrors the concluded-appointments count per procedure.
type ProcedureShare struct {
	Procedimento string `json:"procedimento"`
	Total        int    `json:"total"`
}

// MonthPoint mirrors one bar of the monthly cash flow chart.
type MonthPoint struct {
	Mes      string  `json:"mes"`
	Entradas float64 `json:"entradas"`
	Saidas   float64 `json:"saidas"`
}

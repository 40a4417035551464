package staff

import "time"

// Professional statuses.
const (
	StatusAtivo   = "ativo"
	StatusInativo = "inativo"
)

// Professional is a clinician who attends appointments.
type Professional struct {
	ID              int64     `json:"id"`
	Nome            string    `json:"nome"`
	Especialidade   string    `json:"especialidade,omitempty"`
	Registro        string    `json:"registro,omitempty"`
	Whatsapp        string    `json:"whatsapp,omitempty"`
	ComissaoPct     float64   `json:"comissaoPct"`
	AtendePacientes bool      `json:"atendePacientes"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Input carries fields for creating or updating a professional.
type Input struct {
	Nome            string
	Especialidade   string
	Registro        string
	Whatsapp        string
	ComissaoPct     float64
	AtendePacientes bool
	Status          string
}

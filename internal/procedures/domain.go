package procedures

import "time"

// Procedure statuses.
const (
	StatusAtivo   = "ativo"
	StatusInativo = "inativo"
)

// Procedure is one billable service offered by the clinic.
type Procedure struct {
	ID         int64     `json:"id"`
	Nome       string    `json:"nome"`
	DuracaoMin int       `json:"duracaoMin"`
	Valor      float64   `json:"valor"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Input carries fields for creating or updating a procedure.
type Input struct {
	Nome       string
	DuracaoMin int
	Valor      float64
	Status     string
}

package schedule

import (
	"errors"
	"time"
)

// Status enumerates appointment lifecycle states.
type Status string

const (
	// StatusAgendado means booked, awaiting patient confirmation.
	StatusAgendado Status = "agendado"
	// StatusConfirmado means the patient confirmed attendance.
	StatusConfirmado Status = "confirmado"
	// StatusConcluido means the visit happened and was finalized.
	StatusConcluido Status = "concluido"
	// StatusFaltou means the patient did not show up.
	StatusFaltou Status = "faltou"
)

// ErrAlreadyFinalized guards the exactly-once finalize transition.
var ErrAlreadyFinalized = errors.New("schedule: agendamento já finalizado")

// ErrInsufficientStock indicates a consumed item exceeds available stock.
var ErrInsufficientStock = errors.New("schedule: estoque insuficiente para o item consumido")

// IsValidStatus reports whether s belongs to the enumeration.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusAgendado, StatusConfirmado, StatusConcluido, StatusFaltou:
		return true
	}
	return false
}

// Appointment models one calendar entry.
type Appointment struct {
	ID             int64     `json:"id"`
	Code           string    `json:"codigo"`
	PacienteID     int64     `json:"pacienteId"`
	Paciente       string    `json:"paciente,omitempty"`
	ProfissionalID int64     `json:"profissionalId"`
	Profissional   string    `json:"profissional,omitempty"`
	ProcedimentoID int64     `json:"procedimentoId"`
	Procedimento   string    `json:"procedimento,omitempty"`
	Inicio         time.Time `json:"inicio"`
	Fim            time.Time `json:"fim"`
	Status         Status    `json:"status"`
	Observacoes    string    `json:"observacoes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListFilter narrows appointment listings to a date window.
type ListFilter struct {
	From time.Time
	To   time.Time
}

// CreateInput carries fields for booking an appointment.
type CreateInput struct {
	PacienteID     int64
	ProfissionalID int64
	ProcedimentoID int64
	Inicio         time.Time
	Fim            time.Time
	Status         Status
	Observacoes    string
}

// UpdateInput carries fields for rescheduling or re-statusing an appointment.
// Status here never reaches concluido; that transition belongs to Finalize.
type UpdateInput struct {
	ProfissionalID int64
	ProcedimentoID int64
	Inicio         time.Time
	Fim            time.Time
	Status         Status
	Observacoes    string
}

// ConsumedItem is one stock item used during the visit.
type ConsumedItem struct {
	ProdutoID int64   `json:"produtoId"`
	Qtd       float64 `json:"qtd"`
}

// FinalizeInput records everything the professional did during the visit.
// Applied atomically: clinical note, stock consumption, performed procedures,
// revenue entry and the single status transition to concluido.
type FinalizeInput struct {
	Texto         string
	ItensConsumo  []ConsumedItem
	Procedimentos []int64
}

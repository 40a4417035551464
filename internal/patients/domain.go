package patients

import "time"

// Status values accepted for a patient record.
const (
	StatusAtivo   = "ativo"
	StatusInativo = "inativo"
)

// Patient is a clinic patient record.
type Patient struct {
	ID           int64      `json:"id"`
	Nome         string     `json:"nome"`
	Whatsapp     string     `json:"whatsapp"`
	Status       string     `json:"status"`
	UltimaVisita *time.Time `json:"ultimaVisita,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Anamnese holds the patient's intake questionnaire. One record per patient,
// overwritten on each save.
type Anamnese struct {
	PacienteID       int64     `json:"pacienteId"`
	Alergias         string    `json:"alergias"`
	Roacutan         string    `json:"roacutan"`
	GestanteLactante string    `json:"gestanteLactante"`
	UpdatedBy        int64     `json:"updatedBy"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Evolucao is one append-only progress note in the patient's timeline. The
// body is stored as an opaque HTML string produced by the editor widget.
type Evolucao struct {
	ID           int64     `json:"id"`
	PacienteID   int64     `json:"pacienteId"`
	Profissional string    `json:"profissional"`
	Texto        string    `json:"texto"`
	RegistradoEm time.Time `json:"registradoEm"`
}

// Consulta summarises one past or scheduled appointment for the history tab.
type Consulta struct {
	ID           int64     `json:"id"`
	Inicio       time.Time `json:"inicio"`
	Procedimento string    `json:"procedimento"`
	Profissional string    `json:"profissional"`
	Status       string    `json:"status"`
}

// CreateInput carries fields for registering a patient.
type CreateInput struct {
	Nome     string
	Whatsapp string
}

// UpdateInput carries fields for updating a patient.
type UpdateInput struct {
	Nome     string
	Whatsapp string
	Status   string
}

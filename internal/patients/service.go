package patients

import (
	"context"
	"fmt"
	"strings"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// Service handles patient business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns patients matching the optional search term.
func (s *Service) List(ctx context.Context, search string) ([]Patient, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

// Get fetches one patient.
func (s *Service) Get(ctx context.Context, id int64) (Patient, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new patient.
func (s *Service) Create(ctx context.Context, in CreateInput) (Patient, error) {
	in.Nome = strings.TrimSpace(in.Nome)
	if in.Nome == "" {
		return Patient{}, fmt.Errorf("%w: nome é obrigatório", shared.ErrValidation)
	}
	return s.repo.Insert(ctx, in)
}

// Update rewrites a patient record.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Patient, error) {
	in.Nome = strings.TrimSpace(in.Nome)
	if in.Nome == "" {
		return Patient{}, fmt.Errorf("%w: nome é obrigatório", shared.ErrValidation)
	}
	if in.Status != StatusAtivo && in.Status != StatusInativo {
		return Patient{}, fmt.Errorf("%w: status deve ser ativo ou inativo", shared.ErrValidation)
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes a patient. Patients referenced by appointments or notes
// surface as a conflict via the FK mapping in the repository.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Anamnese fetches the intake questionnaire; an absent record is returned as
// an empty questionnaire so the form always renders.
func (s *Service) Anamnese(ctx context.Context, pacienteID int64) (Anamnese, error) {
	a, err := s.repo.GetAnamnese(ctx, pacienteID)
	if err != nil {
		if err == shared.ErrNotFound {
			return Anamnese{PacienteID: pacienteID}, nil
		}
		return Anamnese{}, err
	}
	return a, nil
}

// SaveAnamnese overwrites the questionnaire for the patient.
func (s *Service) SaveAnamnese(ctx context.Context, a Anamnese) (Anamnese, error) {
	if a.PacienteID == 0 {
		return Anamnese{}, fmt.Errorf("%w: paciente é obrigatório", shared.ErrValidation)
	}
	return s.repo.UpsertAnamnese(ctx, a)
}

// Evolucoes returns the patient's progress note timeline.
func (s *Service) Evolucoes(ctx context.Context, pacienteID int64) ([]Evolucao, error) {
	return s.repo.ListEvolucoes(ctx, pacienteID)
}

// RegisterEvolucao appends a progress note to the timeline.
func (s *Service) RegisterEvolucao(ctx context.Context, pacienteID, profissionalID int64, texto string) (Evolucao, error) {
	if strings.TrimSpace(texto) == "" {
		return Evolucao{}, fmt.Errorf("%w: texto da evolução é obrigatório", shared.ErrValidation)
	}
	if _, err := s.repo.Get(ctx, pacienteID); err != nil {
		return Evolucao{}, err
	}
	return s.repo.InsertEvolucao(ctx, pacienteID, profissionalID, texto)
}

// Consultas returns the patient's appointment history.
func (s *Service) Consultas(ctx context.Context, pacienteID int64) ([]Consulta, error) {
	return s.repo.ListConsultas(ctx, pacienteID)
}

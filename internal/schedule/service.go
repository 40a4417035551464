package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/msousapenha/clinica-crm/internal/shared"
)

// ReminderEnqueuer schedules a confirmation reminder for an appointment.
type ReminderEnqueuer interface {
	EnqueueReminder(ctx context.Context, agendamentoID int64, inicio time.Time) error
}

// SnapshotInvalidator drops cached dashboard aggregates after a write
// changes the numbers behind them.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service handles scheduling business rules.
type Service struct {
	repo      RepositoryPort
	reminders ReminderEnqueuer
	audit     *shared.AuditLogger
	snapshots SnapshotInvalidator
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, reminders ReminderEnqueuer, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, reminders: reminders, audit: audit}
}

// InvalidateSnapshotsWith registers the dashboard cache to refresh
// after mutations. Leaving it unset keeps TTL-only expiry.
func (s *Service) InvalidateSnapshotsWith(inv SnapshotInvalidator) {
	s.snapshots = inv
}

// List returns appointments within the date window.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches one appointment.
func (s *Service) Get(ctx context.Context, id int64) (Appointment, error) {
	return s.repo.Get(ctx, id)
}

// Create books a new appointment.
func (s *Service) Create(ctx context.Context, actorID int64, in CreateInput) (Appointment, error) {
	if in.PacienteID == 0 || in.ProfissionalID == 0 || in.ProcedimentoID == 0 {
		return Appointment{}, fmt.Errorf("%w: paciente, profissional e procedimento são obrigatórios", shared.ErrValidation)
	}
	if err := validateWindow(in.Inicio, in.Fim); err != nil {
		return Appointment{}, err
	}
	if in.Status == "" {
		in.Status = StatusAgendado
	}
	if in.Status != StatusAgendado && in.Status != StatusConfirmado {
		return Appointment{}, fmt.Errorf("%w: status inicial deve ser agendado ou confirmado", shared.ErrValidation)
	}

	appt, err := s.repo.Insert(ctx, uuid.NewString(), in)
	if err != nil {
		return Appointment{}, err
	}
	if appt.Status == StatusConfirmado && s.reminders != nil {
		_ = s.reminders.EnqueueReminder(ctx, appt.ID, appt.Inicio)
	}
	s.record(ctx, actorID, "create", appt.ID, map[string]any{"paciente_id": appt.PacienteID})
	s.bumpSnapshots(ctx)
	return appt, nil
}

// Update reschedules or re-statuses an appointment. Finalized appointments
// are immutable, and concluido is only reachable through Finalize.
func (s *Service) Update(ctx context.Context, actorID, id int64, in UpdateInput) (Appointment, error) {
	if !IsValidStatus(in.Status) {
		return Appointment{}, fmt.Errorf("%w: status inválido", shared.ErrValidation)
	}
	if in.Status == StatusConcluido {
		return Appointment{}, fmt.Errorf("%w: use a finalização do atendimento", shared.ErrValidation)
	}
	if err := validateWindow(in.Inicio, in.Fim); err != nil {
		return Appointment{}, err
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if current.Status == StatusConcluido {
		return Appointment{}, fmt.Errorf("%w: agendamento concluído não pode ser alterado", shared.ErrConflict)
	}

	appt, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return Appointment{}, err
	}
	if current.Status != StatusConfirmado && appt.Status == StatusConfirmado && s.reminders != nil {
		_ = s.reminders.EnqueueReminder(ctx, appt.ID, appt.Inicio)
	}
	s.record(ctx, actorID, "update", appt.ID, map[string]any{"status": string(appt.Status)})
	s.bumpSnapshots(ctx)
	return appt, nil
}

// Delete cancels an appointment outright.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == StatusConcluido {
		return fmt.Errorf("%w: agendamento concluído não pode ser removido", shared.ErrConflict)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "delete", id, nil)
	s.bumpSnapshots(ctx)
	return nil
}

// Finalize atomically records the visit outcome: clinical note, consumed
// stock, performed procedures, the revenue entry and exactly one transition
// to concluido. A second call on the same appointment is a rejected no-op.
func (s *Service) Finalize(ctx context.Context, actorID, id int64, in FinalizeInput) (Appointment, error) {
	if strings.TrimSpace(in.Texto) == "" {
		return Appointment{}, fmt.Errorf("%w: registro clínico é obrigatório", shared.ErrValidation)
	}
	for _, item := range in.ItensConsumo {
		if item.ProdutoID == 0 || item.Qtd <= 0 {
			return Appointment{}, fmt.Errorf("%w: item de consumo inválido", shared.ErrValidation)
		}
	}

	var finalized Appointment
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		appt, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if appt.Status == StatusConcluido {
			return fmt.Errorf("%w: %s", shared.ErrConflict, ErrAlreadyFinalized)
		}
		if appt.Status == StatusFaltou {
			return fmt.Errorf("%w: paciente faltou, atendimento não pode ser finalizado", shared.ErrConflict)
		}

		if err := tx.InsertNote(ctx, appt.PacienteID, appt.ProfissionalID, in.Texto); err != nil {
			return err
		}

		for _, item := range in.ItensConsumo {
			if err := tx.ConsumeStock(ctx, item.ProdutoID, item.Qtd); err != nil {
				return err
			}
			if err := tx.InsertMovement(ctx, item.ProdutoID, item.Qtd, appt.Code); err != nil {
				return err
			}
		}

		performed := in.Procedimentos
		if len(performed) == 0 {
			performed = []int64{appt.ProcedimentoID}
		}
		values, err := tx.ProcedureValues(ctx, performed)
		if err != nil {
			return err
		}
		total := 0.0
		for _, procID := range performed {
			valor, ok := values[procID]
			if !ok {
				return fmt.Errorf("%w: procedimento %d não encontrado", shared.ErrValidation, procID)
			}
			total += valor
		}
		if err := tx.InsertPerformedProcedures(ctx, appt.ID, performed); err != nil {
			return err
		}
		if total > 0 {
			if err := tx.InsertRevenue(ctx, appt.Inicio, "Atendimento "+appt.Code, total); err != nil {
				return err
			}
		}

		if err := tx.TouchPatientVisit(ctx, appt.PacienteID, appt.Inicio); err != nil {
			return err
		}
		if err := tx.SetStatus(ctx, appt.ID, StatusConcluido); err != nil {
			return err
		}
		appt.Status = StatusConcluido
		finalized = appt
		return nil
	})
	if err != nil {
		return Appointment{}, err
	}

	s.record(ctx, actorID, "finalize", finalized.ID, map[string]any{
		"itens":         len(in.ItensConsumo),
		"procedimentos": len(in.Procedimentos),
	})
	s.bumpSnapshots(ctx)
	return finalized, nil
}

// bumpSnapshots is best effort, a failed invalidation only delays the
// dashboard until the cache TTL expires.
func (s *Service) bumpSnapshots(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	_ = s.snapshots.Invalidate(ctx)
}

func (s *Service) record(ctx context.Context, actorID int64, action string, apptID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "agenda." + action,
		Entity:   "agendamento",
		EntityID: strconv.FormatInt(apptID, 10),
		Meta:     meta,
	})
}

func validateWindow(inicio, fim time.Time) error {
	if inicio.IsZero() || fim.IsZero() {
		return fmt.Errorf("%w: início e fim são obrigatórios", shared.ErrValidation)
	}
	if !fim.After(inicio) {
		return fmt.Errorf("%w: fim deve ser posterior ao início", shared.ErrValidation)
	}
	return nil
}

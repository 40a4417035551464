package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/msousapenha/clinica-crm/internal/jobs"
	"github.com/msousapenha/clinica-crm/internal/schedule"
)

// AppointmentSource loads appointments for reminder delivery.
type AppointmentSource interface {
	Get(ctx context.Context, id int64) (schedule.Appointment, error)
}

// NewReminderHandler builds the handler for agenda reminder tasks. An
// appointment that was meanwhile cancelled or finalized is skipped.
func NewReminderHandler(source AppointmentSource, logger *slog.Logger, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track(TaskTypeAgendaReminder)
		var payload ReminderPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(asynq.SkipRetry)
		}
		appt, err := source.Get(ctx, payload.AgendamentoID)
		if err != nil {
			logger.Warn("reminder: appointment lookup failed", slog.Int64("id", payload.AgendamentoID), slog.Any("error", err))
			return tracker.End(asynq.SkipRetry)
		}
		if appt.Status != schedule.StatusConfirmado {
			return tracker.End(nil)
		}
		// Placeholder: deliver through the WhatsApp gateway once credentials land.
		logger.Info("reminder: appointment confirmed",
			slog.Int64("id", appt.ID),
			slog.String("paciente", appt.Paciente),
			slog.Time("inicio", appt.Inicio))
		return tracker.End(nil)
	}
}

package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/msousapenha/clinica-crm/internal/app"
	"github.com/msousapenha/clinica-crm/internal/inventory"
	jobmetrics "github.com/msousapenha/clinica-crm/internal/jobs"
	"github.com/msousapenha/clinica-crm/internal/schedule"
	"github.com/msousapenha/clinica-crm/internal/shared"
	"github.com/msousapenha/clinica-crm/jobs"
	_ "github.com/msousapenha/clinica-crm/testing"
)

type stubSource struct {
	appt schedule.Appointment
	err  error
}

func (s *stubSource) Get(ctx context.Context, id int64) (schedule.Appointment, error) {
	if s.err != nil {
		return schedule.Appointment{}, s.err
	}
	return s.appt, nil
}

type stubLister struct {
	products []inventory.Product
	err      error
}

func (s *stubLister) LowStock(ctx context.Context) ([]inventory.Product, error) {
	return s.products, s.err
}

func testMetrics(t *testing.T) *jobmetrics.Metrics {
	t.Helper()
	return jobmetrics.NewMetrics(prometheus.NewRegistry())
}

func reminderTask(t *testing.T, id int64) *asynq.Task {
	t.Helper()
	task, err := jobs.NewReminderTask(jobs.ReminderPayload{AgendamentoID: id, Inicio: time.Now().Add(24 * time.Hour)})
	require.NoError(t, err)
	return task
}

func TestReminderHandlerConfirmed(t *testing.T) {
	source := &stubSource{appt: schedule.Appointment{ID: 1, Status: schedule.StatusConfirmado, Paciente: "Ana"}}
	handler := jobs.NewReminderHandler(source, app.NewLogger(nil), testMetrics(t))

	require.NoError(t, handler(context.Background(), reminderTask(t, 1)))
}

func TestReminderHandlerSkipsUnconfirmed(t *testing.T) {
	source := &stubSource{appt: schedule.Appointment{ID: 1, Status: schedule.StatusFaltou}}
	handler := jobs.NewReminderHandler(source, app.NewLogger(nil), testMetrics(t))

	require.NoError(t, handler(context.Background(), reminderTask(t, 1)))
}

func TestReminderHandlerMissingAppointmentDoesNotRetry(t *testing.T) {
	source := &stubSource{err: shared.ErrNotFound}
	handler := jobs.NewReminderHandler(source, app.NewLogger(nil), testMetrics(t))

	err := handler(context.Background(), reminderTask(t, 99))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestReminderHandlerBadPayloadDoesNotRetry(t *testing.T) {
	source := &stubSource{}
	handler := jobs.NewReminderHandler(source, app.NewLogger(nil), testMetrics(t))

	err := handler(context.Background(), asynq.NewTask(jobs.TaskTypeAgendaReminder, []byte("nao é json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestStockScanHandler(t *testing.T) {
	lister := &stubLister{products: []inventory.Product{
		{ID: 1, Nome: "Luva", Qtd: 1, EstoqueMinimo: 5},
	}}
	handler := jobs.NewStockScanHandler(lister, app.NewLogger(nil), testMetrics(t))

	require.NoError(t, handler(context.Background(), jobs.NewStockScanTask()))
}

func TestStockScanHandlerPropagatesError(t *testing.T) {
	lister := &stubLister{err: context.DeadlineExceeded}
	handler := jobs.NewStockScanHandler(lister, app.NewLogger(nil), testMetrics(t))

	err := handler(context.Background(), jobs.NewStockScanTask())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

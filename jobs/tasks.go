package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAgendaReminder is the task type for appointment reminders.
	TaskTypeAgendaReminder = "agenda:reminder"
	// TaskTypeStockScan is the task type for the low stock sweep.
	TaskTypeStockScan = "estoque:scan"
)

// ReminderPayload identifies the appointment to remind the patient about.
type ReminderPayload struct {
	AgendamentoID int64     `json:"agendamentoId"`
	Inicio        time.Time `json:"inicio"`
}

// NewReminderTask constructs an Asynq task for an appointment reminder.
func NewReminderTask(payload ReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAgendaReminder, data), nil
}

// NewStockScanTask constructs the periodic low stock sweep task.
func NewStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeStockScan, nil)
}

// Package tasks defines the asynq task types and the enqueuer facade used
// by the agent to schedule booking follow-ups.
package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"glowbook/config"
)

const TypeBookingReminder = "booking:reminder"

// ReminderPayload is what the worker needs to send an event-day nudge.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Service   string `json:"service"`
	Package   string `json:"package"`
	EventDate string `json:"eventDate"` // ISO yyyy-mm-dd
	Language  string `json:"language"`
}

// NewReminderTask builds a task scheduled for fireAt.
func NewReminderTask(payload ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeBookingReminder, b), []asynq.Option{asynq.ProcessAt(fireAt)}, nil
}

// Enqueuer schedules follow-up work. A no-op implementation is fine in
// tests; the agent never depends on delivery.
type Enqueuer interface {
	ScheduleEventReminder(payload ReminderPayload) error
}

// AsynqEnqueuer is the production Enqueuer over the reminder queue.
type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer() *AsynqEnqueuer {
	return &AsynqEnqueuer{client: asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})}
}

// ScheduleEventReminder queues a nudge for the morning before the event.
// Events already within a day get no reminder.
func (e *AsynqEnqueuer) ScheduleEventReminder(payload ReminderPayload) error {
	eventDay, err := time.Parse("2006-01-02", payload.EventDate)
	if err != nil {
		return fmt.Errorf("bad event date %q: %w", payload.EventDate, err)
	}
	fireAt := eventDay.AddDate(0, 0, -1).Add(9 * time.Hour)
	if !fireAt.After(time.Now()) {
		zap.L().Debug("event too close, skipping reminder",
			zap.String("bookingId", payload.BookingID))
		return nil
	}

	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	info, err := e.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	zap.L().Info("booking reminder scheduled",
		zap.String("bookingId", payload.BookingID),
		zap.String("taskId", info.ID),
		zap.Time("fireAt", fireAt))
	return nil
}

package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"glowbook/config"
	"glowbook/services/otp"
	"glowbook/services/tasks"
)

// InitReminderWorker runs the async reminder worker in the background.
// Delivery reuses the OTP sender channel, which is WhatsApp in production.
func InitReminderWorker(sender otp.Sender) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues:      map[string]int{"default": 1},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingReminder, handleReminderTask(sender))

	go func() {
		zap.L().Info("starting reminder worker")
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			zap.L().Error("reminder worker failed to start",
				zap.Int("attempt", attempt), zap.Error(err))
			if attempt == maxAttempts {
				zap.L().Fatal("reminder worker exhausted retries")
			}
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}()
}

func handleReminderTask(sender otp.Sender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			zap.L().Error("invalid reminder payload", zap.Error(err))
			return err
		}

		message := "Reminder: your " + p.Service + " (" + p.Package + ") booking is tomorrow, " + p.EventDate + ". See you then, " + p.Name + "!"
		if err := sender.Send(ctx, p.Phone, message); err != nil {
			zap.L().Error("reminder delivery failed",
				zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}
		zap.L().Info("booking reminder delivered",
			zap.String("bookingId", p.BookingID),
			zap.String("eventDate", p.EventDate))
		return nil
	}
}

package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medivoice/config"
	"medivoice/models"
	"medivoice/services/catalog"
	"medivoice/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker runs the reminder worker in the background. The returned
// function stops it.
func InitReminderWorker(cfg *config.Config, logger *zap.Logger) func() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisReminderDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(logger))

	ctx, cancel := context.WithCancel(context.Background())
	go monitorRedisConnection(ctx, cfg, logger)

	go func() {
		logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("Failed to start reminder worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Max retry attempts reached, reminders disabled")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return func() {
		cancel()
		srv.Shutdown()
	}
}

// handleReminderTask delivers a reminder. Delivery is a log line; there is no
// push channel to patients.
func handleReminderTask(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("decode reminder: %v: %w", err, asynq.SkipRetry)
		}

		logger.Info("Appointment reminder",
			zap.String("appointmentID", p.AppointmentID),
			zap.String("patient", p.PatientName),
			zap.String("message", reminderText(p)),
		)
		return nil
	}
}

func reminderText(p models.ReminderPayload) string {
	display := p.Slot
	if slot, err := catalog.ParseSlot(p.Slot); err == nil {
		display = slot.Kitchen()
	}
	return fmt.Sprintf("Hi %s, this is a reminder of your appointment with %s on %s at %s. Please arrive 15 minutes early.",
		p.PatientName, p.DoctorName, catalog.TitleDay(p.Day), display)
}

// monitorRedisConnection pings the queue's Redis periodically to surface failures at runtime.
func monitorRedisConnection(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisReminderDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("Reminder queue Redis connection lost", zap.Error(err))
			}
		}
	}
}

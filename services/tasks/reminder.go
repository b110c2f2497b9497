package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medivoice/models"
	"medivoice/services/catalog"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeSendReminder = "appointment:reminder"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.AppointmentID),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}

// NextOccurrence is the first time after now that falls on day at slot, in now's location.
func NextOccurrence(now time.Time, day string, slot catalog.TimeSlot) (time.Time, error) {
	wd, ok := catalog.WeekdayOf(day)
	if !ok {
		return time.Time{}, fmt.Errorf("unknown weekday %q", day)
	}
	offset := (int(wd) - int(now.Weekday()) + 7) % 7
	y, m, d := now.Date()
	at := time.Date(y, m, d+offset, slot.Hour, slot.Minute, 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 7)
	}
	return at, nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderScheduler queues a reminder ahead of every booked appointment.
type ReminderScheduler struct {
	client  enqueuer
	catalog *catalog.Catalog
	lead    time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func NewReminderScheduler(client *asynq.Client, cat *catalog.Catalog, lead time.Duration, logger *zap.Logger) *ReminderScheduler {
	return newReminderScheduler(client, cat, lead, logger)
}

func newReminderScheduler(client enqueuer, cat *catalog.Catalog, lead time.Duration, logger *zap.Logger) *ReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderScheduler{client: client, catalog: cat, lead: lead, logger: logger, now: time.Now}
}

// AppointmentBooked enqueues the reminder for appt.
func (r *ReminderScheduler) AppointmentBooked(ctx context.Context, appt models.Appointment) error {
	slot, err := catalog.ParseSlot(appt.Slot)
	if err != nil {
		return err
	}
	now := r.now()
	at, err := NextOccurrence(now, appt.Day, slot)
	if err != nil {
		return err
	}
	fireAt := at.Add(-r.lead)
	if fireAt.Before(now) {
		fireAt = now
	}

	doctorName := appt.DoctorID
	if d, err := r.catalog.GetDoctor(appt.DoctorID); err == nil {
		doctorName = d.Name
	}
	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		PatientName:   appt.PatientName,
		DoctorID:      appt.DoctorID,
		DoctorName:    doctorName,
		Day:           appt.Day,
		Slot:          appt.Slot,
		FireDate:      fireAt.Format(time.RFC3339),
	}

	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	info, err := r.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	r.logger.Info("Reminder scheduled",
		zap.String("appointmentID", appt.ID),
		zap.String("taskID", info.ID),
		zap.Time("fireAt", fireAt),
	)
	return nil
}

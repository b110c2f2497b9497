package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"medivoice/models"
	"medivoice/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var payload = models.ReminderPayload{
	AppointmentID: "a1",
	PatientName:   "Alice",
	DoctorID:      "ali",
	DoctorName:    "Dr. Ali",
	Day:           "monday",
	Slot:          "09:40",
}

func TestReminderText(t *testing.T) {
	assert.Equal(t,
		"Hi Alice, this is a reminder of your appointment with Dr. Ali on Monday at 09:40 AM. Please arrive 15 minutes early.",
		reminderText(payload))
}

func TestHandleReminderTask(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := handleReminderTask(zap.New(core))

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), asynq.NewTask(tasks.TypeSendReminder, b)))

	entries := logs.FilterMessage("Appointment reminder").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a1", entries[0].ContextMap()["appointmentID"])
	assert.Contains(t, entries[0].ContextMap()["message"], "Dr. Ali on Monday")
}

func TestHandleReminderTaskSkipsRetryOnBadPayload(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := handleReminderTask(zap.New(core))

	err := handler(context.Background(), asynq.NewTask(tasks.TypeSendReminder, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.Equal(t, 1, logs.FilterMessage("Invalid reminder payload").Len())
}

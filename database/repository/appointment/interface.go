package appointmentRepo

import (
	"context"
	"errors"

	"medivoice/models"
)

// ErrDuplicateSlot signals that (doctor, day, slot) is already taken.
var ErrDuplicateSlot = errors.New("slot already booked")

// AppointmentRepository is the booking store. Implementations must keep the
// (doctor_id, day, slot) triple unique even under concurrent inserts.
type AppointmentRepository interface {
	// IsSlotBooked reports whether an appointment already holds the triple.
	IsSlotBooked(ctx context.Context, doctorID, day, slot string) (bool, error)
	// Insert stores the appointment or returns ErrDuplicateSlot.
	Insert(ctx context.Context, appt models.Appointment) (*models.Appointment, error)
	// ListAll returns every appointment in insertion order.
	ListAll(ctx context.Context) ([]models.Appointment, error)
}

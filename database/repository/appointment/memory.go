package appointmentRepo

import (
	"context"
	"sync"

	"medivoice/models"
)

// MemoryAppointmentRepo keeps appointments for the lifetime of the process.
// A linear scan is fine at the expected scale of tens of appointments.
type MemoryAppointmentRepo struct {
	mu    sync.RWMutex
	items []models.Appointment
}

// NewMemoryAppointmentRepo constructs an empty in-memory store.
func NewMemoryAppointmentRepo() *MemoryAppointmentRepo {
	return &MemoryAppointmentRepo{}
}

func (r *MemoryAppointmentRepo) IsSlotBooked(ctx context.Context, doctorID, day, slot string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bookedLocked(doctorID, day, slot), nil
}

func (r *MemoryAppointmentRepo) bookedLocked(doctorID, day, slot string) bool {
	for _, a := range r.items {
		if a.DoctorID == doctorID && a.Day == day && a.Slot == slot {
			return true
		}
	}
	return false
}

// Insert checks and appends under one lock so two callers cannot both win the same slot.
func (r *MemoryAppointmentRepo) Insert(ctx context.Context, appt models.Appointment) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bookedLocked(appt.DoctorID, appt.Day, appt.Slot) {
		return nil, ErrDuplicateSlot
	}
	r.items = append(r.items, appt)
	stored := appt
	return &stored, nil
}

func (r *MemoryAppointmentRepo) ListAll(ctx context.Context) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Appointment, len(r.items))
	copy(out, r.items)
	return out, nil
}

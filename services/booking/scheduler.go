package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	appointmentRepo "medivoice/database/repository/appointment"
	"medivoice/models"
	"medivoice/services/catalog"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxAlternatives bounds how many other slots are offered when the requested one is taken.
const maxAlternatives = 5

// Notifier is told about committed appointments, e.g. to schedule a reminder.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appt models.Appointment) error
}

// Scheduler validates booking requests against the catalog and commits them to the store.
// It is shared by all sessions.
type Scheduler struct {
	Catalog  *catalog.Catalog
	Repo     appointmentRepo.AppointmentRepository
	Notifier Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewScheduler wires a scheduler. notifier may be nil.
func NewScheduler(cat *catalog.Catalog, repo appointmentRepo.AppointmentRepository, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Catalog:  cat,
		Repo:     repo,
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
	}
}

// AvailableSlots is the doctor's slot grid for the day minus slots already booked.
func (s *Scheduler) AvailableSlots(ctx context.Context, doctorID, day string) ([]catalog.TimeSlot, error) {
	doctor, err := s.Catalog.GetDoctor(doctorID)
	if err != nil {
		return nil, &Error{Kind: KindNotFound, Message: fmt.Sprintf("no doctor with id %q", doctorID), Err: err}
	}
	day, _ = catalog.NormalizeWeekday(day)

	grid := s.Catalog.GenerateSlots(doctor.ID, day)
	available := make([]catalog.TimeSlot, 0, len(grid))
	for _, slot := range grid {
		booked, err := s.Repo.IsSlotBooked(ctx, doctor.ID, day, slot.String())
		if err != nil {
			return nil, fmt.Errorf("check slot %s: %w", slot, err)
		}
		if !booked {
			available = append(available, slot)
		}
	}
	return available, nil
}

// Book validates a complete booking context and commits the appointment.
// Validation order: time format, working day, slot availability, store uniqueness.
func (s *Scheduler) Book(ctx context.Context, bctx models.BookingContext) (*models.Appointment, error) {
	if missing := MissingFields(bctx); len(missing) > 0 {
		return nil, &Error{
			Kind:    KindIncompleteContext,
			Message: "missing " + strings.Join(missing, ", "),
			Missing: missing,
		}
	}

	slot, err := catalog.NormalizeTime(bctx.TimePreference)
	if err != nil {
		return nil, &Error{
			Kind:    KindInvalidTimeFormat,
			Message: fmt.Sprintf("could not understand the time %q", bctx.TimePreference),
			Err:     err,
		}
	}

	doctor, err := s.Catalog.GetDoctor(bctx.DoctorPreference)
	if err != nil {
		return nil, &Error{Kind: KindNotFound, Message: fmt.Sprintf("no doctor with id %q", bctx.DoctorPreference), Err: err}
	}
	day, _ := catalog.NormalizeWeekday(bctx.DayPreference)

	working, err := s.Catalog.IsWorkingDay(doctor.ID, day)
	if err != nil {
		return nil, &Error{Kind: KindNotFound, Message: err.Error(), Err: err}
	}
	if !working {
		return nil, &Error{
			Kind: KindDoctorNotAvailableThatDay,
			Message: fmt.Sprintf("%s does not work on %s. They're available on %s",
				doctor.Name, catalog.TitleDay(day), strings.Join(doctor.Days, ", ")),
		}
	}

	available, err := s.AvailableSlots(ctx, doctor.ID, day)
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	if !containsSlot(available, slot) {
		return nil, unavailable(doctor, day, slot, available, nil)
	}

	appt := models.Appointment{
		ID:          uuid.NewString(),
		PatientName: bctx.PatientName,
		DoctorID:    doctor.ID,
		Day:         day,
		Slot:        slot.String(),
		SlotDisplay: slot.Kitchen(),
		Notes:       strings.Join(bctx.Notes, "; "),
		CreatedAt:   s.Now().UTC(),
	}

	stored, err := s.Repo.Insert(ctx, appt)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrDuplicateSlot) {
			s.Logger.Warn("Slot taken by a concurrent booking",
				zap.String("doctorID", doctor.ID),
				zap.String("day", day),
				zap.String("slot", slot.String()),
			)
			available, listErr := s.AvailableSlots(ctx, doctor.ID, day)
			if listErr != nil {
				available = nil
			}
			return nil, unavailable(doctor, day, slot, available, err)
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	s.Logger.Info("Appointment booked",
		zap.String("appointmentID", stored.ID),
		zap.String("patient", stored.PatientName),
		zap.String("doctorID", stored.DoctorID),
		zap.String("day", stored.Day),
		zap.String("slot", stored.Slot),
	)

	if s.Notifier != nil {
		if err := s.Notifier.AppointmentBooked(ctx, *stored); err != nil {
			s.Logger.Warn("Failed to notify about appointment", zap.String("appointmentID", stored.ID), zap.Error(err))
		}
	}
	return stored, nil
}

func unavailable(doctor models.Doctor, day string, slot catalog.TimeSlot, available []catalog.TimeSlot, cause error) *Error {
	msg := fmt.Sprintf("%s is not available with %s on %s", slot.Kitchen(), doctor.Name, catalog.TitleDay(day))
	if len(available) == 0 {
		msg = fmt.Sprintf("%s has no available slots on %s", doctor.Name, catalog.TitleDay(day))
	}
	return &Error{
		Kind:         KindSlotUnavailable,
		Message:      msg,
		Alternatives: nearestSlots(available, slot, maxAlternatives),
		Err:          cause,
	}
}

func containsSlot(slots []catalog.TimeSlot, target catalog.TimeSlot) bool {
	for _, s := range slots {
		if s == target {
			return true
		}
	}
	return false
}

// nearestSlots picks up to n slots closest to target and returns them in chronological order.
func nearestSlots(slots []catalog.TimeSlot, target catalog.TimeSlot, n int) []catalog.TimeSlot {
	candidates := append([]catalog.TimeSlot(nil), slots...)
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := absInt(candidates[i].Minutes()-target.Minutes()), absInt(candidates[j].Minutes()-target.Minutes())
		if di != dj {
			return di < dj
		}
		return candidates[i].Minutes() < candidates[j].Minutes()
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Minutes() < candidates[j].Minutes()
	})
	return candidates
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

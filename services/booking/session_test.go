package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	appointmentRepo "medivoice/database/repository/appointment"
	"medivoice/models"
	"medivoice/services/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(repo appointmentRepo.AppointmentRepository) *Scheduler {
	if repo == nil {
		repo = appointmentRepo.NewMemoryAppointmentRepo()
	}
	s := NewScheduler(catalog.Default(), repo, nil, nil)
	s.Now = func() time.Time { return time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC) }
	return s
}

func aliceFields() models.BookingFields {
	return models.BookingFields{
		PatientName:      "Alice",
		DoctorPreference: "ali",
		DayPreference:    "monday",
		TimePreference:   "10:00 AM",
	}
}

func TestUpdateContextTransitions(t *testing.T) {
	s := NewSession(newTestScheduler(nil))
	assert.Equal(t, models.StateCollecting, s.State())
	assert.Equal(t, []string{
		models.FieldPatientName, models.FieldDoctorPreference, models.FieldDayPreference, models.FieldTimePreference,
	}, s.Missing())

	res := s.UpdateContext(models.BookingFields{PatientName: "Alice", DoctorPreference: "Dr. Ali"})
	assert.Equal(t, models.StateCollecting, res.State)
	assert.Equal(t, []string{models.FieldDayPreference, models.FieldTimePreference}, res.Missing)
	assert.Equal(t, "ali", s.Context().DoctorPreference)

	res = s.UpdateContext(models.BookingFields{DayPreference: "Monday", TimePreference: "10 am"})
	assert.Equal(t, models.StateReadyToBook, res.State)
	assert.Empty(t, res.Missing)
	assert.Equal(t, "monday", s.Context().DayPreference)
}

func TestEmptyUpdateIsNoOp(t *testing.T) {
	s := NewSession(newTestScheduler(nil))
	s.UpdateContext(aliceFields())
	before := s.Context()

	for _, f := range []models.BookingFields{{}, {PatientName: "   ", Notes: "\t"}} {
		res := s.UpdateContext(f)
		assert.Equal(t, models.StateReadyToBook, res.State)
		assert.Equal(t, before, s.Context())
	}
}

func TestOverwriteRule(t *testing.T) {
	s := NewSession(newTestScheduler(nil))
	s.UpdateContext(aliceFields())

	res := s.UpdateContext(models.BookingFields{DoctorPreference: "Dr. Bob", DayPreference: "someday"})
	assert.ElementsMatch(t, []string{models.FieldDoctorPreference, models.FieldDayPreference}, res.Rejected)
	assert.Equal(t, "ali", s.Context().DoctorPreference)
	assert.Equal(t, "monday", s.Context().DayPreference)

	s.UpdateContext(models.BookingFields{DoctorPreference: "sara", TimePreference: "2:00 PM"})
	assert.Equal(t, "sara", s.Context().DoctorPreference)
	assert.Equal(t, "2:00 PM", s.Context().TimePreference)
	assert.Equal(t, "Alice", s.Context().PatientName)
}

func TestRejectedOnlyUpdateKeepsState(t *testing.T) {
	s := NewSession(newTestScheduler(nil))
	fields := aliceFields()
	fields.DayPreference = "tuesday"
	s.UpdateContext(fields)
	_, err := s.AttemptBooking(context.Background())
	require.ErrorIs(t, err, ErrDoctorNotAvailableThatDay)
	require.Equal(t, models.StateCollecting, s.State())
	before := s.Context()

	res := s.UpdateContext(models.BookingFields{DoctorPreference: "zzz"})
	assert.Equal(t, models.StateCollecting, res.State)
	assert.Equal(t, []string{models.FieldDoctorPreference}, res.Rejected)
	assert.Equal(t, before, s.Context())

	s.UpdateContext(aliceFields())
	_, err = s.AttemptBooking(context.Background())
	require.NoError(t, err)
	res = s.UpdateContext(models.BookingFields{DayPreference: "someday"})
	assert.Equal(t, models.StateBooked, res.State)
	assert.Equal(t, []string{models.FieldDayPreference}, res.Rejected)
}

func TestNotesAreAppended(t *testing.T) {
	s := NewSession(newTestScheduler(nil))
	s.UpdateContext(models.BookingFields{Notes: "first visit"})
	s.UpdateContext(models.BookingFields{Notes: "bring x-rays"})
	assert.Equal(t, []string{"first visit", "bring x-rays"}, s.Context().Notes)
	assert.Equal(t, models.StateCollecting, s.State())
}

func TestAttemptBookingBeforeReady(t *testing.T) {
	s := NewSession(newTestScheduler(nil))
	s.UpdateContext(models.BookingFields{PatientName: "Alice"})

	appt, err := s.AttemptBooking(context.Background())
	assert.Nil(t, appt)
	require.ErrorIs(t, err, ErrIncompleteContext)

	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, []string{models.FieldDoctorPreference, models.FieldDayPreference, models.FieldTimePreference}, be.Missing)
	assert.Equal(t, models.StateCollecting, s.State())
}

// Scenario A: a complete context books and clears.
func TestBookingSucceeds(t *testing.T) {
	repo := appointmentRepo.NewMemoryAppointmentRepo()
	s := NewSession(newTestScheduler(repo))
	s.UpdateContext(aliceFields())
	s.UpdateContext(models.BookingFields{Notes: "follow-up"})

	appt, err := s.AttemptBooking(context.Background())
	require.NoError(t, err)
	require.NotNil(t, appt)
	assert.Equal(t, "Alice", appt.PatientName)
	assert.Equal(t, "ali", appt.DoctorID)
	assert.Equal(t, "monday", appt.Day)
	assert.Equal(t, "10:00", appt.Slot)
	assert.Equal(t, "10:00 AM", appt.SlotDisplay)
	assert.Equal(t, "follow-up", appt.Notes)
	assert.NotEmpty(t, appt.ID)

	assert.Equal(t, models.StateBooked, s.State())
	assert.True(t, s.Context().IsEmpty())

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// Scenario B: Ali does not work Tuesdays.
func TestBookingWrongDay(t *testing.T) {
	s := NewSession(newTestScheduler(nil))
	f := aliceFields()
	f.DayPreference = "tuesday"
	s.UpdateContext(f)
	before := s.Context()

	_, err := s.AttemptBooking(context.Background())
	require.ErrorIs(t, err, ErrDoctorNotAvailableThatDay)
	assert.Contains(t, err.Error(), "monday, wednesday, friday")
	assert.Equal(t, models.StateCollecting, s.State())
	assert.Equal(t, before, s.Context())
}

// Scenario C: an off-grid time offers nearby slots in chronological order.
func TestBookingOffGridOffersAlternatives(t *testing.T) {
	s := NewSession(newTestScheduler(nil))
	f := aliceFields()
	f.TimePreference = "10:05 AM"
	s.UpdateContext(f)

	_, err := s.AttemptBooking(context.Background())
	require.ErrorIs(t, err, ErrSlotUnavailable)

	var be *Error
	require.True(t, errors.As(err, &be))
	var got []string
	for _, alt := range be.Alternatives {
		got = append(got, alt.Kitchen())
	}
	assert.Equal(t, []string{"09:20 AM", "09:40 AM", "10:00 AM", "10:20 AM", "10:40 AM"}, got)
	assert.Equal(t, models.StateCollecting, s.State())
}

// Scenario D.
func TestBookingInvalidTime(t *testing.T) {
	s := NewSession(newTestScheduler(nil))
	f := aliceFields()
	f.TimePreference = "banana"
	s.UpdateContext(f)

	_, err := s.AttemptBooking(context.Background())
	require.ErrorIs(t, err, ErrInvalidTimeFormat)
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindInvalidTimeFormat, kind)
	assert.Equal(t, "banana", s.Context().TimePreference)
}

// Scenario E: the same booking twice leaves one appointment.
func TestBookingTwice(t *testing.T) {
	repo := appointmentRepo.NewMemoryAppointmentRepo()
	s := NewSession(newTestScheduler(repo))

	s.UpdateContext(aliceFields())
	_, err := s.AttemptBooking(context.Background())
	require.NoError(t, err)

	res := s.UpdateContext(aliceFields())
	assert.Equal(t, models.StateReadyToBook, res.State)
	_, err = s.AttemptBooking(context.Background())
	require.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, models.StateCollecting, s.State())

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateAfterBookingStartsNewCycle(t *testing.T) {
	s := NewSession(newTestScheduler(nil))
	s.UpdateContext(aliceFields())
	_, err := s.AttemptBooking(context.Background())
	require.NoError(t, err)

	res := s.UpdateContext(models.BookingFields{})
	assert.Equal(t, models.StateBooked, res.State)

	res = s.UpdateContext(models.BookingFields{PatientName: "Bob"})
	assert.Equal(t, models.StateCollecting, res.State)
	assert.Equal(t, models.BookingContext{PatientName: "Bob"}, s.Context())
}

func TestRestoreSession(t *testing.T) {
	sched := newTestScheduler(nil)
	bctx := models.BookingContext{PatientName: "Alice", DoctorPreference: "ali", DayPreference: "monday", TimePreference: "10:00 AM"}

	s := RestoreSession(sched, models.StateReadyToBook, bctx)
	assert.Equal(t, models.StateReadyToBook, s.State())
	appt, err := s.AttemptBooking(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10:00", appt.Slot)

	s = RestoreSession(sched, "bogus", models.BookingContext{})
	assert.Equal(t, models.StateCollecting, s.State())
}

func TestReset(t *testing.T) {
	s := NewSession(newTestScheduler(nil))
	s.UpdateContext(aliceFields())
	s.Reset()
	assert.Equal(t, models.StateCollecting, s.State())
	assert.True(t, s.Context().IsEmpty())
}

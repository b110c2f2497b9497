package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	appointmentRepo "medivoice/database/repository/appointment"
	"medivoice/models"
	"medivoice/services/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// racingRepo reports every slot free but rejects inserts, as if another
// session committed the slot between the check and the insert.
type racingRepo struct {
	appointmentRepo.AppointmentRepository
}

func (racingRepo) IsSlotBooked(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func (racingRepo) Insert(context.Context, models.Appointment) (*models.Appointment, error) {
	return nil, appointmentRepo.ErrDuplicateSlot
}

type failingRepo struct {
	appointmentRepo.AppointmentRepository
}

func (failingRepo) IsSlotBooked(context.Context, string, string, string) (bool, error) {
	return false, errors.New("connection refused")
}

type recordingNotifier struct {
	mu   sync.Mutex
	seen []models.Appointment
	err  error
}

func (n *recordingNotifier) AppointmentBooked(_ context.Context, appt models.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, appt)
	return n.err
}

func completeContext(day, slot string) models.BookingContext {
	return models.BookingContext{PatientName: "Alice", DoctorPreference: "ali", DayPreference: day, TimePreference: slot}
}

func TestAvailableSlotsExcludesBooked(t *testing.T) {
	s := newTestScheduler(nil)
	ctx := context.Background()

	before, err := s.AvailableSlots(ctx, "ali", "monday")
	require.NoError(t, err)
	require.Len(t, before, 24)

	_, err = s.Book(ctx, completeContext("monday", "09:20"))
	require.NoError(t, err)

	after, err := s.AvailableSlots(ctx, "ali", "Monday")
	require.NoError(t, err)
	assert.Len(t, after, 23)
	assert.NotContains(t, after, catalog.TimeSlot{Hour: 9, Minute: 20})

	empty, err := s.AvailableSlots(ctx, "ali", "tuesday")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = s.AvailableSlots(ctx, "bob", "monday")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookRejectsIncompleteContext(t *testing.T) {
	_, err := newTestScheduler(nil).Book(context.Background(), models.BookingContext{PatientName: "Alice"})
	assert.ErrorIs(t, err, ErrIncompleteContext)
}

func TestBookUnknownDoctor(t *testing.T) {
	bctx := completeContext("monday", "10:00")
	bctx.DoctorPreference = "bob"
	_, err := newTestScheduler(nil).Book(context.Background(), bctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookChecksTimeBeforeDay(t *testing.T) {
	_, err := newTestScheduler(nil).Book(context.Background(), completeContext("tuesday", "banana"))
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestBookConcurrentDuplicateIsSlotUnavailable(t *testing.T) {
	s := newTestScheduler(racingRepo{})
	_, err := s.Book(context.Background(), completeContext("monday", "10:00"))

	require.ErrorIs(t, err, ErrSlotUnavailable)
	assert.ErrorIs(t, err, ErrDuplicateSlot)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindSlotUnavailable, kind)
}

func TestBookStoreFailureIsNotABookingError(t *testing.T) {
	s := newTestScheduler(failingRepo{})
	_, err := s.Book(context.Background(), completeContext("monday", "10:00"))
	require.Error(t, err)

	_, ok := KindOf(err)
	assert.False(t, ok)
}

// flakyRepo fails its first Insert, as a dropped store connection would.
type flakyRepo struct {
	*appointmentRepo.MemoryAppointmentRepo
	failed bool
}

func (r *flakyRepo) Insert(ctx context.Context, appt models.Appointment) (*models.Appointment, error) {
	if !r.failed {
		r.failed = true
		return nil, errors.New("connection reset")
	}
	return r.MemoryAppointmentRepo.Insert(ctx, appt)
}

func TestSessionRetriesAfterStoreFailure(t *testing.T) {
	repo := &flakyRepo{MemoryAppointmentRepo: appointmentRepo.NewMemoryAppointmentRepo()}
	s := NewSession(newTestScheduler(repo))
	s.UpdateContext(aliceFields())

	_, err := s.AttemptBooking(context.Background())
	require.ErrorContains(t, err, "connection reset")
	_, isBooking := KindOf(err)
	assert.False(t, isBooking)
	assert.Equal(t, models.StateReadyToBook, s.State())
	assert.Equal(t, "Alice", s.Context().PatientName)

	appt, err := s.AttemptBooking(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10:00", appt.Slot)
	assert.Equal(t, models.StateBooked, s.State())
}

func TestBookFullDayHasNoAlternatives(t *testing.T) {
	s := newTestScheduler(nil)
	ctx := context.Background()
	for _, slot := range s.Catalog.GenerateSlots("john", "saturday") {
		bctx := completeContext("saturday", slot.String())
		bctx.DoctorPreference = "john"
		_, err := s.Book(ctx, bctx)
		require.NoError(t, err)
	}

	bctx := completeContext("saturday", "10:00 AM")
	bctx.DoctorPreference = "john"
	_, err := s.Book(ctx, bctx)
	require.ErrorIs(t, err, ErrSlotUnavailable)

	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Empty(t, be.Alternatives)
	assert.Contains(t, be.Message, "no available slots")
}

func TestBookNotifies(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("queue down")}
	s := newTestScheduler(nil)
	s.Notifier = notifier

	appt, err := s.Book(context.Background(), completeContext("friday", "4:40 pm"))
	require.NoError(t, err, "notifier failures must not fail the booking")
	assert.Equal(t, "16:40", appt.Slot)
	require.Len(t, notifier.seen, 1)
	assert.Equal(t, appt.ID, notifier.seen[0].ID)
}

func TestConcurrentSessionsBookOnce(t *testing.T) {
	repo := appointmentRepo.NewMemoryAppointmentRepo()
	s := newTestScheduler(repo)

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := NewSession(s)
			sess.UpdateContext(aliceFields())
			if _, err := sess.AttemptBooking(context.Background()); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrSlotUnavailable)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNearestSlots(t *testing.T) {
	grid := catalog.Default().GenerateSlots("ali", "monday")

	got := nearestSlots(grid, catalog.TimeSlot{Hour: 8, Minute: 0}, 3)
	assert.Equal(t, []catalog.TimeSlot{{Hour: 9}, {Hour: 9, Minute: 20}, {Hour: 9, Minute: 40}}, got)

	got = nearestSlots(grid[:2], catalog.TimeSlot{Hour: 12}, 5)
	assert.Len(t, got, 2)
}

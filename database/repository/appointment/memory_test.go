package appointmentRepo

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"medivoice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appt(id, doctor, day, slot string) models.Appointment {
	return models.Appointment{ID: id, PatientName: "Alice", DoctorID: doctor, Day: day, Slot: slot}
}

func TestMemoryInsertAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAppointmentRepo()

	booked, err := repo.IsSlotBooked(ctx, "ali", "monday", "10:00")
	require.NoError(t, err)
	assert.False(t, booked)

	stored, err := repo.Insert(ctx, appt("1", "ali", "monday", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, "1", stored.ID)

	booked, err = repo.IsSlotBooked(ctx, "ali", "monday", "10:00")
	require.NoError(t, err)
	assert.True(t, booked)

	booked, err = repo.IsSlotBooked(ctx, "ali", "monday", "10:20")
	require.NoError(t, err)
	assert.False(t, booked)
}

func TestMemoryRejectsDuplicateTriple(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAppointmentRepo()

	_, err := repo.Insert(ctx, appt("1", "ali", "monday", "10:00"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, appt("2", "ali", "monday", "10:00"))
	assert.ErrorIs(t, err, ErrDuplicateSlot)

	// Same slot with another doctor or day is fine.
	_, err = repo.Insert(ctx, appt("3", "sara", "monday", "10:00"))
	assert.NoError(t, err)
	_, err = repo.Insert(ctx, appt("4", "ali", "friday", "10:00"))
	assert.NoError(t, err)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryListAllKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAppointmentRepo()
	for i, slot := range []string{"11:00", "09:00", "10:00"} {
		_, err := repo.Insert(ctx, appt(fmt.Sprint(i), "ali", "monday", slot))
		require.NoError(t, err)
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	var slots []string
	for _, a := range all {
		slots = append(slots, a.Slot)
	}
	assert.Equal(t, []string{"11:00", "09:00", "10:00"}, slots)

	all[0].Slot = "mutated"
	again, _ := repo.ListAll(ctx)
	assert.Equal(t, "11:00", again[0].Slot)
}

func TestMemoryConcurrentInsertsOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAppointmentRepo()

	const n = 50
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Insert(ctx, appt(fmt.Sprint(i), "ali", "monday", "10:00"))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateSlot)
		}
	}
	assert.Equal(t, 1, wins)
}

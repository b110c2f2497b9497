package catalog

import (
	"testing"

	"medivoice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesConfiguration(t *testing.T) {
	valid := models.Doctor{ID: "ali", Days: []string{"monday"}, StartHour: 9, EndHour: 17}

	tests := []struct {
		name    string
		doctors []models.Doctor
	}{
		{"empty", nil},
		{"empty id", []models.Doctor{{ID: " ", Days: []string{"monday"}, StartHour: 9, EndHour: 10}}},
		{"duplicate id", []models.Doctor{valid, {ID: "ALI", Days: []string{"friday"}, StartHour: 9, EndHour: 10}}},
		{"inverted hours", []models.Doctor{{ID: "x", Days: []string{"monday"}, StartHour: 12, EndHour: 9}}},
		{"hours past midnight", []models.Doctor{{ID: "x", Days: []string{"monday"}, StartHour: 20, EndHour: 25}}},
		{"unknown weekday", []models.Doctor{{ID: "x", Days: []string{"funday"}, StartHour: 9, EndHour: 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.doctors)
			assert.Error(t, err)
		})
	}
}

func TestNewNormalizesDoctors(t *testing.T) {
	c, err := New([]models.Doctor{{ID: " Kim ", Days: []string{"Monday", "FRIDAY"}, StartHour: 8, EndHour: 12}})
	require.NoError(t, err)

	d, err := c.GetDoctor("kim")
	require.NoError(t, err)
	assert.Equal(t, "kim", d.ID)
	assert.Equal(t, "Dr. Kim", d.Name)
	assert.Equal(t, []string{"monday", "friday"}, d.Days)
}

func TestListDoctorsKeepsConfigurationOrder(t *testing.T) {
	c := Default()
	var ids []string
	for _, d := range c.ListDoctors() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"ali", "sara", "john"}, ids)
}

func TestListDoctorsReturnsCopies(t *testing.T) {
	c := Default()
	doctors := c.ListDoctors()
	doctors[0].Days[0] = "sunday"

	d, err := c.GetDoctor("ali")
	require.NoError(t, err)
	assert.Equal(t, "monday", d.Days[0])
}

func TestGetDoctor(t *testing.T) {
	c := Default()

	d, err := c.GetDoctor("ALI")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Ali", d.Name)

	_, err = c.GetDoctor("bob")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestIsWorkingDay(t *testing.T) {
	c := Default()

	ok, err := c.IsWorkingDay("ali", "Monday")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.IsWorkingDay("ali", "tuesday")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.IsWorkingDay("ali", "someday")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.IsWorkingDay("bob", "monday")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestGenerateSlots(t *testing.T) {
	c := Default()

	slots := c.GenerateSlots("ali", "monday")
	require.Len(t, slots, (17-9)*3)
	assert.Equal(t, "09:00", slots[0].String())
	assert.Equal(t, "09:20", slots[1].String())
	assert.Equal(t, "16:40", slots[len(slots)-1].String())
	for i, s := range slots {
		assert.True(t, s.OnGrid(), "slot %s off grid", s)
		assert.GreaterOrEqual(t, s.Hour, 9)
		assert.Less(t, s.Hour, 17)
		if i > 0 {
			assert.Less(t, slots[i-1].Minutes(), s.Minutes())
		}
	}

	assert.Len(t, c.GenerateSlots("john", "sunday"), (13-9)*3)
	assert.Empty(t, c.GenerateSlots("ali", "tuesday"))
	assert.Empty(t, c.GenerateSlots("bob", "monday"))
}

func TestResolveDoctor(t *testing.T) {
	c := Default()

	for _, in := range []string{"ali", "Ali", "Dr. Ali", "dr ali", "doctor Ali", "  DR.ALI "} {
		id, ok := c.ResolveDoctor(in)
		assert.True(t, ok, in)
		assert.Equal(t, "ali", id, in)
	}

	_, ok := c.ResolveDoctor("Dr. Bob")
	assert.False(t, ok)
	_, ok = c.ResolveDoctor("")
	assert.False(t, ok)
}

func TestAvailabilitySummary(t *testing.T) {
	summary := Default().AvailabilitySummary()
	assert.Contains(t, summary, "Dr. Ali (General Medicine): monday, wednesday, friday 9:00-17:00")
	assert.Contains(t, summary, "Dr. John (Cardiology): saturday, sunday 9:00-13:00")
}

package catalog

import (
	"errors"
	"fmt"
	"strings"

	"medivoice/models"
)

// ErrDoctorNotFound is returned for unrecognized doctor identifiers.
var ErrDoctorNotFound = errors.New("doctor not found")

// Catalog is the read-only registry of doctors and their working hours.
// It never mutates after New returns and is safe for concurrent reads.
type Catalog struct {
	doctors []models.Doctor
	byID    map[string]int
}

// New validates the doctor list and builds a catalog. Weekday names are lowercased.
func New(doctors []models.Doctor) (*Catalog, error) {
	if len(doctors) == 0 {
		return nil, errors.New("catalog: no doctors configured")
	}

	c := &Catalog{
		doctors: make([]models.Doctor, 0, len(doctors)),
		byID:    make(map[string]int, len(doctors)),
	}
	for _, d := range doctors {
		id := strings.ToLower(strings.TrimSpace(d.ID))
		if id == "" {
			return nil, errors.New("catalog: doctor with empty id")
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("catalog: duplicate doctor id %q", id)
		}
		if d.StartHour < 0 || d.EndHour > 24 || d.StartHour >= d.EndHour {
			return nil, fmt.Errorf("catalog: doctor %q has invalid hours %d-%d", id, d.StartHour, d.EndHour)
		}

		days := make([]string, 0, len(d.Days))
		for _, raw := range d.Days {
			day, ok := NormalizeWeekday(raw)
			if !ok {
				return nil, fmt.Errorf("catalog: doctor %q has unknown weekday %q", id, raw)
			}
			days = append(days, day)
		}

		name := strings.TrimSpace(d.Name)
		if name == "" {
			name = "Dr. " + TitleDay(id)
		}

		c.byID[id] = len(c.doctors)
		c.doctors = append(c.doctors, models.Doctor{
			ID:        id,
			Name:      name,
			Specialty: d.Specialty,
			Days:      days,
			StartHour: d.StartHour,
			EndHour:   d.EndHour,
		})
	}
	return c, nil
}

// MustNew is New for static configuration known to be valid.
func MustNew(doctors []models.Doctor) *Catalog {
	c, err := New(doctors)
	if err != nil {
		panic(err)
	}
	return c
}

func cloneDoctor(d models.Doctor) models.Doctor {
	d.Days = append([]string(nil), d.Days...)
	return d
}

// ListDoctors returns every doctor in configuration order.
func (c *Catalog) ListDoctors() []models.Doctor {
	out := make([]models.Doctor, 0, len(c.doctors))
	for _, d := range c.doctors {
		out = append(out, cloneDoctor(d))
	}
	return out
}

// GetDoctor looks a doctor up by id (case-insensitive).
func (c *Catalog) GetDoctor(id string) (models.Doctor, error) {
	idx, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return models.Doctor{}, fmt.Errorf("%w: %q", ErrDoctorNotFound, id)
	}
	return cloneDoctor(c.doctors[idx]), nil
}

// IsWorkingDay reports whether the doctor works on weekday.
// Unknown weekday names are simply not working days.
func (c *Catalog) IsWorkingDay(doctorID, weekday string) (bool, error) {
	idx, ok := c.byID[strings.ToLower(strings.TrimSpace(doctorID))]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrDoctorNotFound, doctorID)
	}
	day, valid := NormalizeWeekday(weekday)
	if !valid {
		return false, nil
	}
	for _, d := range c.doctors[idx].Days {
		if d == day {
			return true, nil
		}
	}
	return false, nil
}

// GenerateSlots lists the 20-minute grid of a doctor's working day.
// An unknown doctor or a non-working day yields an empty result, not an error.
func (c *Catalog) GenerateSlots(doctorID, weekday string) []TimeSlot {
	working, err := c.IsWorkingDay(doctorID, weekday)
	if err != nil || !working {
		return []TimeSlot{}
	}
	d := c.doctors[c.byID[strings.ToLower(strings.TrimSpace(doctorID))]]

	slots := make([]TimeSlot, 0, (d.EndHour-d.StartHour)*60/SlotMinutes)
	for m := d.StartHour * 60; m < d.EndHour*60; m += SlotMinutes {
		slots = append(slots, slotFromMinutes(m))
	}
	return slots
}

// ResolveDoctor maps how people refer to a doctor ("ali", "Dr. Ali", "doctor sara") to a catalog id.
func (c *Catalog) ResolveDoctor(text string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, prefix := range []string{"dr.", "dr ", "doctor "} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	if s == "" {
		return "", false
	}
	if _, ok := c.byID[s]; ok {
		return s, true
	}
	for _, d := range c.doctors {
		name := strings.ToLower(d.Name)
		name = strings.TrimSpace(strings.TrimPrefix(name, "dr."))
		if name == s {
			return d.ID, true
		}
	}
	return "", false
}

// AvailabilitySummary describes every doctor's schedule, one line each.
func (c *Catalog) AvailabilitySummary() string {
	lines := make([]string, 0, len(c.doctors))
	for _, d := range c.doctors {
		lines = append(lines, fmt.Sprintf("%s (%s): %s %d:00-%d:00",
			d.Name, d.Specialty, strings.Join(d.Days, ", "), d.StartHour, d.EndHour))
	}
	return strings.Join(lines, "\n")
}

// DoctorNames lists display names, e.g. for "We have Dr. Ali, Dr. Sara available".
func (c *Catalog) DoctorNames() []string {
	names := make([]string, 0, len(c.doctors))
	for _, d := range c.doctors {
		names = append(names, d.Name)
	}
	return names
}

package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"medivoice/models"
)

// SlotMinutes is the width of the booking grid.
const SlotMinutes = 20

// ErrInvalidTimeFormat is returned when a time string matches none of the accepted forms.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// acceptedLayouts are tried in order after the input is upper-cased and stripped of periods.
var acceptedLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
	"15:04",
}

// TimeSlot is a time of day. The canonical text form is 24-hour "HH:MM".
type TimeSlot struct {
	Hour   int
	Minute int
}

// String returns the canonical "HH:MM" form.
func (t TimeSlot) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Kitchen returns the conversational "hh:mm AM/PM" form, e.g. "09:40 AM".
func (t TimeSlot) Kitchen() string {
	return time.Date(2025, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("03:04 PM")
}

// Minutes returns minutes since midnight.
func (t TimeSlot) Minutes() int {
	return t.Hour*60 + t.Minute
}

// OnGrid reports whether t falls on a 20-minute boundary.
func (t TimeSlot) OnGrid() bool {
	return t.Minute%SlotMinutes == 0
}

func slotFromMinutes(m int) TimeSlot {
	return TimeSlot{Hour: m / 60, Minute: m % 60}
}

// ParseSlot parses the canonical "HH:MM" form only.
func ParseSlot(s string) (TimeSlot, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return TimeSlot{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return TimeSlot{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// NormalizeTime converts spoken or typed times into a TimeSlot.
// Accepted: "10:00 AM", "10 am", "10:00am", "10:00 A.M.", "14:40". No fuzzy matching.
func NormalizeTime(input string) (TimeSlot, error) {
	s := strings.ToUpper(strings.ReplaceAll(input, ".", ""))
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return TimeSlot{}, fmt.Errorf("%w: empty", ErrInvalidTimeFormat)
	}
	for _, layout := range acceptedLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			return TimeSlot{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
		}
	}
	return TimeSlot{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, input)
}

// SlotViews renders slots for API payloads.
func SlotViews(slots []TimeSlot) []models.SlotView {
	views := make([]models.SlotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, models.SlotView{Time: s.String(), Display: s.Kitchen()})
	}
	return views
}

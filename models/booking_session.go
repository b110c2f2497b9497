package models

import "time"

// SessionState is the position of a booking conversation in its state machine.
type SessionState string

const (
	StateCollecting  SessionState = "COLLECTING"
	StateReadyToBook SessionState = "READY_TO_BOOK"
	StateBooked      SessionState = "BOOKED"
)

// Required booking fields, in the order they are asked for.
const (
	FieldPatientName      = "patient_name"
	FieldDoctorPreference = "doctor_preference"
	FieldDayPreference    = "day_preference"
	FieldTimePreference   = "time_preference"
)

// BookingContext accumulates what is known about a booking across conversation turns.
type BookingContext struct {
	PatientName      string   `json:"patient_name,omitempty"`
	DoctorPreference string   `json:"doctor_preference,omitempty"`
	DayPreference    string   `json:"day_preference,omitempty"`
	TimePreference   string   `json:"time_preference,omitempty"`
	Notes            []string `json:"notes,omitempty"`
}

// IsEmpty reports whether nothing has been collected yet.
func (c BookingContext) IsEmpty() bool {
	return c.PatientName == "" && c.DoctorPreference == "" && c.DayPreference == "" &&
		c.TimePreference == "" && len(c.Notes) == 0
}

// BookingFields is a partial update extracted from one user turn. Empty strings mean "not supplied".
type BookingFields struct {
	PatientName      string `json:"patient_name,omitempty"`
	DoctorPreference string `json:"doctor_preference,omitempty"`
	DayPreference    string `json:"day_preference,omitempty"`
	TimePreference   string `json:"time_preference,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// IsEmpty reports whether the update carries no information.
func (f BookingFields) IsEmpty() bool {
	return f.PatientName == "" && f.DoctorPreference == "" && f.DayPreference == "" &&
		f.TimePreference == "" && f.Notes == ""
}

// SessionSnapshot is the persisted form of a conversation between turns.
type SessionSnapshot struct {
	SessionID string         `json:"sessionId"`
	State     SessionState   `json:"state"`
	Context   BookingContext `json:"context"`
	History   []ChatMessage  `json:"history,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

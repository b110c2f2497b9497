package models

import "time"

// Appointment represents a committed booking. It is never mutated after creation.
type Appointment struct {
	ID          string    `bson:"id" json:"id"`                           // Unique appointment identifier (UUID)
	PatientName string    `bson:"patient_name" json:"patient_name"`       // Free text, non-empty
	DoctorID    string    `bson:"doctor_id" json:"doctor_id"`             // Catalog doctor id
	Day         string    `bson:"day" json:"day"`                         // Lowercase weekday name
	Slot        string    `bson:"slot" json:"slot"`                       // Canonical 24-hour "HH:MM"
	SlotDisplay string    `bson:"slot_display" json:"slot_display"`       // "hh:mm AM/PM" rendering of Slot
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"` // Notes gathered during the conversation
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

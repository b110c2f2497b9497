package models

// ReminderPayload is the task body of an appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	PatientName   string `json:"patientName"`
	DoctorID      string `json:"doctorId"`
	DoctorName    string `json:"doctorName"`
	Day           string `json:"day"`
	Slot          string `json:"slot"`
	FireDate      string `json:"fireDate"` // RFC3339
}

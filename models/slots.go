package models

// SlotView is a bookable slot as presented to clients.
type SlotView struct {
	Time    string `json:"time"`    // canonical "HH:MM"
	Display string `json:"display"` // "hh:mm AM/PM"
}

// DoctorSlots lists the open slots of one doctor on one weekday.
type DoctorSlots struct {
	DoctorID string     `json:"doctorId"`
	Day      string     `json:"day"`
	Slots    []SlotView `json:"slots"`
}

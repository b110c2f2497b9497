package ai

import (
	"errors"
	"fmt"
	"strings"

	"medivoice/models"
	"medivoice/services/booking"
	"medivoice/services/catalog"
)

const (
	GreetingText     = "Hello! I'm your AI appointment scheduling assistant. How can I help you today?"
	FarewellText     = "Thank you for using our appointment system. Have a great day!"
	notHeardText     = "I'm sorry, I didn't catch that. Could you say it again?"
	interpretErrText = "I'm sorry, I had trouble understanding that."
	bookingErrText   = "I'm sorry, there was an issue booking your appointment. Please try again."
	readyText        = "I have everything I need. Shall I book it?"
)

func confirmationText(cat *catalog.Catalog, appt *models.Appointment) string {
	name := appt.DoctorID
	if d, err := cat.GetDoctor(appt.DoctorID); err == nil {
		name = d.Name
	}
	return fmt.Sprintf("Perfect! I've booked your appointment with %s on %s at %s. "+
		"Please arrive 15 minutes early. Is there anything else I can help you with?",
		name, catalog.TitleDay(appt.Day), appt.SlotDisplay)
}

// failureText renders a failed booking attempt as something that can be spoken back.
func failureText(err error, bctx models.BookingContext) string {
	var be *booking.Error
	if !errors.As(err, &be) {
		return bookingErrText
	}
	switch be.Kind {
	case booking.KindInvalidTimeFormat:
		return fmt.Sprintf("I couldn't understand the time '%s'. Could you please specify a time like '10:00 AM' or '2:30 PM'?", bctx.TimePreference)
	case booking.KindDoctorNotAvailableThatDay:
		return fmt.Sprintf("I'm sorry, %s.", be.Message)
	case booking.KindSlotUnavailable:
		if len(be.Alternatives) == 0 {
			return fmt.Sprintf("I'm sorry, %s.", be.Message)
		}
		requested := bctx.TimePreference
		if slot, err := catalog.NormalizeTime(requested); err == nil {
			requested = slot.Kitchen()
		}
		times := make([]string, 0, len(be.Alternatives))
		for _, alt := range be.Alternatives {
			times = append(times, alt.Kitchen())
		}
		return fmt.Sprintf("I'm sorry, %s is not available. Here are some available times: %s. Would you like one of these instead?",
			requested, strings.Join(times, ", "))
	case booking.KindIncompleteContext:
		if len(be.Missing) > 0 {
			return fmt.Sprintf("I still need your %s before I can book.", humanFields(be.Missing))
		}
		return "Please confirm the booking details before I try again."
	case booking.KindNotFound:
		return "I'm sorry, I couldn't find that doctor."
	}
	return bookingErrText
}

// missingHint nudges the caller towards the first missing field unless the reply already does.
func missingHint(reply string, bctx models.BookingContext, cat *catalog.Catalog) string {
	lower := strings.ToLower(reply)
	switch {
	case bctx.PatientName == "":
		if !strings.Contains(lower, "name") {
			return " Could you please tell me your name?"
		}
	case bctx.DoctorPreference == "":
		if !strings.Contains(lower, "doctor") {
			return fmt.Sprintf(" We have %s available.", strings.Join(cat.DoctorNames(), ", "))
		}
	case bctx.DayPreference == "":
		if d, err := cat.GetDoctor(bctx.DoctorPreference); err == nil {
			return fmt.Sprintf(" %s is available on %s.", d.Name, strings.Join(d.Days, ", "))
		}
	case bctx.TimePreference == "":
		if !strings.Contains(lower, "time") {
			return " What time would suit you, for example 10:00 AM?"
		}
	}
	return ""
}

func rejectedText(rejected []string) string {
	var parts []string
	for _, field := range rejected {
		switch field {
		case models.FieldDoctorPreference:
			parts = append(parts, "I couldn't find that doctor.")
		case models.FieldDayPreference:
			parts = append(parts, "I didn't recognise that day.")
		}
	}
	return strings.Join(parts, " ")
}

var fieldLabels = map[string]string{
	models.FieldPatientName:      "name",
	models.FieldDoctorPreference: "preferred doctor",
	models.FieldDayPreference:    "preferred day",
	models.FieldTimePreference:   "preferred time",
}

func humanFields(fields []string) string {
	labels := make([]string, 0, len(fields))
	for _, f := range fields {
		if l, ok := fieldLabels[f]; ok {
			labels = append(labels, l)
		} else {
			labels = append(labels, f)
		}
	}
	if len(labels) <= 1 {
		return strings.Join(labels, "")
	}
	return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
}

// errorDetail converts a booking failure for API callers.
func errorDetail(err error) *models.ErrorDetail {
	var be *booking.Error
	if !errors.As(err, &be) {
		return &models.ErrorDetail{Kind: "Internal", Message: "booking could not be completed"}
	}
	return &models.ErrorDetail{
		Kind:         string(be.Kind),
		Message:      be.Message,
		Alternatives: catalog.SlotViews(be.Alternatives),
		Missing:      be.Missing,
	}
}

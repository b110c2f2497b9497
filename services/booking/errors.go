package booking

import (
	"errors"
	"fmt"

	appointmentRepo "medivoice/database/repository/appointment"
	"medivoice/services/catalog"
)

// ErrorKind classifies why a booking operation did not succeed.
type ErrorKind string

const (
	KindNotFound                  ErrorKind = "NotFound"
	KindInvalidTimeFormat         ErrorKind = "InvalidTimeFormat"
	KindDoctorNotAvailableThatDay ErrorKind = "DoctorNotAvailableThatDay"
	KindSlotUnavailable           ErrorKind = "SlotUnavailable"
	KindDuplicateSlot             ErrorKind = "DuplicateSlot"
	KindIncompleteContext         ErrorKind = "IncompleteContext"
)

// Error carries the kind plus the structured detail a caller needs to re-prompt.
type Error struct {
	Kind         ErrorKind
	Message      string
	Alternatives []catalog.TimeSlot // SlotUnavailable only
	Missing      []string           // IncompleteContext only
	Err          error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound                  = &Error{Kind: KindNotFound}
	ErrInvalidTimeFormat         = &Error{Kind: KindInvalidTimeFormat}
	ErrDoctorNotAvailableThatDay = &Error{Kind: KindDoctorNotAvailableThatDay}
	ErrSlotUnavailable           = &Error{Kind: KindSlotUnavailable}
	ErrIncompleteContext         = &Error{Kind: KindIncompleteContext}

	// ErrDuplicateSlot is the store-level uniqueness violation.
	ErrDuplicateSlot = appointmentRepo.ErrDuplicateSlot
)

// KindOf extracts the error kind, mapping store and catalog sentinels as well.
func KindOf(err error) (ErrorKind, bool) {
	var be *Error
	switch {
	case err == nil:
		return "", false
	case errors.As(err, &be):
		return be.Kind, true
	case errors.Is(err, appointmentRepo.ErrDuplicateSlot):
		return KindDuplicateSlot, true
	case errors.Is(err, catalog.ErrDoctorNotFound):
		return KindNotFound, true
	case errors.Is(err, catalog.ErrInvalidTimeFormat):
		return KindInvalidTimeFormat, true
	}
	return "", false
}

package booking

import (
	"context"
	"errors"
	"strings"

	"medivoice/models"
	"medivoice/services/catalog"
)

// Session is the slot-filling state machine of one conversation.
// A Session is not safe for concurrent use; each conversation owns its own.
type Session struct {
	scheduler *Scheduler
	state     models.SessionState
	bctx      models.BookingContext
}

// UpdateResult reports the state after an update plus what still needs asking.
type UpdateResult struct {
	State    models.SessionState
	Missing  []string
	Rejected []string
}

// NewSession starts an empty session in COLLECTING.
func NewSession(scheduler *Scheduler) *Session {
	return &Session{scheduler: scheduler, state: models.StateCollecting}
}

// RestoreSession rebuilds a session from a persisted snapshot.
func RestoreSession(scheduler *Scheduler, state models.SessionState, bctx models.BookingContext) *Session {
	s := &Session{scheduler: scheduler, state: state, bctx: cloneContext(bctx)}
	switch state {
	case models.StateCollecting, models.StateReadyToBook, models.StateBooked:
	default:
		s.state = models.StateCollecting
	}
	return s
}

// State returns the current state.
func (s *Session) State() models.SessionState {
	return s.state
}

// Context returns a copy of the accumulated booking context.
func (s *Session) Context() models.BookingContext {
	return cloneContext(s.bctx)
}

// Missing lists required fields that are still empty, in the order they should be asked for.
func (s *Session) Missing() []string {
	return MissingFields(s.bctx)
}

// UpdateContext merges newly extracted fields. A field is only overwritten by a
// non-empty value that passes validation; invalid values are reported as rejected.
// An update in which nothing is accepted changes nothing, state included.
func (s *Session) UpdateContext(fields models.BookingFields) UpdateResult {
	fields = trimFields(fields)

	var rejected []string
	if fields.DoctorPreference != "" {
		if id, ok := s.scheduler.Catalog.ResolveDoctor(fields.DoctorPreference); ok {
			fields.DoctorPreference = id
		} else {
			fields.DoctorPreference = ""
			rejected = append(rejected, models.FieldDoctorPreference)
		}
	}
	if fields.DayPreference != "" {
		if day, ok := catalog.NormalizeWeekday(fields.DayPreference); ok {
			fields.DayPreference = day
		} else {
			fields.DayPreference = ""
			rejected = append(rejected, models.FieldDayPreference)
		}
	}
	if fields.IsEmpty() {
		return UpdateResult{State: s.state, Missing: s.Missing(), Rejected: rejected}
	}

	if s.state == models.StateBooked {
		s.bctx = models.BookingContext{}
	}
	if fields.PatientName != "" {
		s.bctx.PatientName = fields.PatientName
	}
	if fields.DoctorPreference != "" {
		s.bctx.DoctorPreference = fields.DoctorPreference
	}
	if fields.DayPreference != "" {
		s.bctx.DayPreference = fields.DayPreference
	}
	if fields.TimePreference != "" {
		s.bctx.TimePreference = fields.TimePreference
	}
	if fields.Notes != "" {
		s.bctx.Notes = append(s.bctx.Notes, fields.Notes)
	}

	s.state = models.StateCollecting
	if len(s.Missing()) == 0 {
		s.state = models.StateReadyToBook
	}
	return UpdateResult{State: s.state, Missing: s.Missing(), Rejected: rejected}
}

// AttemptBooking tries to commit the collected booking. A booking error returns the
// session to COLLECTING with its context untouched; any other error (the store being
// unreachable) leaves it READY_TO_BOOK so the same booking can be retried. On success
// it becomes BOOKED and the context is cleared.
func (s *Session) AttemptBooking(ctx context.Context) (*models.Appointment, error) {
	if s.state != models.StateReadyToBook {
		s.state = models.StateCollecting
		missing := s.Missing()
		msg := "missing " + strings.Join(missing, ", ")
		if len(missing) == 0 {
			msg = "booking details must be updated before trying again"
		}
		return nil, &Error{Kind: KindIncompleteContext, Message: msg, Missing: missing}
	}

	appt, err := s.scheduler.Book(ctx, s.bctx)
	if err != nil {
		var be *Error
		if errors.As(err, &be) {
			s.state = models.StateCollecting
		}
		return nil, err
	}

	s.state = models.StateBooked
	s.bctx = models.BookingContext{}
	return appt, nil
}

// Reset discards everything collected so far, e.g. when the conversation ends.
func (s *Session) Reset() {
	s.state = models.StateCollecting
	s.bctx = models.BookingContext{}
}

// MissingFields lists the required fields absent from bctx.
func MissingFields(bctx models.BookingContext) []string {
	var missing []string
	if bctx.PatientName == "" {
		missing = append(missing, models.FieldPatientName)
	}
	if bctx.DoctorPreference == "" {
		missing = append(missing, models.FieldDoctorPreference)
	}
	if bctx.DayPreference == "" {
		missing = append(missing, models.FieldDayPreference)
	}
	if bctx.TimePreference == "" {
		missing = append(missing, models.FieldTimePreference)
	}
	return missing
}

func trimFields(f models.BookingFields) models.BookingFields {
	return models.BookingFields{
		PatientName:      strings.TrimSpace(f.PatientName),
		DoctorPreference: strings.TrimSpace(f.DoctorPreference),
		DayPreference:    strings.TrimSpace(f.DayPreference),
		TimePreference:   strings.TrimSpace(f.TimePreference),
		Notes:            strings.TrimSpace(f.Notes),
	}
}

func cloneContext(c models.BookingContext) models.BookingContext {
	c.Notes = append([]string(nil), c.Notes...)
	return c
}

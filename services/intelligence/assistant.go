package ai

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"sync"
	"time"

	"medivoice/models"
	"medivoice/services/booking"
	"medivoice/services/catalog"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxHistory is how many chat messages a session keeps for the language model.
const MaxHistory = 10

const lockStripes = 64

var (
	exitWords   = map[string]bool{"exit": true, "quit": true, "goodbye": true, "bye": true}
	bareNameRe  = regexp.MustCompile(`^[A-Za-z][A-Za-z'\-]*(?:\s+[A-Za-z][A-Za-z'\-]*){0,2}$`)
	notANameSet = map[string]bool{
		"yes": true, "no": true, "yeah": true, "nope": true, "ok": true, "okay": true, "hi": true,
		"hello": true, "hey": true, "thanks": true, "sure": true, "please": true, "help": true,
	}
)

// Assistant drives booking conversations: it loads the caller's session, interprets
// each utterance, advances the booking state machine and renders a reply.
type Assistant struct {
	scheduler   *booking.Scheduler
	interpreter Interpreter
	store       ContextStore
	logger      *zap.Logger
	locks       [lockStripes]sync.Mutex
	now         func() time.Time
}

func NewAssistant(scheduler *booking.Scheduler, interpreter Interpreter, store ContextStore, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		scheduler:   scheduler,
		interpreter: interpreter,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}
}

// lock serialises all work on one session id.
func (a *Assistant) lock(sessionID string) func() {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	m := &a.locks[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}

// StartSession opens a new conversation and returns the greeting.
func (a *Assistant) StartSession(ctx context.Context) (*models.SessionResponse, error) {
	snap := &models.SessionSnapshot{
		SessionID: uuid.NewString(),
		State:     models.StateCollecting,
	}
	snap.History = appendHistory(nil, models.RoleAssistant, GreetingText)
	snap.UpdatedAt = a.now().UTC()
	if err := a.store.Set(ctx, snap); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	a.logger.Info("Booking session started", zap.String("sessionID", snap.SessionID))

	sess := booking.NewSession(a.scheduler)
	resp := a.response(snap.SessionID, sess)
	resp.Reply = GreetingText
	return resp, nil
}

// GetSession returns the current state of a conversation without changing it.
func (a *Assistant) GetSession(ctx context.Context, sessionID string) (*models.SessionResponse, error) {
	unlock := a.lock(sessionID)
	defer unlock()

	_, sess, err := a.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return a.response(sessionID, sess), nil
}

// ProcessUserInput handles one utterance of a conversation.
func (a *Assistant) ProcessUserInput(ctx context.Context, req models.AIRequest) (*models.SessionResponse, error) {
	unlock := a.lock(req.SessionID)
	defer unlock()

	snap, sess, err := a.load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		resp := a.response(snap.SessionID, sess)
		resp.Reply = notHeardText
		return resp, nil
	}

	if isExit(text) {
		if err := a.store.Clear(ctx, snap.SessionID); err != nil {
			return nil, fmt.Errorf("clear session: %w", err)
		}
		sess.Reset()
		a.logger.Info("Booking session ended by user", zap.String("sessionID", snap.SessionID))
		resp := a.response(snap.SessionID, sess)
		resp.Reply = FarewellText
		resp.Ended = true
		return resp, nil
	}

	priorHistory := snap.History
	snap.History = appendHistory(snap.History, models.RoleUser, text)

	fields, err := a.interpreter.ExtractFields(ctx, text)
	if err != nil {
		a.logger.Warn("Field extraction failed", zap.String("sessionID", snap.SessionID), zap.Error(err))
		fields = models.BookingFields{}
	}
	if fields.IsEmpty() && sess.Context().PatientName == "" && askedForName(priorHistory) && looksLikeBareName(text) {
		fields.PatientName = titleName(text)
	}

	update := sess.UpdateContext(fields)
	resp := a.response(snap.SessionID, sess)
	resp.Rejected = update.Rejected

	if update.State == models.StateReadyToBook {
		pending := sess.Context()
		appt, err := sess.AttemptBooking(ctx)
		resp = a.bookingResponse(snap.SessionID, sess, pending, appt, err)
	} else {
		reply, err := a.interpreter.Respond(ctx, text, sess.Context(), priorHistory)
		if err != nil {
			a.logger.Warn("Reply generation failed", zap.String("sessionID", snap.SessionID), zap.Error(err))
			reply = interpretErrText
		}
		if r := rejectedText(update.Rejected); r != "" {
			reply = strings.TrimSpace(reply + " " + r)
		}
		resp.Reply = reply + missingHint(reply, sess.Context(), a.scheduler.Catalog)
	}

	snap.History = appendHistory(snap.History, models.RoleAssistant, resp.Reply)
	if err := a.save(ctx, snap, sess); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateFields applies structured fields to a conversation, bypassing interpretation.
func (a *Assistant) UpdateFields(ctx context.Context, sessionID string, fields models.BookingFields) (*models.SessionResponse, error) {
	unlock := a.lock(sessionID)
	defer unlock()

	snap, sess, err := a.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	update := sess.UpdateContext(fields)
	resp := a.response(sessionID, sess)
	resp.Rejected = update.Rejected
	if update.State == models.StateReadyToBook {
		resp.Reply = readyText
	} else {
		resp.Reply = strings.TrimSpace(rejectedText(update.Rejected) + missingHint("", sess.Context(), a.scheduler.Catalog))
	}

	if err := a.save(ctx, snap, sess); err != nil {
		return nil, err
	}
	return resp, nil
}

// Book attempts to commit the conversation's booking. Booking failures are reported
// in the response; only infrastructure failures are returned as errors.
func (a *Assistant) Book(ctx context.Context, sessionID string) (*models.SessionResponse, error) {
	unlock := a.lock(sessionID)
	defer unlock()

	snap, sess, err := a.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	pending := sess.Context()
	appt, err := sess.AttemptBooking(ctx)
	var be *booking.Error
	if err != nil && !errors.As(err, &be) {
		if saveErr := a.save(ctx, snap, sess); saveErr != nil {
			a.logger.Error("Failed to save session", zap.String("sessionID", sessionID), zap.Error(saveErr))
		}
		return nil, err
	}
	resp := a.bookingResponse(sessionID, sess, pending, appt, err)
	if err := a.save(ctx, snap, sess); err != nil {
		return nil, err
	}
	return resp, nil
}

// EndSession discards a conversation.
func (a *Assistant) EndSession(ctx context.Context, sessionID string) error {
	unlock := a.lock(sessionID)
	defer unlock()

	if _, err := a.store.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := a.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	a.logger.Info("Booking session ended", zap.String("sessionID", sessionID))
	return nil
}

func (a *Assistant) bookingResponse(sessionID string, sess *booking.Session, pending models.BookingContext, appt *models.Appointment, err error) *models.SessionResponse {
	resp := a.response(sessionID, sess)
	if err != nil {
		a.logger.Info("Booking attempt failed", zap.String("sessionID", sessionID), zap.Error(err))
		resp.Reply = failureText(err, pending)
		resp.Error = errorDetail(err)
		return resp
	}
	resp.Appointment = appt
	resp.Reply = confirmationText(a.scheduler.Catalog, appt)
	return resp
}

func (a *Assistant) response(sessionID string, sess *booking.Session) *models.SessionResponse {
	resp := &models.SessionResponse{
		SessionID: sessionID,
		State:     sess.State(),
		Context:   sess.Context(),
	}
	if sess.State() != models.StateBooked {
		resp.Missing = sess.Missing()
	}
	return resp
}

func (a *Assistant) load(ctx context.Context, sessionID string) (*models.SessionSnapshot, *booking.Session, error) {
	if sessionID == "" {
		return nil, nil, ErrSessionNotFound
	}
	snap, err := a.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return snap, booking.RestoreSession(a.scheduler, snap.State, snap.Context), nil
}

func (a *Assistant) save(ctx context.Context, snap *models.SessionSnapshot, sess *booking.Session) error {
	snap.State = sess.State()
	snap.Context = sess.Context()
	snap.UpdatedAt = a.now().UTC()
	if err := a.store.Set(ctx, snap); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func appendHistory(history []models.ChatMessage, role, content string) []models.ChatMessage {
	history = append(history, models.ChatMessage{Role: role, Content: content})
	if len(history) > MaxHistory {
		history = append([]models.ChatMessage(nil), history[len(history)-MaxHistory:]...)
	}
	return history
}

func isExit(text string) bool {
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if exitWords[w] {
			return true
		}
	}
	return false
}

func askedForName(history []models.ChatMessage) bool {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == models.RoleAssistant {
			return strings.Contains(strings.ToLower(history[i].Content), "name")
		}
	}
	return false
}

func looksLikeBareName(text string) bool {
	text = strings.TrimRight(strings.TrimSpace(text), ".!")
	if !bareNameRe.MatchString(text) {
		return false
	}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if notANameSet[w] || nameStopWords[w] || exitWords[w] {
			return false
		}
		if _, ok := catalog.NormalizeWeekday(w); ok {
			return false
		}
	}
	return true
}

func titleName(text string) string {
	words := strings.Fields(strings.TrimRight(strings.TrimSpace(text), ".!"))
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

package flow

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/BTreeMap/BookFlow/internal/models"
	"github.com/BTreeMap/BookFlow/internal/recognizer"
)

// Fixed conversation prompts.
const (
	msgGreeting      = "Hello and welcome to BookFlow! What is your name?"
	msgAskAge        = "How old are you?"
	msgAskDate       = "When would you like to come in for your appointment?"
	msgFallbackRetry = "I'm sorry, I didn't understand that. Please try again."
	msgBookAgain     = "Say anything to make another booking."
)

// Engine drives the booking conversation. It is a pure function of
// (flow state, profile, input): every call receives the current values and
// returns updated ones for the caller to persist, so the engine holds no
// per-conversation state and is safe to share across conversations.
type Engine struct {
	numbers recognizer.NumberRecognizer
	dates   recognizer.DateTimeRecognizer
	locale  string
	now     func() time.Time
}

// EngineOption defines a configuration option for the booking engine.
type EngineOption func(*Engine)

// WithLocale sets the locale tag passed to the recognizers.
func WithLocale(locale string) EngineOption {
	return func(e *Engine) { e.locale = locale }
}

// WithClock overrides the engine's notion of the current time (for tests).
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a booking engine backed by the given recognizers.
func NewEngine(numbers recognizer.NumberRecognizer, dates recognizer.DateTimeRecognizer, opts ...EngineOption) *Engine {
	e := &Engine{
		numbers: numbers,
		dates:   dates,
		locale:  recognizer.LocaleEnglish,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Advance processes one conversation turn. It dispatches the input to the
// validator matching the last question asked; success stores the slot value
// and moves to the next question, failure re-asks the same question. The
// machine is cyclic: once the date slot succeeds it resets to StateNone and
// replaces the profile with a fresh empty one, ready for another booking.
//
// The returned message sequence is the only observable effect; all mutation
// is confined to the returned state and profile values.
func (e *Engine) Advance(state models.StateType, profile models.UserProfile, input string) ([]string, models.StateType, models.UserProfile) {
	slog.Debug("Engine advancing turn", "state", state, "input_length", len(input))

	switch state {
	case models.StateNone, "":
		// First turn of a cycle: the input is ignored.
		return []string{msgGreeting}, models.StateName, profile

	case models.StateName:
		name, rej := validateName(input)
		if rej != nil {
			slog.Debug("Engine name slot rejected", "reason", rej.Reason)
			return []string{rejectionMessage(rej)}, state, profile
		}
		profile.Name = name
		profile.UpdatedAt = e.now()
		return []string{
			fmt.Sprintf("Hi %s, nice to meet you!", name),
			msgAskAge,
		}, models.StateAge, profile

	case models.StateAge:
		age, rej := e.validateAge(input)
		if rej != nil {
			slog.Debug("Engine age slot rejected", "reason", rej.Reason)
			return []string{rejectionMessage(rej)}, state, profile
		}
		profile.Age = age
		profile.UpdatedAt = e.now()
		return []string{
			fmt.Sprintf("Thanks %s, I have your age as %d.", profile.Name, age),
			msgAskDate,
		}, models.StateDate, profile

	case models.StateDate:
		date, rej := e.validateDate(input)
		if rej != nil {
			slog.Debug("Engine date slot rejected", "reason", rej.Reason)
			return []string{rejectionMessage(rej)}, state, profile
		}
		profile.Date = date
		messages := []string{
			fmt.Sprintf("Your appointment is booked for %s.", date),
			fmt.Sprintf("Thanks for completing the booking, %s!", profile.Name),
			msgBookAgain,
		}
		slog.Info("Engine booking cycle completed", "participant", profile.ParticipantID, "date", date)
		// Fresh profile for the next cycle; only the participant identity
		// survives, it belongs to the hosting layer, not to the slots.
		fresh := models.UserProfile{ParticipantID: profile.ParticipantID, CreatedAt: e.now(), UpdatedAt: e.now()}
		return messages, models.StateNone, fresh

	default:
		slog.Warn("Engine encountered unknown flow state, restarting cycle", "state", state)
		return []string{msgGreeting}, models.StateName, profile
	}
}

// rejectionMessage returns the validator's message, or the generic re-prompt
// when the validator supplied none.
func rejectionMessage(rej *models.Rejection) string {
	if rej.Message == "" {
		return msgFallbackRetry
	}
	return rej.Message
}

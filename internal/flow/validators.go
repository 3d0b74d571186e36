// Package flow implements the booking conversation: the slot validators and
// the state machine that drives them.
package flow

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/BTreeMap/BookFlow/internal/models"
	"github.com/BTreeMap/BookFlow/internal/recognizer"
)

// dateDisplayLayout is the short day/month/year form stored in the profile
// and echoed back in the booking confirmation.
const dateDisplayLayout = "02/01/2006"

// MinimumLeadTime is how far in the future an appointment must be.
const MinimumLeadTime = time.Hour

// User-facing rejection messages. The name slot deliberately carries none so
// the controller's generic fallback is used.
var (
	msgAgeUnrecognized = fmt.Sprintf("I couldn't find a number in there. Please enter your age, in numbers or words, between %d and %d.", models.MinAge, models.MaxAge)
	msgAgeOutOfRange   = fmt.Sprintf("Please enter an age between %d and %d.", models.MinAge, models.MaxAge)
	msgDateTooSoon     = "I'm sorry, please enter a date and time for your appointment, like \"tomorrow at 9am\" or \"2030-01-02 15:00\", at least one hour from now."
	msgDateUnreadable  = "I'm sorry, I couldn't read that as a date. Try a date and time like \"tomorrow at 9am\" or \"2030-01-02 15:00\", at least one hour from now."
)

// validateName accepts any input with at least one non-whitespace character
// and returns it trimmed, otherwise verbatim.
func validateName(input string) (string, *models.Rejection) {
	name := strings.TrimSpace(input)
	if name == "" {
		return "", &models.Rejection{Reason: models.RejectionEmptyInput}
	}
	return name, nil
}

// validateAge runs number recognition over the input and accepts the first
// candidate whose integer value falls within [MinAge, MaxAge] inclusive.
// Candidates are evaluated in the recognizer's native order.
func (e *Engine) validateAge(input string) (int, *models.Rejection) {
	resolutions, err := e.numbers.RecognizeNumbers(e.locale, input)
	if err != nil {
		slog.Debug("Age validation recognizer error", "error", err)
		return 0, &models.Rejection{Reason: models.RejectionRecognitionFailure, Message: msgAgeUnrecognized}
	}
	if len(resolutions) == 0 {
		return 0, &models.Rejection{Reason: models.RejectionUnrecognizedNumber, Message: msgAgeUnrecognized}
	}

	for _, res := range resolutions {
		value, err := strconv.ParseFloat(res.Value, 64)
		if err != nil {
			slog.Debug("Age validation conversion failure", "value", res.Value, "error", err)
			return 0, &models.Rejection{Reason: models.RejectionRecognitionFailure, Message: msgAgeUnrecognized}
		}
		age := int(value)
		if age >= models.MinAge && age <= models.MaxAge {
			return age, nil
		}
	}
	return 0, &models.Rejection{Reason: models.RejectionNumberOutOfRange, Message: msgAgeOutOfRange}
}

// validateDate runs date-time recognition over the input and accepts the
// first candidate — its value, or its range start — that lies strictly more
// than MinimumLeadTime in the future. The accepted instant is reduced to a
// calendar date; time of day is discarded.
func (e *Engine) validateDate(input string) (string, *models.Rejection) {
	now := e.now()
	resolutions, err := e.dates.RecognizeDateTime(e.locale, input, now)
	if err != nil {
		slog.Debug("Date validation recognizer error", "error", err)
		return "", &models.Rejection{Reason: models.RejectionRecognitionFailure, Message: msgDateUnreadable}
	}
	if len(resolutions) == 0 {
		return "", &models.Rejection{Reason: models.RejectionUnrecognizedDate, Message: msgDateTooSoon}
	}

	earliest := now.Add(MinimumLeadTime)
	for _, res := range resolutions {
		candidate := res.Value
		if candidate == "" {
			candidate = res.Start
		}
		if candidate == "" {
			continue
		}
		t, err := time.ParseInLocation(recognizer.DateTimeLayout, candidate, now.Location())
		if err != nil {
			slog.Debug("Date validation parse failure", "candidate", candidate, "error", err)
			return "", &models.Rejection{Reason: models.RejectionRecognitionFailure, Message: msgDateUnreadable}
		}
		if t.After(earliest) {
			return t.Format(dateDisplayLayout), nil
		}
	}
	return "", &models.Rejection{Reason: models.RejectionDateTooSoon, Message: msgDateTooSoon}
}

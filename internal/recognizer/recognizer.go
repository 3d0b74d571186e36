// Package recognizer provides the text-understanding collaborators used by the
// booking flow validators: a number recognizer and a date-time recognizer.
//
// Both take a locale tag and raw text and return zero or more resolution
// records in the order they were found. The flow depends only on this shape;
// how a recognizer arrives at its candidates is its own business.
package recognizer

import "time"

// DateTimeLayout is the wire layout for resolved date-time values. Validators
// parse resolution values back with this layout.
const DateTimeLayout = "2006-01-02 15:04:05"

// LocaleEnglish is the default locale tag for the English recognizers.
const LocaleEnglish = "en-US"

// NumberResolution is one numeric candidate extracted from input text.
type NumberResolution struct {
	Text  string `json:"text"`  // the matched span of input
	Value string `json:"value"` // resolved numeric value as decimal text
}

// DateTimeResolution is one temporal candidate extracted from input text.
// Value is set for single instants; Start and End are set for ranges. All
// three use DateTimeLayout.
type DateTimeResolution struct {
	Text  string `json:"text"`
	Value string `json:"value,omitempty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// NumberRecognizer extracts numeric candidates from free text.
type NumberRecognizer interface {
	RecognizeNumbers(locale, text string) ([]NumberResolution, error)
}

// DateTimeRecognizer extracts date-time candidates from free text, resolving
// relative expressions ("tomorrow at 5pm") against the given reference time.
type DateTimeRecognizer interface {
	RecognizeDateTime(locale, text string, ref time.Time) ([]DateTimeResolution, error)
}

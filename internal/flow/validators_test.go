package flow

import (
	"testing"
	"time"

	"github.com/BTreeMap/BookFlow/internal/models"
	"github.com/BTreeMap/BookFlow/internal/recognizer"
)

// testClock is the fixed reference time used across flow tests.
var testClock = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	numbers, err := recognizer.NewEnglishNumbers()
	if err != nil {
		t.Fatalf("failed to create number recognizer: %v", err)
	}
	dates := recognizer.NewNaturalDateTime()
	return NewEngine(numbers, dates, WithClock(func() time.Time { return testClock }))
}

func TestValidateName(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		want     string
		rejected bool
	}{
		{"plain name", "Ada", "Ada", false},
		{"trims whitespace", "  Tomaž  ", "Tomaž", false},
		{"interior spacing kept", "Mary Jane", "Mary Jane", false},
		{"empty", "", "", true},
		{"whitespace only", "   \t ", "", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, rej := validateName(c.input)
			if c.rejected {
				if rej == nil {
					t.Fatalf("validateName(%q) should be rejected", c.input)
				}
				if rej.Reason != models.RejectionEmptyInput {
					t.Errorf("rejection reason = %q, want %q", rej.Reason, models.RejectionEmptyInput)
				}
				if rej.Message != "" {
					t.Errorf("name rejection should carry no message, got %q", rej.Message)
				}
				return
			}
			if rej != nil {
				t.Fatalf("validateName(%q) rejected: %+v", c.input, rej)
			}
			if got != c.want {
				t.Errorf("validateName(%q) = %q, want %q", c.input, got, c.want)
			}
		})
	}
}

func TestValidateAge(t *testing.T) {
	e := newTestEngine(t)

	cases := []struct {
		name   string
		input  string
		want   int
		reason models.RejectionReason
	}{
		{"lower bound inclusive", "18", 18, ""},
		{"upper bound inclusive", "120", 120, ""},
		{"below range", "17", 0, models.RejectionNumberOutOfRange},
		{"above range", "121", 0, models.RejectionNumberOutOfRange},
		{"embedded in sentence", "I am 25 years old", 25, ""},
		{"number words", "twenty five", 25, ""},
		{"first in-range candidate wins", "5 or 30", 30, ""},
		{"gibberish", "purple monkey", 0, models.RejectionUnrecognizedNumber},
		{"empty", "", 0, models.RejectionUnrecognizedNumber},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, rej := e.validateAge(c.input)
			if c.reason != "" {
				if rej == nil {
					t.Fatalf("validateAge(%q) should be rejected", c.input)
				}
				if rej.Reason != c.reason {
					t.Errorf("rejection reason = %q, want %q", rej.Reason, c.reason)
				}
				return
			}
			if rej != nil {
				t.Fatalf("validateAge(%q) rejected: %+v", c.input, rej)
			}
			if got != c.want {
				t.Errorf("validateAge(%q) = %d, want %d", c.input, got, c.want)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	e := newTestEngine(t)

	cases := []struct {
		name   string
		input  string
		want   string
		reason models.RejectionReason
	}{
		{"well past the lead time", "2026-03-10 14:00", "10/03/2026", ""},
		{"future date without time", "2030-01-02", "02/01/2030", ""},
		{"natural language", "tomorrow at 5pm", "11/03/2026", ""},
		{"range uses its start", "2026-03-12 09:00 to 2026-03-12 11:00", "12/03/2026", ""},
		{"within lead time", "2026-03-10 12:30", "", models.RejectionDateTooSoon},
		{"exactly at lead time boundary", "2026-03-10 13:00", "", models.RejectionDateTooSoon},
		{"in the past", "2020-01-01", "", models.RejectionDateTooSoon},
		{"gibberish", "purple monkey", "", models.RejectionUnrecognizedDate},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, rej := e.validateDate(c.input)
			if c.reason != "" {
				if rej == nil {
					t.Fatalf("validateDate(%q) should be rejected", c.input)
				}
				if rej.Reason != c.reason {
					t.Errorf("rejection reason = %q, want %q", rej.Reason, c.reason)
				}
				if rej.Message == "" {
					t.Error("date rejection should carry a user-facing message")
				}
				return
			}
			if rej != nil {
				t.Fatalf("validateDate(%q) rejected: %+v", c.input, rej)
			}
			if got != c.want {
				t.Errorf("validateDate(%q) = %q, want %q", c.input, got, c.want)
			}
		})
	}
}

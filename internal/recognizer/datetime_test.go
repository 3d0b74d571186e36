package recognizer

import (
	"errors"
	"testing"
	"time"

	"github.com/BTreeMap/BookFlow/internal/models"
)

var refTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestRecognizeDateTimeNaturalLanguage(t *testing.T) {
	r := NewNaturalDateTime()

	resolutions, err := r.RecognizeDateTime(LocaleEnglish, "tomorrow", refTime)
	if err != nil {
		t.Fatalf("RecognizeDateTime error: %v", err)
	}
	if len(resolutions) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(resolutions))
	}

	resolved, err := time.ParseInLocation(DateTimeLayout, resolutions[0].Value, time.UTC)
	if err != nil {
		t.Fatalf("candidate value %q does not match layout: %v", resolutions[0].Value, err)
	}
	if resolved.Year() != 2026 || resolved.Month() != time.March || resolved.Day() != 11 {
		t.Errorf("tomorrow resolved to %v, want 2026-03-11", resolved)
	}
}

func TestRecognizeDateTimeNumericLayouts(t *testing.T) {
	r := NewNaturalDateTime()

	cases := []struct {
		input string
		want  time.Time
	}{
		{"2030-01-02 15:04", time.Date(2030, 1, 2, 15, 4, 0, 0, time.UTC)},
		{"2030-01-02", time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, c := range cases {
		resolutions, err := r.RecognizeDateTime(LocaleEnglish, c.input, refTime)
		if err != nil {
			t.Fatalf("RecognizeDateTime(%q) error: %v", c.input, err)
		}
		if len(resolutions) != 1 {
			t.Fatalf("RecognizeDateTime(%q) returned %d candidates, want 1", c.input, len(resolutions))
		}
		if got := resolutions[0].Value; got != c.want.Format(DateTimeLayout) {
			t.Errorf("RecognizeDateTime(%q) = %q, want %q", c.input, got, c.want.Format(DateTimeLayout))
		}
	}
}

func TestRecognizeDateTimeRange(t *testing.T) {
	r := NewNaturalDateTime()

	resolutions, err := r.RecognizeDateTime(LocaleEnglish, "2030-01-02 to 2030-01-05", refTime)
	if err != nil {
		t.Fatalf("RecognizeDateTime error: %v", err)
	}
	if len(resolutions) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(resolutions))
	}

	res := resolutions[0]
	if res.Value != "" {
		t.Errorf("range candidate should not carry Value, got %q", res.Value)
	}
	if res.Start != "2030-01-02 00:00:00" {
		t.Errorf("range start = %q, want %q", res.Start, "2030-01-02 00:00:00")
	}
	if res.End != "2030-01-05 00:00:00" {
		t.Errorf("range end = %q, want %q", res.End, "2030-01-05 00:00:00")
	}
}

func TestRecognizeDateTimeNoCandidates(t *testing.T) {
	r := NewNaturalDateTime()

	for _, input := range []string{"", "   ", "purple monkey dishwasher"} {
		resolutions, err := r.RecognizeDateTime(LocaleEnglish, input, refTime)
		if err != nil {
			t.Fatalf("RecognizeDateTime(%q) error: %v", input, err)
		}
		if len(resolutions) != 0 {
			t.Errorf("RecognizeDateTime(%q) returned %d candidates, want 0", input, len(resolutions))
		}
	}
}

func TestRecognizeDateTimeUnsupportedLocale(t *testing.T) {
	r := NewNaturalDateTime()

	_, err := r.RecognizeDateTime("de-DE", "morgen", refTime)
	if !errors.Is(err, models.ErrUnsupportedLocale) {
		t.Errorf("expected ErrUnsupportedLocale, got %v", err)
	}
}

package recognizer

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/BTreeMap/BookFlow/internal/models"
)

// rangeSeparator splits "thursday 2pm to friday 10am" style inputs into a
// start half and an end half.
var rangeSeparator = regexp.MustCompile(`(?i)\s+(?:to|until|till)\s+|\s+[-–—]\s+`)

// numericLayouts are tried before the natural-language rules: an input that
// parses fully as one of these is an explicit date, and must not have a
// fragment of it (such as the time of day) picked up as a relative match.
var numericLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	"January 2, 2006",
	"January 2 2006",
}

// NaturalDateTime recognizes dates, times, and date ranges expressed in
// natural English ("tomorrow at 5pm") or common numeric formats, resolving
// relative expressions against a caller-supplied reference time.
type NaturalDateTime struct {
	parser *when.Parser
}

// NewNaturalDateTime creates a date-time recognizer for English locales.
func NewNaturalDateTime() *NaturalDateTime {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &NaturalDateTime{parser: w}
}

// RecognizeDateTime extracts date-time candidates from text. A recognized
// range produces one candidate with Start and End set; a single instant
// produces one candidate with Value set. Unrecognizable input yields zero
// candidates, not an error.
func (r *NaturalDateTime) RecognizeDateTime(locale, text string, ref time.Time) ([]DateTimeResolution, error) {
	if !strings.HasPrefix(strings.ToLower(locale), "en") {
		slog.Debug("NaturalDateTime unsupported locale", "locale", locale)
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedLocale, locale)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	// Range form first so "friday 2pm to friday 4pm" does not collapse into a
	// single instant.
	if halves := rangeSeparator.Split(trimmed, 2); len(halves) == 2 {
		start, startOK, err := r.resolveOne(halves[0], ref)
		if err != nil {
			return nil, err
		}
		end, endOK, err := r.resolveOne(halves[1], ref)
		if err != nil {
			return nil, err
		}
		if startOK && endOK {
			slog.Debug("NaturalDateTime recognized range", "start", start, "end", end)
			return []DateTimeResolution{{
				Text:  trimmed,
				Start: start.Format(DateTimeLayout),
				End:   end.Format(DateTimeLayout),
			}}, nil
		}
	}

	instant, ok, err := r.resolveOne(trimmed, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Debug("NaturalDateTime found no candidates", "text_length", len(text))
		return nil, nil
	}

	slog.Debug("NaturalDateTime recognized instant", "value", instant)
	return []DateTimeResolution{{Text: trimmed, Value: instant.Format(DateTimeLayout)}}, nil
}

// resolveOne resolves a single date-time expression: explicit numeric layouts
// first, then the natural-language rules.
func (r *NaturalDateTime) resolveOne(expr string, ref time.Time) (time.Time, bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, false, nil
	}

	for _, layout := range numericLayouts {
		if t, perr := time.ParseInLocation(layout, expr, ref.Location()); perr == nil {
			return t, true, nil
		}
	}

	result, err := r.parser.Parse(expr, ref)
	if err != nil {
		slog.Error("NaturalDateTime parser error", "error", err)
		return time.Time{}, false, fmt.Errorf("date-time recognition failed: %w", err)
	}
	if result != nil {
		return result.Time, true, nil
	}
	return time.Time{}, false, nil
}

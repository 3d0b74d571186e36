package recognizer

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/donna-legal/word2number"

	"github.com/BTreeMap/BookFlow/internal/models"
)

// digitPattern matches integer and decimal numerals, with an optional sign.
var digitPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// EnglishNumbers recognizes numeric values written as numerals ("12") or as
// English number words ("twelve") and returns them in input order.
type EnglishNumbers struct {
	words *word2number.Converter
}

// NewEnglishNumbers creates a number recognizer for English locales.
func NewEnglishNumbers() (*EnglishNumbers, error) {
	conv, err := word2number.NewConverter("en")
	if err != nil {
		slog.Error("EnglishNumbers failed to initialize word converter", "error", err)
		return nil, fmt.Errorf("failed to initialize number-word converter: %w", err)
	}
	return &EnglishNumbers{words: conv}, nil
}

// RecognizeNumbers extracts numeric candidates from text. Numeral spans are
// returned first, in the order they appear; if the text contains no numerals,
// the whole input is run through number-word conversion.
func (r *EnglishNumbers) RecognizeNumbers(locale, text string) ([]NumberResolution, error) {
	if !strings.HasPrefix(strings.ToLower(locale), "en") {
		slog.Debug("EnglishNumbers unsupported locale", "locale", locale)
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedLocale, locale)
	}

	var resolutions []NumberResolution
	for _, span := range digitPattern.FindAllString(text, -1) {
		value, err := strconv.ParseFloat(span, 64)
		if err != nil {
			// Pattern guarantees parseability; a failure here means the
			// recognizer itself is broken.
			slog.Error("EnglishNumbers numeral parse failed", "span", span, "error", err)
			return nil, fmt.Errorf("failed to parse numeral %q: %w", span, err)
		}
		resolutions = append(resolutions, NumberResolution{
			Text:  span,
			Value: strconv.FormatFloat(value, 'f', -1, 64),
		})
	}

	if len(resolutions) == 0 {
		trimmed := strings.TrimSpace(text)
		if value := r.words.Words2Number(trimmed); value != 0 {
			resolutions = append(resolutions, NumberResolution{
				Text:  trimmed,
				Value: strconv.FormatFloat(value, 'f', -1, 64),
			})
		}
	}

	slog.Debug("EnglishNumbers recognized candidates", "count", len(resolutions), "text_length", len(text))
	return resolutions, nil
}

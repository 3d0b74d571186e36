package util

import (
	"strings"
	"testing"
)

func TestParseBoolEnv(t *testing.T) {
	cases := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"OFF", true, false},
		{"", true, true},
		{"", false, false},
		{"garbage", true, true},
		{"garbage", false, false},
	}

	for _, c := range cases {
		t.Setenv("BOOKFLOW_TEST_BOOL", c.value)
		if got := ParseBoolEnv("BOOKFLOW_TEST_BOOL", c.defaultValue); got != c.want {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", c.value, c.defaultValue, got, c.want)
		}
	}
}

func TestGenerateRandomHex(t *testing.T) {
	if got := GenerateRandomHex(0); got != "" {
		t.Errorf("zero length should produce empty string, got %q", got)
	}
	if got := GenerateRandomHex(-1); got != "" {
		t.Errorf("negative length should produce empty string, got %q", got)
	}

	hex := GenerateRandomHex(32)
	if len(hex) != 32 {
		t.Fatalf("length = %d, want 32", len(hex))
	}
	for _, ch := range hex {
		if !strings.ContainsRune("0123456789abcdef", ch) {
			t.Errorf("non-hex character %q in %q", ch, hex)
		}
	}
}

func TestGenerateIDs(t *testing.T) {
	conv := GenerateConversationID()
	if !strings.HasPrefix(conv, "c_") || len(conv) != 34 {
		t.Errorf("conversation ID = %q", conv)
	}

	part := GenerateParticipantID()
	if !strings.HasPrefix(part, "p_") || len(part) != 34 {
		t.Errorf("participant ID = %q", part)
	}

	if GenerateConversationID() == GenerateConversationID() {
		t.Error("consecutive conversation IDs should differ")
	}
}

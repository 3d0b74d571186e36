package flow

import (
	"testing"

	"github.com/BTreeMap/BookFlow/internal/models"
)

func TestAdvanceFirstTurnIgnoresInput(t *testing.T) {
	e := newTestEngine(t)

	for _, input := range []string{"", "hi", "book me for tomorrow please"} {
		messages, state, profile := e.Advance(models.StateNone, models.UserProfile{ParticipantID: "p_1"}, input)
		if len(messages) != 1 || messages[0] != msgGreeting {
			t.Errorf("first turn with input %q produced %v, want just the greeting", input, messages)
		}
		if state != models.StateName {
			t.Errorf("first turn moved to %q, want %q", state, models.StateName)
		}
		if !profile.IsEmpty() {
			t.Errorf("first turn should not fill slots, got %+v", profile)
		}
	}
}

func TestAdvanceEmptyStateTreatedAsNone(t *testing.T) {
	e := newTestEngine(t)

	messages, state, _ := e.Advance("", models.UserProfile{ParticipantID: "p_1"}, "hello")
	if len(messages) != 1 || messages[0] != msgGreeting {
		t.Errorf("empty state produced %v, want just the greeting", messages)
	}
	if state != models.StateName {
		t.Errorf("empty state moved to %q, want %q", state, models.StateName)
	}
}

func TestAdvanceNameRejectionUsesFallback(t *testing.T) {
	e := newTestEngine(t)
	profile := models.UserProfile{ParticipantID: "p_1"}

	messages, state, updated := e.Advance(models.StateName, profile, "   ")
	if len(messages) != 1 || messages[0] != msgFallbackRetry {
		t.Errorf("blank name produced %v, want the generic re-prompt", messages)
	}
	if state != models.StateName {
		t.Errorf("blank name moved to %q, want to stay at %q", state, models.StateName)
	}
	if updated.Name != "" {
		t.Errorf("blank name should not fill the slot, got %q", updated.Name)
	}
}

func TestAdvanceRejectionIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	profile := models.UserProfile{ParticipantID: "p_1", Name: "Ada"}

	first, firstState, firstProfile := e.Advance(models.StateAge, profile, "purple monkey")
	second, secondState, secondProfile := e.Advance(firstState, firstProfile, "purple monkey")

	if firstState != models.StateAge || secondState != models.StateAge {
		t.Errorf("rejected turns moved state: %q then %q", firstState, secondState)
	}
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Errorf("repeated rejection messages differ: %v vs %v", first, second)
	}
	if secondProfile.Age != 0 {
		t.Errorf("rejected turns should not fill the age slot, got %d", secondProfile.Age)
	}
}

func TestAdvanceUnknownStateRestartsCycle(t *testing.T) {
	e := newTestEngine(t)

	messages, state, _ := e.Advance(models.StateType("BOGUS"), models.UserProfile{ParticipantID: "p_1"}, "hello")
	if len(messages) != 1 || messages[0] != msgGreeting {
		t.Errorf("unknown state produced %v, want the greeting", messages)
	}
	if state != models.StateName {
		t.Errorf("unknown state moved to %q, want %q", state, models.StateName)
	}
}

func TestAdvanceFullBookingCycle(t *testing.T) {
	e := newTestEngine(t)
	profile := models.UserProfile{ParticipantID: "p_1"}
	state := models.StateNone

	var messages []string

	// Turn 1: any input starts the cycle.
	messages, state, profile = e.Advance(state, profile, "hi")
	if state != models.StateName {
		t.Fatalf("after greeting, state = %q, want %q", state, models.StateName)
	}

	// Turn 2: name.
	messages, state, profile = e.Advance(state, profile, "Tomaž")
	if state != models.StateAge {
		t.Fatalf("after name, state = %q, want %q", state, models.StateAge)
	}
	if profile.Name != "Tomaž" {
		t.Fatalf("name slot = %q, want %q", profile.Name, "Tomaž")
	}
	if len(messages) != 2 || messages[0] != "Hi Tomaž, nice to meet you!" || messages[1] != msgAskAge {
		t.Fatalf("name acknowledgement messages = %v", messages)
	}

	// Turn 3: age.
	messages, state, profile = e.Advance(state, profile, "25")
	if state != models.StateDate {
		t.Fatalf("after age, state = %q, want %q", state, models.StateDate)
	}
	if profile.Age != 25 {
		t.Fatalf("age slot = %d, want 25", profile.Age)
	}
	if len(messages) != 2 || messages[0] != "Thanks Tomaž, I have your age as 25." || messages[1] != msgAskDate {
		t.Fatalf("age acknowledgement messages = %v", messages)
	}

	// Turn 4: date completes the booking and resets the cycle.
	messages, state, profile = e.Advance(state, profile, "tomorrow at 5pm")
	if state != models.StateNone {
		t.Fatalf("after booking, state = %q, want %q", state, models.StateNone)
	}
	if len(messages) != 3 {
		t.Fatalf("booking confirmation messages = %v", messages)
	}
	if messages[0] != "Your appointment is booked for 11/03/2026." {
		t.Errorf("confirmation = %q", messages[0])
	}
	if messages[1] != "Thanks for completing the booking, Tomaž!" {
		t.Errorf("thanks = %q", messages[1])
	}
	if messages[2] != msgBookAgain {
		t.Errorf("restart hint = %q", messages[2])
	}

	// The profile is fresh for the next cycle, identity preserved.
	if !profile.IsEmpty() {
		t.Errorf("profile after booking should be empty, got %+v", profile)
	}
	if profile.ParticipantID != "p_1" {
		t.Errorf("participant identity lost: %q", profile.ParticipantID)
	}

	// Turn 5: the machine is cyclic, the next turn greets again.
	messages, state, _ = e.Advance(state, profile, "hello again")
	if len(messages) != 1 || messages[0] != msgGreeting {
		t.Errorf("restarted cycle produced %v, want the greeting", messages)
	}
	if state != models.StateName {
		t.Errorf("restarted cycle moved to %q, want %q", state, models.StateName)
	}
}

func TestAdvanceDateRejectionKeepsCollectedSlots(t *testing.T) {
	e := newTestEngine(t)
	profile := models.UserProfile{ParticipantID: "p_1", Name: "Ada", Age: 30}

	messages, state, updated := e.Advance(models.StateDate, profile, "2026-03-10 12:30")
	if state != models.StateDate {
		t.Errorf("too-soon date moved to %q, want to stay at %q", state, models.StateDate)
	}
	if len(messages) != 1 || messages[0] == msgFallbackRetry {
		t.Errorf("date rejection should use its own message, got %v", messages)
	}
	if updated.Name != "Ada" || updated.Age != 30 || updated.Date != "" {
		t.Errorf("date rejection mutated profile: %+v", updated)
	}
}

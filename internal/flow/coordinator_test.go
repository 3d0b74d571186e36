package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/BTreeMap/BookFlow/internal/models"
	"github.com/BTreeMap/BookFlow/internal/store"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *StoreBasedStateManager) {
	t.Helper()
	sm := NewStoreBasedStateManager(store.NewInMemoryStore())
	return NewCoordinator(newTestEngine(t), sm), sm
}

func TestCoordinatorPersistsAcrossTurns(t *testing.T) {
	c, sm := newTestCoordinator(t)
	ctx := context.Background()

	// Each turn is a separate call, state must survive between them.
	turns := []struct {
		input     string
		wantState models.StateType
	}{
		{"hi", models.StateName},
		{"Tomaž", models.StateAge},
		{"25", models.StateDate},
		{"2030-01-02 15:00", models.StateNone},
	}

	for _, turn := range turns {
		messages, state, err := c.HandleTurn(ctx, "conv1", "p_1", turn.input)
		if err != nil {
			t.Fatalf("HandleTurn(%q) failed: %v", turn.input, err)
		}
		if state != turn.wantState {
			t.Fatalf("HandleTurn(%q) state = %q, want %q", turn.input, state, turn.wantState)
		}
		if len(messages) == 0 {
			t.Fatalf("HandleTurn(%q) produced no messages", turn.input)
		}
	}

	// The completed booking left a fresh profile behind.
	profile, err := sm.GetUserProfile(ctx, "p_1")
	if err != nil {
		t.Fatalf("GetUserProfile failed: %v", err)
	}
	if !profile.IsEmpty() {
		t.Errorf("profile after completed booking should be empty, got %+v", profile)
	}
}

func TestCoordinatorValidatesIdentifiers(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()

	if _, _, err := c.HandleTurn(ctx, "", "p_1", "hi"); !errors.Is(err, models.ErrEmptyConversationID) {
		t.Errorf("empty conversation ID: got %v", err)
	}
	if _, _, err := c.HandleTurn(ctx, "conv1", "", "hi"); !errors.Is(err, models.ErrEmptyParticipantID) {
		t.Errorf("empty participant ID: got %v", err)
	}
	if _, _, err := c.HandleTurn(ctx, "conv1", "p_1", strings.Repeat("a", models.MaxTurnBodyLength+1)); !errors.Is(err, models.ErrTurnBodyTooLong) {
		t.Errorf("oversized body: got %v", err)
	}
}

func TestCoordinatorIndependentConversations(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()

	// Advance conversation A two turns in.
	if _, _, err := c.HandleTurn(ctx, "convA", "p_A", "hi"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.HandleTurn(ctx, "convA", "p_A", "Ada"); err != nil {
		t.Fatal(err)
	}

	// Conversation B still starts from the greeting.
	messages, state, err := c.HandleTurn(ctx, "convB", "p_B", "hello")
	if err != nil {
		t.Fatalf("HandleTurn for convB failed: %v", err)
	}
	if state != models.StateName {
		t.Errorf("convB state = %q, want %q", state, models.StateName)
	}
	if len(messages) != 1 {
		t.Errorf("convB should only get the greeting, got %v", messages)
	}
}

package flow

import (
	"context"
	"testing"

	"github.com/BTreeMap/BookFlow/internal/models"
	"github.com/BTreeMap/BookFlow/internal/store"
)

func TestStateManagerDefaultsToNone(t *testing.T) {
	sm := NewStoreBasedStateManager(store.NewInMemoryStore())
	ctx := context.Background()

	state, err := sm.GetFlowState(ctx, "conv1")
	if err != nil {
		t.Fatalf("GetFlowState failed: %v", err)
	}
	if state.LastQuestionAsked != models.StateNone {
		t.Errorf("fresh conversation state = %q, want %q", state.LastQuestionAsked, models.StateNone)
	}
	if state.ConversationID != "conv1" {
		t.Errorf("conversation ID = %q, want %q", state.ConversationID, "conv1")
	}
}

func TestStateManagerSaveAndLoad(t *testing.T) {
	sm := NewStoreBasedStateManager(store.NewInMemoryStore())
	ctx := context.Background()

	state, _ := sm.GetFlowState(ctx, "conv1")
	state.LastQuestionAsked = models.StateAge
	if err := sm.SaveFlowState(ctx, state); err != nil {
		t.Fatalf("SaveFlowState failed: %v", err)
	}

	loaded, err := sm.GetFlowState(ctx, "conv1")
	if err != nil {
		t.Fatalf("GetFlowState failed: %v", err)
	}
	if loaded.LastQuestionAsked != models.StateAge {
		t.Errorf("loaded state = %q, want %q", loaded.LastQuestionAsked, models.StateAge)
	}
}

func TestStateManagerRejectsEmptyConversationID(t *testing.T) {
	sm := NewStoreBasedStateManager(store.NewInMemoryStore())

	err := sm.SaveFlowState(context.Background(), models.FlowState{})
	if err != models.ErrEmptyConversationID {
		t.Errorf("expected ErrEmptyConversationID, got %v", err)
	}
}

func TestStateManagerNormalizesUnknownState(t *testing.T) {
	st := store.NewInMemoryStore()
	sm := NewStoreBasedStateManager(st)

	// Write a corrupted state directly to the store.
	if err := st.SaveFlowState(models.FlowState{ConversationID: "conv1", LastQuestionAsked: "BOGUS"}); err != nil {
		t.Fatalf("SaveFlowState failed: %v", err)
	}

	state, err := sm.GetFlowState(context.Background(), "conv1")
	if err != nil {
		t.Fatalf("GetFlowState failed: %v", err)
	}
	if state.LastQuestionAsked != models.StateNone {
		t.Errorf("corrupted state loaded as %q, want %q", state.LastQuestionAsked, models.StateNone)
	}
}

func TestStateManagerProfileDefaultsToEmpty(t *testing.T) {
	sm := NewStoreBasedStateManager(store.NewInMemoryStore())

	profile, err := sm.GetUserProfile(context.Background(), "p_1")
	if err != nil {
		t.Fatalf("GetUserProfile failed: %v", err)
	}
	if !profile.IsEmpty() {
		t.Errorf("fresh profile should be empty, got %+v", profile)
	}
	if profile.ParticipantID != "p_1" {
		t.Errorf("participant ID = %q, want %q", profile.ParticipantID, "p_1")
	}
}

func TestStateManagerResetConversation(t *testing.T) {
	sm := NewStoreBasedStateManager(store.NewInMemoryStore())
	ctx := context.Background()

	if err := sm.SaveFlowState(ctx, models.FlowState{ConversationID: "conv1", LastQuestionAsked: models.StateDate}); err != nil {
		t.Fatalf("SaveFlowState failed: %v", err)
	}
	if err := sm.SaveUserProfile(ctx, models.UserProfile{ParticipantID: "p_1", Name: "Ada"}); err != nil {
		t.Fatalf("SaveUserProfile failed: %v", err)
	}

	if err := sm.ResetConversation(ctx, "conv1", "p_1"); err != nil {
		t.Fatalf("ResetConversation failed: %v", err)
	}

	state, _ := sm.GetFlowState(ctx, "conv1")
	if state.LastQuestionAsked != models.StateNone {
		t.Errorf("state after reset = %q, want %q", state.LastQuestionAsked, models.StateNone)
	}
	profile, _ := sm.GetUserProfile(ctx, "p_1")
	if !profile.IsEmpty() {
		t.Errorf("profile after reset should be empty, got %+v", profile)
	}
}

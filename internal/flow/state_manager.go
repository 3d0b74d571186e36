// Package flow provides concrete implementations of state management.
package flow

import (
	"context"
	"log/slog"
	"time"

	"github.com/BTreeMap/BookFlow/internal/models"
	"github.com/BTreeMap/BookFlow/internal/store"
)

// StoreBasedStateManager implements StateManager using a Store backend.
type StoreBasedStateManager struct {
	store store.Store
}

// NewStoreBasedStateManager creates a new StateManager backed by a Store.
func NewStoreBasedStateManager(st store.Store) *StoreBasedStateManager {
	slog.Debug("Creating StoreBasedStateManager")
	return &StoreBasedStateManager{store: st}
}

// GetFlowState retrieves the flow state for a conversation, defaulting to a
// fresh StateNone state when none has been persisted yet.
func (sm *StoreBasedStateManager) GetFlowState(ctx context.Context, conversationID string) (models.FlowState, error) {
	slog.Debug("StateManager GetFlowState", "conversationID", conversationID)

	state, err := sm.store.GetFlowState(conversationID)
	if err != nil {
		slog.Error("StateManager GetFlowState error", "error", err, "conversationID", conversationID)
		return models.FlowState{}, err
	}
	if state == nil {
		slog.Debug("StateManager GetFlowState not found, starting at NONE", "conversationID", conversationID)
		now := time.Now()
		return models.FlowState{
			ConversationID:    conversationID,
			LastQuestionAsked: models.StateNone,
			CreatedAt:         now,
			UpdatedAt:         now,
		}, nil
	}

	if !models.IsValidStateType(state.LastQuestionAsked) {
		slog.Warn("StateManager loaded unknown state, treating as NONE", "conversationID", conversationID, "state", state.LastQuestionAsked)
		state.LastQuestionAsked = models.StateNone
	}

	slog.Debug("StateManager GetFlowState found", "conversationID", conversationID, "state", state.LastQuestionAsked)
	return *state, nil
}

// SaveFlowState stores or updates the flow state for a conversation.
func (sm *StoreBasedStateManager) SaveFlowState(ctx context.Context, state models.FlowState) error {
	if state.ConversationID == "" {
		return models.ErrEmptyConversationID
	}
	state.UpdatedAt = time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = state.UpdatedAt
	}

	if err := sm.store.SaveFlowState(state); err != nil {
		slog.Error("StateManager SaveFlowState error", "error", err, "conversationID", state.ConversationID, "state", state.LastQuestionAsked)
		return err
	}
	slog.Debug("StateManager SaveFlowState succeeded", "conversationID", state.ConversationID, "state", state.LastQuestionAsked)
	return nil
}

// GetUserProfile retrieves a participant's profile, defaulting to a fresh
// empty profile when none has been persisted yet.
func (sm *StoreBasedStateManager) GetUserProfile(ctx context.Context, participantID string) (models.UserProfile, error) {
	slog.Debug("StateManager GetUserProfile", "participantID", participantID)

	profile, err := sm.store.GetUserProfile(participantID)
	if err != nil {
		slog.Error("StateManager GetUserProfile error", "error", err, "participantID", participantID)
		return models.UserProfile{}, err
	}
	if profile == nil {
		slog.Debug("StateManager GetUserProfile not found, starting empty", "participantID", participantID)
		now := time.Now()
		return models.UserProfile{ParticipantID: participantID, CreatedAt: now, UpdatedAt: now}, nil
	}

	return *profile, nil
}

// SaveUserProfile stores or updates a participant's profile.
func (sm *StoreBasedStateManager) SaveUserProfile(ctx context.Context, profile models.UserProfile) error {
	if err := profile.Validate(); err != nil {
		slog.Error("StateManager SaveUserProfile invalid profile", "error", err)
		return err
	}
	profile.UpdatedAt = time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = profile.UpdatedAt
	}

	if err := sm.store.SaveUserProfile(profile); err != nil {
		slog.Error("StateManager SaveUserProfile error", "error", err, "participantID", profile.ParticipantID)
		return err
	}
	slog.Debug("StateManager SaveUserProfile succeeded", "participantID", profile.ParticipantID)
	return nil
}

// ResetConversation removes all stored state for a conversation and its
// participant.
func (sm *StoreBasedStateManager) ResetConversation(ctx context.Context, conversationID, participantID string) error {
	slog.Debug("StateManager ResetConversation", "conversationID", conversationID, "participantID", participantID)

	if err := sm.store.DeleteFlowState(conversationID); err != nil {
		slog.Error("StateManager ResetConversation flow state error", "error", err, "conversationID", conversationID)
		return err
	}
	if err := sm.store.DeleteUserProfile(participantID); err != nil {
		slog.Error("StateManager ResetConversation profile error", "error", err, "participantID", participantID)
		return err
	}
	slog.Info("StateManager ResetConversation succeeded", "conversationID", conversationID, "participantID", participantID)
	return nil
}

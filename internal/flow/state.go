// Package flow defines state management interfaces for the booking flow.
package flow

import (
	"context"

	"github.com/BTreeMap/BookFlow/internal/models"
)

// StateManager loads and persists flow state and user profiles between turns.
// The booking engine never performs storage itself: the hosting layer reads
// the current values before a turn and writes the updated ones after it.
type StateManager interface {
	// GetFlowState retrieves the flow state for a conversation. Unknown
	// conversations yield a fresh state at StateNone, not an error.
	GetFlowState(ctx context.Context, conversationID string) (models.FlowState, error)

	// SaveFlowState stores or updates the flow state for a conversation.
	SaveFlowState(ctx context.Context, state models.FlowState) error

	// GetUserProfile retrieves the profile for a participant. Unknown
	// participants yield a fresh empty profile, not an error.
	GetUserProfile(ctx context.Context, participantID string) (models.UserProfile, error)

	// SaveUserProfile stores or updates a participant's profile.
	SaveUserProfile(ctx context.Context, profile models.UserProfile) error

	// ResetConversation removes all stored state for a conversation and its
	// participant.
	ResetConversation(ctx context.Context, conversationID, participantID string) error
}

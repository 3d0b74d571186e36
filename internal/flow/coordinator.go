package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BTreeMap/BookFlow/internal/models"
)

// Coordinator executes one conversation turn end to end: it loads the
// persisted flow state and profile, advances the booking engine, and persists
// the results. Every transport (HTTP, Twilio, WhatsApp) funnels turns through
// the same coordinator so they all share the engine's semantics.
type Coordinator struct {
	engine *Engine
	states StateManager
}

// NewCoordinator creates a turn coordinator for the given engine and state
// manager.
func NewCoordinator(engine *Engine, states StateManager) *Coordinator {
	return &Coordinator{engine: engine, states: states}
}

// HandleTurn processes one inbound turn for a conversation and returns the
// ordered outgoing messages plus the flow state the conversation is now in.
// Validation failures are not errors: they come back as re-prompt messages
// with the state unchanged. Errors are reserved for the storage layer.
func (c *Coordinator) HandleTurn(ctx context.Context, conversationID, participantID, input string) ([]string, models.StateType, error) {
	if conversationID == "" {
		return nil, "", models.ErrEmptyConversationID
	}
	if participantID == "" {
		return nil, "", models.ErrEmptyParticipantID
	}
	if len(input) > models.MaxTurnBodyLength {
		return nil, "", models.ErrTurnBodyTooLong
	}

	state, err := c.states.GetFlowState(ctx, conversationID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load flow state: %w", err)
	}
	profile, err := c.states.GetUserProfile(ctx, participantID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load user profile: %w", err)
	}

	messages, nextState, nextProfile := c.engine.Advance(state.LastQuestionAsked, profile, input)

	state.LastQuestionAsked = nextState
	if err := c.states.SaveFlowState(ctx, state); err != nil {
		return nil, "", fmt.Errorf("failed to save flow state: %w", err)
	}
	if nextProfile.ParticipantID == "" {
		nextProfile.ParticipantID = participantID
	}
	if err := c.states.SaveUserProfile(ctx, nextProfile); err != nil {
		return nil, "", fmt.Errorf("failed to save user profile: %w", err)
	}

	slog.Debug("Coordinator turn completed", "conversationID", conversationID, "state", nextState, "messages", len(messages))
	return messages, nextState, nil
}

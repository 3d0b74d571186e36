// Package models defines state management structures for the booking flow.
package models

import "time"

// StateType identifies which question the flow last asked in a conversation.
type StateType string

const (
	// StateNone means no question is pending; the next turn starts a cycle.
	StateNone StateType = "NONE"
	// StateName means the flow is waiting for the participant's name.
	StateName StateType = "NAME"
	// StateAge means the flow is waiting for the participant's age.
	StateAge StateType = "AGE"
	// StateDate means the flow is waiting for the desired appointment date.
	StateDate StateType = "DATE"
)

// IsValidStateType checks if the given flow state is supported.
func IsValidStateType(st StateType) bool {
	switch st {
	case StateNone, StateName, StateAge, StateDate:
		return true
	default:
		return false
	}
}

// FlowState represents the current position of one conversation in the
// booking flow. It is owned exclusively by that conversation and is persisted
// between turns by the hosting layer, never by the flow engine itself.
type FlowState struct {
	ConversationID    string    `json:"conversation_id"`
	LastQuestionAsked StateType `json:"last_question_asked"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

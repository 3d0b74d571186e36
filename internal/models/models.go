// Package models defines the core data structures for BookFlow.
//
// It includes the conversation flow state, the user profile built up during
// the booking dialogue, and the inbound/outbound message types shared across
// modules.
package models

import "errors"

// Validation constants for the booking slots.
const (
	// MinAge is the youngest age accepted by the age slot.
	MinAge = 18
	// MaxAge is the oldest age accepted by the age slot.
	MaxAge = 120
	// MaxTurnBodyLength defines the maximum allowed length for an inbound turn.
	MaxTurnBodyLength = 4096
)

// Error variables for better error handling and testability
var (
	ErrEmptyConversationID = errors.New("conversation ID cannot be empty")
	ErrEmptyParticipantID  = errors.New("participant ID cannot be empty")
	ErrTurnBodyTooLong     = errors.New("turn body exceeds maximum length")
	ErrUnsupportedLocale   = errors.New("unsupported locale")
)

// RejectionReason identifies why a slot answer was rejected. Every rejection
// is local and non-fatal: the flow re-asks the same question on the next turn.
type RejectionReason string

const (
	// RejectionEmptyInput indicates blank or whitespace-only text for the name slot.
	RejectionEmptyInput RejectionReason = "empty_input"
	// RejectionUnrecognizedNumber indicates no numeric candidate was found in the input.
	RejectionUnrecognizedNumber RejectionReason = "unrecognized_number"
	// RejectionNumberOutOfRange indicates a number was found but none fell within [MinAge, MaxAge].
	RejectionNumberOutOfRange RejectionReason = "number_out_of_range"
	// RejectionUnrecognizedDate indicates no date-time candidate was found in the input.
	RejectionUnrecognizedDate RejectionReason = "unrecognized_date"
	// RejectionDateTooSoon indicates all date-time candidates were within the minimum lead time.
	RejectionDateTooSoon RejectionReason = "date_too_soon"
	// RejectionRecognitionFailure indicates a recognizer collaborator errored unexpectedly.
	// It is treated identically to an ordinary rejection, never surfaced as a fault.
	RejectionRecognitionFailure RejectionReason = "recognition_failure"
)

// Rejection is the failure half of a validator contract: a reason plus an
// optional user-facing message. An empty message tells the flow controller to
// fall back to its generic re-prompt.
type Rejection struct {
	Reason  RejectionReason `json:"reason"`
	Message string          `json:"message,omitempty"`
}

// MessageStatus represents the delivery status of a message.
type MessageStatus string

const (
	// MessageStatusSent indicates the message was sent.
	MessageStatusSent MessageStatus = "sent"
	// MessageStatusDelivered indicates the message was delivered.
	MessageStatusDelivered MessageStatus = "delivered"
	// MessageStatusRead indicates the message was read.
	MessageStatusRead MessageStatus = "read"
	// MessageStatusFailed indicates the message failed to send.
	MessageStatusFailed MessageStatus = "failed"
)

// Receipt records the delivery status of one outgoing message.
type Receipt struct {
	To     string        `json:"to"`
	Status MessageStatus `json:"status"`
	Time   int64         `json:"time"`
}

// Response represents an incoming message turn from a participant.
type Response struct {
	From string `json:"from"`
	Body string `json:"body"`
	Time int64  `json:"time"`
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`            // status of the API response
	Message string      `json:"message,omitempty"` // optional message for error responses or additional info
	Result  interface{} `json:"result,omitempty"`  // optional result data for successful responses
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message and optional result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}

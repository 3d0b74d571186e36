// Package models defines the user profile built by the booking flow.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// UserProfile holds the slot values collected from one participant during a
// booking cycle. A slot field is set only after its validator accepted the
// answer; zero values mean the slot has not been filled yet.
type UserProfile struct {
	ParticipantID string    `json:"participant_id"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`

	// Slot values collected by the flow
	Name string `json:"name,omitempty"` // trimmed, otherwise verbatim
	Age  int    `json:"age,omitempty"`  // within [MinAge, MaxAge]
	Date string `json:"date,omitempty"` // normalized calendar date, day/month/year
}

// IsEmpty reports whether no slot has been filled yet.
func (up *UserProfile) IsEmpty() bool {
	return up.Name == "" && up.Age == 0 && up.Date == ""
}

// IsComplete reports whether all three slots have been filled.
func (up *UserProfile) IsComplete() bool {
	return up.Name != "" && up.Age != 0 && up.Date != ""
}

// ClearSlots discards all collected slot values, keeping the participant
// identity. Used when a booking cycle completes and the flow restarts.
func (up *UserProfile) ClearSlots() {
	up.Name = ""
	up.Age = 0
	up.Date = ""
	up.UpdatedAt = time.Now()
}

// Validate ensures the user profile has required fields.
func (up *UserProfile) Validate() error {
	if up.ParticipantID == "" {
		return ErrEmptyParticipantID
	}
	return nil
}

// ToJSON serializes the user profile to JSON string.
func (up *UserProfile) ToJSON() (string, error) {
	data, err := json.Marshal(up)
	if err != nil {
		return "", fmt.Errorf("failed to marshal user profile: %w", err)
	}
	return string(data), nil
}

// FromJSON deserializes a user profile from JSON string.
func (up *UserProfile) FromJSON(jsonStr string) error {
	if err := json.Unmarshal([]byte(jsonStr), up); err != nil {
		return fmt.Errorf("failed to unmarshal user profile: %w", err)
	}
	return nil
}

// Package store provides storage backends for BookFlow.
//
// Flow states and user profiles are durable only through this layer: the flow
// engine itself never touches storage. SQLite and PostgreSQL backends are
// provided alongside an in-memory store for tests.
package store

import (
	"strings"
	"sync"

	"github.com/BTreeMap/BookFlow/internal/models"
)

// Store defines the persistence operations used by the hosting layer.
type Store interface {
	// Flow state, keyed by conversation
	GetFlowState(conversationID string) (*models.FlowState, error)
	SaveFlowState(state models.FlowState) error
	DeleteFlowState(conversationID string) error

	// User profiles, keyed by participant identity
	GetUserProfile(participantID string) (*models.UserProfile, error)
	SaveUserProfile(profile models.UserProfile) error
	DeleteUserProfile(participantID string) error

	// Audit log of inbound turns and delivery receipts
	AddResponse(response models.Response) error
	GetResponses() ([]models.Response, error)
	AddReceipt(receipt models.Receipt) error
	GetReceipts() ([]models.Receipt, error)

	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithSQLiteDSN sets a SQLite file path as the store DSN.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets a PostgreSQL connection string as the store DSN.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType reports "postgres" for PostgreSQL-style connection strings
// and "sqlite3" for anything else (assumed to be a file path).
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite3"
}

// InMemoryStore is a Store kept entirely in process memory, used for tests
// and for running without a database.
type InMemoryStore struct {
	mu         sync.RWMutex
	flowStates map[string]models.FlowState
	profiles   map[string]models.UserProfile
	responses  []models.Response
	receipts   []models.Receipt
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		flowStates: make(map[string]models.FlowState),
		profiles:   make(map[string]models.UserProfile),
	}
}

// GetFlowState retrieves flow state for a conversation, nil when absent.
func (s *InMemoryStore) GetFlowState(conversationID string) (*models.FlowState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.flowStates[conversationID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

// SaveFlowState stores or updates flow state for a conversation.
func (s *InMemoryStore) SaveFlowState(state models.FlowState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flowStates[state.ConversationID] = state
	return nil
}

// DeleteFlowState removes flow state for a conversation.
func (s *InMemoryStore) DeleteFlowState(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flowStates, conversationID)
	return nil
}

// GetUserProfile retrieves a participant's profile, nil when absent.
func (s *InMemoryStore) GetUserProfile(participantID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[participantID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

// SaveUserProfile stores or updates a participant's profile.
func (s *InMemoryStore) SaveUserProfile(profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ParticipantID] = profile
	return nil
}

// DeleteUserProfile removes a participant's profile.
func (s *InMemoryStore) DeleteUserProfile(participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, participantID)
	return nil
}

// AddResponse records an inbound turn.
func (s *InMemoryStore) AddResponse(response models.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, response)
	return nil
}

// GetResponses returns all recorded inbound turns.
func (s *InMemoryStore) GetResponses() ([]models.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Response, len(s.responses))
	copy(out, s.responses)
	return out, nil
}

// AddReceipt records a delivery receipt.
func (s *InMemoryStore) AddReceipt(receipt models.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = append(s.receipts, receipt)
	return nil
}

// GetReceipts returns all recorded delivery receipts.
func (s *InMemoryStore) GetReceipts() ([]models.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Receipt, len(s.receipts))
	copy(out, s.receipts)
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}

// Package store provides storage backends for BookFlow.
//
// This file implements a PostgreSQL-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/BTreeMap/BookFlow/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

// GetFlowState retrieves flow state for a conversation.
func (s *PostgresStore) GetFlowState(conversationID string) (*models.FlowState, error) {
	query := `SELECT conversation_id, last_question_asked, created_at, updated_at
			  FROM flow_states WHERE conversation_id = $1`

	var state models.FlowState
	err := s.db.QueryRow(query, conversationID).Scan(
		&state.ConversationID, &state.LastQuestionAsked, &state.CreatedAt, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetFlowState not found", "conversationID", conversationID)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetFlowState failed", "error", err, "conversationID", conversationID)
		return nil, fmt.Errorf("failed to get flow state for %s: %w", conversationID, err)
	}
	slog.Debug("PostgresStore GetFlowState found", "conversationID", conversationID, "state", state.LastQuestionAsked)
	return &state, nil
}

// SaveFlowState stores or updates flow state for a conversation.
func (s *PostgresStore) SaveFlowState(state models.FlowState) error {
	query := `
		INSERT INTO flow_states (conversation_id, last_question_asked, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (conversation_id) DO UPDATE SET
			last_question_asked = EXCLUDED.last_question_asked,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.Exec(query, state.ConversationID, state.LastQuestionAsked, state.CreatedAt, state.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveFlowState failed", "error", err, "conversationID", state.ConversationID)
		return fmt.Errorf("failed to save flow state for %s: %w", state.ConversationID, err)
	}
	slog.Debug("PostgresStore SaveFlowState succeeded", "conversationID", state.ConversationID, "state", state.LastQuestionAsked)
	return nil
}

// DeleteFlowState removes flow state for a conversation.
func (s *PostgresStore) DeleteFlowState(conversationID string) error {
	_, err := s.db.Exec(`DELETE FROM flow_states WHERE conversation_id = $1`, conversationID)
	if err != nil {
		slog.Error("PostgresStore DeleteFlowState failed", "error", err, "conversationID", conversationID)
		return fmt.Errorf("failed to delete flow state for %s: %w", conversationID, err)
	}
	slog.Debug("PostgresStore DeleteFlowState succeeded", "conversationID", conversationID)
	return nil
}

// GetUserProfile retrieves a participant's profile.
func (s *PostgresStore) GetUserProfile(participantID string) (*models.UserProfile, error) {
	query := `SELECT participant_id, name, age, booking_date, created_at, updated_at
			  FROM user_profiles WHERE participant_id = $1`

	row := s.db.QueryRow(query, participantID)
	profile, err := scanUserProfile(row)
	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetUserProfile not found", "participantID", participantID)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetUserProfile failed", "error", err, "participantID", participantID)
		return nil, fmt.Errorf("failed to get user profile for %s: %w", participantID, err)
	}
	return profile, nil
}

// SaveUserProfile stores or updates a participant's profile.
func (s *PostgresStore) SaveUserProfile(profile models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (participant_id, name, age, booking_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (participant_id) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			booking_date = EXCLUDED.booking_date,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.Exec(query, profile.ParticipantID, nilIfEmpty(profile.Name),
		nilIfZero(profile.Age), nilIfEmpty(profile.Date), profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveUserProfile failed", "error", err, "participantID", profile.ParticipantID)
		return fmt.Errorf("failed to save user profile for %s: %w", profile.ParticipantID, err)
	}
	slog.Debug("PostgresStore SaveUserProfile succeeded", "participantID", profile.ParticipantID)
	return nil
}

// DeleteUserProfile removes a participant's profile.
func (s *PostgresStore) DeleteUserProfile(participantID string) error {
	_, err := s.db.Exec(`DELETE FROM user_profiles WHERE participant_id = $1`, participantID)
	if err != nil {
		slog.Error("PostgresStore DeleteUserProfile failed", "error", err, "participantID", participantID)
		return fmt.Errorf("failed to delete user profile for %s: %w", participantID, err)
	}
	slog.Debug("PostgresStore DeleteUserProfile succeeded", "participantID", participantID)
	return nil
}

// AddResponse records an inbound turn.
func (s *PostgresStore) AddResponse(r models.Response) error {
	_, err := s.db.Exec(`INSERT INTO responses (sender, body, time) VALUES ($1, $2, $3)`, r.From, r.Body, r.Time)
	if err != nil {
		slog.Error("PostgresStore AddResponse failed", "error", err, "from", r.From)
		return fmt.Errorf("failed to insert response from %s: %w", r.From, err)
	}
	slog.Debug("PostgresStore AddResponse succeeded", "from", r.From)
	return nil
}

// GetResponses retrieves all recorded inbound turns.
func (s *PostgresStore) GetResponses() ([]models.Response, error) {
	rows, err := s.db.Query(`SELECT sender, body, time FROM responses`)
	if err != nil {
		slog.Error("PostgresStore GetResponses query failed", "error", err)
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()
	var responses []models.Response
	for rows.Next() {
		var r models.Response
		if err := rows.Scan(&r.From, &r.Body, &r.Time); err != nil {
			slog.Error("PostgresStore GetResponses scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan response row: %w", err)
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore GetResponses rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate response rows: %w", err)
	}
	slog.Debug("PostgresStore GetResponses succeeded", "count", len(responses))
	return responses, nil
}

// AddReceipt records a delivery receipt.
func (s *PostgresStore) AddReceipt(r models.Receipt) error {
	_, err := s.db.Exec(`INSERT INTO receipts (recipient, status, time) VALUES ($1, $2, $3)`, r.To, r.Status, r.Time)
	if err != nil {
		slog.Error("PostgresStore AddReceipt failed", "error", err, "to", r.To)
		return fmt.Errorf("failed to insert receipt for %s: %w", r.To, err)
	}
	slog.Debug("PostgresStore AddReceipt succeeded", "to", r.To, "status", r.Status)
	return nil
}

// GetReceipts retrieves all recorded delivery receipts.
func (s *PostgresStore) GetReceipts() ([]models.Receipt, error) {
	rows, err := s.db.Query(`SELECT recipient, status, time FROM receipts`)
	if err != nil {
		slog.Error("PostgresStore GetReceipts query failed", "error", err)
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()
	var receipts []models.Receipt
	for rows.Next() {
		var r models.Receipt
		if err := rows.Scan(&r.To, &r.Status, &r.Time); err != nil {
			slog.Error("PostgresStore GetReceipts scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan receipt row: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore GetReceipts rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate receipt rows: %w", err)
	}
	slog.Debug("PostgresStore GetReceipts succeeded", "count", len(receipts))
	return receipts, nil
}

// Close closes the PostgreSQL database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing PostgreSQL database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close PostgreSQL database", "error", err)
	}
	return err
}

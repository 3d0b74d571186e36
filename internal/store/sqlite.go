// Package store provides storage backends for BookFlow.
//
// This file implements an SQLite-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/BTreeMap/BookFlow/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// Constants for SQLite store configuration
const (
	// DefaultDirPermissions defines the default permissions for database directories
	DefaultDirPermissions = 0755
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

// GetFlowState retrieves flow state for a conversation.
func (s *SQLiteStore) GetFlowState(conversationID string) (*models.FlowState, error) {
	query := `SELECT conversation_id, last_question_asked, created_at, updated_at
			  FROM flow_states WHERE conversation_id = ?`

	var state models.FlowState
	err := s.db.QueryRow(query, conversationID).Scan(
		&state.ConversationID, &state.LastQuestionAsked, &state.CreatedAt, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		slog.Debug("SQLiteStore GetFlowState not found", "conversationID", conversationID)
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetFlowState failed", "error", err, "conversationID", conversationID)
		return nil, fmt.Errorf("failed to get flow state for %s: %w", conversationID, err)
	}
	slog.Debug("SQLiteStore GetFlowState found", "conversationID", conversationID, "state", state.LastQuestionAsked)
	return &state, nil
}

// SaveFlowState stores or updates flow state for a conversation.
func (s *SQLiteStore) SaveFlowState(state models.FlowState) error {
	query := `
		INSERT OR REPLACE INTO flow_states (conversation_id, last_question_asked, created_at, updated_at)
		VALUES (?, ?, ?, ?)`

	_, err := s.db.Exec(query, state.ConversationID, state.LastQuestionAsked, state.CreatedAt, state.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveFlowState failed", "error", err, "conversationID", state.ConversationID)
		return fmt.Errorf("failed to save flow state for %s: %w", state.ConversationID, err)
	}
	slog.Debug("SQLiteStore SaveFlowState succeeded", "conversationID", state.ConversationID, "state", state.LastQuestionAsked)
	return nil
}

// DeleteFlowState removes flow state for a conversation.
func (s *SQLiteStore) DeleteFlowState(conversationID string) error {
	_, err := s.db.Exec(`DELETE FROM flow_states WHERE conversation_id = ?`, conversationID)
	if err != nil {
		slog.Error("SQLiteStore DeleteFlowState failed", "error", err, "conversationID", conversationID)
		return fmt.Errorf("failed to delete flow state for %s: %w", conversationID, err)
	}
	slog.Debug("SQLiteStore DeleteFlowState succeeded", "conversationID", conversationID)
	return nil
}

// GetUserProfile retrieves a participant's profile.
func (s *SQLiteStore) GetUserProfile(participantID string) (*models.UserProfile, error) {
	query := `SELECT participant_id, name, age, booking_date, created_at, updated_at
			  FROM user_profiles WHERE participant_id = ?`

	row := s.db.QueryRow(query, participantID)
	profile, err := scanUserProfile(row)
	if err == sql.ErrNoRows {
		slog.Debug("SQLiteStore GetUserProfile not found", "participantID", participantID)
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetUserProfile failed", "error", err, "participantID", participantID)
		return nil, fmt.Errorf("failed to get user profile for %s: %w", participantID, err)
	}
	return profile, nil
}

// SaveUserProfile stores or updates a participant's profile.
func (s *SQLiteStore) SaveUserProfile(profile models.UserProfile) error {
	query := `
		INSERT OR REPLACE INTO user_profiles (participant_id, name, age, booking_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query, profile.ParticipantID, nilIfEmpty(profile.Name),
		nilIfZero(profile.Age), nilIfEmpty(profile.Date), profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveUserProfile failed", "error", err, "participantID", profile.ParticipantID)
		return fmt.Errorf("failed to save user profile for %s: %w", profile.ParticipantID, err)
	}
	slog.Debug("SQLiteStore SaveUserProfile succeeded", "participantID", profile.ParticipantID)
	return nil
}

// DeleteUserProfile removes a participant's profile.
func (s *SQLiteStore) DeleteUserProfile(participantID string) error {
	_, err := s.db.Exec(`DELETE FROM user_profiles WHERE participant_id = ?`, participantID)
	if err != nil {
		slog.Error("SQLiteStore DeleteUserProfile failed", "error", err, "participantID", participantID)
		return fmt.Errorf("failed to delete user profile for %s: %w", participantID, err)
	}
	slog.Debug("SQLiteStore DeleteUserProfile succeeded", "participantID", participantID)
	return nil
}

// AddResponse records an inbound turn.
func (s *SQLiteStore) AddResponse(r models.Response) error {
	_, err := s.db.Exec(`INSERT INTO responses (sender, body, time) VALUES (?, ?, ?)`, r.From, r.Body, r.Time)
	if err != nil {
		slog.Error("SQLiteStore AddResponse failed", "error", err, "from", r.From)
		return fmt.Errorf("failed to insert response from %s: %w", r.From, err)
	}
	slog.Debug("SQLiteStore AddResponse succeeded", "from", r.From)
	return nil
}

// GetResponses retrieves all recorded inbound turns.
func (s *SQLiteStore) GetResponses() ([]models.Response, error) {
	rows, err := s.db.Query(`SELECT sender, body, time FROM responses`)
	if err != nil {
		slog.Error("SQLiteStore GetResponses query failed", "error", err)
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	var responses []models.Response
	for rows.Next() {
		var r models.Response
		if err := rows.Scan(&r.From, &r.Body, &r.Time); err != nil {
			slog.Error("SQLiteStore GetResponses scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan response row: %w", err)
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore GetResponses rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate response rows: %w", err)
	}
	slog.Debug("SQLiteStore GetResponses succeeded", "count", len(responses))
	return responses, nil
}

// AddReceipt records a delivery receipt.
func (s *SQLiteStore) AddReceipt(r models.Receipt) error {
	_, err := s.db.Exec(`INSERT INTO receipts (recipient, status, time) VALUES (?, ?, ?)`, r.To, r.Status, r.Time)
	if err != nil {
		slog.Error("SQLiteStore AddReceipt failed", "error", err, "to", r.To)
		return fmt.Errorf("failed to insert receipt for %s: %w", r.To, err)
	}
	slog.Debug("SQLiteStore AddReceipt succeeded", "to", r.To, "status", r.Status)
	return nil
}

// GetReceipts retrieves all recorded delivery receipts.
func (s *SQLiteStore) GetReceipts() ([]models.Receipt, error) {
	rows, err := s.db.Query(`SELECT recipient, status, time FROM receipts`)
	if err != nil {
		slog.Error("SQLiteStore GetReceipts query failed", "error", err)
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		var r models.Receipt
		if err := rows.Scan(&r.To, &r.Status, &r.Time); err != nil {
			slog.Error("SQLiteStore GetReceipts scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan receipt row: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore GetReceipts rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate receipt rows: %w", err)
	}
	slog.Debug("SQLiteStore GetReceipts succeeded", "count", len(receipts))
	return receipts, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close SQLite database", "error", err)
	}
	return err
}

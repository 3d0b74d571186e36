package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BTreeMap/BookFlow/internal/models"
	"github.com/BTreeMap/BookFlow/internal/util"
)

// turnRequest is the payload for POST /turn.
type turnRequest struct {
	ConversationID string `json:"conversation_id"`
	ParticipantID  string `json:"participant_id"`
	Input          string `json:"input"`
}

// turnResult is the result payload for POST /turn. The conversation ID is
// echoed back so callers that let the server mint one can reuse it.
type turnResult struct {
	ConversationID string           `json:"conversation_id"`
	Messages       []string         `json:"messages"`
	State          models.StateType `json:"state"`
}

// conversationResult is the result payload for GET /conversations/{id}.
type conversationResult struct {
	State   models.FlowState   `json:"state"`
	Profile models.UserProfile `json:"profile"`
}

// healthHandler reports liveness.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("BookFlow is healthy", nil))
}

// turnHandler runs one booking turn for a conversation.
func (s *Server) turnHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("Server.turnHandler invalid JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON payload"))
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = util.GenerateConversationID()
		slog.Debug("Server.turnHandler minted conversation ID", "conversationID", req.ConversationID)
	}
	if req.ParticipantID == "" {
		req.ParticipantID = req.ConversationID
	}

	messages, state, err := s.coordinator.HandleTurn(r.Context(), req.ConversationID, req.ParticipantID, req.Input)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyConversationID),
			errors.Is(err, models.ErrEmptyParticipantID),
			errors.Is(err, models.ErrTurnBodyTooLong):
			writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		default:
			slog.Error("Server.turnHandler turn failed", "error", err, "conversationID", req.ConversationID)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process turn"))
		}
		return
	}

	writeJSONResponse(w, http.StatusOK, models.Success(turnResult{ConversationID: req.ConversationID, Messages: messages, State: state}))
}

// conversationHandler returns the current flow state and profile for one
// conversation, or resets it on DELETE.
func (s *Server) conversationHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := strings.TrimPrefix(r.URL.Path, "/conversations/")
	if conversationID == "" || strings.Contains(conversationID, "/") {
		writeJSONResponse(w, http.StatusNotFound, models.Error("Conversation not found"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		state, err := s.states.GetFlowState(r.Context(), conversationID)
		if err != nil {
			slog.Error("Server.conversationHandler failed to load state", "error", err, "conversationID", conversationID)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load conversation"))
			return
		}
		profile, err := s.states.GetUserProfile(r.Context(), conversationID)
		if err != nil {
			slog.Error("Server.conversationHandler failed to load profile", "error", err, "conversationID", conversationID)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load conversation"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(conversationResult{State: state, Profile: profile}))

	case http.MethodDelete:
		if err := s.states.ResetConversation(r.Context(), conversationID, conversationID); err != nil {
			slog.Error("Server.conversationHandler failed to reset", "error", err, "conversationID", conversationID)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to reset conversation"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Conversation reset", nil))

	default:
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
	}
}

// responsesHandler lists recorded inbound turns.
func (s *Server) responsesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}

	responses, err := s.st.GetResponses()
	if err != nil {
		slog.Error("Server.responsesHandler failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to list responses"))
		return
	}
	if responses == nil {
		responses = []models.Response{}
	}
	writeJSONResponse(w, http.StatusOK, models.Success(responses))
}

// receiptsHandler lists recorded delivery receipts.
func (s *Server) receiptsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}

	receipts, err := s.st.GetReceipts()
	if err != nil {
		slog.Error("Server.receiptsHandler failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to list receipts"))
		return
	}
	if receipts == nil {
		receipts = []models.Receipt{}
	}
	writeJSONResponse(w, http.StatusOK, models.Success(receipts))
}

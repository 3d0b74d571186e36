package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/BTreeMap/BookFlow/internal/flow"
	"github.com/BTreeMap/BookFlow/internal/models"
)

// phoneNumberRegex strips everything but digits from a recipient identifier.
var phoneNumberRegex = regexp.MustCompile(`[^0-9]`)

// Recorder persists inbound turns for auditing. Recording is best effort; a
// failure never blocks the conversation.
type Recorder interface {
	AddResponse(response models.Response) error
}

// ResponseHandler routes inbound turns from a channel service into the
// booking flow and sends the flow's messages back over the same channel.
//
// Turns are processed strictly one at a time, in arrival order, so a
// conversation's flow state and profile are never mutated concurrently.
type ResponseHandler struct {
	coordinator *flow.Coordinator
	msgService  Service
	recorder    Recorder
}

// NewResponseHandler creates a new ResponseHandler for the given coordinator
// and messaging service.
func NewResponseHandler(coordinator *flow.Coordinator, msgService Service) *ResponseHandler {
	return &ResponseHandler{
		coordinator: coordinator,
		msgService:  msgService,
	}
}

// SetRecorder installs an inbound turn recorder.
func (rh *ResponseHandler) SetRecorder(recorder Recorder) {
	rh.recorder = recorder
}

// ProcessResponse runs one inbound turn through the booking flow and sends
// each outgoing message in order. The sender identity doubles as conversation
// and participant key.
func (rh *ResponseHandler) ProcessResponse(ctx context.Context, response models.Response) error {
	canonicalFrom, err := rh.msgService.ValidateAndCanonicalizeRecipient(response.From)
	if err != nil {
		slog.Error("ResponseHandler ProcessResponse validation failed", "error", err, "from", response.From)
		return fmt.Errorf("invalid sender: %w", err)
	}

	slog.Debug("ResponseHandler processing response", "from", canonicalFrom, "body_length", len(response.Body))

	if rh.recorder != nil {
		if err := rh.recorder.AddResponse(models.Response{From: canonicalFrom, Body: response.Body, Time: response.Time}); err != nil {
			slog.Warn("ResponseHandler failed to record inbound turn", "error", err, "from", canonicalFrom)
		}
	}

	messages, state, err := rh.coordinator.HandleTurn(ctx, canonicalFrom, canonicalFrom, response.Body)
	if err != nil {
		slog.Error("ResponseHandler turn failed", "error", err, "from", canonicalFrom)
		errorMsg := "⚠️ We encountered an issue processing your message. Please try again."
		if sendErr := rh.msgService.SendMessage(ctx, canonicalFrom, errorMsg); sendErr != nil {
			slog.Error("ResponseHandler failed to send error message", "error", sendErr, "from", canonicalFrom)
		}
		return fmt.Errorf("turn failed: %w", err)
	}

	for _, msg := range messages {
		if err := rh.msgService.SendMessage(ctx, canonicalFrom, msg); err != nil {
			slog.Error("ResponseHandler failed to send message", "error", err, "from", canonicalFrom)
			return fmt.Errorf("failed to send message: %w", err)
		}
	}

	slog.Info("ResponseHandler turn handled", "from", canonicalFrom, "state", state, "messages", len(messages))
	return nil
}

// Start begins processing responses from the messaging service.
// This should be called once to start the response processing loop.
func (rh *ResponseHandler) Start(ctx context.Context) {
	slog.Info("ResponseHandler starting response processing")

	go func() {
		defer slog.Info("ResponseHandler stopped response processing")

		for {
			select {
			case response, ok := <-rh.msgService.Responses():
				if !ok {
					slog.Debug("ResponseHandler responses channel closed")
					return
				}

				if err := rh.ProcessResponse(ctx, response); err != nil {
					slog.Error("ResponseHandler failed to process response", "error", err, "from", response.From)
				}

			case <-ctx.Done():
				slog.Debug("ResponseHandler stopping due to context cancellation")
				return
			}
		}
	}()
}

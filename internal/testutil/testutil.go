// Package testutil provides common test utilities and helpers for BookFlow tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BTreeMap/BookFlow/internal/api"
	"github.com/BTreeMap/BookFlow/internal/flow"
	"github.com/BTreeMap/BookFlow/internal/models"
	"github.com/BTreeMap/BookFlow/internal/recognizer"
	"github.com/BTreeMap/BookFlow/internal/store"
)

// NewTestServer creates a test API server with an in-memory store and real
// recognizers. This centralizes the test server creation logic used across
// multiple test files.
func NewTestServer(t *testing.T) (*api.Server, store.Store) {
	t.Helper()

	numbers, err := recognizer.NewEnglishNumbers()
	if err != nil {
		t.Fatalf("failed to create number recognizer: %v", err)
	}
	dates := recognizer.NewNaturalDateTime()

	st := store.NewInMemoryStore()
	states := flow.NewStoreBasedStateManager(st)
	engine := flow.NewEngine(numbers, dates)
	coordinator := flow.NewCoordinator(engine, states)

	return api.NewServer(coordinator, states, st, nil), st
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it doesn't match.
func AssertHTTPStatus(t *testing.T, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// AssertJSONResponse decodes a JSON response and validates the status field.
func AssertJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus string) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}

	if status, ok := response["status"].(string); ok {
		if status != expectedStatus {
			t.Errorf("expected status '%s', got '%s'", expectedStatus, status)
		}
	} else {
		t.Error("response missing or invalid 'status' field")
	}

	return response
}

// CreateHTTPRequest creates an HTTP request with an optional JSON body for testing.
func CreateHTTPRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create HTTP request: %v", err)
	}
	return req
}

// AssertResponseCount validates the number of recorded turns in the store.
func AssertResponseCount(t *testing.T, st store.Store, expected int, context string) {
	t.Helper()
	responses, err := st.GetResponses()
	if err != nil {
		t.Fatalf("%s: failed to get responses: %v", context, err)
	}
	if len(responses) != expected {
		t.Errorf("%s: expected %d responses, got %d", context, expected, len(responses))
	}
}

// SeedTestData adds sample receipts and responses to the store for testing.
func SeedTestData(t *testing.T, st store.Store) {
	t.Helper()

	testReceipts := []models.Receipt{
		{To: "123456789", Status: models.MessageStatusSent, Time: 1},
		{To: "987654321", Status: models.MessageStatusDelivered, Time: 2},
	}
	for _, receipt := range testReceipts {
		if err := st.AddReceipt(receipt); err != nil {
			t.Fatalf("failed to add test receipt: %v", err)
		}
	}

	testResponses := []models.Response{
		{From: "123456789", Body: "test response 1", Time: 10},
		{From: "987654321", Body: "test response 2", Time: 20},
	}
	for _, response := range testResponses {
		if err := st.AddResponse(response); err != nil {
			t.Fatalf("failed to add test response: %v", err)
		}
	}
}

// MustMarshalJSON marshals an object to JSON and fails the test on error.
func MustMarshalJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return data
}

// MustUnmarshalJSON unmarshals JSON data into target and fails the test on error.
func MustUnmarshalJSON(t *testing.T, data []byte, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}
}

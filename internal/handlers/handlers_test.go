package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"honeynet/internal/middleware"
	"honeynet/internal/services"
)

const testAPIKey = "test_secret_key"

func setupTestApp(t *testing.T) (*fiber.App, *services.SessionStore) {
	t.Helper()

	store := services.NewSessionStore()
	personas, err := services.NewPersonaService("")
	if err != nil {
		t.Fatalf("Failed to create persona service: %v", err)
	}
	engagement := services.NewEngagementService(
		services.NewStubOracle(42), personas, store, nil, 0.6, 3,
	)

	app := fiber.New()
	auth := middleware.APIKeyMiddleware(testAPIKey)

	rootHandler := NewRootHandler()
	app.Get("/", rootHandler.Handle)
	app.Get("/health", NewHealthHandler(store).Handle)
	app.Get("/test", auth, rootHandler.HandleTest)
	app.Post("/test", auth, rootHandler.HandleTest)
	app.Post("/api/honeypot/analyze", auth, NewAnalyzeHandler(engagement).Handle)
	app.Get("/api/conversation/:id", auth, NewConversationHandler(store).Get)

	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path, apiKey string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	var result map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			t.Fatalf("Failed to parse JSON %q: %v", raw, err)
		}
	}
	return resp.StatusCode, result
}

func TestRootEndpoint(t *testing.T) {
	app, _ := setupTestApp(t)

	status, result := doJSON(t, app, "GET", "/", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if result["status"] != "operational" {
		t.Errorf("Expected operational status, got %v", result["status"])
	}
	if result["endpoints"] == nil {
		t.Error("Expected endpoints map in response")
	}
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := setupTestApp(t)

	status, result := doJSON(t, app, "GET", "/health", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if result["status"] != "healthy" {
		t.Errorf("Expected healthy, got %v", result["status"])
	}
	if result["sessions"] == nil {
		t.Error("Expected sessions field")
	}
}

func TestTestEndpointAuth(t *testing.T) {
	app, _ := setupTestApp(t)

	status, result := doJSON(t, app, "GET", "/test", "", nil)
	if status != fiber.StatusUnauthorized {
		t.Errorf("Missing key: expected 401, got %d", status)
	}

	status, _ = doJSON(t, app, "GET", "/test", "wrong-key", nil)
	if status != fiber.StatusUnauthorized {
		t.Errorf("Wrong key: expected 401, got %d", status)
	}

	status, result = doJSON(t, app, "POST", "/test", testAPIKey, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Valid key: expected 200, got %d", status)
	}
	if result["authenticated"] != true {
		t.Errorf("Expected authenticated=true, got %v", result["authenticated"])
	}
	if result["method"] != "POST" {
		t.Errorf("Expected method POST, got %v", result["method"])
	}
}

func TestAnalyzeRequiresAuth(t *testing.T) {
	app, _ := setupTestApp(t)

	status, _ := doJSON(t, app, "POST", "/api/honeypot/analyze", "",
		map[string]string{"message": "hello"})
	if status != fiber.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", status)
	}
}

func TestAnalyzeEmptyMessage(t *testing.T) {
	app, _ := setupTestApp(t)

	status, result := doJSON(t, app, "POST", "/api/honeypot/analyze", testAPIKey,
		map[string]string{"message": "   ", "conversation_id": "s1"})
	if status != fiber.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", status)
	}
	if result["error"] == nil {
		t.Error("Expected error message")
	}
}

func TestAnalyzeScamMessage(t *testing.T) {
	app, _ := setupTestApp(t)

	status, result := doJSON(t, app, "POST", "/api/honeypot/analyze", testAPIKey,
		map[string]string{
			"message":         "You won $50,000! Call +1-202-555-0134 or email claim@prize.com",
			"conversation_id": "conv-1",
		})
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d (%v)", status, result)
	}

	if result["is_scam"] != true {
		t.Errorf("Expected is_scam=true, got %v", result["is_scam"])
	}
	if result["scam_type"] != "prize_scam" {
		t.Errorf("Expected prize_scam, got %v", result["scam_type"])
	}
	if result["persona_used"] != "desperate" {
		t.Errorf("Expected desperate persona, got %v", result["persona_used"])
	}
	if result["ai_response"] == "" || result["ai_response"] == nil {
		t.Error("Expected a decoy reply")
	}
	if result["conversation_turn"] != float64(0) {
		t.Errorf("Expected conversation_turn 0, got %v", result["conversation_turn"])
	}

	extracted, ok := result["extracted_intelligence"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected extracted_intelligence object, got %v", result["extracted_intelligence"])
	}
	phones, _ := extracted["phone_numbers"].([]interface{})
	if len(phones) == 0 || phones[0] != "+1-202-555-0134" {
		t.Errorf("Expected extracted phone, got %v", phones)
	}
	emails, _ := extracted["emails"].([]interface{})
	if len(emails) == 0 || emails[0] != "claim@prize.com" {
		t.Errorf("Expected extracted email, got %v", emails)
	}
}

func TestAnalyzeBenignMessage(t *testing.T) {
	app, _ := setupTestApp(t)

	status, result := doJSON(t, app, "POST", "/api/honeypot/analyze", testAPIKey,
		map[string]string{"message": "hey, are we still meeting for lunch?", "conversation_id": "s1"})
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if result["is_scam"] != false {
		t.Errorf("Expected is_scam=false, got %v", result["is_scam"])
	}
	if result["ai_response"] != "" {
		t.Errorf("Expected no decoy reply for benign message, got %v", result["ai_response"])
	}
}

func TestAnalyzeWithoutConversationID(t *testing.T) {
	app, store := setupTestApp(t)

	status, _ := doJSON(t, app, "POST", "/api/honeypot/analyze", testAPIKey,
		map[string]string{"message": "you won a lottery prize"})
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if store.Count() != 1 {
		t.Errorf("Expected 1 auto-created session, got %d", store.Count())
	}
}

func TestConversationNotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	status, result := doJSON(t, app, "GET", "/api/conversation/never-seen", testAPIKey, nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("Expected 404, got %d (%v)", status, result)
	}
}

func TestConversationRoundtrip(t *testing.T) {
	app, _ := setupTestApp(t)

	messages := []string{
		"You won a prize! Call 9876543210",
		"To claim, pay the fee to merchant@okaxis",
	}
	for _, msg := range messages {
		status, _ := doJSON(t, app, "POST", "/api/honeypot/analyze", testAPIKey,
			map[string]string{"message": msg, "conversation_id": "conv-rt"})
		if status != fiber.StatusOK {
			t.Fatalf("Analyze failed with %d", status)
		}
	}

	status, result := doJSON(t, app, "GET", "/api/conversation/conv-rt", testAPIKey, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}

	if result["total_turns"] != float64(2) {
		t.Errorf("Expected 2 turns, got %v", result["total_turns"])
	}

	aggregate, ok := result["aggregated_intelligence"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected aggregated_intelligence object, got %v", result["aggregated_intelligence"])
	}
	phones, _ := aggregate["phone_numbers"].([]interface{})
	handles, _ := aggregate["payment_handles"].([]interface{})
	if len(phones) == 0 {
		t.Errorf("Expected phone in aggregate, got %v", phones)
	}
	if len(handles) == 0 {
		t.Errorf("Expected payment handle in aggregate, got %v", handles)
	}

	history, ok := result["history"].([]interface{})
	if !ok || len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %v", result["history"])
	}
	first, _ := history[0].(map[string]interface{})
	if first["scammer_message"] != messages[0] {
		t.Errorf("Expected first turn message preserved, got %v", first["scammer_message"])
	}
	if first["index"] != float64(0) {
		t.Errorf("Expected first turn index 0, got %v", first["index"])
	}
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"honeynet/internal/config"
	"honeynet/internal/models"
)

// FallbackReply is sent when reply generation fails; the conversation must
// keep moving even when the oracle is degraded.
const FallbackReply = "That sounds interesting! Can you tell me more about this?"

// Oracle is the contract with the external classification/response service.
// Classify never fails: any oracle problem collapses into the fail-closed
// verdict. GenerateReply never fails either: it falls back to a fixed
// neutral line.
type Oracle interface {
	Classify(ctx context.Context, message string, history []models.Turn) models.Verdict
	GenerateReply(ctx context.Context, message string, persona models.Persona, scamType string, history []models.Turn) string
}

// OracleService talks to an OpenAI-compatible chat completions endpoint.
type OracleService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter // caps outbound calls so inbound floods can't hammer the oracle
	verdicts   *cache.Cache  // identical messages within the window reuse their verdict
	metrics    *Metrics
}

// NewOracleService creates an oracle gateway from config.
func NewOracleService(cfg *config.Config, metrics *Metrics) *OracleService {
	return &OracleService{
		baseURL:    strings.TrimSuffix(cfg.OracleBaseURL, "/"),
		apiKey:     cfg.OracleAPIKey,
		model:      cfg.OracleModel,
		httpClient: &http.Client{Timeout: cfg.OracleTimeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.OracleRate), int(math.Max(1, cfg.OracleRate*2))),
		verdicts:   cache.New(10*time.Minute, 5*time.Minute),
		metrics:    metrics,
	}
}

// Classify asks the oracle whether a message is a scam. Any transport or
// payload failure is recovered locally into the fail-closed verdict.
func (s *OracleService) Classify(ctx context.Context, message string, history []models.Turn) models.Verdict {
	if cached, found := s.verdicts.Get(message); found {
		return cached.(models.Verdict)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return models.FailClosedVerdict(fmt.Sprintf("Detection failed: %v", err))
	}

	raw, err := s.chatCompletion(ctx, s.classificationPrompt(message, history), 0.3, 800)
	if err != nil {
		log.Printf("❌ [ORACLE] Classification call failed: %v", err)
		if s.metrics != nil {
			s.metrics.RecordOracleError("unavailable")
		}
		return models.FailClosedVerdict(fmt.Sprintf("Detection failed: %v", err))
	}

	var payload struct {
		IsScam     bool    `json:"is_scam"`
		Confidence float64 `json:"confidence"`
		ScamType   string  `json:"scam_type"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		log.Printf("⚠️  [ORACLE] No structured verdict recoverable from oracle output: %v", err)
		if s.metrics != nil {
			s.metrics.RecordOracleError("malformed")
		}
		return models.FailClosedVerdict("Detection failed: oracle returned no structured verdict")
	}

	verdict := models.Verdict{
		IsScam:     payload.IsScam,
		Confidence: clamp01(payload.Confidence),
		ScamType:   payload.ScamType,
		Reasoning:  payload.Reasoning,
	}
	if verdict.ScamType == "" {
		verdict.ScamType = models.ScamTypeUnknown
	}
	if verdict.Reasoning == "" {
		verdict.Reasoning = "Analysis completed"
	}

	s.verdicts.Set(message, verdict, cache.DefaultExpiration)
	return verdict
}

// GenerateReply produces an in-character victim response. On any failure it
// returns the fixed neutral fallback rather than failing the turn.
func (s *OracleService) GenerateReply(ctx context.Context, message string, persona models.Persona, scamType string, history []models.Turn) string {
	if err := s.limiter.Wait(ctx); err != nil {
		return FallbackReply
	}

	reply, err := s.chatCompletion(ctx, s.replyPrompt(message, persona, scamType, history), 0.7, 2000)
	if err != nil {
		log.Printf("❌ [ORACLE] Reply generation failed: %v", err)
		if s.metrics != nil {
			s.metrics.RecordOracleError("reply")
		}
		return FallbackReply
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return FallbackReply
	}
	return reply
}

func (s *OracleService) classificationPrompt(message string, history []models.Turn) string {
	var sb strings.Builder
	sb.WriteString("You are an expert scam detection system. Analyze this message:\n\n")
	fmt.Fprintf(&sb, "MESSAGE: %q\n", message)
	sb.WriteString(formatContext(history))
	sb.WriteString(`
Determine:
1. Is this a scam/phishing/fraud attempt?
2. What type of scam is it?
3. Confidence level (0.0 to 1.0)

Common scam types:
`)
	for _, t := range models.KnownScamTypes {
		fmt.Fprintf(&sb, "- %s\n", t)
	}
	sb.WriteString(`
Respond ONLY in this JSON format:
{
    "is_scam": true/false,
    "confidence": 0.0-1.0,
    "scam_type": "type_from_list_above",
    "reasoning": "brief explanation of why this is/isn't a scam"
}`)
	return sb.String()
}

func (s *OracleService) replyPrompt(message string, persona models.Persona, scamType string, history []models.Turn) string {
	var sb strings.Builder
	sb.WriteString("You are roleplaying as a potential scam victim to extract information from scammers.\n\n")
	sb.WriteString("PERSONA:\n")
	fmt.Fprintf(&sb, "- Name: %s\n- Age: %d\n- Traits: %s\n- Communication style: %s\n\n", persona.Name, persona.Age, persona.Traits, persona.Style)
	fmt.Fprintf(&sb, "SCAM TYPE: %s\n\n", scamType)
	fmt.Fprintf(&sb, "SCAMMER'S MESSAGE: %q\n", message)
	sb.WriteString(formatContext(history))
	fmt.Fprintf(&sb, `
YOUR GOAL:
1. Respond as %s would - stay IN CHARACTER
2. Show interest to keep the scammer engaged
3. Ask questions that might reveal: bank details, payment handles, phone numbers, links, payment methods
4. Sound believable - not too eager, show some natural hesitation
5. DO NOT reveal you know it's a scam
6. Gradually increase trust to extract more information

Respond ONLY with the message you would send (no JSON, no explanation, just the response as %s).`, persona.Name, persona.Name)
	return sb.String()
}

// formatContext renders prior turns as alternating scammer/victim lines.
// History is read-only here; the caller already bounded it to the last k turns.
func formatContext(history []models.Turn) string {
	if len(history) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\nPrevious conversation:\n")
	for _, turn := range history {
		fmt.Fprintf(&sb, "Scammer: %s\n", turn.ScammerMessage)
		if turn.OurResponse != "" {
			fmt.Fprintf(&sb, "You: %s\n", turn.OurResponse)
		}
	}
	return sb.String()
}

// chatCompletion performs a synchronous (non-streaming) completion call.
func (s *OracleService) chatCompletion(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	reqBody := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]interface{}{
			{"role": "user", "content": prompt},
		},
		"temperature": temperature,
		"max_tokens":  maxTokens,
		"stream":      false,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(reqJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return result.Choices[0].Message.Content, nil
}

// extractJSON salvages a JSON object from free-form LLM output: fenced
// ```json blocks first, then any fenced block that opens with a brace, then
// the first balanced top-level object.
func extractJSON(s string) string {
	if idx := strings.Index(s, "```json"); idx >= 0 {
		start := idx + 7
		end := strings.Index(s[start:], "```")
		if end >= 0 {
			return strings.TrimSpace(s[start : start+end])
		}
	}
	if idx := strings.Index(s, "```"); idx >= 0 {
		start := idx + 3
		if nlIdx := strings.Index(s[start:], "\n"); nlIdx >= 0 {
			start += nlIdx + 1
		}
		end := strings.Index(s[start:], "```")
		if end >= 0 {
			candidate := strings.TrimSpace(s[start : start+end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	if idx := strings.Index(s, "{"); idx >= 0 {
		depth := 0
		for i := idx; i < len(s); i++ {
			switch s[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return s[idx : i+1]
				}
			}
		}
	}

	return strings.TrimSpace(s)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

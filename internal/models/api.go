package models

// AnalyzeRequest is the body of POST /api/honeypot/analyze.
type AnalyzeRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

// AnalyzeResponse is the full turn result returned to the delivery layer.
type AnalyzeResponse struct {
	Status                     string          `json:"status"`
	Timestamp                  string          `json:"timestamp"`
	IsScam                     bool            `json:"is_scam"`
	Confidence                 float64         `json:"confidence"`
	ScamType                   string          `json:"scam_type"`
	AIResponse                 string          `json:"ai_response"`
	PersonaUsed                string          `json:"persona_used,omitempty"`
	ExtractedIntelligence      IntelligenceSet `json:"extracted_intelligence"`
	Reasoning                  string          `json:"reasoning"`
	ConversationTurn           int             `json:"conversation_turn"`
	TotalIntelligenceCollected IntelligenceSet `json:"total_intelligence_collected"`
}

// ConversationResponse is the body of GET /api/conversation/:id.
type ConversationResponse struct {
	ConversationID         string          `json:"conversation_id"`
	TotalTurns             int             `json:"total_turns"`
	History                []Turn          `json:"history"`
	AggregatedIntelligence IntelligenceSet `json:"aggregated_intelligence"`
}

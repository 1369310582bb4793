package models

import "time"

// Turn is one inbound scammer message and its processing outcome.
// Index is the turn's 0-based position within its session, assigned at
// append time and immutable afterwards.
type Turn struct {
	ID             string          `json:"id"`
	Index          int             `json:"index"`
	ScammerMessage string          `json:"scammer_message"`
	OurResponse    string          `json:"our_response,omitempty"`
	PersonaUsed    string          `json:"persona_used,omitempty"`
	Verdict        Verdict         `json:"verdict"`
	Intelligence   IntelligenceSet `json:"intelligence"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Session is the ordered turn history and cumulative intelligence aggregate
// for one conversation, keyed by an opaque conversation ID supplied by the
// delivery layer.
type Session struct {
	ID             string          `json:"id"`
	Turns          []Turn          `json:"turns"`
	Aggregate      IntelligenceSet `json:"aggregate"`
	CreatedAt      time.Time       `json:"created_at"`
	LastActivityAt time.Time       `json:"last_activity_at"`
}

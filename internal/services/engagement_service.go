package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"honeynet/internal/intel"
	"honeynet/internal/logging"
	"honeynet/internal/models"
)

// turnState tracks a turn through the engagement pipeline.
type turnState int

const (
	stateReceived turnState = iota
	stateExtracted
	stateClassified
	stateEngaged
	stateSkipped
	stateRecorded
)

func (s turnState) String() string {
	switch s {
	case stateReceived:
		return "received"
	case stateExtracted:
		return "extracted"
	case stateClassified:
		return "classified"
	case stateEngaged:
		return "engaged"
	case stateSkipped:
		return "skipped"
	case stateRecorded:
		return "recorded"
	}
	return "unknown"
}

// AnalysisResult is the outcome of one processed turn.
type AnalysisResult struct {
	Verdict          models.Verdict
	Response         string
	PersonaUsed      string
	Extracted        models.IntelligenceSet
	Aggregate        models.IntelligenceSet
	ConversationTurn int
}

// EngagementService runs the per-message pipeline: extract and classify
// concurrently, engage with a decoy reply when the verdict crosses the
// action threshold, then record the turn into the session store.
type EngagementService struct {
	oracle    Oracle
	personas  *PersonaService
	store     *SessionStore
	metrics   *Metrics
	threshold float64
	ctxTurns  int
}

// NewEngagementService wires the pipeline together.
func NewEngagementService(oracle Oracle, personas *PersonaService, store *SessionStore, metrics *Metrics, threshold float64, contextTurns int) *EngagementService {
	return &EngagementService{
		oracle:    oracle,
		personas:  personas,
		store:     store,
		metrics:   metrics,
		threshold: threshold,
		ctxTurns:  contextTurns,
	}
}

// AnalyzeMessage processes one inbound message for a conversation.
// Unknown conversation IDs create a session lazily. The only error this can
// return is ErrEmptyMessage; oracle failures collapse into the fail-closed
// verdict and the turn completes as skipped.
func (e *EngagementService) AnalyzeMessage(ctx context.Context, message, conversationID string) (*AnalysisResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	started := time.Now()
	turnID := uuid.New().String()
	logger := logging.WithSession(conversationID).With("turn_id", turnID)

	state := stateReceived
	logger.Debug("turn received", "state", state.String())

	// Context is read before the turn is appended, so the new message never
	// appears in its own context window.
	history := e.store.Recent(conversationID, e.ctxTurns)

	// Extraction and classification are independent reads of the same
	// input; run them concurrently. Neither can fail: extraction is pure
	// and the oracle gateway fails closed internally.
	var extracted models.IntelligenceSet
	var verdict models.Verdict

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		extracted = intel.Extract(message)
		return nil
	})
	g.Go(func() error {
		verdict = e.oracle.Classify(gctx, message, history)
		return nil
	})
	_ = g.Wait()

	state = stateExtracted
	logger.Debug("intelligence extracted", "state", state.String(), "items", extracted.Total())

	state = stateClassified
	logger.Debug("turn classified",
		"state", state.String(),
		"is_scam", verdict.IsScam,
		"confidence", verdict.Confidence,
		"scam_type", verdict.ScamType,
	)

	var response, personaUsed string
	if verdict.IsScam && verdict.Confidence >= e.threshold {
		state = stateEngaged
		persona := e.personas.Select(verdict.ScamType)
		personaUsed = persona.Key
		response = e.oracle.GenerateReply(ctx, message, persona, verdict.ScamType, history)
		logger.Info("engaging scammer", "state", state.String(), "persona", personaUsed)
	} else {
		state = stateSkipped
		logger.Debug("below action threshold", "state", state.String())
	}

	turn := models.Turn{
		ID:             turnID,
		ScammerMessage: message,
		OurResponse:    response,
		PersonaUsed:    personaUsed,
		Verdict:        verdict,
		Intelligence:   extracted,
		CreatedAt:      time.Now(),
	}

	// The single mutation point: append + aggregate, atomic per session.
	turn, aggregate := e.store.Append(conversationID, turn)
	state = stateRecorded
	logger.Debug("turn recorded", "state", state.String(), "turn_index", turn.Index)

	if e.metrics != nil {
		outcome := "skipped"
		if response != "" {
			outcome = "engaged"
		}
		e.metrics.RecordTurn(outcome, time.Since(started).Seconds())
		for _, c := range extracted.Categories() {
			e.metrics.RecordIntel(c.Name, len(c.Values))
		}
	}

	return &AnalysisResult{
		Verdict:          verdict,
		Response:         response,
		PersonaUsed:      personaUsed,
		Extracted:        extracted,
		Aggregate:        aggregate,
		ConversationTurn: turn.Index,
	}, nil
}

package services

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"honeynet/internal/models"
)

// StubOracle is a self-contained oracle used when no API key is configured
// (demo mode) and in tests. Verdicts come from keyword heuristics so they
// are deterministic; canned replies are chosen at random from a pool, with
// a seedable source so tests can pin the sequence.
type StubOracle struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewStubOracle creates a stub oracle with the given random seed.
func NewStubOracle(seed int64) *StubOracle {
	return &StubOracle{rng: rand.New(rand.NewSource(seed))}
}

var stubRules = []struct {
	keywords   []string
	scamType   string
	confidence float64
}{
	{[]string{"won", "prize", "lottery", "claim", "reward"}, models.ScamTypePrize, 0.9},
	{[]string{"invest", "returns", "double your", "trading", "profit"}, models.ScamTypeInvestmentFraud, 0.85},
	{[]string{"virus", "infected", "remote access", "technician", "microsoft support"}, models.ScamTypeTechSupport, 0.85},
	{[]string{"verify your account", "suspended", "click here", "password", "login"}, models.ScamTypePhishing, 0.8},
	{[]string{"job offer", "work from home", "registration fee", "hiring"}, models.ScamTypeJob, 0.75},
	{[]string{"donation", "charity", "help the victims"}, models.ScamTypeDonation, 0.7},
	{[]string{"bank official", "government", "tax department", "customs"}, models.ScamTypeImpersonation, 0.8},
	{[]string{"my love", "lonely", "soulmate"}, models.ScamTypeRomance, 0.7},
}

var stubReplies = map[string][]string{
	models.PersonaDesperate: {
		"Oh wow, really? I could really use this right now. How does it work?",
		"This sounds amazing! What do I need to do first?",
		"I've been waiting for something like this. Is it safe? How do I receive the money?",
	},
	models.PersonaElderly: {
		"Oh dear, I'm not very good with computers. Could you explain that again slowly?",
		"My grandson usually helps me with these things. What exactly should I click?",
		"That sounds serious. What information do you need from me?",
	},
	models.PersonaYoungProfessional: {
		"Hm, ok. I'm kind of busy but this sounds interesting. What's the catch?",
		"Sure, can you send me the details? How do I know this is legit?",
		"Cool, what are the next steps? Do you have a website or something?",
	},
}

// Classify scores a message against the keyword rules.
func (s *StubOracle) Classify(_ context.Context, message string, _ []models.Turn) models.Verdict {
	lowered := strings.ToLower(message)
	for _, rule := range stubRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return models.Verdict{
					IsScam:     true,
					Confidence: rule.confidence,
					ScamType:   rule.scamType,
					Reasoning:  "Matched known scam indicator: " + kw,
				}
			}
		}
	}
	return models.Verdict{
		IsScam:     false,
		Confidence: 0.2,
		ScamType:   models.ScamTypeUnknown,
		Reasoning:  "No scam indicators found",
	}
}

// GenerateReply picks a canned in-character line for the persona.
func (s *StubOracle) GenerateReply(_ context.Context, _ string, persona models.Persona, _ string, _ []models.Turn) string {
	pool, ok := stubReplies[persona.Key]
	if !ok || len(pool) == 0 {
		return FallbackReply
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return pool[s.rng.Intn(len(pool))]
}

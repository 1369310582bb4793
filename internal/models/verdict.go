package models

// Known scam categories as reported by the classification oracle.
// The oracle may return values outside this list; everything unrecognized
// is treated as ScamTypeUnknown for persona selection.
const (
	ScamTypePhishing        = "phishing"
	ScamTypePrize           = "prize_scam"
	ScamTypeImpersonation   = "impersonation"
	ScamTypeInvestmentFraud = "investment_fraud"
	ScamTypeRomance         = "romance_scam"
	ScamTypeTechSupport     = "tech_support_scam"
	ScamTypeJob             = "job_scam"
	ScamTypeDonation        = "donation_scam"
	ScamTypeUnknown         = "unknown"
)

// KnownScamTypes lists the categories the classification prompt asks for.
var KnownScamTypes = []string{
	ScamTypePhishing,
	ScamTypePrize,
	ScamTypeImpersonation,
	ScamTypeInvestmentFraud,
	ScamTypeRomance,
	ScamTypeTechSupport,
	ScamTypeJob,
	ScamTypeDonation,
}

// Verdict is the normalized classification outcome for a single message.
type Verdict struct {
	IsScam     bool    `json:"is_scam"`
	Confidence float64 `json:"confidence"`
	ScamType   string  `json:"scam_type"`
	Reasoning  string  `json:"reasoning"`
}

// FailClosedVerdict is the verdict used when the oracle is unreachable or
// returns garbage: not flagged, zero confidence, so the turn never engages.
// Absence of evidence is not treated as a threat.
func FailClosedVerdict(reason string) Verdict {
	return Verdict{
		IsScam:     false,
		Confidence: 0.0,
		ScamType:   ScamTypeUnknown,
		Reasoning:  reason,
	}
}

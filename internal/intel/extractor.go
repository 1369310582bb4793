// Package intel extracts actionable intelligence items from raw scammer
// messages using fixed recognizer rules. Extraction is pure and deterministic;
// the same text always produces the same set.
package intel

import (
	"regexp"
	"strings"

	"honeynet/internal/models"
)

// Recognizer patterns. Go's regexp engine is linear-time, so adversarial
// input cannot trigger catastrophic backtracking.
var (
	// Country-code-prefixed 3-3-4 groupings (+1-202-555-0134), bare 10-15
	// digit runs (optionally +-prefixed), or the plain 3-3-4 grouping with
	// -, . or space separators.
	phoneRe = regexp.MustCompile(`\+?\d{1,3}[-.\s]\d{3}[-.\s]\d{3}[-.\s]\d{4}|\+?\d{10,15}|\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)

	// Bare digit runs of 9-18 digits. Overlaps with phone numbers on the
	// length boundaries; that is accepted over-collection, downstream
	// consumers disambiguate by intent.
	bankAccountRe = regexp.MustCompile(`\b\d{9,18}\b`)

	// Fixed-format institutional routing codes: 4 uppercase letters, a
	// zero, then 6 alphanumerics (IFSC-style).
	routingCodeRe = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)

	// Payment handles (UPI-style): local part @ bare domain token, no
	// dotted suffix required. Emails also match this shape, which is
	// intentional over-collection.
	paymentHandleRe = regexp.MustCompile(`\b[\w.\-]+@\w+\b`)

	// The $-_ range covers most URL punctuation (/, ?, =, :, digits) in
	// one span, plus percent-encoding triplets.
	urlRe = regexp.MustCompile(`https?://(?:[a-zA-Z0-9]|[$-_@.&+]|[!*(),]|%[0-9a-fA-F]{2})+`)

	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// paymentVocabulary is the fixed list of payment-rail names matched as
// case-insensitive substrings. Each entry is recorded at most once per
// message regardless of how often it appears.
var paymentVocabulary = []string{
	"paypal",
	"venmo",
	"zelle",
	"cashapp",
	"cash app",
	"western union",
	"moneygram",
	"gift card",
	"bitcoin",
	"btc",
	"ethereum",
	"eth",
	"usdt",
	"crypto",
	"upi",
	"paytm",
	"phonepe",
	"gpay",
	"google pay",
	"wire transfer",
	"bank transfer",
	"apple pay",
}

// Extract runs every recognizer over text and returns the resulting
// intelligence set. Categories run independently; a substring may match
// more than one category.
func Extract(text string) models.IntelligenceSet {
	out := models.NewIntelligenceSet()
	out.PhoneNumbers = dedupe(phoneRe.FindAllString(text, -1))
	out.BankAccounts = dedupe(bankAccountRe.FindAllString(text, -1))
	out.BankRoutingCodes = dedupe(routingCodeRe.FindAllString(text, -1))
	out.PaymentHandles = dedupe(paymentHandleRe.FindAllString(text, -1))
	out.URLs = dedupe(urlRe.FindAllString(text, -1))
	out.Emails = dedupe(emailRe.FindAllString(text, -1))
	out.PaymentMethodMentions = matchVocabulary(text)
	return out
}

// dedupe removes exact duplicates, preserving first-occurrence order.
func dedupe(matches []string) []string {
	out := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func matchVocabulary(text string) []string {
	lowered := strings.ToLower(text)
	out := []string{}
	for _, term := range paymentVocabulary {
		if strings.Contains(lowered, term) {
			out = append(out, term)
		}
	}
	return out
}

package models

import "strings"

// Intelligence category keys, stable across the API surface.
const (
	CategoryPhoneNumbers          = "phone_numbers"
	CategoryBankAccounts          = "bank_accounts"
	CategoryBankRoutingCodes      = "bank_routing_codes"
	CategoryPaymentHandles        = "payment_handles"
	CategoryURLs                  = "urls"
	CategoryEmails                = "emails"
	CategoryPaymentMethodMentions = "payment_method_mentions"
)

// IntelligenceSet holds deduplicated intelligence items grouped by category.
// Every category is always present; empty categories serialize as [] rather
// than null so downstream consumers get a stable shape.
type IntelligenceSet struct {
	PhoneNumbers          []string `json:"phone_numbers"`
	BankAccounts          []string `json:"bank_accounts"`
	BankRoutingCodes      []string `json:"bank_routing_codes"`
	PaymentHandles        []string `json:"payment_handles"`
	URLs                  []string `json:"urls"`
	Emails                []string `json:"emails"`
	PaymentMethodMentions []string `json:"payment_method_mentions"`
}

// NewIntelligenceSet returns a set with every category initialized empty.
func NewIntelligenceSet() IntelligenceSet {
	return IntelligenceSet{
		PhoneNumbers:          []string{},
		BankAccounts:          []string{},
		BankRoutingCodes:      []string{},
		PaymentHandles:        []string{},
		URLs:                  []string{},
		Emails:                []string{},
		PaymentMethodMentions: []string{},
	}
}

// Categories returns category name -> values pairs in a fixed order.
func (s *IntelligenceSet) Categories() []struct {
	Name   string
	Values []string
} {
	return []struct {
		Name   string
		Values []string
	}{
		{CategoryPhoneNumbers, s.PhoneNumbers},
		{CategoryBankAccounts, s.BankAccounts},
		{CategoryBankRoutingCodes, s.BankRoutingCodes},
		{CategoryPaymentHandles, s.PaymentHandles},
		{CategoryURLs, s.URLs},
		{CategoryEmails, s.Emails},
		{CategoryPaymentMethodMentions, s.PaymentMethodMentions},
	}
}

// Merge unions other into s, category by category. Values are never removed,
// so repeated merges are idempotent and the set only grows. Payment method
// mentions dedupe case-insensitively; every other category dedupes on the
// exact string.
func (s *IntelligenceSet) Merge(other IntelligenceSet) {
	s.PhoneNumbers = unionExact(s.PhoneNumbers, other.PhoneNumbers)
	s.BankAccounts = unionExact(s.BankAccounts, other.BankAccounts)
	s.BankRoutingCodes = unionExact(s.BankRoutingCodes, other.BankRoutingCodes)
	s.PaymentHandles = unionExact(s.PaymentHandles, other.PaymentHandles)
	s.URLs = unionExact(s.URLs, other.URLs)
	s.Emails = unionExact(s.Emails, other.Emails)
	s.PaymentMethodMentions = unionFold(s.PaymentMethodMentions, other.PaymentMethodMentions)
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing the store's backing slices.
func (s *IntelligenceSet) Clone() IntelligenceSet {
	out := NewIntelligenceSet()
	out.Merge(*s)
	return out
}

// Total returns the number of items across all categories.
func (s *IntelligenceSet) Total() int {
	n := 0
	for _, c := range s.Categories() {
		n += len(c.Values)
	}
	return n
}

func unionExact(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range src {
		if !seen[v] {
			seen[v] = true
			dst = append(dst, v)
		}
	}
	return dst
}

func unionFold(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[strings.ToLower(v)] = true
	}
	for _, v := range src {
		key := strings.ToLower(v)
		if !seen[key] {
			seen[key] = true
			dst = append(dst, v)
		}
	}
	return dst
}

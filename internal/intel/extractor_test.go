package intel

import (
	"reflect"
	"strings"
	"testing"
)

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func TestExtractPrizeScamScenario(t *testing.T) {
	text := `You won $50,000! Call +1-202-555-0134 or email claim@prize.com`

	set := Extract(text)

	if !contains(set.PhoneNumbers, "+1-202-555-0134") {
		t.Errorf("Expected phone '+1-202-555-0134', got %v", set.PhoneNumbers)
	}
	if !contains(set.Emails, "claim@prize.com") {
		t.Errorf("Expected email 'claim@prize.com', got %v", set.Emails)
	}
}

func TestExtractIdempotent(t *testing.T) {
	text := "Send 5000 via paypal to scammer@upi or call 9876543210, again paypal!"

	first := Extract(text)
	second := Extract(text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Extract not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExtractPhoneNumbers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bare 10 digits", "call 9876543210 now", "9876543210"},
		{"plus prefixed run", "whatsapp +919876543210", "+919876543210"},
		{"dashed grouping", "dial 202-555-0134", "202-555-0134"},
		{"dotted grouping", "dial 202.555.0134", "202.555.0134"},
		{"country code grouping", "+1-202-555-0134", "+1-202-555-0134"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Extract(tt.text)
			if !contains(set.PhoneNumbers, tt.want) {
				t.Errorf("Expected %q in phone numbers, got %v", tt.want, set.PhoneNumbers)
			}
		})
	}
}

func TestExtractBankAccountOverlapsPhone(t *testing.T) {
	// A 12-digit run is both a plausible phone number and a plausible
	// account number. Both categories must collect it.
	set := Extract("transfer to account 123456789012 today")

	if !contains(set.BankAccounts, "123456789012") {
		t.Errorf("Expected bank account match, got %v", set.BankAccounts)
	}
	if !contains(set.PhoneNumbers, "123456789012") {
		t.Errorf("Expected phone match for same digits, got %v", set.PhoneNumbers)
	}
}

func TestExtractRoutingCodes(t *testing.T) {
	set := Extract("IFSC: SBIN0001234 and hdfc0X9Y8Z7 should not match")

	if !contains(set.BankRoutingCodes, "SBIN0001234") {
		t.Errorf("Expected routing code SBIN0001234, got %v", set.BankRoutingCodes)
	}
	if len(set.BankRoutingCodes) != 1 {
		t.Errorf("Lowercase prefix must not match, got %v", set.BankRoutingCodes)
	}
}

func TestExtractPaymentHandlesAndEmails(t *testing.T) {
	set := Extract("Pay merchant@okaxis or write to support@fake-bank.com")

	if !contains(set.PaymentHandles, "merchant@okaxis") {
		t.Errorf("Expected handle merchant@okaxis, got %v", set.PaymentHandles)
	}
	// The dotted address is an email; the handle recognizer also picks up
	// a prefix of it, which is accepted over-collection.
	if !contains(set.Emails, "support@fake-bank.com") {
		t.Errorf("Expected email support@fake-bank.com, got %v", set.Emails)
	}
	if contains(set.Emails, "merchant@okaxis") {
		t.Errorf("Bare handle must not be classified as email, got %v", set.Emails)
	}
}

func TestExtractURLs(t *testing.T) {
	set := Extract("Verify at https://secure-bank.example.com/login?u=1 or http://bit.ly/x%20y")

	if !contains(set.URLs, "https://secure-bank.example.com/login?u=1") &&
		!contains(set.URLs, "https://secure-bank.example.com/login") {
		t.Errorf("Expected https URL, got %v", set.URLs)
	}
	found := false
	for _, u := range set.URLs {
		if strings.HasPrefix(u, "http://bit.ly/x%20y") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected percent-encoded URL, got %v", set.URLs)
	}
}

func TestExtractPaymentMentions(t *testing.T) {
	set := Extract("Send via PayPal or PAYPAL, or maybe Western Union / bitcoin")

	if !contains(set.PaymentMethodMentions, "paypal") {
		t.Errorf("Expected paypal mention, got %v", set.PaymentMethodMentions)
	}
	count := 0
	for _, m := range set.PaymentMethodMentions {
		if m == "paypal" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected paypal recorded once, got %v", set.PaymentMethodMentions)
	}
	if !contains(set.PaymentMethodMentions, "western union") {
		t.Errorf("Expected western union mention, got %v", set.PaymentMethodMentions)
	}
	if !contains(set.PaymentMethodMentions, "bitcoin") {
		t.Errorf("Expected bitcoin mention, got %v", set.PaymentMethodMentions)
	}
}

func TestExtractEmptyCategoriesPresent(t *testing.T) {
	set := Extract("hello there")

	for _, c := range set.Categories() {
		if c.Values == nil {
			t.Errorf("Category %s must be an empty slice, not nil", c.Name)
		}
		if len(c.Values) != 0 {
			t.Errorf("Category %s expected empty, got %v", c.Name, c.Values)
		}
	}
}

func TestExtractAdversarialInput(t *testing.T) {
	// Long runs of digits and separators must complete quickly; the RE2
	// engine guarantees linear time, this just exercises a worst-ish case.
	hostile := strings.Repeat("1", 10000) + strings.Repeat("-2", 5000) + strings.Repeat("a@", 5000)

	set := Extract(hostile)
	if set.Total() == 0 {
		t.Error("Expected at least one match on hostile input")
	}
}

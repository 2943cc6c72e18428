// Package safety provides content filtering, PII masking and spam
// detection for inbound chat messages.
package safety

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/fudosan-ai/qualibot/internal/domain"
)

// Rejection reasons returned by FilterContent.
const (
	ReasonInappropriateContent = "inappropriate_content"
	ReasonTextTooLong          = "text_too_long"
)

// Abuse reason codes returned by the detectors.
const (
	ReasonSpamDetected           = "spam_detected"
	ReasonContentPolicyViolation = "content_policy_violation"
)

// MaxContentLength is the hard upper bound on raw message size.
const MaxContentLength = 10000

// PII placeholder tokens.
const (
	maskEmail      = "[EMAIL]"
	maskPhone      = "[PHONE]"
	maskCreditCard = "[CREDIT_CARD]"
)

var blockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(spam|scam)`),
	regexp.MustCompile(`(?i)(inappropriate|offensive)`),
	regexp.MustCompile(`(?i)(malicious|attack)`),
}

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	// Japan-style hyphenated numbers and a +prefixed international
	// shape. The international pattern requires the plus so bare
	// numerals (budgets, areas) never read as phone numbers.
	phoneJPRe   = regexp.MustCompile(`0\d{1,4}-?\d{1,4}-?\d{4}`)
	phoneIntlRe = regexp.MustCompile(`\+\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}`)
	creditRe    = regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)
)

// FilterResult is the outcome of a content filter pass.
type FilterResult struct {
	IsSafe       bool
	Reason       string
	FilteredText string
}

// PIIResult is the outcome of a PII masking pass. DetectedPII holds each
// detected class at most once.
type PIIResult struct {
	MaskedText  string
	DetectedPII []string
	HasPII      bool
}

// ValidationResult is the combined outcome of ValidateMessage.
type ValidationResult struct {
	FilteredText string
	DetectedPII  []string
	HasPII       bool
}

// AbuseResult is the outcome of an abuse check. Action is "allow" or
// "block".
type AbuseResult struct {
	IsAbuse bool     `json:"is_abuse"`
	Reasons []string `json:"reasons"`
	Action  string   `json:"action"`
}

// Filter bundles the content, PII and spam detectors behind one value so
// pattern tables compile once at startup and are shared read-only.
type Filter struct{}

// NewFilter returns a content filter.
func NewFilter() *Filter { return &Filter{} }

// FilterContent rejects text matching a blocked pattern or exceeding the
// hard length cap, and echoes safe input unchanged.
func (f *Filter) FilterContent(text string) FilterResult {
	for _, p := range blockedPatterns {
		if p.MatchString(text) {
			return FilterResult{IsSafe: false, Reason: ReasonInappropriateContent}
		}
	}
	if utf8.RuneCountInString(text) > MaxContentLength {
		return FilterResult{IsSafe: false, Reason: ReasonTextTooLong}
	}
	return FilterResult{IsSafe: true, FilteredText: text}
}

// MaskPII replaces emails, credit card numbers and phone numbers with
// fixed placeholder tokens. Cards mask before phones so the phone
// patterns cannot consume card digit groups. Both phone shapes
// contribute a single "phone" entry.
func (f *Filter) MaskPII(text string) PIIResult {
	masked := text
	var detected []string

	if emailRe.MatchString(masked) {
		masked = emailRe.ReplaceAllString(masked, maskEmail)
		detected = append(detected, "email")
	}
	if creditRe.MatchString(masked) {
		masked = creditRe.ReplaceAllString(masked, maskCreditCard)
		detected = append(detected, "credit_card")
	}
	if phoneJPRe.MatchString(masked) {
		masked = phoneJPRe.ReplaceAllString(masked, maskPhone)
		detected = append(detected, "phone")
	}
	if phoneIntlRe.MatchString(masked) {
		masked = phoneIntlRe.ReplaceAllString(masked, maskPhone)
		if !contains(detected, "phone") {
			detected = append(detected, "phone")
		}
	}

	return PIIResult{
		MaskedText:  masked,
		DetectedPII: detected,
		HasPII:      len(detected) > 0,
	}
}

// ValidateMessage composes FilterContent and MaskPII. Filter failure
// returns a ContentFilterError and the caller must not persist the
// message; otherwise the masked text is the one to store and display.
func (f *Filter) ValidateMessage(text string) (ValidationResult, error) {
	filtered := f.FilterContent(text)
	if !filtered.IsSafe {
		return ValidationResult{}, domain.ErrContentFilter(
			"Content filtered: "+filtered.Reason,
			map[string]any{"reason": filtered.Reason},
		)
	}

	pii := f.MaskPII(text)
	return ValidationResult{
		FilteredText: pii.MaskedText,
		DetectedPII:  pii.DetectedPII,
		HasPII:       pii.HasPII,
	}, nil
}

// DetectSpam reports spam behavior: a character repeated six or more
// times in a row, an uppercase ratio above 0.7 on text longer than 20
// characters, or a flooded session. The triggers are independent.
func (f *Filter) DetectSpam(text string, sessionMessageCount int) bool {
	if hasRepeatedRun(text, 6) {
		return true
	}

	runes := []rune(text)
	if len(runes) > 20 {
		upper := 0
		for _, r := range runes {
			if unicode.IsUpper(r) {
				upper++
			}
		}
		if float64(upper)/float64(len(runes)) > 0.7 {
			return true
		}
	}

	return sessionMessageCount > 100
}

// Detectors reports which abuse reason codes fire for text. The spam
// check runs with a message count of zero, so the flooding trigger only
// fires through DetectSpam itself.
func (f *Filter) Detectors(text string) []string {
	var reasons []string
	if f.DetectSpam(text, 0) {
		reasons = append(reasons, ReasonSpamDetected)
	}
	if !f.FilterContent(text).IsSafe {
		reasons = append(reasons, ReasonContentPolicyViolation)
	}
	return reasons
}

// hasRepeatedRun reports whether any rune repeats at least n times
// consecutively. RE2 has no backreferences, so this is a manual scan.
func hasRepeatedRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

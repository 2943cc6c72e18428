// Package lang provides script-based language detection and text
// normalization for the supported languages (ja, en, vi).
package lang

import (
	"regexp"
	"strings"
)

// Supported language codes.
const (
	Japanese   = "ja"
	English    = "en"
	Vietnamese = "vi"
)

var (
	// Hiragana, Katakana and the CJK unified ideograph range.
	japaneseRe = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FFF}]`)
	// Vietnamese diacritic letters not present in plain ASCII text.
	vietnameseRe = regexp.MustCompile(`[àáạảãâầấậẩẫăằắặẳẵèéẹẻẽêềếệểễìíịỉĩòóọỏõôồốộổỗơờớợởỡùúụủũưừứựửữỳýỵỷỹđ]`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Detect returns the language code for text using a Unicode-range
// heuristic. Empty input defaults to Japanese, the product's primary
// language.
func Detect(text string) string {
	if text == "" {
		return Japanese
	}
	if japaneseRe.MatchString(text) {
		return Japanese
	}
	if vietnameseRe.MatchString(text) {
		return Vietnamese
	}
	return English
}

// Normalize trims the text and collapses every whitespace run (spaces,
// tabs, newlines) into a single ASCII space.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
}

// IsValidText reports whether the trimmed length of text lies within
// [minLength, maxLength]. Empty or whitespace-only text is never valid.
func IsValidText(text string, minLength, maxLength int) bool {
	if text == "" {
		return false
	}
	n := len([]rune(strings.TrimSpace(text)))
	if n == 0 {
		return false
	}
	return minLength <= n && n <= maxLength
}

// Default message length bounds.
const (
	MinMessageLength = 1
	MaxMessageLength = 1000
)

// IsValidMessage applies the default message length bounds.
func IsValidMessage(text string) bool {
	return IsValidText(text, MinMessageLength, MaxMessageLength)
}

// Package nlu implements pattern-based intent classification and entity
// extraction for property-search messages in Japanese, English and
// Vietnamese.
package nlu

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fudosan-ai/qualibot/internal/domain"
	"github.com/fudosan-ai/qualibot/internal/lang"
)

// Intent labels.
const (
	IntentGreeting           = "greeting"
	IntentPropertySearchBuy  = "property_search_buy"
	IntentPropertySearchRent = "property_search_rent"
	IntentPropertySearchSell = "property_search_sell"
	IntentLocationQuery      = "location_query"
	IntentBudgetQuery        = "budget_query"
	IntentConfirmation       = "confirmation"
	IntentNegation           = "negation"
)

// matchConfidence is the fixed confidence assigned to any pattern match.
const matchConfidence = 0.8

type intentEntry struct {
	intent   string
	patterns []*regexp.Regexp
}

// intentTable is evaluated in declaration order. All matches carry the
// same confidence, so the first declared intent with a matching pattern
// wins; the order below is load-bearing.
var intentTable = []intentEntry{
	{IntentGreeting, compileAll(
		`こんにちは`, `はじめまして`, `hello`, `hi`, `xin chào`,
	)},
	{IntentPropertySearchBuy, compileAll(
		`買いたい`, `購入`, `buy`, `purchase`, `mua`,
	)},
	{IntentPropertySearchRent, compileAll(
		`借りたい`, `賃貸`, `rent`, `thuê`,
	)},
	{IntentPropertySearchSell, compileAll(
		`売りたい`, `売却`, `sell`, `bán`,
	)},
	{IntentLocationQuery, compileAll(
		`どこ`, `場所`, `where`, `location`, `ở đâu`,
	)},
	{IntentBudgetQuery, compileAll(
		`予算`, `いくら`, `budget`, `price`, `ngân sách`,
	)},
	{IntentConfirmation, compileAll(
		`はい`, `そうです`, `yes`, `correct`, `đúng`,
	)},
	{IntentNegation, compileAll(
		`いいえ`, `違います`, `no`, `wrong`, `không`,
	)},
}

var (
	// A numeral with an explicit money unit wins over a bare numeral,
	// so room labels like 2LDK never read as the budget.
	budgetUnitRe = regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d+)?)\s*(?:万円|円|yen|万|million)`)
	budgetRe     = regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d+)?)`)
	roomsRe      = regexp.MustCompile(`(?i)(\d+[LSDK]+|studio|ワンルーム)`)
	areaRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:㎡|平米|m2|m²|坪)`)
	// Major place names plus any single administrative-unit suffix.
	locationRe = regexp.MustCompile(`(東京|大阪|名古屋|福岡|横浜|神奈川|千葉|埼玉|[都道府県市区町村])`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(`(?i)` + p)
	}
	return res
}

// Result is the outcome of analyzing one message.
type Result struct {
	Intent     string          `json:"intent,omitempty"`
	Confidence float64         `json:"confidence"`
	Entities   domain.Entities `json:"entities"`
	Language   string          `json:"language"`
}

// Engine classifies intents and extracts entities. The pattern tables
// are package-level immutable state compiled once at process start.
type Engine struct{}

// NewEngine returns an NLU engine.
func NewEngine() *Engine { return &Engine{} }

// Analyze classifies the intent of text and extracts entities. When
// language is empty it is detected first. An unmatched text yields an
// empty intent with zero confidence.
func (e *Engine) Analyze(text, language string) Result {
	if language == "" {
		language = lang.Detect(text)
	}

	intent, confidence := e.detectIntent(text)
	entities := e.ExtractEntities(text)

	return Result{
		Intent:     intent,
		Confidence: confidence,
		Entities:   entities,
		Language:   language,
	}
}

func (e *Engine) detectIntent(text string) (string, float64) {
	lower := strings.ToLower(text)
	for _, entry := range intentTable {
		for _, p := range entry.patterns {
			if p.MatchString(lower) {
				return entry.intent, matchConfidence
			}
		}
	}
	return "", 0.0
}

// ExtractEntities runs every entity extractor independently; each is
// optional and a malformed candidate is skipped rather than failing the
// whole analysis.
func (e *Engine) ExtractEntities(text string) domain.Entities {
	entities := domain.Entities{}

	m := budgetUnitRe.FindStringSubmatch(text)
	if m == nil {
		m = budgetRe.FindStringSubmatch(text)
	}
	if m != nil {
		raw := strings.ReplaceAll(m[1], ",", "")
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			// 万 anywhere in the text scales the captured numeral,
			// not just a unit adjacent to the match.
			if strings.Contains(text, "万") {
				v *= 10000
			}
			entities[domain.EntityBudget] = domain.IntValue(int64(v))
		}
	}

	if m := roomsRe.FindStringSubmatch(text); m != nil {
		entities[domain.EntityRooms] = domain.TextValue(strings.ToUpper(m[1]))
	}

	if m := areaRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			entities[domain.EntityArea] = domain.FloatValue(v)
		}
	}

	if m := locationRe.FindStringSubmatch(text); m != nil {
		entities[domain.EntityLocation] = domain.TextValue(m[1])
	}

	return entities
}

// Budget and area sanity bounds.
const (
	maxBudget = 10_000_000_000 // 100億円
	maxArea   = 10000          // ㎡
)

// ValidateEntities returns human-readable problems with the extracted
// values; an empty slice means all present entities are plausible.
func (e *Engine) ValidateEntities(entities domain.Entities) []string {
	var errs []string

	if v, ok := entities[domain.EntityBudget]; ok {
		budget := v.Int()
		if budget <= 0 {
			errs = append(errs, "Budget must be positive")
		}
		if budget > maxBudget {
			errs = append(errs, "Budget is too high")
		}
	}

	if v, ok := entities[domain.EntityArea]; ok {
		area := v.Float()
		if area <= 0 {
			errs = append(errs, "Area must be positive")
		}
		if area > maxArea {
			errs = append(errs, "Area is too large")
		}
	}

	return errs
}

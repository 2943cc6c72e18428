package responder

import (
	"strings"
	"testing"

	"github.com/fudosan-ai/qualibot/internal/domain"
	"github.com/fudosan-ai/qualibot/internal/nlu"
)

func TestGenerateGreeting(t *testing.T) {
	g := NewCanned()

	got := g.Generate("こんにちは", Context{Language: "ja", Intent: nlu.IntentGreeting})
	if got != "こんにちは！お探しの物件について教えてください。" {
		t.Errorf("unexpected ja greeting: %q", got)
	}

	got = g.Generate("hello", Context{Language: "en", Intent: nlu.IntentGreeting})
	if !strings.Contains(got, "Hello") {
		t.Errorf("unexpected en greeting: %q", got)
	}
}

func TestGenerateBuyBranchesOnLocation(t *testing.T) {
	g := NewCanned()

	without := g.Generate("buy", Context{Language: "en", Intent: nlu.IntentPropertySearchBuy})
	with := g.Generate("buy", Context{
		Language: "en",
		Intent:   nlu.IntentPropertySearchBuy,
		Entities: domain.Entities{domain.EntityLocation: domain.TextValue("東京")},
	})

	if without == with {
		t.Error("buy response should differ when a location is present")
	}
	if !strings.Contains(with, "東京") {
		t.Errorf("location should be echoed, got %q", with)
	}
}

func TestGenerateAllIntentsNonEmpty(t *testing.T) {
	g := NewCanned()
	intents := []string{
		nlu.IntentGreeting, nlu.IntentPropertySearchBuy, nlu.IntentPropertySearchRent,
		nlu.IntentPropertySearchSell, nlu.IntentLocationQuery, nlu.IntentBudgetQuery,
		nlu.IntentConfirmation, nlu.IntentNegation, "",
	}
	for _, language := range []string{"ja", "en", "vi"} {
		for _, intent := range intents {
			if got := g.Generate("x", Context{Language: language, Intent: intent}); got == "" {
				t.Errorf("empty response for language=%s intent=%q", language, intent)
			}
		}
	}
}

func TestGenerateUnknownLanguageFallsBack(t *testing.T) {
	g := NewCanned()
	got := g.Generate("hola", Context{Language: "es", Intent: nlu.IntentGreeting})
	if got != defaultAck {
		t.Errorf("expected default acknowledgment, got %q", got)
	}
}

// Package service implements the conversation orchestrator and the
// brief, glossary and moderation logic on top of the store.
package service

import (
	"unicode/utf8"

	"github.com/fudosan-ai/qualibot/config"
	"github.com/fudosan-ai/qualibot/internal/cache"
	"github.com/fudosan-ai/qualibot/internal/nlu"
	"github.com/fudosan-ai/qualibot/internal/responder"
	"github.com/fudosan-ai/qualibot/internal/safety"
	"github.com/fudosan-ai/qualibot/internal/store"
	"github.com/fudosan-ai/qualibot/policy"
)

type Service struct {
	store      store.Store
	cache      *cache.SessionCache
	filter     *safety.Filter
	nlu        *nlu.Engine
	generator  responder.Generator
	moderation *policy.Engine
	config     *config.Config
	locks      *sessionLocks
}

// New wires the service. cache may be nil (cache disabled) and
// moderation may be nil (abuse checks fall back to the detector union).
func New(store store.Store, sessionCache *cache.SessionCache, generator responder.Generator, moderation *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:      store,
		cache:      sessionCache,
		filter:     safety.NewFilter(),
		nlu:        nlu.NewEngine(),
		generator:  generator,
		moderation: moderation,
		config:     cfg,
		locks:      newSessionLocks(),
	}
}

// estimateTokens approximates the token cost of text as one token per
// four runes, minimum one for non-empty text. Good enough for the
// session counters until a real model client supplies exact usage.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}

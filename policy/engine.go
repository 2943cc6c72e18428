// Package policy evaluates moderation decisions with OPA. The detectors
// in internal/safety produce reason codes; the Rego policy turns them
// into an allow/block action so the rules can change without a rebuild.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions a moderation policy may return.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA moderation policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.moderation.decision"),
		rego.Module("moderation.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Input is what the policy conditions on for one message.
type Input struct {
	Reasons []string `json:"reasons"`
	Spam    bool     `json:"spam"`
	Abusive bool     `json:"abusive"`
}

// Evaluate runs the moderation policy over detector output. A policy
// that yields no result defaults to allow.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy blocks a message when any detector fired.
const DefaultPolicy = `
package moderation

default decision = "allow"

decision = "block" {
	input.spam
}

decision = "block" {
	input.abusive
}

decision = "block" {
	count(input.reasons) > 0
}
`

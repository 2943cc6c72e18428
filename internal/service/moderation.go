package service

import (
	"context"
	"log"

	"github.com/fudosan-ai/qualibot/internal/safety"
	"github.com/fudosan-ai/qualibot/policy"
)

// CheckAbuse runs the abuse detectors over text and asks the moderation
// policy for the action. Without a policy engine, or when evaluation
// fails, any fired reason blocks.
func (s *Service) CheckAbuse(ctx context.Context, text string) safety.AbuseResult {
	reasons := s.filter.Detectors(text)

	action := policy.DecisionAllow
	if len(reasons) > 0 {
		action = policy.DecisionBlock
	}

	if s.moderation != nil {
		input := policy.Input{
			Reasons: reasons,
			Spam:    containsString(reasons, safety.ReasonSpamDetected),
			Abusive: containsString(reasons, safety.ReasonContentPolicyViolation),
		}
		decision, err := s.moderation.Evaluate(ctx, input)
		if err != nil {
			log.Printf("WARN: moderation policy evaluation failed: %v", err)
		} else {
			action = decision
		}
	}

	return safety.AbuseResult{
		IsAbuse: len(reasons) > 0,
		Reasons: reasons,
		Action:  action,
	}
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

package service

import (
	"context"
	"strings"
	"testing"

	"github.com/fudosan-ai/qualibot/internal/domain"
	"github.com/fudosan-ai/qualibot/internal/nlu"
)

func strPtr(s string) *string     { return &s }
func intPtr(v int64) *int64       { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCalculateCompleteness(t *testing.T) {
	brief := &domain.Brief{}
	if got := CalculateCompleteness(brief); got != 0 {
		t.Errorf("empty brief completeness = %v, want 0", got)
	}

	brief.Location = strPtr("東京")
	brief.Rooms = strPtr("2LDK")
	if got := CalculateCompleteness(brief); got != 50 {
		t.Errorf("two fields completeness = %v, want 50", got)
	}

	brief.BudgetMin = intPtr(30000000)
	brief.BudgetMax = intPtr(50000000)
	if got := CalculateCompleteness(brief); got != 100 {
		t.Errorf("full brief completeness = %v, want 100", got)
	}
}

// Filling any additional required field never decreases the score.
func TestCompletenessMonotonicity(t *testing.T) {
	brief := &domain.Brief{}
	prev := CalculateCompleteness(brief)

	fill := []func(){
		func() { brief.Location = strPtr("大阪") },
		func() { brief.BudgetMin = intPtr(1) },
		func() { brief.BudgetMax = intPtr(2) },
		func() { brief.Rooms = strPtr("3LDK") },
	}
	for i, f := range fill {
		f()
		got := CalculateCompleteness(brief)
		if got < prev {
			t.Errorf("step %d decreased completeness: %v -> %v", i, prev, got)
		}
		prev = got
	}
	if prev != 100 {
		t.Errorf("final completeness = %v, want 100", prev)
	}
}

func TestCalculateLeadScore(t *testing.T) {
	brief := &domain.Brief{
		Location:  strPtr("東京"),
		BudgetMin: intPtr(30000000),
		BudgetMax: intPtr(50000000),
		Rooms:     strPtr("2LDK"),
		AreaMin:   floatPtr(60),
	}
	brief.CompletenessScore = CalculateCompleteness(brief)

	// 0.4*100 + 20 + 20 + 10 + 10 = 100, exactly at the clamp.
	if got := CalculateLeadScore(brief); got != 100 {
		t.Errorf("lead score = %v, want 100", got)
	}

	partial := &domain.Brief{Location: strPtr("東京"), BudgetMax: intPtr(50000000)}
	partial.CompletenessScore = CalculateCompleteness(partial)
	// 0.4*50 + 20 (location) = 40; single budget bound earns no bonus.
	if got := CalculateLeadScore(partial); got != 40 {
		t.Errorf("partial lead score = %v, want 40", got)
	}
}

func TestValidateForSubmission(t *testing.T) {
	missing := ValidateForSubmission(&domain.Brief{})
	want := []string{
		"Location is required",
		"Budget is required",
		"Room configuration is required",
	}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing fields, got %v", len(want), missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d] = %q, want %q", i, missing[i], want[i])
		}
	}

	ok := ValidateForSubmission(&domain.Brief{
		Location:  strPtr("東京"),
		BudgetMax: intPtr(50000000),
		Rooms:     strPtr("2LDK"),
	})
	if len(ok) != 0 {
		t.Errorf("complete brief should validate, got %v", ok)
	}
}

// A session without a brief reports the session it was asked about, not
// a phantom brief id.
func TestGetBriefBySessionMissing(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	session, err := svc.CreateSession(ctx, "ja", "", nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	_, err = svc.GetBriefBySession(ctx, session.SessionID)
	de, ok := domain.AsError(err)
	if !ok || de.Code != domain.CodeBriefNotFound {
		t.Fatalf("expected BRIEF_NOT_FOUND, got %v", err)
	}
	if de.Details["session_id"] != session.SessionID {
		t.Errorf("details = %+v, want session_id %s", de.Details, session.SessionID)
	}
	if !strings.Contains(de.Message, "session") {
		t.Errorf("message not session-scoped: %q", de.Message)
	}
}

func TestSubmitBrief(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	session, err := svc.CreateSession(ctx, "ja", "", nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	brief, err := svc.CreateBrief(ctx, session.SessionID, domain.PropertyTypeBuy)
	if err != nil {
		t.Fatalf("CreateBrief failed: %v", err)
	}

	// Incomplete brief fails with every missing field named.
	_, err = svc.SubmitBrief(ctx, brief.BriefID)
	de, ok := domain.AsError(err)
	if !ok || de.Code != domain.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if missing, ok := de.Details["validation_errors"].([]string); !ok || len(missing) != 3 {
		t.Errorf("expected 3 validation errors, got %+v", de.Details)
	}

	// Failed submission left no trace.
	unchanged, _ := svc.GetBrief(ctx, brief.BriefID)
	if unchanged.Status != domain.BriefStatusDraft || unchanged.SubmittedAt != nil {
		t.Errorf("failed submit mutated brief: %+v", unchanged)
	}

	if _, err := svc.UpdateBrief(ctx, brief.BriefID, BriefPatch{
		Location:  strPtr("東京"),
		BudgetMax: intPtr(50000000),
		Rooms:     strPtr("2LDK"),
	}); err != nil {
		t.Fatalf("UpdateBrief failed: %v", err)
	}

	submitted, err := svc.SubmitBrief(ctx, brief.BriefID)
	if err != nil {
		t.Fatalf("SubmitBrief failed: %v", err)
	}
	if submitted.Status != domain.BriefStatusSubmitted {
		t.Errorf("status = %s, want submitted", submitted.Status)
	}
	if submitted.SubmittedAt == nil {
		t.Fatal("submitted_at not set")
	}
	if submitted.LeadScore == nil || *submitted.LeadScore <= 0 {
		t.Errorf("lead score not computed: %+v", submitted.LeadScore)
	}

	// Re-submit is a no-op keeping the original timestamp.
	again, err := svc.SubmitBrief(ctx, brief.BriefID)
	if err != nil {
		t.Fatalf("re-submit failed: %v", err)
	}
	if !again.SubmittedAt.Equal(*submitted.SubmittedAt) {
		t.Errorf("submitted_at changed on re-submit")
	}

	// Submitted briefs are immutable.
	_, err = svc.UpdateBrief(ctx, brief.BriefID, BriefPatch{Rooms: strPtr("3LDK")})
	if de, ok := domain.AsError(err); !ok || de.Code != domain.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR for update after submit, got %v", err)
	}
}

func TestUpdateBriefRecomputesCompleteness(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	session, _ := svc.CreateSession(ctx, "ja", "", nil)
	brief, err := svc.CreateBrief(ctx, session.SessionID, "")
	if err != nil {
		t.Fatalf("CreateBrief failed: %v", err)
	}
	if brief.PropertyType != domain.PropertyTypeBuy {
		t.Errorf("default property type = %s, want buy", brief.PropertyType)
	}

	updated, err := svc.UpdateBrief(ctx, brief.BriefID, BriefPatch{
		Location: strPtr("大阪"),
		Data:     map[string]any{"property_age": 10},
	})
	if err != nil {
		t.Fatalf("UpdateBrief failed: %v", err)
	}
	if updated.CompletenessScore != 25 {
		t.Errorf("completeness = %v, want 25", updated.CompletenessScore)
	}
	if updated.Status != domain.BriefStatusInProgress {
		t.Errorf("status = %s, want in_progress", updated.Status)
	}
	if updated.Data["property_age"] == nil {
		t.Errorf("data patch lost: %+v", updated.Data)
	}

	// Creating again returns the existing brief.
	dup, err := svc.CreateBrief(ctx, session.SessionID, domain.PropertyTypeRent)
	if err != nil || dup.BriefID != brief.BriefID {
		t.Errorf("CreateBrief should return the existing brief, got %+v, %v", dup, err)
	}
}

func TestAccumulateBriefFromTurnEntities(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	session, _ := svc.CreateSession(ctx, "ja", "", nil)

	if _, err := svc.SendMessage(ctx, session.SessionID, "賃貸で大阪がいいです", ""); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	brief, err := svc.GetBriefBySession(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("GetBriefBySession failed: %v", err)
	}
	if brief.PropertyType != domain.PropertyTypeRent {
		t.Errorf("property type = %s, want rent (inferred from intent)", brief.PropertyType)
	}
	if brief.Location == nil || *brief.Location != "大阪" {
		t.Errorf("location = %+v, want 大阪", brief.Location)
	}
	if len(brief.ExtractedEntities) == 0 {
		t.Error("audit map empty")
	}

	// Later entities accumulate onto the same brief.
	if _, err := svc.SendMessage(ctx, session.SessionID, "60.5㎡くらいで", ""); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	brief, _ = svc.GetBriefBySession(ctx, session.SessionID)
	if brief.AreaMin == nil || *brief.AreaMin != 60.5 {
		t.Errorf("area_min = %+v, want 60.5", brief.AreaMin)
	}
	if _, ok := brief.ExtractedEntities[domain.EntityLocation]; !ok {
		t.Error("audit map lost earlier entities")
	}
}

func TestPropertyTypeForIntent(t *testing.T) {
	if got := propertyTypeForIntent(nlu.IntentPropertySearchRent); got != domain.PropertyTypeRent {
		t.Errorf("rent intent -> %s", got)
	}
	if got := propertyTypeForIntent(nlu.IntentPropertySearchSell); got != domain.PropertyTypeSell {
		t.Errorf("sell intent -> %s", got)
	}
	if got := propertyTypeForIntent(nlu.IntentGreeting); got != domain.PropertyTypeBuy {
		t.Errorf("non-search intent should default to buy, got %s", got)
	}
}

func TestCalculateAffordability(t *testing.T) {
	result, err := CalculateAffordability(10_000_000, 20_000_000, 0.01, 35)
	if err != nil {
		t.Fatalf("CalculateAffordability failed: %v", err)
	}
	if result.MaxLoanAmount != 70_000_000 {
		t.Errorf("max_loan = %v, want 70000000", result.MaxLoanAmount)
	}
	if result.MaxAffordablePrice != 90_000_000 {
		t.Errorf("max_affordable_price = %v, want 90000000", result.MaxAffordablePrice)
	}
	if result.MonthlyPayment <= 0 {
		t.Errorf("monthly_payment = %v, want > 0", result.MonthlyPayment)
	}

	// Zero rate takes the even-division branch.
	zero, err := CalculateAffordability(12_000_000, 0, 0, 10)
	if err != nil {
		t.Fatalf("CalculateAffordability failed: %v", err)
	}
	if zero.MonthlyPayment != 700_000 {
		t.Errorf("zero-rate monthly = %v, want 700000", zero.MonthlyPayment)
	}

	if _, err := CalculateAffordability(0, 0, 0.01, 35); err == nil {
		t.Error("expected error for non-positive income")
	}
	if _, err := CalculateAffordability(1, -1, 0.01, 35); err == nil {
		t.Error("expected error for negative down payment")
	}
}

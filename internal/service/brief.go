package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/fudosan-ai/qualibot/internal/domain"
	"github.com/fudosan-ai/qualibot/internal/metrics"
	"github.com/fudosan-ai/qualibot/internal/nlu"
)

// briefRequiredFields is the fixed set completeness is computed over.
// Four fields, 25 points each.
const briefRequiredFields = 4

// CalculateCompleteness scores how many of the required brief fields
// (location, budget_min, budget_max, rooms) are filled, as a percentage
// rounded to two decimals.
func CalculateCompleteness(brief *domain.Brief) float64 {
	filled := 0
	if brief.Location != nil {
		filled++
	}
	if brief.BudgetMin != nil {
		filled++
	}
	if brief.BudgetMax != nil {
		filled++
	}
	if brief.Rooms != nil {
		filled++
	}
	return round2(float64(filled) / briefRequiredFields * 100)
}

// ValidateForSubmission lists what is still missing before a brief can
// be submitted.
func ValidateForSubmission(brief *domain.Brief) []string {
	var errs []string
	if brief.Location == nil {
		errs = append(errs, "Location is required")
	}
	if brief.BudgetMin == nil && brief.BudgetMax == nil {
		errs = append(errs, "Budget is required")
	}
	if brief.Rooms == nil {
		errs = append(errs, "Room configuration is required")
	}
	return errs
}

// CalculateLeadScore weights completeness with field-presence bonuses,
// clamped to 100. Computed at submission time only.
func CalculateLeadScore(brief *domain.Brief) float64 {
	score := 0.4 * brief.CompletenessScore
	if brief.BudgetMin != nil && brief.BudgetMax != nil {
		score += 20
	}
	if brief.Location != nil {
		score += 20
	}
	if brief.Rooms != nil {
		score += 10
	}
	if brief.AreaMin != nil || brief.AreaMax != nil {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return round2(score)
}

// applyEntities maps extracted entities onto the brief's typed fields
// (budget fills only the upper bound) and records everything in the
// cumulative audit map, then rescores.
func applyEntities(brief *domain.Brief, entities domain.Entities) {
	for entityType, value := range entities {
		switch entityType {
		case domain.EntityLocation:
			v := value.Text()
			brief.Location = &v
		case domain.EntityBudget:
			v := value.Int()
			brief.BudgetMax = &v
		case domain.EntityRooms:
			v := value.Text()
			brief.Rooms = &v
		case domain.EntityArea:
			v := value.Float()
			brief.AreaMin = &v
		}
	}
	if brief.ExtractedEntities == nil {
		brief.ExtractedEntities = domain.Entities{}
	}
	brief.ExtractedEntities.Merge(entities)

	brief.CompletenessScore = CalculateCompleteness(brief)
	if brief.Status == domain.BriefStatusDraft && brief.CompletenessScore > 0 {
		brief.Status = domain.BriefStatusInProgress
	}
}

// propertyTypeForIntent infers the brief's property type from a search
// intent, defaulting to buy.
func propertyTypeForIntent(intent string) domain.PropertyType {
	switch intent {
	case nlu.IntentPropertySearchRent:
		return domain.PropertyTypeRent
	case nlu.IntentPropertySearchSell:
		return domain.PropertyTypeSell
	default:
		return domain.PropertyTypeBuy
	}
}

// accumulateBrief routes a turn's extracted entities into the session's
// brief, creating it on first use.
func (s *Service) accumulateBrief(ctx context.Context, session *domain.Session, intent string, entities domain.Entities) error {
	brief, err := s.store.GetBriefBySession(ctx, session.SessionID)
	if err != nil {
		return domain.ErrDatabase(err)
	}
	if brief == nil {
		brief, err = s.createBrief(ctx, session.SessionID, propertyTypeForIntent(intent))
		if err != nil {
			return err
		}
	}
	if brief.Status == domain.BriefStatusSubmitted {
		// A submitted brief is frozen; later turns no longer touch it.
		return nil
	}

	applyEntities(brief, entities)
	if err := s.store.UpdateBrief(ctx, brief); err != nil {
		return domain.ErrDatabase(err)
	}
	return nil
}

func (s *Service) createBrief(ctx context.Context, sessionID string, propertyType domain.PropertyType) (*domain.Brief, error) {
	now := time.Now()
	brief := &domain.Brief{
		BriefID:           "brief_" + uuid.New().String()[:8],
		SessionID:         sessionID,
		PropertyType:      propertyType,
		Status:            domain.BriefStatusDraft,
		Data:              map[string]any{},
		ExtractedEntities: domain.Entities{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.CreateBrief(ctx, brief); err != nil {
		return nil, domain.ErrDatabase(err)
	}
	metrics.RecordBriefCreated(string(propertyType))
	return brief, nil
}

// CreateBrief explicitly creates the session's brief, or returns the
// existing one.
func (s *Service) CreateBrief(ctx context.Context, sessionID string, propertyType domain.PropertyType) (*domain.Brief, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound(sessionID)
	}

	switch propertyType {
	case "":
		propertyType = domain.PropertyTypeBuy
	case domain.PropertyTypeBuy, domain.PropertyTypeRent, domain.PropertyTypeSell:
	default:
		return nil, domain.ErrValidation("Unsupported property type", map[string]any{"property_type": propertyType})
	}

	existing, err := s.store.GetBriefBySession(ctx, sessionID)
	if err != nil {
		return nil, domain.ErrDatabase(err)
	}
	if existing != nil {
		return existing, nil
	}
	return s.createBrief(ctx, sessionID, propertyType)
}

// GetBrief returns a brief by id.
func (s *Service) GetBrief(ctx context.Context, briefID string) (*domain.Brief, error) {
	brief, err := s.store.GetBrief(ctx, briefID)
	if err != nil {
		return nil, domain.ErrDatabase(err)
	}
	if brief == nil {
		return nil, domain.ErrBriefNotFound(briefID)
	}
	return brief, nil
}

// GetBriefBySession returns the brief of a session.
func (s *Service) GetBriefBySession(ctx context.Context, sessionID string) (*domain.Brief, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound(sessionID)
	}
	brief, err := s.store.GetBriefBySession(ctx, sessionID)
	if err != nil {
		return nil, domain.ErrDatabase(err)
	}
	if brief == nil {
		return nil, domain.ErrBriefNotFoundForSession(sessionID)
	}
	return brief, nil
}

// BriefPatch carries the fields a PATCH may change; nil means leave
// untouched.
type BriefPatch struct {
	PropertyType *domain.PropertyType `json:"property_type,omitempty"`
	Location     *string              `json:"location,omitempty"`
	BudgetMin    *int64               `json:"budget_min,omitempty"`
	BudgetMax    *int64               `json:"budget_max,omitempty"`
	Rooms        *string              `json:"rooms,omitempty"`
	AreaMin      *float64             `json:"area_min,omitempty"`
	AreaMax      *float64             `json:"area_max,omitempty"`
	Data         map[string]any       `json:"data,omitempty"`
}

// UpdateBrief applies a partial update and rescores completeness.
// Submitted briefs are immutable.
func (s *Service) UpdateBrief(ctx context.Context, briefID string, patch BriefPatch) (*domain.Brief, error) {
	brief, err := s.GetBrief(ctx, briefID)
	if err != nil {
		return nil, err
	}
	if brief.Status == domain.BriefStatusSubmitted {
		return nil, domain.ErrValidation("Submitted briefs cannot be modified", map[string]any{"brief_id": briefID})
	}

	if patch.PropertyType != nil {
		switch *patch.PropertyType {
		case domain.PropertyTypeBuy, domain.PropertyTypeRent, domain.PropertyTypeSell:
			brief.PropertyType = *patch.PropertyType
		default:
			return nil, domain.ErrValidation("Unsupported property type", map[string]any{"property_type": *patch.PropertyType})
		}
	}
	if patch.Location != nil {
		brief.Location = patch.Location
	}
	if patch.BudgetMin != nil {
		brief.BudgetMin = patch.BudgetMin
	}
	if patch.BudgetMax != nil {
		brief.BudgetMax = patch.BudgetMax
	}
	if patch.Rooms != nil {
		brief.Rooms = patch.Rooms
	}
	if patch.AreaMin != nil {
		brief.AreaMin = patch.AreaMin
	}
	if patch.AreaMax != nil {
		brief.AreaMax = patch.AreaMax
	}
	if patch.Data != nil {
		if brief.Data == nil {
			brief.Data = map[string]any{}
		}
		for k, v := range patch.Data {
			brief.Data[k] = v
		}
	}

	brief.CompletenessScore = CalculateCompleteness(brief)
	if brief.Status == domain.BriefStatusDraft && brief.CompletenessScore > 0 {
		brief.Status = domain.BriefStatusInProgress
	}

	if err := s.store.UpdateBrief(ctx, brief); err != nil {
		return nil, domain.ErrDatabase(err)
	}
	return brief, nil
}

// SubmitBrief validates and submits a brief. Validation failure leaves
// the brief untouched; re-submitting an already submitted brief is a
// no-op returning the brief as is.
func (s *Service) SubmitBrief(ctx context.Context, briefID string) (*domain.Brief, error) {
	brief, err := s.GetBrief(ctx, briefID)
	if err != nil {
		return nil, err
	}
	if brief.Status == domain.BriefStatusSubmitted {
		return brief, nil
	}

	missing := ValidateForSubmission(brief)
	if len(missing) > 0 {
		return nil, domain.ErrValidation("Brief is not ready for submission", map[string]any{
			"validation_errors": missing,
		})
	}

	brief.CompletenessScore = CalculateCompleteness(brief)
	leadScore := CalculateLeadScore(brief)
	brief.LeadScore = &leadScore
	brief.ValidationErrors = nil
	if err := s.store.UpdateBrief(ctx, brief); err != nil {
		return nil, domain.ErrDatabase(err)
	}
	if err := s.store.UpdateBriefStatus(ctx, briefID, domain.BriefStatusSubmitted); err != nil {
		return nil, domain.ErrDatabase(err)
	}
	metrics.RecordBriefSubmitted(string(brief.PropertyType))

	// Re-read so the caller sees the stamped submitted_at.
	return s.GetBrief(ctx, briefID)
}

// Affordability defaults, applied by callers that leave the optional
// parameters unset. An explicit zero interest rate is a valid input and
// takes the even-division branch below.
const (
	DefaultInterestRate = 0.01
	DefaultLoanYears    = 35
	incomeMultiplier    = 7
)

// CalculateAffordability estimates the price range a buyer can afford:
// maximum loan at seven times annual income, standard amortization for
// the monthly payment, zero-rate loans divided evenly.
func CalculateAffordability(annualIncome, downPayment, interestRate float64, loanYears int) (*domain.Affordability, error) {
	if annualIncome <= 0 {
		return nil, domain.ErrValidation("Annual income must be positive", map[string]any{"annual_income": annualIncome})
	}
	if downPayment < 0 {
		return nil, domain.ErrValidation("Down payment cannot be negative", map[string]any{"down_payment": downPayment})
	}
	if interestRate < 0 {
		return nil, domain.ErrValidation("Interest rate cannot be negative", map[string]any{"interest_rate": interestRate})
	}
	if loanYears <= 0 {
		return nil, domain.ErrValidation("Loan term must be positive", map[string]any{"loan_years": loanYears})
	}

	maxLoan := annualIncome * incomeMultiplier
	n := float64(loanYears * 12)

	var monthly float64
	if interestRate == 0 {
		monthly = maxLoan / n
	} else {
		monthlyRate := interestRate / 12
		factor := math.Pow(1+monthlyRate, n)
		monthly = maxLoan * monthlyRate * factor / (factor - 1)
	}

	return &domain.Affordability{
		AnnualIncome:       annualIncome,
		DownPayment:        downPayment,
		MaxLoanAmount:      round2(maxLoan),
		MaxAffordablePrice: round2(maxLoan + downPayment),
		MonthlyPayment:     round2(monthly),
		InterestRate:       interestRate,
		LoanYears:          loanYears,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package usage decides whether a generation request may run and meters
// the free usage counter kept in the identity provider's private metadata.
//
// The ledger holds no state of its own: every request re-reads the counter
// and writes the incremented value back. Two concurrent requests from the
// same free user can both pass the check before either write lands, so the
// counter may under-count. That race is accepted.
package usage

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/identity"
	apperrors "github.com/spec-kit/content-service/pkg/errorutil"
)

// FreeUsageLimit is the number of metered generations a free user gets.
const FreeUsageLimit = 10

const (
	MessageLimitReached  = "Limit reached. Upgrade to continue."
	MessageExclusiveOnly = "This feature is only available for exclusive subscriptions"
)

// Feature identifies a generation capability.
type Feature string

const (
	FeatureArticle          Feature = "article"
	FeatureBlogTitle        Feature = "blog-title"
	FeatureImage            Feature = "image"
	FeatureRemoveBackground Feature = "remove-background"
	FeatureRemoveObject     Feature = "remove-object"
	FeatureResumeReview     Feature = "resume-review"
)

// ExclusiveOnly reports whether the feature requires the exclusive plan.
func (f Feature) ExclusiveOnly() bool {
	switch f {
	case FeatureImage, FeatureRemoveBackground, FeatureRemoveObject, FeatureResumeReview:
		return true
	default:
		return false
	}
}

// Reason explains a denial.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonQuotaExceeded    Reason = "quota_exceeded"
	ReasonPlanInsufficient Reason = "plan_insufficient"
)

// Decision is the outcome of the gate for one request.
type Decision struct {
	Allowed   bool    `json:"allowed"`
	Metered   bool    `json:"metered"`
	Feature   Feature `json:"feature"`
	Used      int     `json:"used"`
	Limit     int     `json:"limit"`
	Remaining int     `json:"remaining"`
	Reason    Reason  `json:"reason,omitempty"`
}

// Account is the caller's plan and counter as read for the current request.
type Account struct {
	UserID    string
	Plan      domain.Plan
	FreeUsage int
}

// Exclusive reports whether the account is on the exclusive plan.
func (a *Account) Exclusive() bool {
	return a != nil && a.Plan == domain.PlanExclusive
}

// Recorder observes gate outcomes.
type Recorder interface {
	RecordGate(feature string, allowed bool, reason string)
}

// Decide applies the plan and quota rules.
func Decide(plan domain.Plan, freeUsage int, feature Feature) Decision {
	d := Decision{Feature: feature, Used: freeUsage, Limit: FreeUsageLimit}

	if plan == domain.PlanExclusive {
		d.Allowed = true
		d.Limit = 0
		return d
	}

	if feature.ExclusiveOnly() {
		d.Reason = ReasonPlanInsufficient
		return d
	}

	if freeUsage < FreeUsageLimit {
		d.Allowed = true
		d.Metered = true
		d.Remaining = FreeUsageLimit - freeUsage
		return d
	}

	d.Reason = ReasonQuotaExceeded
	return d
}

// Ledger resolves accounts and meters free usage through the identity provider.
type Ledger struct {
	provider identity.Provider
	logger   *zap.Logger
	recorder Recorder
}

// NewLedger constructs a ledger. recorder may be nil.
func NewLedger(provider identity.Provider, logger *zap.Logger, recorder Recorder) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{provider: provider, logger: logger, recorder: recorder}
}

// Resolve reads the user's plan and counter. A free user with no counter
// stored gets it initialized to zero.
func (l *Ledger) Resolve(ctx context.Context, userID string) (*Account, error) {
	user, err := l.provider.GetUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewIdentityLookupError(err)
	}

	account := &Account{UserID: user.ID, Plan: user.Plan}
	if account.Plan != domain.PlanExclusive {
		account.Plan = domain.PlanFree
	}
	if account.UserID == "" {
		account.UserID = userID
	}

	usage, ok, err := user.FreeUsage()
	if err != nil {
		return nil, apperrors.NewIdentityLookupError(err)
	}
	if account.Plan == domain.PlanFree && !ok {
		if err := l.provider.UpdateMetadata(ctx, account.UserID, map[string]any{domain.MetadataFreeUsage: 0}); err != nil {
			return nil, apperrors.NewIdentityLookupError(err)
		}
		usage = 0
	}
	if usage < 0 {
		usage = 0
	}
	account.FreeUsage = usage
	return account, nil
}

// Authorize gates feature for account. Denials come back as domain errors
// carrying the client-facing message.
func (l *Ledger) Authorize(account *Account, feature Feature) (Decision, error) {
	decision := Decide(account.Plan, account.FreeUsage, feature)
	if l.recorder != nil {
		l.recorder.RecordGate(string(feature), decision.Allowed, string(decision.Reason))
	}

	switch decision.Reason {
	case ReasonPlanInsufficient:
		l.logger.Debug("feature requires exclusive plan",
			zap.String("user_id", account.UserID),
			zap.String("feature", string(feature)))
		return decision, apperrors.NewPlanRequired(MessageExclusiveOnly)
	case ReasonQuotaExceeded:
		l.logger.Info("free usage limit reached",
			zap.String("user_id", account.UserID),
			zap.Int("free_usage", account.FreeUsage))
		return decision, apperrors.NewQuotaExceeded(MessageLimitReached)
	}
	return decision, nil
}

// Consume records one metered generation. Unmetered decisions are a no-op.
func (l *Ledger) Consume(ctx context.Context, account *Account, decision Decision) error {
	if !decision.Metered || account.Exclusive() {
		return nil
	}

	next := account.FreeUsage + 1
	if err := l.provider.UpdateMetadata(ctx, account.UserID, map[string]any{domain.MetadataFreeUsage: next}); err != nil {
		return apperrors.NewIdentityLookupError(err)
	}
	account.FreeUsage = next
	return nil
}

// Snapshot describes the account's quota without gating anything.
func Snapshot(account *Account) Decision {
	return Decide(account.Plan, account.FreeUsage, FeatureArticle)
}

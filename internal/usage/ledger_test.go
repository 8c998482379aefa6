package usage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/content-service/internal/domain"
	apperrors "github.com/spec-kit/content-service/pkg/errorutil"
)

type fakeProvider struct {
	users   map[string]*domain.User
	updates []map[string]any
	getErr  error
}

func (f *fakeProvider) GetUser(_ context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (f *fakeProvider) UpdateMetadata(_ context.Context, id string, metadata map[string]any) error {
	f.updates = append(f.updates, metadata)
	user := f.users[id]
	if user.PrivateMetadata == nil {
		user.PrivateMetadata = map[string]any{}
	}
	for k, v := range metadata {
		user.PrivateMetadata[k] = v
	}
	return nil
}

type gateRecord struct {
	feature string
	allowed bool
	reason  string
}

type fakeRecorder struct {
	records []gateRecord
}

func (f *fakeRecorder) RecordGate(feature string, allowed bool, reason string) {
	f.records = append(f.records, gateRecord{feature, allowed, reason})
}

func freeUser(id string, usage any) *domain.User {
	metadata := map[string]any{}
	if usage != nil {
		metadata[domain.MetadataFreeUsage] = usage
	}
	return &domain.User{ID: id, Plan: domain.PlanFree, PrivateMetadata: metadata}
}

func TestDecide_FreeUnderLimitIsMetered(t *testing.T) {
	for usage := 0; usage < FreeUsageLimit; usage++ {
		for _, feature := range []Feature{FeatureArticle, FeatureBlogTitle} {
			d := Decide(domain.PlanFree, usage, feature)
			assert.True(t, d.Allowed, "usage %d", usage)
			assert.True(t, d.Metered)
			assert.Equal(t, FreeUsageLimit-usage, d.Remaining)
		}
	}
}

func TestDecide_FreeAtOrOverLimitIsDenied(t *testing.T) {
	for _, usage := range []int{10, 11, 50} {
		d := Decide(domain.PlanFree, usage, FeatureArticle)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonQuotaExceeded, d.Reason)
	}
}

func TestDecide_ExclusiveAlwaysAllowedUnmetered(t *testing.T) {
	features := []Feature{FeatureArticle, FeatureBlogTitle, FeatureImage, FeatureRemoveBackground, FeatureRemoveObject, FeatureResumeReview}
	for _, usage := range []int{0, 9, 10, 1000} {
		for _, feature := range features {
			d := Decide(domain.PlanExclusive, usage, feature)
			assert.True(t, d.Allowed)
			assert.False(t, d.Metered)
		}
	}
}

func TestDecide_ExclusiveOnlyFeaturesRejectFreeUsers(t *testing.T) {
	for _, feature := range []Feature{FeatureImage, FeatureRemoveBackground, FeatureRemoveObject, FeatureResumeReview} {
		for _, usage := range []int{0, 5, 10} {
			d := Decide(domain.PlanFree, usage, feature)
			assert.False(t, d.Allowed)
			assert.Equal(t, ReasonPlanInsufficient, d.Reason)
		}
	}
}

func TestLedger_ResolveInitializesMissingCounter(t *testing.T) {
	provider := &fakeProvider{users: map[string]*domain.User{"u1": freeUser("u1", nil)}}
	ledger := NewLedger(provider, nil, nil)

	account, err := ledger.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, account.Plan)
	assert.Equal(t, 0, account.FreeUsage)
	require.Len(t, provider.updates, 1)
	assert.Equal(t, 0, provider.updates[0][domain.MetadataFreeUsage])
}

func TestLedger_ResolveKeepsStoredCounter(t *testing.T) {
	provider := &fakeProvider{users: map[string]*domain.User{"u1": freeUser("u1", float64(7))}}
	ledger := NewLedger(provider, nil, nil)

	account, err := ledger.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, account.FreeUsage)
	assert.Empty(t, provider.updates)
}

func TestLedger_ResolveNeverWritesExclusive(t *testing.T) {
	provider := &fakeProvider{users: map[string]*domain.User{
		"u1": {ID: "u1", Plan: domain.PlanExclusive, PrivateMetadata: map[string]any{}},
	}}
	ledger := NewLedger(provider, nil, nil)

	account, err := ledger.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, account.Exclusive())
	assert.Empty(t, provider.updates)
}

func TestLedger_ResolveSurfacesLookupFailure(t *testing.T) {
	provider := &fakeProvider{getErr: errors.New("identity provider unavailable")}
	ledger := NewLedger(provider, nil, nil)

	_, err := ledger.Resolve(context.Background(), "u1")
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeIdentityLookup, de.Code)
	assert.Equal(t, "identity provider unavailable", de.Message)
}

func TestLedger_NineThenTen(t *testing.T) {
	provider := &fakeProvider{users: map[string]*domain.User{"u1": freeUser("u1", 9)}}
	recorder := &fakeRecorder{}
	ledger := NewLedger(provider, nil, recorder)
	ctx := context.Background()

	account, err := ledger.Resolve(ctx, "u1")
	require.NoError(t, err)
	decision, err := ledger.Authorize(account, FeatureArticle)
	require.NoError(t, err)
	require.NoError(t, ledger.Consume(ctx, account, decision))
	assert.Equal(t, 10, account.FreeUsage)
	assert.Equal(t, 10, provider.users["u1"].PrivateMetadata[domain.MetadataFreeUsage])

	account, err = ledger.Resolve(ctx, "u1")
	require.NoError(t, err)
	_, err = ledger.Authorize(account, FeatureBlogTitle)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeQuotaExceeded))
	assert.Equal(t, MessageLimitReached, apperrors.ToDomainError(err).Message)
	assert.Len(t, provider.updates, 1, "denied request leaves the counter alone")

	require.Len(t, recorder.records, 2)
	assert.True(t, recorder.records[0].allowed)
	assert.Equal(t, string(ReasonQuotaExceeded), recorder.records[1].reason)
}

func TestLedger_AuthorizeExclusiveOnly(t *testing.T) {
	ledger := NewLedger(&fakeProvider{}, nil, nil)

	_, err := ledger.Authorize(&Account{UserID: "u1", Plan: domain.PlanFree}, FeatureResumeReview)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePlanRequired))
	assert.Equal(t, MessageExclusiveOnly, apperrors.ToDomainError(err).Message)
}

func TestLedger_ConsumeSkipsUnmetered(t *testing.T) {
	provider := &fakeProvider{users: map[string]*domain.User{
		"u1": {ID: "u1", Plan: domain.PlanExclusive, PrivateMetadata: map[string]any{domain.MetadataFreeUsage: 3}},
	}}
	ledger := NewLedger(provider, nil, nil)
	account := &Account{UserID: "u1", Plan: domain.PlanExclusive, FreeUsage: 3}

	decision, err := ledger.Authorize(account, FeatureArticle)
	require.NoError(t, err)
	require.NoError(t, ledger.Consume(context.Background(), account, decision))
	assert.Empty(t, provider.updates)
	assert.Equal(t, 3, account.FreeUsage)
}

func TestLedger_ResolveParsesNumericStringCounter(t *testing.T) {
	provider := &fakeProvider{users: map[string]*domain.User{"u1": freeUser("u1", "12")}}
	ledger := NewLedger(provider, nil, nil)

	account, err := ledger.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 12, account.FreeUsage)
	assert.Empty(t, provider.updates)

	_, err = ledger.Authorize(account, FeatureArticle)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeQuotaExceeded))
}

func TestLedger_ResolveRejectsGarbageCounter(t *testing.T) {
	provider := &fakeProvider{users: map[string]*domain.User{"u1": freeUser("u1", "lots")}}
	ledger := NewLedger(provider, nil, nil)

	_, err := ledger.Resolve(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeIdentityLookup))
	assert.ErrorIs(t, err, domain.ErrInvalidFreeUsage)
	assert.Empty(t, provider.updates)
	assert.Equal(t, "lots", provider.users["u1"].PrivateMetadata[domain.MetadataFreeUsage])
}

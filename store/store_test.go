package store

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gosom/submitmyurl/kv"
	"github.com/gosom/submitmyurl/kv/memory"
	"github.com/gosom/submitmyurl/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	return New(context.Background(), memory.New(), zap.NewNop())
}

func validInput(plan models.Plan) SubmissionInput {
	return SubmissionInput{
		UserID:      "user_demo",
		WebsiteURL:  "https://acme.example",
		WebsiteName: "Acme Widgets",
		Category:    models.CategoryBusiness,
		Description: "We sell the finest widgets on the internet today.",
		Plan:        plan,
	}
}

func TestStore_SeedFallback(t *testing.T) {
	s := newTestStore(t)

	user, ok := s.UserByEmail("demo@submitmyurl.com")
	require.True(t, ok)
	assert.Equal(t, "user_demo", user.ID)
	assert.Equal(t, models.PlanPro, user.Plan)

	subs := s.Submissions("")
	require.Len(t, subs, 2)
	assert.Equal(t, "SMU-882192", subs[0].ID)
	assert.Equal(t, "SMU-129381", subs[1].ID)
}

func TestStore_CorruptRecordFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	require.NoError(t, backend.Set(ctx, kv.Prefix+"users", []byte("{not json")))
	require.NoError(t, backend.Set(ctx, kv.Prefix+"submissions", []byte("also not json")))

	s := New(ctx, backend, zap.NewNop())

	_, ok := s.UserByEmail("demo@submitmyurl.com")
	assert.True(t, ok)
	assert.Len(t, s.Submissions(""), 2)
}

func TestStore_CreateUserIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateUser(ctx, "alice@example.com")
	require.NoError(t, err)

	second, err := s.CreateUser(ctx, "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ReferralCode, second.ReferralCode)
}

func TestStore_CreateUserDefaults(t *testing.T) {
	s := newTestStore(t)

	user, err := s.CreateUser(context.Background(), "bob@example.com")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(user.ID, "user_"))
	assert.True(t, strings.HasPrefix(user.ReferralCode, "REF"))
	assert.Equal(t, 5, user.Credits)
	assert.Equal(t, models.PlanFree, user.Plan)
	assert.Equal(t, float64(0), user.Earnings)
	assert.Equal(t, "IN", user.Country)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestStore_CreateSubmissionStatusByPlan(t *testing.T) {
	tests := []struct {
		plan models.Plan
		want models.Status
	}{
		{models.PlanFree, models.StatusPending},
		{models.PlanBasic, models.StatusApproved},
		{models.PlanPro, models.StatusApproved},
		{models.PlanBusiness, models.StatusApproved},
	}

	for _, tc := range tests {
		t.Run(string(tc.plan), func(t *testing.T) {
			s := newTestStore(t)

			sub, err := s.CreateSubmission(context.Background(), validInput(tc.plan))
			require.NoError(t, err)

			assert.Equal(t, tc.want, sub.Status)
			assert.Equal(t, 0, sub.Visitors)
			assert.True(t, strings.HasPrefix(sub.ID, "SMU-"))
			assert.Equal(t, strings.ToUpper(sub.ID), sub.ID)
			assert.False(t, sub.SubmissionDate.IsZero())
		})
	}
}

func TestStore_SubmissionsFilterPreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var created []string

	for i := 0; i < 3; i++ {
		input := validInput(models.PlanFree)
		input.UserID = "user_filter"

		sub, err := s.CreateSubmission(ctx, input)
		require.NoError(t, err)

		created = append(created, sub.ID)
	}

	got := s.Submissions("user_filter")
	require.Len(t, got, 3)

	for i, sub := range got {
		assert.Equal(t, created[i], sub.ID)
		assert.Equal(t, "user_filter", sub.UserID)
	}

	assert.Empty(t, s.Submissions("user_nobody"))
}

func TestStore_SubmissionByIDUppercaseVariantOnly(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.SubmissionByID("SMU-882192")
	assert.True(t, ok, "exact id must match")

	_, ok = s.SubmissionByID("smu-882192")
	assert.True(t, ok, "lowercase query upper-cases to a match")

	_, ok = s.SubmissionByID("sMu-882192")
	assert.True(t, ok, "any casing works while stored ids are all-uppercase")
}

func TestStore_SubmissionByIDLegacyMixedCaseID(t *testing.T) {
	// The lookup compares the query and its upper-cased form against
	// the stored id; it is not a true case-fold. A stored id that is
	// not fully uppercase is only reachable by exact match. This pins
	// that behavior for legacy records.
	ctx := context.Background()
	backend := memory.New()

	legacy := []models.Submission{{
		ID:          "SMU-abc123",
		UserID:      "user_demo",
		WebsiteURL:  "https://legacy.example",
		WebsiteName: "Legacy Site",
		Category:    models.CategoryOther,
		Description: "A record written before ids were upper-cased everywhere.",
		Plan:        models.PlanFree,
		Status:      models.StatusPending,
	}}

	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, backend.Set(ctx, kv.Prefix+"submissions", data))

	s := New(ctx, backend, zap.NewNop())

	_, ok := s.SubmissionByID("SMU-abc123")
	assert.True(t, ok, "exact match works")

	_, ok = s.SubmissionByID("smu-ABC123")
	assert.False(t, ok, "upper-cased query does not equal the stored id")

	_, ok = s.SubmissionByID("SMU-ABC123")
	assert.False(t, ok)
}

func TestStore_UpdateStatusUnknownIDIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before := s.Submissions("")

	s.UpdateSubmissionStatus(ctx, "SMU-MISSING", models.StatusApproved, "")

	assert.Equal(t, before, s.Submissions(""))
}

func TestStore_UpdateStatusSetsReasonOnlyWhenRejecting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.UpdateSubmissionStatus(ctx, "SMU-129381", models.StatusApproved, "ignored")

	sub, ok := s.SubmissionByID("SMU-129381")
	require.True(t, ok)
	assert.Equal(t, models.StatusApproved, sub.Status)
	assert.Empty(t, sub.RejectionReason)

	s.UpdateSubmissionStatus(ctx, "SMU-129381", models.StatusRejected, "broken link")

	sub, ok = s.SubmissionByID("SMU-129381")
	require.True(t, ok)
	assert.Equal(t, models.StatusRejected, sub.Status)
	assert.Equal(t, "broken link", sub.RejectionReason)
}

func TestStore_DeleteThenLookupNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.DeleteSubmission(ctx, "SMU-882192")

	_, ok := s.SubmissionByID("SMU-882192")
	assert.False(t, ok)

	// deleting again is a no-op
	s.DeleteSubmission(ctx, "SMU-882192")
	assert.Len(t, s.Submissions(""), 1)
}

func TestStore_StatsFlatRevenue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// seed: one approved pro, one pending free
	stats := s.Stats()
	assert.Equal(t, 2, stats.TotalSubmissions)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 0, stats.Rejected)
	assert.Equal(t, 199, stats.Revenue)

	_, err := s.CreateSubmission(ctx, validInput(models.PlanBusiness))
	require.NoError(t, err)

	// revenue stays a flat 199 per paid submission regardless of plan price
	stats = s.Stats()
	assert.Equal(t, 3, stats.TotalSubmissions)
	assert.Equal(t, 2, stats.Approved)
	assert.Equal(t, 398, stats.Revenue)
}

func TestStore_WritesSurviveReload(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	s := New(ctx, backend, zap.NewNop())

	user, err := s.CreateUser(ctx, "carol@example.com")
	require.NoError(t, err)

	input := validInput(models.PlanFree)
	input.UserID = user.ID

	sub, err := s.CreateSubmission(ctx, input)
	require.NoError(t, err)

	reloaded := New(ctx, backend, zap.NewNop())

	got, ok := reloaded.UserByEmail("carol@example.com")
	require.True(t, ok)
	assert.Equal(t, user.ID, got.ID)

	gotSub, ok := reloaded.SubmissionByID(sub.ID)
	require.True(t, ok)
	assert.Equal(t, sub.Description, gotSub.Description)
}

type failingBackend struct{ kv.Backend }

func (f *failingBackend) Set(context.Context, string, []byte) error {
	return assert.AnError
}

func TestStore_WriteFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()

	s := New(ctx, &failingBackend{Backend: memory.New()}, zap.NewNop())

	user, err := s.CreateUser(ctx, "dave@example.com")
	require.NoError(t, err)

	got, ok := s.UserByEmail("dave@example.com")
	require.True(t, ok)
	assert.Equal(t, user.ID, got.ID)
}

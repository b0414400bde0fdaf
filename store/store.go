// Package store is the sole gateway to user and submission state. It
// keeps both collections in memory, re-persists a collection in full on
// every write, and falls back to a seed dataset when the backing record
// is missing or unreadable.
package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/gosom/submitmyurl/kv"
	"github.com/gosom/submitmyurl/models"
)

const (
	usersKey       = kv.Prefix + "users"
	submissionsKey = kv.Prefix + "submissions"

	codeLen = 6

	defaultCredits = 5
	defaultCountry = "IN"

	// unitPrice is the flat amount Stats counts per paid submission.
	// It deliberately ignores the per-plan price differences.
	unitPrice = 199
)

// SubmissionInput carries the caller-supplied fields of a new
// submission. ID, status, date and visitors are assigned by the store.
type SubmissionInput struct {
	UserID      string
	WebsiteURL  string
	WebsiteName string
	Category    models.Category
	Description string
	Plan        models.Plan
}

type Store struct {
	mu      sync.RWMutex
	backend kv.Backend
	log     *zap.Logger
	now     func() time.Time

	users       []models.User
	submissions []models.Submission
}

// New loads both collections from the backend. A record that is absent
// or fails to parse is replaced by the seed dataset; that is a
// recoverable condition, not an error.
func New(ctx context.Context, backend kv.Backend, log *zap.Logger) *Store {
	s := Store{
		backend: backend,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}

	s.users = loadRecord(ctx, backend, usersKey, seedUsers(s.now()), log)
	s.submissions = loadRecord(ctx, backend, submissionsKey, seedSubmissions(s.now()), log)

	return &s
}

func loadRecord[T any](ctx context.Context, backend kv.Backend, key string, seed []T, log *zap.Logger) []T {
	data, err := backend.Get(ctx, key)
	if err != nil {
		return seed
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Warn("discarding unreadable record", zap.String("key", key), zap.Error(err))

		return seed
	}

	return items
}

// UserByEmail returns the user with the given email, if any. Emails are
// compared as provided, no normalization.
func (s *Store) UserByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.userByEmail(email)
}

func (s *Store) userByEmail(email string) (models.User, bool) {
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}

	return models.User{}, false
}

// CreateUser registers a user for the given email. If the email is
// already registered the existing user is returned unchanged.
func (s *Store) CreateUser(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.userByEmail(email); ok {
		return existing, nil
	}

	id, err := gonanoid.New(codeLen)
	if err != nil {
		return models.User{}, err
	}

	ref, err := gonanoid.New(codeLen)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           "user_" + id,
		Email:        email,
		Credits:      defaultCredits,
		Plan:         models.PlanFree,
		ReferralCode: "REF" + strings.ToUpper(ref),
		Earnings:     0,
		Country:      defaultCountry,
		CreatedAt:    s.now(),
	}

	s.users = append(s.users, user)
	s.persist(ctx, usersKey, s.users)

	return user, nil
}

// CreateSubmission creates a submission record. Paid plans are approved
// at creation; the free plan enters manual review.
func (s *Store) CreateSubmission(ctx context.Context, input SubmissionInput) (models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := gonanoid.New(codeLen)
	if err != nil {
		return models.Submission{}, err
	}

	status := models.StatusPending
	if input.Plan != models.PlanFree {
		status = models.StatusApproved
	}

	sub := models.Submission{
		ID:             "SMU-" + strings.ToUpper(code),
		UserID:         input.UserID,
		WebsiteURL:     input.WebsiteURL,
		WebsiteName:    input.WebsiteName,
		Category:       input.Category,
		Description:    input.Description,
		Plan:           input.Plan,
		Status:         status,
		SubmissionDate: s.now(),
		Visitors:       0,
	}

	s.submissions = append(s.submissions, sub)
	s.persist(ctx, submissionsKey, s.submissions)

	return sub, nil
}

// Submissions returns all submissions in storage order, or only the
// given user's when userID is non-empty. Callers that need recency
// order must sort the result themselves.
func (s *Store) Submissions(userID string) []models.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ans := make([]models.Submission, 0, len(s.submissions))

	for _, sub := range s.submissions {
		if userID != "" && sub.UserID != userID {
			continue
		}

		ans = append(ans, sub)
	}

	return ans
}

// SubmissionByID finds a submission whose id equals the query or the
// upper-cased query. A mixed-case query therefore misses; this matches
// the long-standing lookup behavior and is pinned by tests.
func (s *Store) SubmissionByID(id string) (models.Submission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	upper := strings.ToUpper(id)

	for _, sub := range s.submissions {
		if sub.ID == id || sub.ID == upper {
			return sub, true
		}
	}

	return models.Submission{}, false
}

// Stats aggregates the submissions collection.
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ans := models.Stats{TotalSubmissions: len(s.submissions)}

	for _, sub := range s.submissions {
		switch sub.Status {
		case models.StatusPending:
			ans.Pending++
		case models.StatusApproved:
			ans.Approved++
		case models.StatusRejected:
			ans.Rejected++
		}

		if sub.Plan != models.PlanFree {
			ans.Revenue += unitPrice
		}
	}

	return ans
}

// UpdateSubmissionStatus sets the status of the submission with the
// given id. The reason is recorded only when rejecting. Unknown ids are
// a silent no-op.
func (s *Store) UpdateSubmissionStatus(ctx context.Context, id string, status models.Status, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.submissions {
		if s.submissions[i].ID != id {
			continue
		}

		s.submissions[i].Status = status
		if status == models.StatusRejected && reason != "" {
			s.submissions[i].RejectionReason = reason
		}

		s.persist(ctx, submissionsKey, s.submissions)

		return
	}
}

// DeleteSubmission removes the submission with the given id. Unknown
// ids are a no-op.
func (s *Store) DeleteSubmission(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.submissions[:0:0]

	for _, sub := range s.submissions {
		if sub.ID != id {
			kept = append(kept, sub)
		}
	}

	if len(kept) == len(s.submissions) {
		return
	}

	s.submissions = kept
	s.persist(ctx, submissionsKey, s.submissions)
}

// Flush persists both collections. Normal operation persists on every
// write; Flush exists for seeding a fresh backend.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, err := json.Marshal(s.users)
	if err != nil {
		return err
	}

	if err := s.backend.Set(ctx, usersKey, users); err != nil {
		return err
	}

	subs, err := json.Marshal(s.submissions)
	if err != nil {
		return err
	}

	return s.backend.Set(ctx, submissionsKey, subs)
}

// persist writes a collection back in full. Write failures are logged
// and swallowed: the in-memory state stays authoritative and the
// caller's operation still succeeds.
func (s *Store) persist(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("failed to serialize record", zap.String("key", key), zap.Error(err))

		return
	}

	if err := s.backend.Set(ctx, key, data); err != nil {
		s.log.Warn("failed to persist record", zap.String("key", key), zap.Error(err))
	}
}

func seedUsers(now time.Time) []models.User {
	return []models.User{
		{
			ID:           "user_demo",
			Email:        "demo@submitmyurl.com",
			Credits:      defaultCredits,
			Plan:         models.PlanPro,
			ReferralCode: "DEMO123",
			Earnings:     1500,
			Country:      defaultCountry,
			CreatedAt:    now,
		},
	}
}

func seedSubmissions(now time.Time) []models.Submission {
	return []models.Submission{
		{
			ID:             "SMU-882192",
			UserID:         "user_demo",
			WebsiteURL:     "https://example.com",
			WebsiteName:    "Example Business",
			Category:       models.CategoryBusiness,
			Description:    "A sample business website submission for demonstration purposes.",
			Plan:           models.PlanPro,
			Status:         models.StatusApproved,
			SubmissionDate: now.Add(-48 * time.Hour),
			Visitors:       1240,
		},
		{
			ID:             "SMU-129381",
			UserID:         "user_demo",
			WebsiteURL:     "https://myblog.com",
			WebsiteName:    "My Personal Blog",
			Category:       models.CategoryBlog,
			Description:    "Just a personal blog about tech and life.",
			Plan:           models.PlanFree,
			Status:         models.StatusPending,
			SubmissionDate: now,
			Visitors:       0,
		},
	}
}

// Package wizard implements the multi-step submission workflow:
// Details -> Plan -> Review -> Success, with validation and a content
// policy guarding the first transition.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	emailaddress "github.com/mcnijman/go-emailaddress"
	"go.uber.org/multierr"

	"github.com/gosom/submitmyurl/mailer"
	"github.com/gosom/submitmyurl/models"
	"github.com/gosom/submitmyurl/store"
)

// Step is a wizard step, numbered as shown to the submitter.
type Step int

const (
	StepDetails Step = iota + 1
	StepPlan
	StepReview
	StepSuccess
)

const (
	minNameLen        = 3
	minDescriptionLen = 20
	maxDescriptionLen = 500

	// DefaultSubmitDelay mimics the latency of a real submission API.
	DefaultSubmitDelay = 1500 * time.Millisecond
)

// ErrProhibited blocks submissions whose content hits the denylist.
// This is a client-side heuristic, not authoritative moderation.
var ErrProhibited = errors.New("content contains prohibited keywords")

var prohibitedKeywords = []string{
	"casino", "gambling", "betting", "porn", "adult",
	"xxx", "crypto", "bitcoin", "loan", "viagra",
}

// Details holds the fields collected on the first step.
type Details struct {
	WebsiteURL  string
	WebsiteName string
	Email       string
	Category    models.Category
	Description string
}

// ValidateDetails checks every field and reports all failures at once.
func ValidateDetails(d *Details) error {
	var errs error

	u, err := url.Parse(d.WebsiteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = multierr.Append(errs, errors.New("website url must be a valid URL including http:// or https://"))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = multierr.Append(errs, errors.New("website url must use http or https"))
	}

	if utf8.RuneCountInString(d.WebsiteName) < minNameLen {
		errs = multierr.Append(errs, fmt.Errorf("website name must be at least %d characters", minNameLen))
	}

	if _, err := emailaddress.Parse(d.Email); err != nil {
		errs = multierr.Append(errs, errors.New("invalid email address"))
	}

	if !d.Category.Valid() {
		errs = multierr.Append(errs, errors.New("invalid category"))
	}

	// character counts, not bytes: multibyte descriptions up to the
	// limit are valid
	if n := utf8.RuneCountInString(d.Description); n < minDescriptionLen || n > maxDescriptionLen {
		errs = multierr.Append(errs, fmt.Errorf("description must be between %d and %d characters", minDescriptionLen, maxDescriptionLen))
	}

	return errs
}

func checkContentPolicy(d *Details) error {
	content := strings.ToLower(d.Description + " " + d.WebsiteName)

	for _, word := range prohibitedKeywords {
		if strings.Contains(content, word) {
			return ErrProhibited
		}
	}

	return nil
}

// Wizard drives one submission through the workflow. It is not safe for
// concurrent use; each submitter gets their own instance.
type Wizard struct {
	store  *store.Store
	mailer mailer.Mailer
	delay  time.Duration
	sleep  func(time.Duration)

	step         Step
	details      Details
	plan         models.Plan
	submissionID string
}

type Option func(*Wizard)

// WithDelay overrides the artificial delay before the final submit.
func WithDelay(d time.Duration) Option {
	return func(w *Wizard) { w.delay = d }
}

// WithMailer sets the mailer used for the confirmation message.
func WithMailer(m mailer.Mailer) Option {
	return func(w *Wizard) { w.mailer = m }
}

func New(st *store.Store, opts ...Option) *Wizard {
	w := Wizard{
		store: st,
		delay: DefaultSubmitDelay,
		sleep: time.Sleep,
		step:  StepDetails,
		plan:  models.PlanPro, // recommended tier, preselected
	}

	for _, opt := range opts {
		opt(&w)
	}

	return &w
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) Plan() models.Plan { return w.plan }

// SubmissionID returns the id of the created submission once the wizard
// reached the success step, empty before that.
func (w *Wizard) SubmissionID() string { return w.submissionID }

// SubmitDetails validates the first step and advances to plan
// selection. On failure the wizard stays put and keeps the entered data.
func (w *Wizard) SubmitDetails(d Details) error {
	if w.step != StepDetails {
		return fmt.Errorf("cannot submit details from step %d", w.step)
	}

	if err := ValidateDetails(&d); err != nil {
		return err
	}

	if err := checkContentPolicy(&d); err != nil {
		return err
	}

	w.details = d
	w.step = StepPlan

	return nil
}

// SelectPlan records the chosen plan while on the plan step.
func (w *Wizard) SelectPlan(p models.Plan) error {
	if w.step != StepPlan {
		return fmt.Errorf("cannot select a plan from step %d", w.step)
	}

	if !p.Valid() {
		return fmt.Errorf("unknown plan %q", p)
	}

	w.plan = p

	return nil
}

// Continue advances from plan selection to review. A plan is always
// selected at this point because one is preselected.
func (w *Wizard) Continue() error {
	if w.step != StepPlan {
		return fmt.Errorf("cannot continue from step %d", w.step)
	}

	w.step = StepReview

	return nil
}

// Back steps backwards. There is no way back from the success step.
func (w *Wizard) Back() error {
	switch w.step {
	case StepPlan:
		w.step = StepDetails
	case StepReview:
		w.step = StepPlan
	default:
		return fmt.Errorf("cannot go back from step %d", w.step)
	}

	return nil
}

// Submit performs the final submission: after the artificial delay it
// creates (or fetches) the user and creates the submission. On failure
// the wizard stays on review with its data intact; resubmitting is the
// caller's call, there is no retry and no idempotency key.
func (w *Wizard) Submit(ctx context.Context) (models.Submission, error) {
	if w.step != StepReview {
		return models.Submission{}, fmt.Errorf("cannot submit from step %d", w.step)
	}

	// Once started the delay runs to completion; there is no abort.
	w.sleep(w.delay)

	user, err := w.store.CreateUser(ctx, w.details.Email)
	if err != nil {
		return models.Submission{}, err
	}

	sub, err := w.store.CreateSubmission(ctx, store.SubmissionInput{
		UserID:      user.ID,
		WebsiteURL:  w.details.WebsiteURL,
		WebsiteName: w.details.WebsiteName,
		Category:    w.details.Category,
		Description: w.details.Description,
		Plan:        w.plan,
	})
	if err != nil {
		return models.Submission{}, err
	}

	w.submissionID = sub.ID
	w.step = StepSuccess

	if w.mailer != nil {
		// best effort, the confirmation is simulated anyway
		_ = w.mailer.SendConfirmation(ctx, w.details.Email, sub.ID)
	}

	return sub, nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	emailaddress "github.com/mcnijman/go-emailaddress"
	"go.uber.org/zap"

	"github.com/gosom/submitmyurl/models"
	"github.com/gosom/submitmyurl/web/auth"
	"github.com/gosom/submitmyurl/wizard"
)

type submitRequest struct {
	WebsiteURL  string `json:"websiteUrl"`
	WebsiteName string `json:"websiteName"`
	Email       string `json:"email"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Plan        string `json:"plan"`
}

type submitResponse struct {
	ID     string        `json:"id"`
	Status models.Status `json:"status"`
}

// Submit drives the submission wizard end to end for a single request:
// details validation, content policy, plan selection, final submit.
func (h *APIHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	wiz := wizard.New(h.Deps.Store,
		wizard.WithDelay(h.Deps.SubmitDelay),
		wizard.WithMailer(h.Deps.Mailer),
	)

	details := wizard.Details{
		WebsiteURL:  req.WebsiteURL,
		WebsiteName: req.WebsiteName,
		Email:       req.Email,
		Category:    models.Category(req.Category),
		Description: req.Description,
	}

	if err := wiz.SubmitDetails(details); err != nil {
		if errors.Is(err, wizard.ErrProhibited) {
			renderError(w, http.StatusUnprocessableEntity, "Your content contains prohibited keywords.")
			return
		}

		renderError(w, http.StatusUnprocessableEntity, err.Error())

		return
	}

	if req.Plan != "" {
		if err := wiz.SelectPlan(models.Plan(req.Plan)); err != nil {
			renderError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	if err := wiz.Continue(); err != nil {
		renderError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sub, err := wiz.Submit(r.Context())
	if err != nil {
		h.Deps.Logger.Error("final submit failed", zap.Error(err))
		renderError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")

		return
	}

	h.Deps.track(r.Context(), "submission_created", map[string]any{
		"plan":     string(sub.Plan),
		"category": string(sub.Category),
	})

	renderJSON(w, http.StatusCreated, submitResponse{ID: sub.ID, Status: sub.Status})
}

// Status looks a submission up by id (any casing) or URL fragment.
// A miss is an explicit not-found outcome, not an error.
func (h *APIHandlers) Status(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		renderError(w, http.StatusBadRequest, "missing query")
		return
	}

	lowered := strings.ToLower(query)

	for _, sub := range h.Deps.Store.Submissions("") {
		if strings.ToLower(sub.ID) == lowered || strings.Contains(strings.ToLower(sub.WebsiteURL), lowered) {
			renderJSON(w, http.StatusOK, sub)
			return
		}
	}

	renderError(w, http.StatusNotFound, "submission not found")
}

type loginRequest struct {
	Email string `json:"email"`
}

// Login simulates the magic-link flow: any parseable email is accepted
// and unknown emails are auto-registered.
func (h *APIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if _, err := emailaddress.Parse(req.Email); err != nil {
		renderError(w, http.StatusUnprocessableEntity, "invalid email address")
		return
	}

	user, err := h.Deps.Store.CreateUser(r.Context(), req.Email)
	if err != nil {
		renderError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	session := h.Deps.Sessions.IssueUser(user.Email)
	auth.SetCookie(w, session)

	renderJSON(w, http.StatusOK, user)
}

func (h *APIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Deps.Sessions.Revoke(cookie.Value)
	}

	auth.ClearCookie(w)
	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type trafficPoint struct {
	Name     string `json:"name"`
	Visitors int    `json:"visitors"`
}

type dashboardResponse struct {
	User        models.User         `json:"user"`
	Submissions []models.Submission `json:"submissions"`
	Traffic     []trafficPoint      `json:"traffic"`
}

// demoTraffic is the simulated weekly visitor series shown on the
// dashboard chart.
func demoTraffic() []trafficPoint {
	return []trafficPoint{
		{"Mon", 400}, {"Tue", 300}, {"Wed", 600}, {"Thu", 800},
		{"Fri", 500}, {"Sat", 900}, {"Sun", 1100},
	}
}

// Dashboard returns the logged-in user's profile, submissions sorted
// newest first, and the demo traffic series.
func (h *APIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, err := auth.SessionFromContext(r.Context())
	if err != nil {
		renderError(w, http.StatusUnauthorized, "login required")
		return
	}

	user, ok := h.Deps.Store.UserByEmail(session.Email)
	if !ok {
		// session outlived the user record
		renderError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	subs := h.Deps.Store.Submissions(user.ID)

	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].SubmissionDate.After(subs[j].SubmissionDate)
	})

	renderJSON(w, http.StatusOK, dashboardResponse{
		User:        user,
		Submissions: subs,
		Traffic:     demoTraffic(),
	})
}

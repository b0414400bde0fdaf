package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/gosom/submitmyurl/models"
	"github.com/gosom/submitmyurl/web/auth"
)

type adminLoginRequest struct {
	Password string `json:"password"`
}

// Login gates the admin panel behind the shared static password. This
// is a placeholder, not a security control: plaintext compare, no
// lockout, no rate limiting.
func (h *AdminHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.Deps.AdminPassword)) != 1 {
		renderError(w, http.StatusUnauthorized, "Access Denied: incorrect password")
		return
	}

	session := h.Deps.Sessions.IssueAdmin()
	auth.SetCookie(w, session)

	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AdminHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Deps.Sessions.Revoke(cookie.Value)
	}

	auth.ClearCookie(w)
	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Stats returns the aggregate numbers for the admin dashboard cards.
func (h *AdminHandlers) Stats(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusOK, h.Deps.Store.Stats())
}

// Submissions lists all submissions, newest first.
func (h *AdminHandlers) Submissions(w http.ResponseWriter, _ *http.Request) {
	subs := h.Deps.Store.Submissions("")

	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].SubmissionDate.After(subs[j].SubmissionDate)
	})

	renderJSON(w, http.StatusOK, subs)
}

// Approve force-approves a submission. Unknown ids are a silent no-op,
// matching the store contract.
func (h *AdminHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	h.Deps.Store.UpdateSubmissionStatus(r.Context(), id, models.StatusApproved, "")
	h.Deps.track(r.Context(), "admin_action", map[string]any{"action": "approve"})

	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject force-rejects a submission, recording the reason if given.
func (h *AdminHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req rejectRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	h.Deps.Store.UpdateSubmissionStatus(r.Context(), id, models.StatusRejected, req.Reason)
	h.Deps.track(r.Context(), "admin_action", map[string]any{"action": "reject"})

	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete permanently removes a submission.
func (h *AdminHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	h.Deps.Store.DeleteSubmission(r.Context(), id)
	h.Deps.track(r.Context(), "admin_action", map[string]any{"action": "delete"})

	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gosom/submitmyurl/models"
)

// HealthCheck responds with service health info.
func (h *WebHandlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "submitmyurl",
		"timestamp": time.Now().UTC(),
	})
}

type indexData struct {
	Plans      []models.PlanInfo
	Categories []models.Category
}

// Index serves the landing page with the plan cards.
func (h *WebHandlers) Index(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tmpl, ok := h.Deps.Templates["templates/index.html"]
	if !ok {
		http.Error(w, "missing tpl", http.StatusInternalServerError)
		return
	}

	_ = tmpl.Execute(w, indexData{
		Plans:      models.PlanCatalog(),
		Categories: models.Categories,
	})
}

// StatusPage serves the status lookup page.
func (h *WebHandlers) StatusPage(w http.ResponseWriter, _ *http.Request) {
	tmpl, ok := h.Deps.Templates["templates/status.html"]
	if !ok {
		http.Error(w, "missing tpl", http.StatusInternalServerError)
		return
	}

	_ = tmpl.Execute(w, nil)
}

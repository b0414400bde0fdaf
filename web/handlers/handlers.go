// Package handlers contains the HTTP handlers for the public site, the
// JSON API and the admin panel.
package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gosom/submitmyurl/mailer"
	"github.com/gosom/submitmyurl/models"
	"github.com/gosom/submitmyurl/store"
	"github.com/gosom/submitmyurl/tlmt"
	"github.com/gosom/submitmyurl/web/auth"
)

// Dependencies aggregates shared services used by handlers.
type Dependencies struct {
	Logger        *zap.Logger
	Store         *store.Store
	Sessions      *auth.Manager
	Mailer        mailer.Mailer
	Telemetry     tlmt.Telemetry
	Templates     map[string]*template.Template
	AdminPassword string
	SubmitDelay   time.Duration
}

// HandlerGroup groups all handler categories for routing setup.
type HandlerGroup struct {
	Web   *WebHandlers
	API   *APIHandlers
	Admin *AdminHandlers
}

// NewHandlerGroup constructs a HandlerGroup with initialized handlers.
func NewHandlerGroup(deps Dependencies) *HandlerGroup {
	return &HandlerGroup{
		Web:   &WebHandlers{Deps: deps},
		API:   &APIHandlers{Deps: deps},
		Admin: &AdminHandlers{Deps: deps},
	}
}

// WebHandlers contains routes for the HTML pages.
type WebHandlers struct{ Deps Dependencies }

// APIHandlers contains routes for the public JSON API.
type APIHandlers struct{ Deps Dependencies }

// AdminHandlers contains routes for the password-gated admin panel.
type AdminHandlers struct{ Deps Dependencies }

func renderJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func renderError(w http.ResponseWriter, code int, message string) {
	renderJSON(w, code, models.APIError{Code: code, Message: message})
}

func (d *Dependencies) track(ctx context.Context, name string, props map[string]any) {
	if d.Telemetry == nil {
		return
	}

	// fire and forget
	_ = d.Telemetry.Send(ctx, tlmt.NewEvent(name, props))
}

// Package web wires the HTTP server: routing, middleware and the
// embedded page templates.
package web

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gosom/submitmyurl/web/handlers"
	"github.com/gosom/submitmyurl/web/internal/views"
	"github.com/gosom/submitmyurl/web/middleware"
)

type Server struct {
	srv *http.Server
	log *zap.Logger
}

// New builds the router and the underlying http.Server.
func New(deps handlers.Dependencies, addr string) (*Server, error) {
	if deps.Templates == nil {
		tpls, err := loadTemplates()
		if err != nil {
			return nil, err
		}

		deps.Templates = tpls
	}

	group := handlers.NewHandlerGroup(deps)

	r := mux.NewRouter()

	// HTML pages
	r.HandleFunc("/", group.Web.Index).Methods(http.MethodGet)
	r.HandleFunc("/status", group.Web.StatusPage).Methods(http.MethodGet)
	r.HandleFunc("/health", group.Web.HealthCheck).Methods(http.MethodGet)

	// public API
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/submissions", group.API.Submit).Methods(http.MethodPost)
	api.HandleFunc("/status", group.API.Status).Methods(http.MethodGet)
	api.HandleFunc("/login", group.API.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", group.API.Logout).Methods(http.MethodPost)
	api.Handle("/dashboard", deps.Sessions.RequireUser(http.HandlerFunc(group.API.Dashboard))).Methods(http.MethodGet)

	// admin panel
	r.HandleFunc("/admin/api/login", group.Admin.Login).Methods(http.MethodPost)
	r.HandleFunc("/admin/api/logout", group.Admin.Logout).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin/api").Subrouter()
	admin.Use(deps.Sessions.RequireAdmin)
	admin.HandleFunc("/stats", group.Admin.Stats).Methods(http.MethodGet)
	admin.HandleFunc("/submissions", group.Admin.Submissions).Methods(http.MethodGet)
	admin.HandleFunc("/submissions/{id}/approve", group.Admin.Approve).Methods(http.MethodPost)
	admin.HandleFunc("/submissions/{id}/reject", group.Admin.Reject).Methods(http.MethodPost)
	admin.HandleFunc("/submissions/{id}", group.Admin.Delete).Methods(http.MethodDelete)

	handler := middleware.Chain(r,
		middleware.RequestLogger(deps.Logger),
		middleware.SecurityHeaders,
		middleware.CORS,
	)

	srv := http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{srv: &srv, log: deps.Logger}, nil
}

// Start serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("server shutdown", zap.Error(err))
		}
	}()

	s.log.Info("listening", zap.String("addr", s.srv.Addr))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func loadTemplates() (map[string]*template.Template, error) {
	ans := make(map[string]*template.Template)

	err := fs.WalkDir(views.Content, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		tmpl, err := template.ParseFS(views.Content, path)
		if err != nil {
			return err
		}

		ans[path] = tmpl

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ans, nil
}

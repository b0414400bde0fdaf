// Package webrunner runs the HTTP server backed by the configured
// storage backend.
package webrunner

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gosom/submitmyurl/kv"
	"github.com/gosom/submitmyurl/kv/memory"
	"github.com/gosom/submitmyurl/kv/sqlite"
	"github.com/gosom/submitmyurl/mailer"
	"github.com/gosom/submitmyurl/runner"
	"github.com/gosom/submitmyurl/store"
	"github.com/gosom/submitmyurl/tlmt"
	"github.com/gosom/submitmyurl/web"
	"github.com/gosom/submitmyurl/web/auth"
	"github.com/gosom/submitmyurl/web/handlers"
)

const dbfname = "store.db"

type webrunner struct {
	srv      *web.Server
	sessions *auth.Manager
	log      *zap.Logger
	cfg      *runner.Config
}

func New(cfg *runner.Config) (runner.Runner, error) {
	log, err := newLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	st := store.New(context.Background(), backend, log)

	sessions := auth.NewManager(cfg.SessionTTL)

	srv, err := web.New(handlers.Dependencies{
		Logger:        log,
		Store:         st,
		Sessions:      sessions,
		Mailer:        mailer.NewLog(log),
		Telemetry:     runner.Telemetry(),
		AdminPassword: cfg.AdminPassword,
		SubmitDelay:   cfg.SubmitDelay,
	}, cfg.Addr)
	if err != nil {
		return nil, err
	}

	ans := webrunner{
		srv:      srv,
		sessions: sessions,
		log:      log,
		cfg:      cfg,
	}

	return &ans, nil
}

func (w *webrunner) Run(ctx context.Context) error {
	evt := tlmt.NewEvent("web_runner", map[string]any{"backend": w.cfg.Backend})
	_ = runner.Telemetry().Send(ctx, evt)

	egroup, ctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		return w.sessions.Run(ctx, time.Minute)
	})

	egroup.Go(func() error {
		return w.srv.Start(ctx)
	})

	return egroup.Wait()
}

func (w *webrunner) Close(context.Context) error {
	_ = w.log.Sync()

	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func newBackend(cfg *runner.Config) (kv.Backend, error) {
	if cfg.Backend == runner.BackendMemory {
		return memory.New(), nil
	}

	if err := os.MkdirAll(cfg.DataFolder, os.ModePerm); err != nil {
		return nil, err
	}

	return sqlite.New(filepath.Join(cfg.DataFolder, dbfname))
}

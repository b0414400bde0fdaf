// Package seedrunner writes the demo seed data to the configured
// backend and exits. Useful for provisioning a fresh sqlite store.
package seedrunner

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/gosom/submitmyurl/kv/sqlite"
	"github.com/gosom/submitmyurl/runner"
	"github.com/gosom/submitmyurl/store"
)

type seedrunner struct {
	cfg *runner.Config
	log *zap.Logger
}

func New(cfg *runner.Config) (runner.Runner, error) {
	if cfg.Backend != runner.BackendSQLite {
		return nil, errors.New("seeding requires the sqlite backend")
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}

	return &seedrunner{cfg: cfg, log: log}, nil
}

func (s *seedrunner) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.DataFolder, os.ModePerm); err != nil {
		return err
	}

	backend, err := sqlite.New(filepath.Join(s.cfg.DataFolder, "store.db"))
	if err != nil {
		return err
	}

	st := store.New(ctx, backend, s.log)

	if err := st.Flush(ctx); err != nil {
		return err
	}

	s.log.Info("seed data written", zap.String("folder", s.cfg.DataFolder))

	return nil
}

func (s *seedrunner) Close(context.Context) error {
	_ = s.log.Sync()

	return nil
}

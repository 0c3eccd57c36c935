package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/spicecms/domain"
)

// StateSource is satisfied by the cms use case.
type StateSource interface {
	State(ctx context.Context) (domain.CMSState, error)
}

// ExporterConfig controls where and how often the snapshot is written.
type ExporterConfig struct {
	Path     string
	Interval time.Duration
}

// SnapshotExporter periodically writes the whole CMSState as one JSON file in
// the db.json layout, so the data can be backed up or seeded elsewhere.
type SnapshotExporter struct {
	source StateSource
	logger *zap.Logger
	cron   *cron.Cron
	cfg    ExporterConfig
}

func NewSnapshotExporter(source StateSource, logger *zap.Logger, cfg ExporterConfig) *SnapshotExporter {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	se := &SnapshotExporter{
		source: source,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = se.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := se.Export(ctx); err != nil {
			se.logger.Error("snapshot export failed", zap.Error(err))
		}
	})

	return se
}

// Start launches the cron scheduler.
func (se *SnapshotExporter) Start() {
	if se == nil || se.cron == nil || se.cfg.Path == "" {
		return
	}
	se.cron.Start()
	se.logger.Info("snapshot exporter started", zap.String("path", se.cfg.Path), zap.Duration("interval", se.cfg.Interval))
}

// Stop waits for a running export, then writes one last snapshot.
func (se *SnapshotExporter) Stop(ctx context.Context) error {
	if se == nil || se.cron == nil || se.cfg.Path == "" {
		return nil
	}
	stopCtx := se.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := se.Export(ctx); err != nil {
		return err
	}
	se.logger.Info("snapshot exporter stopped")
	return nil
}

// Export writes the current state. The file is replaced atomically, so
// readers never see a partial snapshot.
func (se *SnapshotExporter) Export(ctx context.Context) error {
	if se == nil || se.cfg.Path == "" {
		return nil
	}
	state, err := se.source.State(ctx)
	if err != nil {
		return err
	}
	state.Normalize()

	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(se.cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), se.cfg.Path); err != nil {
		return err
	}

	se.logger.Debug("snapshot exported",
		zap.String("path", se.cfg.Path),
		zap.Int("products", len(state.Products)),
		zap.Int("enquiries", len(state.Enquiries)))
	return nil
}

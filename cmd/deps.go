package main

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rossinienergy/citypages/internal/enrich"
	"github.com/rossinienergy/citypages/internal/fetcher"
	"github.com/rossinienergy/citypages/internal/monitoring"
	"github.com/rossinienergy/citypages/internal/store"
)

func initClients() enrich.Clients {
	f := fetcher.NewHTTPFetcher(fetcher.OptionsFromConfig(cfg))
	return enrich.NewClients(cfg, f)
}

// initRunLog opens and migrates the run log. It returns nil when no SQLite
// path is configured or the database cannot be opened; passes then run
// without history.
func initRunLog(ctx context.Context) store.RunLog {
	if cfg.Store.SQLitePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o755); err != nil {
		zap.L().Warn("run log unavailable", zap.String("path", cfg.Store.SQLitePath), zap.Error(err))
		return nil
	}
	st, err := store.NewSQLite(cfg.Store.SQLitePath, nil)
	if err != nil {
		zap.L().Warn("run log unavailable", zap.String("path", cfg.Store.SQLitePath), zap.Error(err))
		return nil
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		zap.L().Warn("run log migration failed", zap.Error(err))
		return nil
	}
	return st
}

func closeRunLog(runs store.RunLog) {
	if runs == nil {
		return
	}
	if err := runs.Close(); err != nil {
		zap.L().Warn("close run log", zap.Error(err))
	}
}

func flushMetrics(m *monitoring.Metrics) {
	if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		zap.L().Warn("write metrics textfile", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
	}
}

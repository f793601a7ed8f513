package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/auditlab/secop-cli/internal/audit"
	"github.com/auditlab/secop-cli/internal/cluster"
	"github.com/auditlab/secop-cli/internal/dataset"
	"github.com/auditlab/secop-cli/internal/pipeline"
	"github.com/auditlab/secop-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "secop_runs.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// datasetPath resolves the export path from the --dataset flag, falling back
// to config.
func datasetPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("dataset"); path != "" {
		return path
	}
	return cfg.Dataset.Path
}

// loadContext reads the export and runs the clean/aggregate stages.
func loadContext(path string) (*pipeline.Context, error) {
	t, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}

	pctx := pipeline.NewContext()
	if err := pctx.Load(t); err != nil {
		return nil, err
	}
	return pctx, nil
}

// auditLabels resolves the rank-ordered cluster descriptions: label file
// first, then configured labels, then the built-in set.
func auditLabels() ([]string, error) {
	if cfg.Audit.LabelFile != "" {
		return audit.LoadLabels(cfg.Audit.LabelFile)
	}
	if len(cfg.Audit.Labels) > 0 {
		return cfg.Audit.Labels, nil
	}
	return audit.DefaultLabels, nil
}

func segmentOptions() cluster.Options {
	return cluster.Options{
		K:        cfg.Segment.K,
		Seed:     cfg.Segment.Seed,
		Restarts: cfg.Segment.Restarts,
		MaxIter:  cfg.Segment.MaxIter,
	}
}

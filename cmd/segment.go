package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/auditlab/secop-cli/internal/audit"
	"github.com/auditlab/secop-cli/internal/dataset"
	"github.com/auditlab/secop-cli/internal/model"
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Segment entities by contracting behavior",
	Long:  "Clusters entity profiles on total value, contract count, and direct-award ratio, records the run, and prints labeled cluster summaries.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		labels, err := auditLabels()
		if err != nil {
			return err
		}

		path := datasetPath(cmd)
		run, err := st.CreateRun(ctx, path)
		if err != nil {
			return eris.Wrap(err, "record run")
		}

		start := time.Now()

		pctx, err := loadContext(path)
		if err != nil {
			if ferr := st.FailRun(ctx, run.ID, err.Error()); ferr != nil {
				zap.L().Error("fail run", zap.Error(ferr))
			}
			return err
		}

		opts := segmentOptions()
		if k, _ := cmd.Flags().GetInt("k"); k > 0 {
			opts.K = k
		}
		if seed, _ := cmd.Flags().GetInt64("seed"); cmd.Flags().Changed("seed") {
			opts.Seed = seed
		}

		res, err := pctx.Segment(opts)
		if err != nil {
			if ferr := st.FailRun(ctx, run.ID, err.Error()); ferr != nil {
				zap.L().Error("fail run", zap.Error(ferr))
			}
			return eris.Wrap(err, "segment")
		}

		stats := pctx.Stats()
		summary := &model.RunSummary{
			Rows:               stats.Rows,
			CleanRecords:       stats.Kept,
			DroppedUnparseable: stats.DroppedUnparseable,
			DroppedNonPositive: stats.DroppedNonPositive,
			Entities:           len(pctx.Profiles()),
			K:                  res.K,
			Seed:               res.Seed,
			WCSS:               res.WCSS,
			DurationMs:         time.Since(start).Milliseconds(),
		}
		if err := st.CompleteRun(ctx, run.ID, summary); err != nil {
			zap.L().Error("complete run", zap.Error(err))
		}

		zap.L().Info("segmentation complete",
			zap.String("run_id", run.ID),
			zap.Int("entities", summary.Entities),
			zap.Int("k", res.K),
			zap.Float64("wcss", res.WCSS),
		)

		out := struct {
			RunID    string              `json:"run_id"`
			Schema   dataset.Schema      `json:"schema"`
			Stats    dataset.CleanStats  `json:"stats"`
			Summary  *model.RunSummary   `json:"summary"`
			Clusters []audit.ClusterView `json:"clusters"`
		}{
			RunID:    run.ID,
			Schema:   pctx.Schema(),
			Stats:    stats,
			Summary:  summary,
			Clusters: audit.DescribeClusters(res, labels),
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	segmentCmd.Flags().Int("k", 0, "number of clusters (default from config)")
	segmentCmd.Flags().Int64("seed", 0, "RNG seed (default from config)")
	rootCmd.AddCommand(segmentCmd)
}

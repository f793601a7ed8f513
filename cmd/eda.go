package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/auditlab/secop-cli/internal/dataset"
	"github.com/auditlab/secop-cli/internal/pipeline"
)

var edaCmd = &cobra.Command{
	Use:   "eda",
	Short: "Summarize the contract export",
	Long:  "Cleans the export and prints the resolved schema, drop counters, top contracting modalities, and the contract value distribution.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		pctx, err := loadContext(datasetPath(cmd))
		if err != nil {
			return err
		}

		summary, err := pctx.EDA(cfg.EDA.TopModalities, cfg.EDA.HistogramBins)
		if err != nil {
			return eris.Wrap(err, "eda")
		}

		out := struct {
			Schema  dataset.Schema      `json:"schema"`
			Stats   dataset.CleanStats  `json:"stats"`
			Summary pipeline.EDASummary `json:"summary"`
		}{
			Schema:  pctx.Schema(),
			Stats:   pctx.Stats(),
			Summary: summary,
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(edaCmd)
}

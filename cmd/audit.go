package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/auditlab/secop-cli/internal/audit"
)

var auditJSON bool

var auditCmd = &cobra.Command{
	Use:   "audit <query>",
	Short: "Look up entities by name or tax id",
	Long:  "Runs the full pipeline, then matches the query against entity names (case-insensitive) and tax ids, printing each hit with its cluster profile and alert flag.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		labels, err := auditLabels()
		if err != nil {
			return err
		}

		pctx, err := loadContext(datasetPath(cmd))
		if err != nil {
			return err
		}
		if _, err := pctx.Segment(segmentOptions()); err != nil {
			return eris.Wrap(err, "segment")
		}

		svc, err := audit.NewService(pctx.Profiles(), pctx.Segmentation(), labels)
		if err != nil {
			return err
		}

		matches := svc.Query(strings.Join(args, " "))

		if auditJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(matches)
		}

		formatMatches(os.Stdout, matches)
		return nil
	},
}

func init() {
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "print matches as JSON")
	rootCmd.AddCommand(auditCmd)
}

// formatMatches writes a human-readable audit report to w.
func formatMatches(out io.Writer, matches []audit.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matching entities.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ENTITY\tNIT\tCONTRACTS\tTOTAL\tDIRECT%\tPROFILE\tALERT")
	_, _ = fmt.Fprintln(w, "------\t---\t---------\t-----\t-------\t-------\t-----")

	for _, m := range matches {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.1f%%\t%s\t%s\n",
			audit.DisplayName(m.EntityName),
			m.EntityID,
			m.ContractCount,
			m.TotalValue,
			m.DirectAwardRatio*100,
			m.Profile,
			m.Alert,
		)
	}
	_ = w.Flush()
}

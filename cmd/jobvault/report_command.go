package main

import (
	"encoding/json"
	"sort"

	"github.com/spf13/cobra"

	"jobvault/internal/canonical"
	"jobvault/internal/migrate"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a validation report for the target store",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			report, err := migrate.BuildValidationReport(cmd.Context(), st)
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			}

			cmd.Printf("Jobs: %s  Users: %s  Applications: %s  Documents: %s\n\n",
				formatInt(report.Totals.Jobs),
				formatInt(report.Totals.Users),
				formatInt(report.Totals.Applications),
				formatInt(report.Totals.Documents))

			var statusRows [][]string
			for _, status := range canonical.AllStatuses() {
				if count := report.JobsByStatus[status]; count > 0 {
					statusRows = append(statusRows, []string{string(status), formatInt(count)})
				}
			}
			if len(statusRows) > 0 {
				cmd.Println(renderTable([]string{"Status", "Jobs"}, statusRows, []columnAlignment{alignLeft, alignRight}))
			}

			sources := make([]string, 0, len(report.JobsBySource))
			for source := range report.JobsBySource {
				sources = append(sources, source)
			}
			sort.Strings(sources)
			var sourceRows [][]string
			for _, source := range sources {
				sourceRows = append(sourceRows, []string{source, formatInt(report.JobsBySource[source])})
			}
			if len(sourceRows) > 0 {
				cmd.Println(renderTable([]string{"Source", "Jobs"}, sourceRows, []columnAlignment{alignLeft, alignRight}))
			}

			var qualityRows [][]string
			for _, field := range []string{"description", "salary", "url", "requirements", "tags"} {
				qualityRows = append(qualityRows, []string{field, formatPercent(report.DataQuality[field])})
			}
			cmd.Println(renderTable([]string{"Field", "Coverage"}, qualityRows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	return cmd
}

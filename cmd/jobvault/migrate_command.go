package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"jobvault/internal/migrate"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var skipDedupe bool
	var dedupeUser int64

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run a full migration from all enabled sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			orchestrator := migrate.New(cfg, st, logger)
			report, err := orchestrator.Run(cmd.Context(), migrate.RunOptions{
				DryRun:       dryRun,
				SkipDedupe:   skipDedupe,
				DedupeUserID: dedupeUser,
			})
			if err != nil {
				return err
			}

			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Extract and report without writing anything")
	cmd.Flags().BoolVar(&skipDedupe, "skip-dedupe", false, "Skip the deduplication pass")
	cmd.Flags().Int64Var(&dedupeUser, "user", 0, "Limit the deduplication pass to one user id (0 = all)")
	return cmd
}

func printReport(cmd *cobra.Command, report *migrate.Report) {
	mode := "migration"
	if report.DryRun {
		mode = "dry run"
	}
	cmd.Printf("Run %s (%s) finished in %s\n\n", report.RunID, mode, report.Duration().Round(timeRounding))

	headers := []string{"Source", "Extracted", "Users", "Files", "Imported", "Errors"}
	var rows [][]string
	for _, tag := range []string{"jobtrack", "contractflow"} {
		src, ok := report.Sources[tag]
		if !ok {
			continue
		}
		state := strconv.Itoa(src.JobsImported)
		if src.Skipped {
			state = "skipped"
		}
		rows = append(rows, []string{
			tag,
			strconv.Itoa(src.JobsExtracted),
			strconv.Itoa(src.UsersExtracted),
			strconv.Itoa(src.FilesMigrated),
			state,
			strconv.Itoa(len(src.Errors)),
		})
	}
	cmd.Println(renderTable(headers, rows, []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}))

	if report.Dedupe.Ran {
		cmd.Printf("\nDeduplication: %d found, %d merged, %d conflicts resolved\n",
			report.Dedupe.DuplicatesFound, report.Dedupe.DuplicatesMerged, report.Dedupe.ConflictsResolved)
	}
	if report.Validation != nil {
		printValidation(cmd, report.Validation)
	}
	if total := report.TotalErrors(); total > 0 {
		cmd.Printf("\n%d error(s) recorded:\n", total)
		for _, line := range collectErrors(report) {
			cmd.Printf("  - %s\n", line)
		}
	}
}

func printValidation(cmd *cobra.Command, v *migrate.ValidationReport) {
	cmd.Printf("\nStore now holds %d jobs, %d users, %d applications, %d documents\n",
		v.Totals.Jobs, v.Totals.Users, v.Totals.Applications, v.Totals.Documents)

	var quality []string
	for _, field := range []string{"description", "salary", "url", "requirements", "tags"} {
		quality = append(quality, fmt.Sprintf("%s %.1f%%", field, v.DataQuality[field]))
	}
	cmd.Printf("Field coverage: %s\n", strings.Join(quality, ", "))
}

func collectErrors(report *migrate.Report) []string {
	var lines []string
	for _, tag := range []string{"jobtrack", "contractflow"} {
		if src, ok := report.Sources[tag]; ok {
			for _, e := range src.Errors {
				lines = append(lines, tag+": "+e)
			}
		}
	}
	for _, e := range report.Dedupe.Errors {
		lines = append(lines, "dedupe: "+e)
	}
	lines = append(lines, report.Errors...)
	return lines
}

package main

import (
	"github.com/spf13/cobra"

	"jobvault/internal/dedupe"
)

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Run a standalone deduplication pass over the store",
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

			engine := dedupe.New(st, dedupe.Options{
				CompanyThreshold: cfg.Dedupe.CompanyThreshold,
				TitleThreshold:   cfg.Dedupe.TitleThreshold,
				Clustering:       cfg.Dedupe.Clustering,
				SalaryPolicy:     cfg.Dedupe.SalaryPolicy,
				UserID:           userID,
			}, logger)

			result, err := engine.Run(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("Clusters detected:  %d\n", result.ClustersDetected)
			cmd.Printf("Duplicates found:   %d\n", result.DuplicatesFound)
			cmd.Printf("Duplicates merged:  %d\n", result.DuplicatesMerged)
			cmd.Printf("Conflicts resolved: %d\n", result.ConflictsResolved)
			for _, e := range result.Errors {
				cmd.Printf("error: %s\n", e)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Limit deduplication to one user id (0 = all)")
	return cmd
}

package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check target store health and source availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			health, err := st.CheckHealth(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Database", health.DBPath},
				{"Readable", yesNo(health.DatabaseReadable)},
				{"Schema", yesNo(health.TableExists && len(health.MissingColumns) == 0)},
				{"Integrity", yesNo(health.IntegrityCheck)},
				{"Jobs", formatInt(health.TotalJobs)},
			}
			if len(health.MissingColumns) > 0 {
				rows = append(rows, []string{"Missing columns", strings.Join(health.MissingColumns, ", ")})
			}
			if health.Error != "" {
				rows = append(rows, []string{"Error", health.Error})
			}
			cmd.Println(renderTable([]string{"Check", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))

			var sourceRows [][]string
			for _, tag := range cfg.EnabledSources() {
				sourceRows = append(sourceRows, []string{tag, "enabled"})
			}
			if len(sourceRows) > 0 {
				cmd.Println(renderTable([]string{"Source", "State"}, sourceRows, []columnAlignment{alignLeft, alignLeft}))
			}
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

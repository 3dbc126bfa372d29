package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"xscribe/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of required external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := ctx.ensure()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			statuses = append(statuses,
				deps.CheckDirectoryAccess("model cache", cfg.ModelCacheDir()))

			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					if status.Optional {
						state = "missing (optional)"
					} else {
						state = "missing"
						missingRequired = true
					}
				}
				rows = append(rows, []string{status.Name, status.Command, state, status.Detail})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Dependency", "Command", "Status", "Detail"},
				rows,
				nil,
			))

			if missingRequired {
				return errors.New("required dependencies are missing")
			}
			return nil
		},
	}
}

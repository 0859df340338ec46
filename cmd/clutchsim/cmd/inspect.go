package cmd

import (
	"fmt"

	"github.com/sarchlab/motorclutch/datarecording"
	"github.com/sarchlab/motorclutch/trial"
	"github.com/spf13/cobra"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarize the trials stored in a SQLite output file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := datarecording.NewReader(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			ctx := cmd.Context()

			tables, err := reader.ListTables(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			for _, table := range tables {
				reader.MapTable(table, trial.SnapshotRow{})

				last, samples, err := reader.Query(ctx, table,
					datarecording.QueryParams{OrderBy: "Time DESC", Limit: 1})
				if err != nil {
					return err
				}

				_, detached, err := reader.Query(ctx, table,
					datarecording.QueryParams{Where: "NetForce IS NULL", Limit: 1})
				if err != nil {
					return err
				}

				if len(last) == 0 {
					fmt.Fprintf(w, "%s: no samples\n", table)
					continue
				}

				row := last[0].(*trial.SnapshotRow)
				fmt.Fprintf(w, "%s: samples=%d detached=%d t=%g clutches=%d "+
					"bound=%.2f mode=%s\n",
					table, samples, detached, row.Time, row.ClutchCount,
					row.BoundFraction, row.Mode)
			}

			return nil
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/pattern"
)

// parallelCommand creates the parallel command.
func (c *CLI) parallelCommand() *cobra.Command {
	var (
		output  string
		distStr string
	)

	cmd := &cobra.Command{
		Use:   "parallel [snapshot.json]",
		Short: "Double single-handed content onto the other hand",
		Long: `Double single-handed content onto the other hand.

Left-hand notes and rails are copied to the right hand shifted by the
given distance, and vice versa. Single and both-hand specials are split
across both hands at half the distance and removed. A negative distance
produces crossovers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			snap, err := readSnapshotArg(input)
			if err != nil {
				return err
			}
			dist, err := errors.ParseNumber(distStr)
			if err != nil {
				return err
			}
			out, err := pattern.Parallel(snap, dist)
			if err != nil {
				return err
			}
			return writeSnapshotArg(out, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&distStr, "distance", "d", "1", "sideways shift between hands")

	return cmd
}

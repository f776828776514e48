package cli

import (
	"github.com/spf13/cobra"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/pipeline"
	"github.com/railsmith/railsmith/pkg/rails"
)

// stackCommand creates the stack command: repeat a selection along its
// earliest rail, applying a per-step transform delta.
func (c *CLI) stackCommand() *cobra.Command {
	var (
		output   string
		typesStr string
		count    int
		spacing  string

		scaleStr  string
		rotateStr string
		offsetStr string
		outsetStr string
	)

	cmd := &cobra.Command{
		Use:   "stack [snapshot.json]",
		Short: "Repeat a selection along a guide rail",
		Long: `Repeat a selection along a guide rail.

Produces count transformed copies of the selection. Each copy applies
the per-step delta once more than the previous, composed per step as
scale, rotate, offset, outset. The pivot of every copy is taken from the
original guide rail (the earliest selected rail), evaluated at evenly
time-spaced or arclength-spaced parameters, never from a generated
copy.`,
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
			sel, err := c.parseSelection(typesStr)
			if err != nil {
				return err
			}
			mode, err := rails.ParseSpacingMode(spacing)
			if err != nil {
				return err
			}

			step := rails.DefaultStep()
			if cmd.Flags().Changed("scale") {
				if step.ScaleX, step.ScaleY, step.ScaleT, err = errors.ParseVector(scaleStr); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("rotate") {
				if step.Rotate, err = errors.ParseNumber(rotateStr); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("offset") {
				if step.OffsetX, step.OffsetY, step.OffsetT, err = errors.ParseVector(offsetStr); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("outset") {
				if step.Outset, err = errors.ParseNumber(outsetStr); err != nil {
					return err
				}
			}

			result, err := pipeline.Chain(snap, []pipeline.Invocation{{
				Op:     pipeline.OpStack,
				Args:   pipeline.Args{Count: count, Step: step, Spacing: mode},
				Filter: sel,
			}})
			if err != nil {
				return err
			}
			if err := writeSnapshotArg(result.Snapshot, output); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Stacked %d copies", count)
				printCounts(result.Snapshot.Count(), false)
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&typesStr, "types", "t", "", "note types to affect")
	cmd.Flags().IntVarP(&count, "count", "n", 4, "number of copies")
	cmd.Flags().StringVar(&spacing, "spacing", string(rails.SpacingEven), "pivot spacing along the guide: even or arclength")
	cmd.Flags().StringVar(&scaleStr, "scale", "", "per-step scale factors fx,fy,ft")
	cmd.Flags().StringVar(&rotateStr, "rotate", "", "per-step rotation in degrees")
	cmd.Flags().StringVar(&offsetStr, "offset", "", "per-step translation dx,dy,dt")
	cmd.Flags().StringVar(&outsetStr, "outset", "", "per-step radial distance")

	return cmd
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/geom"
	"github.com/railsmith/railsmith/pkg/pipeline"
	"github.com/railsmith/railsmith/pkg/synth"
)

// transformCommand creates the transform command, the batch editing
// surface. One invocation is one batch line: every requested operation
// executes once, in the vocabulary's declared order regardless of flag
// position on the command line.
func (c *CLI) transformCommand() *cobra.Command {
	var (
		output    string
		pivotSpec string
		typesStr  string
		noCache   bool
		refresh   bool
		doBackup  bool

		mergeGapStr  string
		cycleShift   int
		scaleStr     string
		rotateStr    string
		mirrorStr    string
		outsetStr    string
		offsetStr    string
		relative     bool
		connectStr   string
		splitAtNotes bool
		railsToNotes bool
		keepRails    bool
	)

	cmd := &cobra.Command{
		Use:   "transform [snapshot.json]",
		Short: "Apply a chain of operations to a snapshot",
		Long: `Apply a chain of operations to a snapshot.

Reads a clipboard-shaped snapshot JSON from the given file (or stdin
when the argument is "-" or omitted), applies the requested operations
and writes the result.

Operations execute in a fixed declared order, not the order their flags
appear: merge-rails, cycle-colors, scale, rotate, mirror, outset,
offset, connect-notes, split-at-notes, rails-to-notes. Numeric flags
accept fractions ("1/4"), mixed fractions ("1 1/2") and percentages
("150%").

Results are cached locally so re-running an identical transform is
instant.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}

			sel, err := c.parseSelection(typesStr)
			if err != nil {
				return err
			}
			pivot, err := geom.ParsePivot(pivotSpec)
			if err != nil {
				return err
			}

			var ops []pipeline.Invocation
			add := func(op string, a pipeline.Args) {
				ops = append(ops, pipeline.Invocation{Op: op, Args: a, Filter: sel, Pivot: pivot})
			}

			if cmd.Flags().Changed("merge-rails") {
				gap, err := errors.ParseNumber(mergeGapStr)
				if err != nil {
					return err
				}
				add(pipeline.OpMergeRails, pipeline.Args{MaxGap: gap})
			}
			if cmd.Flags().Changed("cycle-colors") {
				add(pipeline.OpCycleColors, pipeline.Args{Shift: cycleShift})
			}
			if cmd.Flags().Changed("scale") {
				fx, fy, ft, err := errors.ParseVector(scaleStr)
				if err != nil {
					return err
				}
				add(pipeline.OpScale, pipeline.Args{FX: fx, FY: fy, FT: ft})
			}
			if cmd.Flags().Changed("rotate") {
				angle, err := errors.ParseNumber(rotateStr)
				if err != nil {
					return err
				}
				add(pipeline.OpRotate, pipeline.Args{Angle: angle})
			}
			if cmd.Flags().Changed("mirror") {
				angle, err := errors.ParseNumber(mirrorStr)
				if err != nil {
					return err
				}
				add(pipeline.OpMirror, pipeline.Args{Angle: angle})
			}
			if cmd.Flags().Changed("outset") {
				d, err := errors.ParseNumber(outsetStr)
				if err != nil {
					return err
				}
				add(pipeline.OpOutset, pipeline.Args{Distance: d})
			}
			if cmd.Flags().Changed("offset") {
				dx, dy, dt, err := errors.ParseVector(offsetStr)
				if err != nil {
					return err
				}
				add(pipeline.OpOffset, pipeline.Args{DX: dx, DY: dy, DT: dt, Relative: relative})
			}
			if cmd.Flags().Changed("connect-notes") {
				interval, err := errors.ParseNumber(connectStr)
				if err != nil {
					return err
				}
				add(pipeline.OpConnectNotes, pipeline.Args{MaxInterval: interval})
			}
			if splitAtNotes {
				add(pipeline.OpSplitAtNotes, pipeline.Args{})
			}
			if railsToNotes {
				add(pipeline.OpRailsToNotes, pipeline.Args{KeepRails: keepRails})
			}

			if len(ops) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "no operations requested")
			}

			return c.runTransform(withLogger(cmd.Context(), c.Logger), input, output, ops, transformFlags{
				noCache: noCache,
				refresh: refresh,
				backup:  doBackup,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&pivotSpec, "pivot", "p", "grid", "pivot: grid, centroid, rail-start, rail-end or x,y[,t]")
	cmd.Flags().StringVarP(&typesStr, "types", "t", "", "note types to affect (comma-separated: right,left,single,both)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "skip cache lookup and recompute")
	cmd.Flags().BoolVar(&doBackup, "backup", false, "store the input snapshot as a backup before transforming")

	cmd.Flags().StringVar(&mergeGapStr, "merge-rails", "", "merge sequential rails with time gaps up to this many measures")
	cmd.Flags().IntVar(&cycleShift, "cycle-colors", 1, "rotate note colors among the selected types by this many steps")
	cmd.Flags().StringVar(&scaleStr, "scale", "", "scale factors fx,fy,ft about the pivot")
	cmd.Flags().StringVar(&rotateStr, "rotate", "", "rotation angle in degrees, counterclockwise")
	cmd.Flags().StringVar(&mirrorStr, "mirror", "", "mirror axis angle in degrees (0 flips left-right, 90 up-down)")
	cmd.Flags().StringVar(&outsetStr, "outset", "", "radial distance from the pivot")
	cmd.Flags().StringVar(&offsetStr, "offset", "", "translation dx,dy,dt")
	cmd.Flags().BoolVar(&relative, "relative", false, "apply offset in each wall's rotated frame")
	cmd.Flags().StringVar(&connectStr, "connect-notes", "", "chain notes within this interval into rails")
	cmd.Flags().BoolVar(&splitAtNotes, "split-at-notes", false, "split rails at note positions inside their span")
	cmd.Flags().BoolVar(&railsToNotes, "rails-to-notes", false, "explode rails into single notes")
	cmd.Flags().BoolVar(&keepRails, "keep-rails", false, "with --rails-to-notes, keep the rails too")

	return cmd
}

type transformFlags struct {
	noCache bool
	refresh bool
	backup  bool
}

// runTransform loads the snapshot, executes the chain and writes the
// result.
func (c *CLI) runTransform(ctx context.Context, input, output string, ops []pipeline.Invocation, flags transformFlags) error {
	snap, err := readSnapshotArg(input)
	if err != nil {
		return err
	}

	if flags.backup {
		if err := c.saveBackup(ctx, input, snap); err != nil {
			printWarning("backup failed: %v", err)
		}
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Applying %d operations...", len(ops)))
	spinner.Start()

	result, err := runner.Execute(ctx, snap, pipeline.Options{
		Ops:      ops,
		Declared: true,
		Refresh:  flags.refresh,
		Logger:   logger,
	})
	if err != nil {
		spinner.StopWithError("Transform failed")
		if result != nil && len(result.Completed) > 0 {
			printWarning("chain halted after %s: %v", strings.Join(result.Completed, ", "), err)
			if output != "" {
				if werr := synth.ExportFile(result.Snapshot, output); werr == nil {
					printDetail("partial result written to %s", output)
				}
			}
		}
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeSnapshotArg(result.Snapshot, output); err != nil {
		return err
	}

	counts := result.Snapshot.Count()
	prog.done(fmt.Sprintf("Transformed %d objects", counts.Notes+counts.Rails+counts.Walls))

	if output != "" {
		printSuccess("Transformed %s", input)
		printCounts(counts, result.CacheHit)
		printFile(output)
	}
	return nil
}

// saveBackup stores the pre-transform snapshot in the backup store.
func (c *CLI) saveBackup(ctx context.Context, label string, snap *synth.Snapshot) error {
	store, err := c.openBackupStore()
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.Save(ctx, label, snap)
	return err
}

// =============================================================================
// Snapshot IO Helpers
// =============================================================================

// readSnapshotArg reads a snapshot from a file path, or stdin for "-".
func readSnapshotArg(input string) (*synth.Snapshot, error) {
	if input == "" || input == "-" {
		return synth.ReadSnapshot(os.Stdin)
	}
	return synth.ImportFile(input)
}

// writeSnapshotArg writes a snapshot to a file path, or stdout when the
// path is empty.
func writeSnapshotArg(s *synth.Snapshot, output string) error {
	if output == "" {
		return synth.WriteSnapshot(s, os.Stdout)
	}
	return synth.ExportFile(s, output)
}

// parseSelection builds the note-type selection from a flag value,
// falling back to the configured default types.
func (c *CLI) parseSelection(typesStr string) (synth.Selection, error) {
	raw := typesStr
	if raw == "" && len(c.Config.Defaults.Types) > 0 {
		raw = strings.Join(c.Config.Defaults.Types, ",")
	}
	if raw == "" {
		return synth.SelectAll(), nil
	}
	var types []synth.NoteType
	for _, name := range strings.Split(raw, ",") {
		t, err := synth.ParseNoteType(strings.TrimSpace(name))
		if err != nil {
			return synth.Selection{}, err
		}
		types = append(types, t)
	}
	return synth.Select(nil, types), nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/rails"
	"github.com/railsmith/railsmith/pkg/synth"
)

// railsCommand creates the rails command and its topology subcommands.
func (c *CLI) railsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rails",
		Short: "Rail topology operations",
	}

	cmd.AddCommand(c.railsMergeCommand())
	cmd.AddCommand(c.railsSplitCommand())
	cmd.AddCommand(c.railsResampleCommand())
	cmd.AddCommand(c.railsToNotesCommand())
	cmd.AddCommand(c.railsShortenCommand())
	cmd.AddCommand(c.railsExtendCommand())

	return cmd
}

// railEdit loads a snapshot, rewrites each selected rail group through
// fn and writes the result. The boilerplate shared by every rails
// subcommand.
func (c *CLI) railEdit(input, output, typesStr string, fn func([]synth.Rail) ([]synth.Rail, error)) error {
	snap, err := readSnapshotArg(input)
	if err != nil {
		return err
	}
	sel, err := c.parseSelection(typesStr)
	if err != nil {
		return err
	}
	out := snap.Clone()
	for t, group := range out.Rails {
		if !sel.HasType(t) {
			continue
		}
		edited, err := fn(group)
		if err != nil {
			return err
		}
		out.Rails[t] = edited
	}
	return writeSnapshotArg(out.Sorted(), output)
}

func inputArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "-"
}

func (c *CLI) railsMergeCommand() *cobra.Command {
	var output, typesStr, gapStr string
	var touching bool

	cmd := &cobra.Command{
		Use:   "merge [snapshot.json]",
		Short: "Merge sequential rails whose time gap is small enough",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if touching {
				return c.railEdit(inputArg(args), output, typesStr, func(group []synth.Rail) ([]synth.Rail, error) {
					return rails.MergeSequential(group), nil
				})
			}
			gap, err := errors.ParseNumber(gapStr)
			if err != nil {
				return err
			}
			return c.railEdit(inputArg(args), output, typesStr, func(group []synth.Rail) ([]synth.Rail, error) {
				return rails.MergeGroup(group, gap), nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&typesStr, "types", "t", "", "note types to affect")
	cmd.Flags().StringVarP(&gapStr, "max-gap", "g", "1/4", "largest time gap to bridge, in measures")
	cmd.Flags().BoolVar(&touching, "touching", false, "only join rails whose endpoints coincide")

	return cmd
}

func (c *CLI) railsSplitCommand() *cobra.Command {
	var output, typesStr, atStr string

	cmd := &cobra.Command{
		Use:   "split [snapshot.json]",
		Short: "Split rails at a time",
		Long: `Split rails at a time.

Each selected rail is cut at its first control point at or after the
given time; the cut point is shared by both halves. Rails whose span
does not contain the time pass through unchanged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := errors.ParseNumber(atStr)
			if err != nil {
				return err
			}
			return c.railEdit(inputArg(args), output, typesStr, func(group []synth.Rail) ([]synth.Rail, error) {
				var out []synth.Rail
				for _, r := range group {
					out = append(out, rails.Split(r, at)...)
				}
				return out, nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&typesStr, "types", "t", "", "note types to affect")
	cmd.Flags().StringVar(&atStr, "at", "", "time to split at, in measures")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func (c *CLI) railsResampleCommand() *cobra.Command {
	var output, typesStr, intervalStr, modeStr string

	cmd := &cobra.Command{
		Use:   "resample [snapshot.json]",
		Short: "Re-space rail control points at a fixed interval",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := errors.ParseNumber(intervalStr)
			if err != nil {
				return err
			}
			mode, err := c.interpMode(modeStr)
			if err != nil {
				return err
			}
			return c.railEdit(inputArg(args), output, typesStr, func(group []synth.Rail) ([]synth.Rail, error) {
				out := make([]synth.Rail, len(group))
				for i, r := range group {
					resampled, err := rails.ResampleInterval(r, interval, mode)
					if err != nil {
						return nil, err
					}
					out[i] = resampled
				}
				return out, nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&typesStr, "types", "t", "", "note types to affect")
	cmd.Flags().StringVarP(&intervalStr, "interval", "i", "1/16", "spacing between control points, in measures")
	cmd.Flags().StringVarP(&modeStr, "mode", "m", "", "interpolation: linear or smooth")

	return cmd
}

func (c *CLI) railsToNotesCommand() *cobra.Command {
	var output, typesStr string
	var keep bool

	cmd := &cobra.Command{
		Use:   "to-notes [snapshot.json]",
		Short: "Explode rails into single notes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshotArg(inputArg(args))
			if err != nil {
				return err
			}
			sel, err := c.parseSelection(typesStr)
			if err != nil {
				return err
			}
			out := snap.Clone()
			for t, group := range out.Rails {
				if !sel.HasType(t) {
					continue
				}
				kept, notes := rails.RailsToNotes(group, keep)
				out.Rails[t] = kept
				out.Notes[t] = append(out.Notes[t], notes...)
			}
			return writeSnapshotArg(out.Sorted(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&typesStr, "types", "t", "", "note types to affect")
	cmd.Flags().BoolVar(&keep, "keep", false, "keep the rails alongside the notes")

	return cmd
}

func (c *CLI) railsShortenCommand() *cobra.Command {
	var output, typesStr, distStr, modeStr string

	cmd := &cobra.Command{
		Use:   "shorten [snapshot.json]",
		Short: "Trim time from the end of rails (start for negative distance)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dist, err := errors.ParseNumber(distStr)
			if err != nil {
				return err
			}
			mode, err := c.interpMode(modeStr)
			if err != nil {
				return err
			}
			return c.railEdit(inputArg(args), output, typesStr, func(group []synth.Rail) ([]synth.Rail, error) {
				out := make([]synth.Rail, len(group))
				for i, r := range group {
					shortened, err := rails.Shorten(r, dist, mode)
					if err != nil {
						return nil, err
					}
					out[i] = shortened
				}
				return out, nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&typesStr, "types", "t", "", "note types to affect")
	cmd.Flags().StringVarP(&distStr, "distance", "d", "1/4", "duration to trim, in measures")
	cmd.Flags().StringVarP(&modeStr, "mode", "m", "", "interpolation: linear or smooth")

	return cmd
}

func (c *CLI) railsExtendCommand() *cobra.Command {
	var output, typesStr, distStr string
	var straight bool

	cmd := &cobra.Command{
		Use:   "extend [snapshot.json]",
		Short: "Append time to the end of rails (start for negative distance)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dist, err := errors.ParseNumber(distStr)
			if err != nil {
				return err
			}
			return c.railEdit(inputArg(args), output, typesStr, func(group []synth.Rail) ([]synth.Rail, error) {
				out := make([]synth.Rail, len(group))
				for i, r := range group {
					var extended synth.Rail
					var err error
					if straight {
						extended, err = rails.ExtendStraight(r, dist)
					} else {
						extended, err = rails.ExtendLevel(r, dist)
					}
					if err != nil {
						return nil, err
					}
					out[i] = extended
				}
				return out, nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&typesStr, "types", "t", "", "note types to affect")
	cmd.Flags().StringVarP(&distStr, "distance", "d", "1/4", "duration to append, in measures")
	cmd.Flags().BoolVar(&straight, "straight", false, "continue the boundary segment's direction instead of staying level")

	return cmd
}

// interpMode resolves an interpolation mode flag, falling back to the
// configured default.
func (c *CLI) interpMode(flag string) (rails.InterpMode, error) {
	if flag == "" {
		flag = c.Config.Defaults.Interpolation
	}
	return rails.ParseInterpMode(flag)
}

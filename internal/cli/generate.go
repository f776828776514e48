package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/pattern"
	"github.com/railsmith/railsmith/pkg/synth"
)

// generateCommand creates the generate command and its pattern
// subcommands.
func (c *CLI) generateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate rail patterns",
	}

	cmd.AddCommand(c.generateSpiralCommand(false))
	cmd.AddCommand(c.generateSpiralCommand(true))
	cmd.AddCommand(c.generateSpikesCommand())

	return cmd
}

// spiralFlags holds the shared flags of the spiral and zigzag
// subcommands.
type spiralFlags struct {
	output     string
	typeName   string
	count      int
	angleStep  float64
	startAngle float64
	radiusStr  string
	radiusEnd  string
	centerStr  string
	startStr   string
	durStr     string
	bpm        float64
}

func (c *CLI) generateSpiralCommand(zigzag bool) *cobra.Command {
	var f spiralFlags

	use, short := "spiral", "Generate a spiral rail winding around a center"
	if zigzag {
		use, short = "zigzag", "Generate a zigzag rail alternating around a center"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, zigzag)
			if err != nil {
				return err
			}
			gen := pattern.Spiral
			if zigzag {
				gen = pattern.Zigzag
			}
			rail, err := gen(opts)
			if err != nil {
				return err
			}
			snap := synth.NewSnapshot(f.bpm)
			snap.Rails[rail.Type] = append(snap.Rails[rail.Type], rail)
			return writeSnapshotArg(snap, f.output)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&f.typeName, "type", "t", "right", "note type of the generated rail")
	cmd.Flags().IntVarP(&f.count, "count", "n", 16, "number of control points")
	if !zigzag {
		cmd.Flags().Float64Var(&f.angleStep, "angle-step", 45, "degrees per point; negative winds clockwise")
	}
	cmd.Flags().Float64Var(&f.startAngle, "start-angle", 0, "angle of the first point in degrees")
	cmd.Flags().StringVarP(&f.radiusStr, "radius", "r", "1", "radius at the first point")
	cmd.Flags().StringVar(&f.radiusEnd, "radius-end", "", "radius at the last point (default: constant)")
	cmd.Flags().StringVar(&f.centerStr, "center", "0,0", "center position x,y")
	cmd.Flags().StringVar(&f.startStr, "start", "0", "start time in measures")
	cmd.Flags().StringVarP(&f.durStr, "duration", "d", "4", "time span in measures")
	cmd.Flags().Float64Var(&f.bpm, "bpm", 120, "snapshot BPM")

	return cmd
}

// options converts the flag values into generator options.
func (f *spiralFlags) options(cmd *cobra.Command, zigzag bool) (pattern.Options, error) {
	noteType, err := synth.ParseNoteType(f.typeName)
	if err != nil {
		return pattern.Options{}, err
	}
	radius, err := errors.ParseNumber(f.radiusStr)
	if err != nil {
		return pattern.Options{}, err
	}
	start, err := errors.ParseNumber(f.startStr)
	if err != nil {
		return pattern.Options{}, err
	}
	dur, err := errors.ParseNumber(f.durStr)
	if err != nil {
		return pattern.Options{}, err
	}
	center := strings.Split(f.centerStr, ",")
	if len(center) != 2 {
		return pattern.Options{}, errors.New(errors.ErrCodeInvalidInput, "center must be x,y: %q", f.centerStr)
	}
	cx, err := errors.ParseNumber(center[0])
	if err != nil {
		return pattern.Options{}, err
	}
	cy, err := errors.ParseNumber(center[1])
	if err != nil {
		return pattern.Options{}, err
	}

	opts := pattern.Options{
		Count:      f.count,
		AngleStep:  f.angleStep,
		StartAngle: f.startAngle,
		Radius:     radius,
		CenterX:    cx,
		CenterY:    cy,
		StartTime:  start,
		Duration:   dur,
		Type:       noteType,
	}
	if f.radiusEnd != "" {
		end, err := errors.ParseNumber(f.radiusEnd)
		if err != nil {
			return pattern.Options{}, err
		}
		opts.RadiusEnd = &end
	}
	return opts, nil
}

func (c *CLI) generateSpikesCommand() *cobra.Command {
	var (
		output    string
		typesStr  string
		ampStr    string
		frequency int
	)

	cmd := &cobra.Command{
		Use:   "spikes [snapshot.json]",
		Short: "Insert alternating perpendicular spikes into existing rails",
		Args:  cobra.MaximumNArgs(1),
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
			amp, err := errors.ParseNumber(ampStr)
			if err != nil {
				return err
			}

			out := snap.Clone()
			for t, group := range out.Rails {
				if !sel.HasType(t) {
					continue
				}
				for i, r := range group {
					spiked, err := pattern.Spikes(r, amp, frequency)
					if err != nil {
						return err
					}
					group[i] = spiked
				}
			}
			return writeSnapshotArg(out, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&typesStr, "types", "t", "", "note types to affect")
	cmd.Flags().StringVarP(&ampStr, "amplitude", "a", "0.5", "perpendicular spike distance")
	cmd.Flags().IntVarP(&frequency, "frequency", "f", 1, "spikes inserted per rail segment")

	return cmd
}

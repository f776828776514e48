// Package pipeline executes ordered chains of named transform operations
// over a snapshot.
//
// Every operation is pure: it consumes the previous operation's output
// and returns a new snapshot, never mutating its input. A chain executes
// strictly in the order the caller provides; the batch scripting surface
// additionally maps an unordered set of requested operations onto the
// registry's declared order via ResolveDeclared, so one command line
// always applies its operations in the vocabulary's order regardless of
// flag position.
//
// # Usage
//
// Run a chain directly:
//
//	result, err := pipeline.Chain(snap, []pipeline.Invocation{
//	    {Op: pipeline.OpMergeRails, Args: pipeline.Args{MaxGap: 0.5}},
//	    {Op: pipeline.OpRotate, Args: pipeline.Args{Angle: 90}},
//	})
//
// Or through a Runner to cache chain results:
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	result, err := runner.Execute(ctx, snap, pipeline.Options{Ops: invocations})
package pipeline

import (
	"github.com/railsmith/railsmith/pkg/errors"
	"github.com/railsmith/railsmith/pkg/geom"
	"github.com/railsmith/railsmith/pkg/rails"
	"github.com/railsmith/railsmith/pkg/synth"
)

// =============================================================================
// Operation Vocabulary
// =============================================================================

// Operation names. The order of the registry below is the canonical
// declared order used by ResolveDeclared.
const (
	OpMergeRails   = "merge-rails"
	OpCycleColors  = "cycle-colors"
	OpScale        = "scale"
	OpRotate       = "rotate"
	OpMirror       = "mirror"
	OpOutset       = "outset"
	OpOffset       = "offset"
	OpStack        = "stack"
	OpConnectNotes = "connect-notes"
	OpSplitAtNotes = "split-at-notes"
	OpRailsToNotes = "rails-to-notes"
)

// descriptor binds an operation name to its apply function. Registry
// position is the operation's canonical order.
type descriptor struct {
	name  string
	apply func(*synth.Snapshot, Invocation) (*synth.Snapshot, error)
}

// registry is the ordered operation vocabulary. Iteration order matters:
// ResolveDeclared emits requested operations in this order.
var registry = []descriptor{
	{OpMergeRails, applyMergeRails},
	{OpCycleColors, applyCycleColors},
	{OpScale, applyScale},
	{OpRotate, applyRotate},
	{OpMirror, applyMirror},
	{OpOutset, applyOutset},
	{OpOffset, applyOffset},
	{OpStack, applyStack},
	{OpConnectNotes, applyConnectNotes},
	{OpSplitAtNotes, applySplitAtNotes},
	{OpRailsToNotes, applyRailsToNotes},
}

// registryIndex maps operation name to registry position.
var registryIndex = func() map[string]int {
	m := make(map[string]int, len(registry))
	for i, d := range registry {
		m[d.name] = i
	}
	return m
}()

// Names returns the operation vocabulary in canonical order.
func Names() []string {
	out := make([]string, len(registry))
	for i, d := range registry {
		out[i] = d.name
	}
	return out
}

// Known reports whether name is a registered operation.
func Known(name string) bool {
	_, ok := registryIndex[name]
	return ok
}

// =============================================================================
// Invocations
// =============================================================================

// Args carries the parameters of an operation invocation. Each operation
// reads only the fields it documents; the rest are ignored.
type Args struct {
	// Rotate: angle in degrees, counterclockwise.
	// Mirror: axis angle in degrees (0 flips left-right, 90 up-down).
	Angle float64 `json:"angle,omitempty"`

	// Scale factors per axis. Negative FT reverses rails in time; a zero
	// factor collapses the axis onto the pivot. Not omitempty so an
	// explicit zero survives serialization.
	FX float64 `json:"fx"`
	FY float64 `json:"fy"`
	FT float64 `json:"ft"`

	// Offset deltas. Relative rotates the delta into each wall's frame.
	DX       float64 `json:"dx,omitempty"`
	DY       float64 `json:"dy,omitempty"`
	DT       float64 `json:"dt,omitempty"`
	Relative bool    `json:"relative,omitempty"`

	// Outset distance.
	Distance float64 `json:"distance,omitempty"`

	// MergeRails: maximum time gap to bridge, in measures.
	MaxGap float64 `json:"max_gap,omitempty"`

	// ConnectNotes: maximum interval between chained notes.
	MaxInterval float64 `json:"max_interval,omitempty"`

	// RailsToNotes: keep the rail alongside the emitted notes.
	KeepRails bool `json:"keep_rails,omitempty"`

	// CycleColors: group rotation amount, default 1.
	Shift int `json:"shift,omitempty"`

	// Stack parameters.
	Count   int               `json:"count,omitempty"`
	Step    rails.Step        `json:"step,omitempty"`
	Spacing rails.SpacingMode `json:"spacing,omitempty"`
}

// Invocation is one operation call within a chain: the operation name,
// its parameters, the selection it applies to and the pivot it
// transforms about. The zero Filter selects everything; the zero Pivot
// is the grid origin.
type Invocation struct {
	Op     string          `json:"op"`
	Args   Args            `json:"args,omitempty"`
	Filter synth.Selection `json:"-"`
	Pivot  geom.Pivot      `json:"-"`

	// FilterSpec and PivotSpec are the serialized forms, parsed into
	// Filter and Pivot by Normalize. The struct fields win when set.
	FilterSpec []string `json:"filter,omitempty"`
	PivotSpec  string   `json:"pivot,omitempty"`
}

// Normalize parses the serialized filter and pivot specs, when present,
// into their structured fields. API requests arrive with only the specs
// set.
func (inv *Invocation) Normalize() error {
	if inv.PivotSpec != "" && inv.Pivot.Mode == "" {
		pv, err := geom.ParsePivot(inv.PivotSpec)
		if err != nil {
			return err
		}
		inv.Pivot = pv
	}
	if len(inv.FilterSpec) > 0 {
		types := make([]synth.NoteType, 0, len(inv.FilterSpec))
		for _, name := range inv.FilterSpec {
			t, err := synth.ParseNoteType(name)
			if err != nil {
				return err
			}
			types = append(types, t)
		}
		inv.Filter = synth.Select(nil, types)
	}
	return nil
}

// ResolveDeclared orders a set of invocations by the registry's declared
// order, not the order they were supplied in. Multiple invocations of
// the same operation keep their relative order. Unknown operation names
// fail before anything runs.
func ResolveDeclared(invocations []Invocation) ([]Invocation, error) {
	for _, inv := range invocations {
		if !Known(inv.Op) {
			return nil, errors.New(errors.ErrCodeInvalidOperation, "unknown operation %q", inv.Op)
		}
	}
	out := make([]Invocation, 0, len(invocations))
	for _, d := range registry {
		for _, inv := range invocations {
			if inv.Op == d.name {
				out = append(out, inv)
			}
		}
	}
	return out, nil
}

// =============================================================================
// Chain Execution
// =============================================================================

// Result is the outcome of a chain run.
type Result struct {
	// Snapshot is the state after the last successful operation.
	Snapshot *synth.Snapshot

	// Completed lists the operations that finished, in execution order.
	Completed []string

	// CacheHit reports whether the whole chain came from cache.
	CacheHit bool
}

// Chain executes invocations strictly in the order given, each consuming
// the previous output. The input snapshot is never modified. On failure
// the chain halts and the returned Result still carries the state after
// the last successful operation, so callers can keep partial progress.
func Chain(s *synth.Snapshot, invocations []Invocation) (*Result, error) {
	result := &Result{
		Snapshot:  s.Clone(),
		Completed: make([]string, 0, len(invocations)),
	}
	for i := range invocations {
		inv := invocations[i]
		if err := inv.Normalize(); err != nil {
			return result, err
		}
		idx, ok := registryIndex[inv.Op]
		if !ok {
			return result, errors.New(errors.ErrCodeInvalidOperation, "unknown operation %q", inv.Op)
		}
		next, err := registry[idx].apply(result.Snapshot, inv)
		if err != nil {
			return result, err
		}
		if err := checkFinite(next, inv.Op); err != nil {
			return result, err
		}
		result.Snapshot = next
		result.Completed = append(result.Completed, inv.Op)
	}
	return result, nil
}

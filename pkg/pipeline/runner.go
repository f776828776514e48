package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/railsmith/railsmith/pkg/cache"
	"github.com/railsmith/railsmith/pkg/geom"
	"github.com/railsmith/railsmith/pkg/synth"
)

// Runner executes chains with result caching. Both the CLI and the
// companion server use it so caching behavior stays in one place.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Options configures a runner execution. The struct supports JSON
// serialization for API requests.
type Options struct {
	// Ops is the chain to execute, in the order given.
	Ops []Invocation `json:"ops"`

	// Declared reorders Ops to the registry's declared order before
	// executing, the batch scripting rule.
	Declared bool `json:"declared,omitempty"`

	// Refresh skips the cache lookup and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks the op list and applies defaults. The
// method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	for i := range o.Ops {
		if err := o.Ops[i].Normalize(); err != nil {
			return err
		}
	}
	if o.Declared {
		ordered, err := ResolveDeclared(o.Ops)
		if err != nil {
			return err
		}
		o.Ops = ordered
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Execute runs the chain over a snapshot with caching. The cache key
// covers the snapshot content and the full op list, so an identical
// request is served from cache without recomputation. Failed chains are
// never cached; their partial results flow back to the caller as from
// Chain.
func (r *Runner) Execute(ctx context.Context, s *synth.Snapshot, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}

	key, ok := r.chainKey(s, opts)
	if ok && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			cached, err := synth.UnmarshalSnapshot(data)
			if err == nil {
				r.Logger.Debug("chain cache hit", "ops", len(opts.Ops))
				return &Result{
					Snapshot:  cached,
					Completed: completedNames(opts.Ops),
					CacheHit:  true,
				}, nil
			}
			// Corrupt entry, recompute.
		}
	}

	start := time.Now()
	result, err := Chain(s, opts.Ops)
	if err != nil {
		return result, err
	}
	r.Logger.Info("executed chain",
		"ops", len(opts.Ops),
		"duration", time.Since(start))

	if ok {
		if data, err := synth.MarshalSnapshot(result.Snapshot); err == nil {
			_ = r.Cache.Set(ctx, key, data, cache.TTLChain)
		}
	}
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// invocationKey is the hashable view of an invocation. It spells out the
// resolved pivot and filter, which the wire form of Invocation omits.
type invocationKey struct {
	Op     string           `json:"op"`
	Args   Args             `json:"args"`
	Pivot  geom.Pivot       `json:"pivot"`
	Kinds  []synth.Kind     `json:"kinds"`
	Types  []synth.NoteType `json:"types"`
}

// chainKey derives the cache key for a snapshot and op list. Invocations
// that fail to serialize disable caching for the call rather than
// risking a wrong hit.
func (r *Runner) chainKey(s *synth.Snapshot, opts Options) (string, bool) {
	snapData, err := synth.MarshalSnapshot(s)
	if err != nil {
		return "", false
	}
	keys := make([]invocationKey, len(opts.Ops))
	for i, inv := range opts.Ops {
		keys[i] = invocationKey{
			Op:    inv.Op,
			Args:  inv.Args,
			Pivot: inv.Pivot,
			Kinds: inv.Filter.KindList(),
			Types: inv.Filter.TypeList(),
		}
	}
	opsData, err := json.Marshal(keys)
	if err != nil {
		return "", false
	}
	return r.Keyer.ChainKey(cache.Hash(snapData), cache.Hash(opsData)), true
}

func completedNames(invocations []Invocation) []string {
	out := make([]string, len(invocations))
	for i, inv := range invocations {
		out[i] = inv.Op
	}
	return out
}

package duocache

import (
	"context"

	c "github.com/unkn0wn-root/duocache/codec"
	st "github.com/unkn0wn-root/duocache/store"
)

// Producer computes the fresh value. It is invoked exactly once per Transform
// call, regardless of the cached stage's outcome.
type Producer[V any] func(ctx context.Context) (V, error)

// PolicyCreator derives the policy stored alongside a freshly produced value.
type PolicyCreator[V, P any] func(v V) (P, error)

// PolicyValidator decides whether a stored policy still admits its cached
// value. It must be side-effect free. A panic inside the validator counts as
// rejection.
type PolicyValidator[P any] func(p P) bool

// Entry is one emission of the pipeline. FromCache is true for the entry read
// from the store and false for the freshly produced one. Immutable once
// constructed.
type Entry[V, P any] struct {
	Value     V
	Policy    P
	FromCache bool
}

// Cache is the reusable read-through combinator bound to a store, codecs and
// policy functions. V is the caller's value type, P the policy type.
type Cache[V, P any] interface {
	Enabled() bool
	Close(context.Context) error

	// Transform emits the valid cached entry for key (if any) strictly before
	// the freshly produced entry. The entries channel closes once both stages
	// finished; the error channel then delivers at most one deferred error
	// (possibly aggregating both stages) and closes. Both channels are
	// buffered so abandoning them never leaks the pipeline goroutine.
	Transform(ctx context.Context, key string, produce Producer[V]) (<-chan Entry[V, P], <-chan error)

	// Invalidate deletes the value and its paired policy. Both deletions are
	// attempted even if one fails; missing keys are not an error.
	Invalidate(ctx context.Context, key string) error
}

// Options tune the combinator. Store, Codec, PolicyCodec, NewPolicy and
// ValidPolicy are required; the rest have defaults.
type Options[V, P any] struct {
	// Required
	Store       st.Store
	Codec       c.Codec[V]
	PolicyCodec c.Codec[P]
	NewPolicy   PolicyCreator[V, P]
	ValidPolicy PolicyValidator[P]

	Logger   Logger // if nil, NopLogger is used
	Hooks    Hooks  // if nil, NopHooks is used
	Disabled bool   // skip all store I/O; Transform emits the fresh value only
}

func New[V, P any](opts Options[V, P]) (Cache[V, P], error) {
	return newCache[V, P](opts)
}

// Transform is the one-shot form: it binds a cache to the given store with
// JSON codecs for both the value and the policy, runs the pipeline for key
// and returns its streams. Use New when codecs need to differ or when the
// same store/policy functions serve many calls.
func Transform[V, P any](
	ctx context.Context,
	produce Producer[V],
	key string,
	store st.Store,
	newPolicy PolicyCreator[V, P],
	validPolicy PolicyValidator[P],
) (<-chan Entry[V, P], <-chan error) {
	cc, err := New[V, P](Options[V, P]{
		Store:       store,
		Codec:       c.JSON[V]{},
		PolicyCodec: c.JSON[P]{},
		NewPolicy:   newPolicy,
		ValidPolicy: validPolicy,
	})
	if err != nil {
		entries := make(chan Entry[V, P])
		close(entries)
		errs := make(chan error, 1)
		errs <- err
		close(errs)
		return entries, errs
	}
	return cc.Transform(ctx, key, produce)
}

// Collect drains a Transform result into a slice plus the deferred error.
func Collect[V, P any](entries <-chan Entry[V, P], errs <-chan error) ([]Entry[V, P], error) {
	var out []Entry[V, P]
	for e := range entries {
		out = append(out, e)
	}
	return out, <-errs
}

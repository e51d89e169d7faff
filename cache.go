package duocache

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/duocache/codec"
	"github.com/unkn0wn-root/duocache/internal/wire"
	"github.com/unkn0wn-root/duocache/store"
)

const policySuffix = "_policy"

// PolicyKey returns the storage key of the policy paired with key. The
// "_policy" suffix is an on-disk contract: state persisted by earlier
// deployments stays readable as long as the suffix is unchanged.
func PolicyKey(key string) string { return key + policySuffix }

type cache[V, P any] struct {
	store       store.Store
	codec       codec.Codec[V]
	policyCodec codec.Codec[P]
	newPolicy   PolicyCreator[V, P]
	validPolicy PolicyValidator[P]
	log         Logger
	hooks       Hooks
	enabled     bool
}

func newCache[V, P any](opts Options[V, P]) (*cache[V, P], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("duocache: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("duocache: codec is required")
	}
	if opts.PolicyCodec == nil {
		return nil, fmt.Errorf("duocache: policy codec is required")
	}
	if opts.NewPolicy == nil {
		return nil, fmt.Errorf("duocache: policy creator is required")
	}
	if opts.ValidPolicy == nil {
		return nil, fmt.Errorf("duocache: policy validator is required")
	}

	c := &cache[V, P]{
		store:       opts.Store,
		codec:       opts.Codec,
		policyCodec: opts.PolicyCodec,
		newPolicy:   opts.NewPolicy,
		validPolicy: opts.ValidPolicy,
		enabled:     !opts.Disabled,
	}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	return c, nil
}

func (c *cache[V, P]) Enabled() bool { return c.enabled }

func (c *cache[V, P]) Close(ctx context.Context) error {
	if c.store != nil {
		return c.store.Close(ctx)
	}
	return nil
}

// Transform runs the two stages sequentially: cached first, fresh always.
// Channel capacities cover the maximum emissions, so the pipeline goroutine
// never blocks on a slow or absent consumer.
func (c *cache[V, P]) Transform(ctx context.Context, key string, produce Producer[V]) (<-chan Entry[V, P], <-chan error) {
	entries := make(chan Entry[V, P], 2)
	errs := make(chan error, 1)

	go func() {
		defer close(errs)

		cachedErr := c.cachedStage(ctx, key, entries)
		freshErr := c.freshStage(ctx, key, produce, entries)
		close(entries)

		// deferred errors surface only after both stages completed
		if cachedErr != nil || freshErr != nil {
			errs <- &TransformError{Key: key, Cached: cachedErr, Fresh: freshErr}
		}
	}()

	return entries, errs
}

// cachedStage emits at most one entry: the stored value whose policy still
// validates. A cold cache and a rejected policy complete silently; a store
// fault or a value missing behind a valid policy invalidates the pair first
// and then reports the original error.
func (c *cache[V, P]) cachedStage(ctx context.Context, key string, out chan<- Entry[V, P]) error {
	if !c.enabled {
		return nil
	}

	raw, ok, err := c.store.Read(ctx, PolicyKey(key))
	if err != nil {
		c.cleanupFor(ctx, key, err)
		return err
	}
	if !ok {
		c.log.Debug("cache miss (no policy)", Fields{"key": key})
		return nil
	}

	policy, ok := c.decodePolicy(raw)
	if !ok {
		// unreadable policy is handled like a rejected one: self-heal, no error
		c.invalidateSilently(ctx, key, "policy_corrupt")
		return nil
	}
	if !c.gate(policy) {
		c.invalidateSilently(ctx, key, "policy_rejected")
		return nil
	}

	vraw, ok, err := c.store.Read(ctx, key)
	if err == nil && !ok {
		err = ErrValueMissing
	}
	var value V
	if err == nil {
		value, err = c.decodeValue(vraw)
	}
	if err != nil {
		c.cleanupFor(ctx, key, err)
		c.hooks.CacheInconsistent(key, err)
		return &InconsistencyError{Key: key, Err: err}
	}

	c.log.Debug("cache hit", Fields{"key": key})
	c.hooks.CacheHit(key)
	out <- Entry[V, P]{Value: value, Policy: policy, FromCache: true}
	return nil
}

// freshStage always runs the producer, persists the value/policy pair and
// emits only once both writes are acknowledged.
func (c *cache[V, P]) freshStage(ctx context.Context, key string, produce Producer[V], out chan<- Entry[V, P]) error {
	value, err := produce(ctx)
	if err != nil {
		return err
	}
	policy, err := c.newPolicy(value)
	if err != nil {
		return err
	}

	if c.enabled {
		if err := c.persist(ctx, key, value, policy); err != nil {
			return err
		}
	}

	out <- Entry[V, P]{Value: value, Policy: policy, FromCache: false}
	return nil
}

// persist encodes both payloads up front so codec failures cost no I/O, then
// issues the two writes concurrently. Both writes are attempted even if one
// fails.
func (c *cache[V, P]) persist(ctx context.Context, key string, value V, policy P) error {
	vp, err := c.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	pp, err := c.policyCodec.Encode(policy)
	if err != nil {
		return fmt.Errorf("encode policy for %q: %w", key, err)
	}

	vb := wire.Encode(wire.KindValue, vp)
	pb := wire.Encode(wire.KindPolicy, pp)

	valueErr, policyErr := bothOf(ctx,
		func(ctx context.Context) error { return c.store.Write(ctx, key, vb) },
		func(ctx context.Context) error { return c.store.Write(ctx, PolicyKey(key), pb) },
	)
	if valueErr != nil || policyErr != nil {
		c.hooks.PersistFailure(key, valueErr, policyErr)
		return &PersistError{Key: key, ValueErr: valueErr, PolicyErr: policyErr}
	}
	return nil
}

func (c *cache[V, P]) Invalidate(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	valueErr, policyErr := c.deletePair(ctx, key)
	if valueErr != nil || policyErr != nil {
		if valueErr != nil && policyErr != nil {
			c.hooks.InvalidateOutage(key, valueErr, policyErr)
		}
		return &InvalidateError{Key: key, ValueErr: valueErr, PolicyErr: policyErr}
	}
	return nil
}

// deletePair removes the value and its policy concurrently. Deleting missing
// keys is a no-op per the Store contract, so invalidation is idempotent.
func (c *cache[V, P]) deletePair(ctx context.Context, key string) (valueErr, policyErr error) {
	return bothOf(ctx,
		func(ctx context.Context) error { return c.store.Delete(ctx, key) },
		func(ctx context.Context) error { return c.store.Delete(ctx, PolicyKey(key)) },
	)
}

// invalidateSilently cleans the pair on an expected miss (rejected or corrupt
// policy). Cleanup failures never turn a silent miss into a caller error;
// they go to the log and hooks.
func (c *cache[V, P]) invalidateSilently(ctx context.Context, key, reason string) {
	c.log.Debug("cache invalid", Fields{"key": key, "reason": reason})
	c.hooks.CacheInvalid(key, reason)
	if err := c.Invalidate(ctx, key); err != nil {
		c.log.Warn("invalidate after "+reason+" failed", Fields{"key": key, "err": err})
	}
}

// cleanupFor invalidates the pair in service of cause. The original cause
// keeps precedence over any cleanup failure; the cleanup failure is kept
// observable through the log and the InvalidateOutage hook.
func (c *cache[V, P]) cleanupFor(ctx context.Context, key string, cause error) {
	c.log.Debug("cache miss", Fields{"key": key, "err": cause})
	if err := c.Invalidate(ctx, key); err != nil {
		c.log.Warn("invalidate after cache error failed", Fields{"key": key, "err": err})
	}
}

// gate applies the caller's validator. A panicking validator counts as
// rejection.
func (c *cache[V, P]) gate(policy P) (valid bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("policy validator panicked", Fields{"panic": r})
			valid = false
		}
	}()
	return c.validPolicy(policy)
}

func (c *cache[V, P]) decodePolicy(raw []byte) (P, bool) {
	var zero P
	payload, err := wire.Decode(wire.KindPolicy, raw)
	if err != nil {
		return zero, false
	}
	p, err := c.policyCodec.Decode(payload)
	if err != nil {
		return zero, false
	}
	return p, true
}

func (c *cache[V, P]) decodeValue(raw []byte) (V, error) {
	var zero V
	payload, err := wire.Decode(wire.KindValue, raw)
	if err != nil {
		return zero, err
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		return zero, err
	}
	return v, nil
}

// bothOf runs a and b concurrently and waits for both. Neither is cancelled
// when its sibling fails; the delayed-error contract wants both attempted.
func bothOf(ctx context.Context, a, b func(context.Context) error) (aErr, bErr error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		bErr = b(ctx)
	}()
	aErr = a(ctx)
	<-done
	return aErr, bErr
}

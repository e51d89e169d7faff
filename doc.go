// Package duocache implements a read-through disk cache combinator for
// asynchronous single-value computations. Transform turns a one-shot producer
// into a stream that emits, in order, the previously cached value for a key
// (when one exists and its policy still validates) followed by the freshly
// produced value, which is persisted for future calls.
//
// Components:
//   - Store: byte store with Read/Write/Delete (e.g. filesystem, Redis,
//     Ristretto, BigCache).
//   - Codec[V]: (de)serializes V <-> []byte. A second codec handles the
//     policy type.
//   - Policy: opaque caller metadata paired with each value; the caller's
//     validator decides whether the cached value is still usable.
//
// Keys:
//
//	<key>          - the cached value
//	<key>_policy   - the paired policy (suffix is an on-disk contract)
//
// Ordering and errors:
//
//	entries, errs := cache.Transform(ctx, "user:1", fetchUser)
//	for e := range entries { ... } // cached entry (if any) strictly first
//	err := <-errs                  // deferred; nil unless a stage failed
//
// The cached stage never prevents the fresh stage from running. A cached-stage
// failure is held back until both stages complete; if both stages fail, both
// errors are surfaced together.
package duocache

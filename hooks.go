package duocache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// A valid cached entry was emitted for key.
	CacheHit(key string)

	// The cached pair was invalidated silently.
	// reason ∈ {"policy_rejected", "policy_corrupt"}
	CacheInvalid(key, reason string)

	// The policy validated but the paired value was missing or unreadable.
	// The pair has been invalidated; err is what the caller will receive.
	CacheInconsistent(key string, err error)

	// Both deletions failed during invalidation (likely backend outage).
	// When cleanup runs in service of a cached-stage error, the original
	// error wins; this hook is how the cleanup failure stays observable.
	InvalidateOutage(key string, valueErr, policyErr error)

	// Persisting the fresh value/policy pair failed on one or both writes.
	PersistFailure(key string, valueErr, policyErr error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CacheHit(string)                       {}
func (NopHooks) CacheInvalid(string, string)           {}
func (NopHooks) CacheInconsistent(string, error)       {}
func (NopHooks) InvalidateOutage(string, error, error) {}
func (NopHooks) PersistFailure(string, error, error)   {}

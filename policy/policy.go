// Package policy ships a ready-made timestamp policy for the common
// "cached value is good for d" case. Callers with richer validity rules
// (versions, etags, request hashes) define their own policy type instead.
package policy

import "time"

// Timed records when the paired value was produced.
type Timed struct {
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
}

// Stamp is a PolicyCreator for Timed that ignores the value.
func Stamp[V any](V) (Timed, error) {
	return Timed{CreatedAt: time.Now()}, nil
}

// MaxAge returns a validator accepting policies younger than d.
// A zero CreatedAt never validates, so legacy or foreign policies age out.
func MaxAge(d time.Duration) func(Timed) bool {
	return func(p Timed) bool {
		if p.CreatedAt.IsZero() {
			return false
		}
		return time.Since(p.CreatedAt) < d
	}
}

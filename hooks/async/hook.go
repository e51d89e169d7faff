// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/duocache"
//	"github.com/unkn0wn-root/duocache/codec"
//	"github.com/unkn0wn-root/duocache/hooks/async"
//	sloghook "github.com/unkn0wn-root/duocache/hooks/slog"
//
// )
//
//	raw := sloghook.New(slog.Default(), sloghook.Options{
//	    InvalidEvery: 10, // sample logs: ~every 10th silent invalidation
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	cache, _ := duocache.New[User, Stamp](duocache.Options[User, Stamp]{
//	    Store:       store,
//	    Codec:       codec.JSON[User]{},
//	    PolicyCodec: codec.JSON[Stamp]{},
//	    NewPolicy:   stamp,
//	    ValidPolicy: fresh,
//	    Hooks:       hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/duocache"
)

type Hooks struct {
	inner duocache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ duocache.Hooks = (*Hooks)(nil)

func New(inner duocache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) CacheHit(k string)             { h.try(func() { h.inner.CacheHit(k) }) }
func (h *Hooks) CacheInvalid(k, reason string) { h.try(func() { h.inner.CacheInvalid(k, reason) }) }
func (h *Hooks) CacheInconsistent(k string, err error) {
	h.try(func() { h.inner.CacheInconsistent(k, err) })
}
func (h *Hooks) InvalidateOutage(k string, ve, pe error) {
	h.try(func() { h.inner.InvalidateOutage(k, ve, pe) })
}
func (h *Hooks) PersistFailure(k string, ve, pe error) {
	h.try(func() { h.inner.PersistFailure(k, ve, pe) })
}

package predictor

import (
	"sync"
	"sync/atomic"
)

// Registry holds the current predictor snapshot. The snapshot pointer is the
// only mutable shared state in the serving path: readers take it atomically
// and see either the previous or the new complete snapshot, never a mix.
type Registry struct {
	current  atomic.Pointer[Snapshot]
	reloadMu sync.Mutex

	changeMu sync.Mutex
	onChange []func(ready bool)
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Current returns the active snapshot, or false while no load has succeeded.
func (r *Registry) Current() (*Snapshot, bool) {
	snap := r.current.Load()
	return snap, snap != nil
}

// Ready reports whether a snapshot is serving.
func (r *Registry) Ready() bool {
	return r.current.Load() != nil
}

// OnChange registers a callback fired after every successful swap. Used to
// keep readiness reporting in step with the load lifecycle.
func (r *Registry) OnChange(fn func(ready bool)) {
	r.changeMu.Lock()
	defer r.changeMu.Unlock()
	r.onChange = append(r.onChange, fn)
}

// Reload runs load and swaps in its snapshot. Only one reload is in flight
// at a time; a failed load leaves the previous snapshot serving and returns
// the error. In-flight predictions against the previous snapshot are never
// blocked.
func (r *Registry) Reload(load func() (*Snapshot, error)) error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	snap, err := load()
	if err != nil {
		return err
	}
	r.swap(snap)
	return nil
}

func (r *Registry) swap(snap *Snapshot) {
	r.current.Store(snap)

	r.changeMu.Lock()
	callbacks := append(([]func(ready bool))(nil), r.onChange...)
	r.changeMu.Unlock()
	for _, fn := range callbacks {
		fn(snap != nil)
	}
}

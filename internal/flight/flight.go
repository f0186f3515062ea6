// Package flight coalesces duplicate in-flight fetches. Callers asking for a
// key that is already being fetched attach to the existing call instead of
// issuing a second request against the backend.
package flight

import "sync"

// batch is an in-flight or completed fetch covering one or more keys.
type batch[K comparable, V any] struct {
	wg sync.WaitGroup

	// res and err are written once before wg is done and only read after.
	res map[K]V
	err error
}

// Group coalesces concurrent fetches by key. The zero value is ready to use.
type Group[K comparable, V any] struct {
	mu    sync.Mutex
	calls map[K]*batch[K, V]
}

// Do executes fn for a single key, suppressing duplicate in-flight calls.
// The boolean reports whether the result was shared with another caller.
func (g *Group[K, V]) Do(key K, fn func() (V, error)) (V, error, bool) {
	res, err, shared := g.DoBatch([]K{key}, func(owned []K) (map[K]V, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}
		return map[K]V{key: v}, nil
	})
	v, ok := res[key]
	if !ok {
		var zero V
		return zero, err, shared
	}
	return v, err, shared
}

// DoBatch fetches a set of keys with duplicate suppression. Keys already in
// flight join the existing call; the remaining keys are handed to fn in a
// single invocation. The returned map contains every key fn (or a joined
// call) resolved; keys the backend did not return stay absent. The boolean
// reports whether any key joined another caller's in-flight call.
func (g *Group[K, V]) DoBatch(keys []K, fn func(owned []K) (map[K]V, error)) (map[K]V, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[K]*batch[K, V])
	}

	var owned []K
	joined := make(map[K]*batch[K, V])
	seen := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if b, ok := g.calls[k]; ok {
			joined[k] = b
			continue
		}
		owned = append(owned, k)
	}

	var own *batch[K, V]
	if len(owned) > 0 {
		own = &batch[K, V]{}
		own.wg.Add(1)
		for _, k := range owned {
			g.calls[k] = own
		}
	}
	g.mu.Unlock()

	var firstErr error
	if own != nil {
		own.res, own.err = fn(owned)
		own.wg.Done()

		g.mu.Lock()
		for _, k := range owned {
			if g.calls[k] == own {
				delete(g.calls, k)
			}
		}
		g.mu.Unlock()

		firstErr = own.err
	}

	out := make(map[K]V)
	if own != nil {
		for _, k := range owned {
			if v, ok := own.res[k]; ok {
				out[k] = v
			}
		}
	}
	for k, b := range joined {
		b.wg.Wait()
		if b.err != nil {
			if firstErr == nil {
				firstErr = b.err
			}
			continue
		}
		if v, ok := b.res[k]; ok {
			out[k] = v
		}
	}

	return out, firstErr, len(joined) > 0
}

// Forget drops the in-flight call for a key. Future calls fetch anew instead
// of attaching to the earlier one.
func (g *Group[K, V]) Forget(key K) {
	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
}

// InFlight returns the number of keys currently being fetched.
func (g *Group[K, V]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

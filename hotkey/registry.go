package hotkey

import (
	"errors"
	"sync"
)

var errDisposed = errors.New("hotkey registry disposed")

// registryState tracks which native id is live for each string id, with a
// monotonic version stamp per id so overlapping register/unregister calls
// resolve last-write-wins. Native calls never run under its lock: callers
// take a version in beginRegister, perform the native registration outside
// the lock, and commit only if no newer operation superseded them.
type registryState struct {
	mu         sync.Mutex
	disposed   bool
	version    uint64
	nextNative int
	ids        map[string]*idState  // latest operation per string id
	byNative   map[int]registration // committed registrations
}

type idState struct {
	version uint64
	native  int
	live    bool
}

type registration struct {
	id string
	cb func()
}

func newRegistryState() *registryState {
	return &registryState{
		ids:      make(map[string]*idState),
		byNative: make(map[int]registration),
	}
}

// beginRegister stamps a new version on id, allocates a fresh native id and
// evicts (map-only) any prior live native id for it. The caller must
// physically unregister evicted (if nonzero), perform the native register for
// native, then call commitRegister.
func (r *registryState) beginRegister(id string) (version uint64, native, evicted int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return 0, 0, 0, errDisposed
	}
	r.version++
	r.nextNative++
	native = r.nextNative
	if prev, ok := r.ids[id]; ok && prev.live {
		delete(r.byNative, prev.native)
		evicted = prev.native
	}
	r.ids[id] = &idState{version: r.version, native: native}
	return r.version, native, evicted, nil
}

// commitRegister publishes the callback for native. It fails when a newer
// operation for id has bumped the version since beginRegister, in which case
// the caller owns the rollback of its native id.
func (r *registryState) commitRegister(id string, version uint64, native int, cb func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return false
	}
	op, ok := r.ids[id]
	if !ok || op.version != version || op.native != native {
		return false
	}
	op.live = true
	r.byNative[native] = registration{id: id, cb: cb}
	return true
}

// beginUnregister bumps the version, invalidating any in-flight register for
// id, and returns the live native id to release. ok is false when nothing is
// live (including a second unregister in a row).
func (r *registryState) beginUnregister(id string) (native int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return 0, false
	}
	r.version++
	op, exists := r.ids[id]
	delete(r.ids, id)
	if !exists || !op.live {
		return 0, false
	}
	delete(r.byNative, op.native)
	return op.native, true
}

// snapshotUnregisterAll evicts every registration and returns the native ids
// the caller must release. In-flight registers are invalidated.
func (r *registryState) snapshotUnregisterAll() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictAllLocked()
}

// markDisposedAndSnapshotAll is snapshotUnregisterAll plus a permanent flag
// that rejects every later begin* call.
func (r *registryState) markDisposedAndSnapshotAll() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disposed = true
	return r.evictAllLocked()
}

func (r *registryState) evictAllLocked() []int {
	r.version++
	natives := make([]int, 0, len(r.byNative))
	for native := range r.byNative {
		natives = append(natives, native)
	}
	r.ids = make(map[string]*idState)
	r.byNative = make(map[int]registration)
	return natives
}

// lookup returns the callback committed for a fired native id.
func (r *registryState) lookup(native int) (func(), bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.byNative[native]
	if !ok {
		return nil, false
	}
	return reg.cb, true
}

// nativeFor returns the live native id committed for a string id.
func (r *registryState) nativeFor(id string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.ids[id]
	if !ok || !op.live {
		return 0, false
	}
	return op.native, true
}

// liveCount reports the number of committed registrations.
func (r *registryState) liveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byNative)
}

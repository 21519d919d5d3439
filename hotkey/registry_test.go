package hotkey

import "testing"

func TestRegisterThenUnregisterLeavesNothing(t *testing.T) {
	r := newRegistryState()

	version, native, evicted, err := r.beginRegister("capture_region")
	if err != nil {
		t.Fatal(err)
	}
	if evicted != 0 {
		t.Fatalf("fresh id evicted %d", evicted)
	}
	if !r.commitRegister("capture_region", version, native, func() {}) {
		t.Fatal("commit failed with no competing operation")
	}
	if r.liveCount() != 1 {
		t.Fatalf("liveCount = %d, want 1", r.liveCount())
	}

	got, ok := r.beginUnregister("capture_region")
	if !ok || got != native {
		t.Fatalf("beginUnregister = (%d, %v), want (%d, true)", got, ok, native)
	}
	if r.liveCount() != 0 {
		t.Fatalf("liveCount = %d after unregister, want 0", r.liveCount())
	}
}

func TestUnregisterIdempotence(t *testing.T) {
	r := newRegistryState()
	version, native, _, _ := r.beginRegister("id")
	r.commitRegister("id", version, native, func() {})

	if _, ok := r.beginUnregister("id"); !ok {
		t.Fatal("first unregister should succeed")
	}
	if _, ok := r.beginUnregister("id"); ok {
		t.Fatal("second unregister should fail")
	}
}

func TestStaleCommitLosesToNewerVersion(t *testing.T) {
	r := newRegistryState()

	v1, n1, _, _ := r.beginRegister("id")
	v2, n2, _, _ := r.beginRegister("id")
	if v2 <= v1 {
		t.Fatalf("versions not monotonic: v1=%d v2=%d", v1, v2)
	}
	if n2 == n1 {
		t.Fatal("native ids must be fresh per operation")
	}

	if !r.commitRegister("id", v2, n2, func() {}) {
		t.Fatal("newer commit should win")
	}
	if r.commitRegister("id", v1, n1, func() {}) {
		t.Fatal("stale commit should be rejected")
	}
	if r.liveCount() != 1 {
		t.Fatalf("liveCount = %d, want exactly one live id", r.liveCount())
	}
	if got, _ := r.nativeFor("id"); got != n2 {
		t.Fatalf("live native = %d, want %d", got, n2)
	}
}

func TestBeginUnregisterInvalidatesInFlightRegister(t *testing.T) {
	r := newRegistryState()

	v1, n1, _, _ := r.beginRegister("id")
	if _, ok := r.beginUnregister("id"); ok {
		t.Fatal("nothing committed yet, unregister should report false")
	}
	if r.commitRegister("id", v1, n1, func() {}) {
		t.Fatal("commit after beginUnregister should be rejected")
	}
}

func TestBeginRegisterEvictsCommittedNative(t *testing.T) {
	r := newRegistryState()
	v1, n1, _, _ := r.beginRegister("id")
	r.commitRegister("id", v1, n1, func() {})

	_, n2, evicted, _ := r.beginRegister("id")
	if evicted != n1 {
		t.Fatalf("evicted = %d, want %d", evicted, n1)
	}
	if _, ok := r.lookup(n1); ok {
		t.Fatal("evicted native id should not be dispatchable")
	}
	if n2 == n1 {
		t.Fatal("replacement must get a fresh native id")
	}
}

func TestSnapshotUnregisterAll(t *testing.T) {
	r := newRegistryState()
	for _, id := range []string{"a", "b", "c"} {
		v, n, _, _ := r.beginRegister(id)
		r.commitRegister(id, v, n, func() {})
	}

	natives := r.snapshotUnregisterAll()
	if len(natives) != 3 {
		t.Fatalf("snapshot returned %d ids, want 3", len(natives))
	}
	if r.liveCount() != 0 {
		t.Fatalf("liveCount = %d after snapshot, want 0", r.liveCount())
	}

	// Not disposed: new operations still work.
	if _, _, _, err := r.beginRegister("a"); err != nil {
		t.Fatalf("beginRegister after snapshot: %v", err)
	}
}

func TestDisposalRejectsFurtherOperations(t *testing.T) {
	r := newRegistryState()
	v, n, _, _ := r.beginRegister("a")
	r.commitRegister("a", v, n, func() {})

	natives := r.markDisposedAndSnapshotAll()
	if len(natives) != 1 {
		t.Fatalf("snapshot returned %d ids, want 1", len(natives))
	}

	if _, _, _, err := r.beginRegister("b"); err == nil {
		t.Fatal("beginRegister after disposal should fail")
	}
	if _, ok := r.beginUnregister("a"); ok {
		t.Fatal("beginUnregister after disposal should fail")
	}
	if r.commitRegister("a", v, n, func() {}) {
		t.Fatal("commit after disposal should fail")
	}
}

func TestLookupDispatchesCommittedCallback(t *testing.T) {
	r := newRegistryState()
	fired := 0
	v, n, _, _ := r.beginRegister("id")
	r.commitRegister("id", v, n, func() { fired++ })

	cb, ok := r.lookup(n)
	if !ok {
		t.Fatal("lookup of committed id failed")
	}
	cb()
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	if _, ok := r.lookup(n + 1000); ok {
		t.Fatal("unknown native id should not resolve")
	}
}

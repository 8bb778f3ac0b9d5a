package push

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "device_tokens.json")
	return NewRegistry(path), path
}

func TestRegister_Idempotent(t *testing.T) {
	reg, _ := newTestRegistry(t)

	ep := Endpoint{Token: "tok-1", Sandbox: true, DeviceID: "dev-1", ServerName: "box-a"}
	if !reg.Register(ep) {
		t.Error("first registration should report a change")
	}
	if reg.Register(ep) {
		t.Error("identical re-registration should be a no-op")
	}
	if reg.Len() != 1 {
		t.Errorf("endpoint count = %d, want 1", reg.Len())
	}
}

func TestRegister_MergesByToken(t *testing.T) {
	reg, _ := newTestRegistry(t)

	reg.Register(Endpoint{Token: "tok-1", Sandbox: true, ServerName: "old-label"})
	if !reg.Register(Endpoint{Token: "tok-1", Sandbox: false, ServerName: "new-label"}) {
		t.Error("changed fields should report a change")
	}

	eps := reg.List()
	if len(eps) != 1 {
		t.Fatalf("endpoint count = %d, want exactly one entry per platform token", len(eps))
	}
	if eps[0].ServerName != "new-label" || eps[0].Sandbox {
		t.Errorf("endpoint = %+v, want latest field values merged in", eps[0])
	}
}

func TestRegistry_RoundTrip(t *testing.T) {
	reg, path := newTestRegistry(t)
	reg.Register(Endpoint{Token: "tok-1", Sandbox: true, DeviceID: "dev-1", ServerName: "box"})
	reg.Register(Endpoint{Token: "tok-2"})

	reloaded := NewRegistry(path)
	eps := reloaded.List()
	if len(eps) != 2 {
		t.Fatalf("reloaded count = %d, want 2", len(eps))
	}
	if eps[0].Token != "tok-1" || eps[0].DeviceID != "dev-1" || !eps[0].Sandbox {
		t.Errorf("reloaded endpoint = %+v", eps[0])
	}
}

func TestRegistry_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_tokens.json")
	if err := os.WriteFile(path, []byte("not json at all"), 0600); err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(path)
	if reg.Len() != 0 {
		t.Error("corrupt file should degrade to an empty registry")
	}
}

func TestRemove_Batch(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.Register(Endpoint{Token: "tok-1"})
	reg.Register(Endpoint{Token: "tok-2"})
	reg.Register(Endpoint{Token: "tok-3"})

	if n := reg.Remove([]string{"tok-1", "tok-3", "tok-does-not-exist"}); n != 2 {
		t.Errorf("Remove returned %d, want 2 (absent tokens do not count)", n)
	}

	eps := reg.List()
	if len(eps) != 1 || eps[0].Token != "tok-2" {
		t.Errorf("endpoints after removal = %+v, want only tok-2", eps)
	}

	// Removing nothing must not touch the file
	if n := reg.Remove(nil); n != 0 {
		t.Errorf("Remove(nil) returned %d, want 0", n)
	}
}

func TestRemove_ReportsActualRemovals(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.Register(Endpoint{Token: "tok-1"})

	if n := reg.Remove([]string{"tok-1", "tok-1", "tok-1"}); n != 1 {
		t.Errorf("Remove with repeated token returned %d, want 1", n)
	}
	if n := reg.Remove([]string{"tok-1"}); n != 0 {
		t.Errorf("Remove of an already-gone token returned %d, want 0", n)
	}
}

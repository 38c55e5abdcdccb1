package registry

import (
	"testing"

	"go.uber.org/zap"
)

type stubClient struct {
	id    string
	inbox chan []byte
}

func (c *stubClient) ConnectionID() string { return c.id }

func (c *stubClient) Deliver(data []byte) bool {
	select {
	case c.inbox <- data:
		return true
	default:
		return false
	}
}

func newStub(id string) *stubClient {
	return &stubClient{id: id, inbox: make(chan []byte, 4)}
}

func TestRegisterAndLookup(t *testing.T) {
	r := New(zap.NewNop())
	c := newStub("conn-1")
	r.Register("doc-1", c)

	got, ok := r.Lookup("doc-1")
	if !ok {
		t.Fatal("expected doc-1 to be registered")
	}
	if got != c {
		t.Fatalf("lookup returned wrong client: %v", got.ConnectionID())
	}
}

func TestRegisterOverwrites(t *testing.T) {
	r := New(zap.NewNop())
	c1 := newStub("conn-1")
	c2 := newStub("conn-2")

	r.Register("doc-1", c1)
	r.Register("doc-1", c2)

	got, ok := r.Lookup("doc-1")
	if !ok {
		t.Fatal("expected doc-1 to be registered")
	}
	if got != c2 {
		t.Fatal("expected last registration to win")
	}
	if len(r.List()) != 1 {
		t.Fatalf("expected one entry, got %d", len(r.List()))
	}
}

func TestUnregisterByConnection(t *testing.T) {
	r := New(zap.NewNop())
	c1 := newStub("conn-1")
	c2 := newStub("conn-2")
	r.Register("doc-1", c1)
	r.Register("doc-2", c2)

	r.Unregister(c1)

	if _, ok := r.Lookup("doc-1"); ok {
		t.Fatal("doc-1 should be gone after unregister")
	}
	if _, ok := r.Lookup("doc-2"); !ok {
		t.Fatal("doc-2 should be unaffected")
	}
	list := r.List()
	if len(list) != 1 || list[0] != "doc-2" {
		t.Fatalf("unexpected list: %v", list)
	}
}

func TestUnregisterUnknownIsNoop(t *testing.T) {
	r := New(zap.NewNop())
	r.Register("doc-1", newStub("conn-1"))

	r.Unregister(newStub("conn-never-seen"))

	if len(r.List()) != 1 {
		t.Fatalf("registry changed by no-op unregister: %v", r.List())
	}
}

func TestListSorted(t *testing.T) {
	r := New(zap.NewNop())
	r.Register("doc-b", newStub("conn-1"))
	r.Register("doc-a", newStub("conn-2"))
	r.Register("doc-c", newStub("conn-3"))

	got := r.List()
	want := []string{"doc-a", "doc-b", "doc-c"}
	if len(got) != len(want) {
		t.Fatalf("unexpected list: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected list order: %v", got)
		}
	}
}

package service

import (
	"testing"

	"go.uber.org/zap"

	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/model"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/registry"
)

func TestDispatchOfflineDoctor(t *testing.T) {
	reg := registry.New(zap.NewNop())
	d := NewCallDispatcher(reg, zap.NewNop())

	if d.Dispatch("doc-unknown", "room-1") {
		t.Fatal("dispatch to an offline doctor must fail")
	}
}

func TestDispatchPushesExactlyOneNotification(t *testing.T) {
	reg := registry.New(zap.NewNop())
	d := NewCallDispatcher(reg, zap.NewNop())
	doctor := &Peer{ID: "conn-1", Send: make(chan []byte, 4)}
	reg.Register("doc-1", doctor)

	if !d.Dispatch("doc-1", "room-1") {
		t.Fatal("dispatch to an online doctor must succeed")
	}

	got := mustRecv(t, doctor)
	if got.Kind != model.EventIncomingCall {
		t.Fatalf("kind %q, want incoming-call", got.Kind)
	}
	if got.RoomID != "room-1" {
		t.Fatalf("room %q, want room-1", got.RoomID)
	}
	assertNoMsg(t, doctor)
}

func TestDispatchSurvivesFullBuffer(t *testing.T) {
	reg := registry.New(zap.NewNop())
	d := NewCallDispatcher(reg, zap.NewNop())
	doctor := &Peer{ID: "conn-1", Send: make(chan []byte)} // no buffer, nothing reading

	reg.Register("doc-1", doctor)

	// At-most-once: the notification is dropped but the doctor counts as reached.
	if !d.Dispatch("doc-1", "room-1") {
		t.Fatal("dispatch should report the doctor as available")
	}
}

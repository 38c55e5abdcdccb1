package model

import (
	"strings"
	"testing"
)

func TestParseEventValid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		kind EventKind
	}{
		{"register-doctor", `{"event":"register-doctor","doctor_id":"doc-1"}`, EventRegisterDoctor},
		{"accept-call", `{"event":"accept-call","room_id":"room-1"}`, EventAcceptCall},
		{"join-room", `{"event":"join-room","room_id":"room-1"}`, EventJoinRoom},
		{"offer", `{"event":"offer","room_id":"room-1","sdp":{"type":"offer","sdp":"v=0"}}`, EventOffer},
		{"answer", `{"event":"answer","room_id":"room-1","sdp":{"type":"answer","sdp":"v=0"}}`, EventAnswer},
		{"ice-candidate", `{"event":"ice-candidate","room_id":"room-1","candidate":{"candidate":"candidate:1"}}`, EventICECandidate},
		{"start-recording", `{"event":"start-recording","room_id":"room-1"}`, EventStartRecording},
		{"stop-recording", `{"event":"stop-recording","room_id":"room-1"}`, EventStopRecording},
		{"recording-data", `{"event":"recording-data","room_id":"room-1","data":"AAAA","timestamp":1712}`, EventRecordingData},
		{"end-call", `{"event":"end-call","room_id":"room-1"}`, EventEndCall},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tc.raw))
			if err != nil {
				t.Fatal(err)
			}
			if ev.Kind != tc.kind {
				t.Fatalf("kind %q, want %q", ev.Kind, tc.kind)
			}
		})
	}
}

func TestParseEventRejected(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"not json", `offer please`, "decode event"},
		{"unknown kind", `{"event":"reboot-server","room_id":"room-1"}`, "unknown event"},
		{"offer without room", `{"event":"offer","sdp":{"type":"offer"}}`, "room_id required"},
		{"offer without sdp", `{"event":"offer","room_id":"room-1"}`, "sdp required"},
		{"candidate without payload", `{"event":"ice-candidate","room_id":"room-1"}`, "candidate required"},
		{"register without doctor", `{"event":"register-doctor"}`, "doctor_id required"},
		{"recording-data without data", `{"event":"recording-data","room_id":"room-1"}`, "data required"},
		{"end-call without room", `{"event":"end-call"}`, "room_id required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tc.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q, want it to mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestMarshalOmitsEmptyFields(t *testing.T) {
	raw, err := Event{Kind: EventCallEnded, RoomID: "room-1"}.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	got := string(raw)
	if strings.Contains(got, "sdp") || strings.Contains(got, "candidate") || strings.Contains(got, "doctor_id") {
		t.Fatalf("unexpected empty fields on the wire: %s", got)
	}
}

package model

import (
	"encoding/json"
	"fmt"
)

// EventKind identifies a signaling event. The inbound set is closed: every
// kind the server accepts is listed here and validated before dispatch, so an
// unknown or malformed event is rejected at the edge instead of being silently
// ignored deep in the relay.
type EventKind string

// Inbound events (client -> server).
const (
	EventRegisterDoctor EventKind = "register-doctor"
	EventAcceptCall     EventKind = "accept-call"
	EventJoinRoom       EventKind = "join-room"
	EventOffer          EventKind = "offer"
	EventAnswer         EventKind = "answer"
	EventICECandidate   EventKind = "ice-candidate"
	EventStartRecording EventKind = "start-recording"
	EventStopRecording  EventKind = "stop-recording"
	EventRecordingData  EventKind = "recording-data"
	EventEndCall        EventKind = "end-call"
)

// Outbound events (server -> client).
const (
	EventIncomingCall     EventKind = "incoming-call"
	EventDoctorJoined     EventKind = "doctor-joined"
	EventRecordingStarted EventKind = "recording-started"
	EventRecordingStopped EventKind = "recording-stopped"
	EventCallEnded        EventKind = "call-ended"
)

// Event is the wire envelope for all signaling traffic. SDP and ICE payloads
// are opaque to the server and relayed verbatim.
type Event struct {
	Kind      EventKind       `json:"event"`
	DoctorID  string          `json:"doctor_id,omitempty"`
	RoomID    string          `json:"room_id,omitempty"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	Data      string          `json:"data,omitempty"` // base64-encoded recording chunk
	Timestamp int64           `json:"timestamp,omitempty"`
}

// ParseEvent decodes and validates an inbound event.
func ParseEvent(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Validate checks that the event carries the fields its kind requires.
func (e Event) Validate() error {
	switch e.Kind {
	case EventRegisterDoctor:
		if e.DoctorID == "" {
			return fmt.Errorf("event %q: doctor_id required", e.Kind)
		}
	case EventAcceptCall, EventJoinRoom, EventStartRecording, EventStopRecording, EventEndCall:
		if e.RoomID == "" {
			return fmt.Errorf("event %q: room_id required", e.Kind)
		}
	case EventOffer, EventAnswer:
		if e.RoomID == "" {
			return fmt.Errorf("event %q: room_id required", e.Kind)
		}
		if len(e.SDP) == 0 {
			return fmt.Errorf("event %q: sdp required", e.Kind)
		}
	case EventICECandidate:
		if e.RoomID == "" {
			return fmt.Errorf("event %q: room_id required", e.Kind)
		}
		if len(e.Candidate) == 0 {
			return fmt.Errorf("event %q: candidate required", e.Kind)
		}
	case EventRecordingData:
		if e.RoomID == "" {
			return fmt.Errorf("event %q: room_id required", e.Kind)
		}
		if e.Data == "" {
			return fmt.Errorf("event %q: data required", e.Kind)
		}
	default:
		return fmt.Errorf("unknown event %q", e.Kind)
	}
	return nil
}

// Marshal encodes an outbound event for the wire.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/model"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/recording"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/registry"
)

// Peer represents one WebSocket connection in the signaling hub.
// A peer is a member of at most one room at a time.
type Peer struct {
	ID       string
	DoctorID string // set after register-doctor
	RoomID   string // "" while unjoined
	Conn     *websocket.Conn
	Send     chan []byte

	sendMu sync.Mutex
	closed bool
}

// ConnectionID implements registry.Client.
func (p *Peer) ConnectionID() string { return p.ID }

// Deliver implements registry.Client: non-blocking push, false when the
// peer's send buffer is full or the peer has disconnected. Senders race with
// disconnect (registry lookup and room-slice copies happen outside the hub
// lock), so the closed check and the channel send share one mutex with
// closeSend.
func (p *Peer) Deliver(data []byte) bool {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.Send <- data:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once; later Deliver calls report
// a dropped message instead of panicking.
func (p *Peer) closeSend() {
	p.sendMu.Lock()
	if !p.closed {
		p.closed = true
		close(p.Send)
	}
	p.sendMu.Unlock()
}

// CallJournal receives call lifecycle transitions (optional collaborator;
// failures inside it must never affect signaling).
type CallJournal interface {
	CallAccepted(roomID string)
	CallEnded(roomID, recordingPath string)
}

// Hub is the signaling router: it tracks room membership and relays
// offer/answer/ICE and recording control between the two peers of a call.
// Messages are at-most-once; a peer that cannot take a message loses it.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*Peer]struct{} // roomID -> members
	registry *registry.Registry
	recorder *recording.Tracker
	journal  CallJournal // optional
	upgrader websocket.Upgrader

	maxMsgSize int64
	log        *zap.Logger
}

// NewHub creates the signaling hub.
func NewHub(reg *registry.Registry, rec *recording.Tracker, maxMessageSize int64, readBufferSize, writeBufferSize int, log *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Peer]struct{}),
		registry:   reg,
		recorder:   rec,
		maxMsgSize: maxMessageSize,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			// Allow all origins for dev; in prod set CheckOrigin.
		},
	}
}

// SetJournal sets the optional call journal.
func (h *Hub) SetJournal(j CallJournal) { h.journal = j }

// Upgrader returns the WebSocket upgrader for HTTP handlers.
func (h *Hub) Upgrader() *websocket.Upgrader {
	return &h.upgrader
}

// NewPeer wraps a connection in a Peer with a server-assigned connection id
// and returns a cleanup function for when the connection drops.
func (h *Hub) NewPeer(conn *websocket.Conn) (*Peer, func()) {
	if conn != nil && h.maxMsgSize > 0 {
		conn.SetReadLimit(h.maxMsgSize)
	}
	p := &Peer{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.log.Info("peer connected", zap.String("connection_id", p.ID))
	return p, func() { h.Disconnect(p) }
}

// HandleEvent processes one inbound event from a peer. Events from a single
// connection arrive here in order (one reader goroutine per connection);
// shared state is guarded for cross-connection interleaving.
func (h *Hub) HandleEvent(p *Peer, ev model.Event) {
	switch ev.Kind {
	case model.EventRegisterDoctor:
		h.mu.Lock()
		p.DoctorID = ev.DoctorID
		h.mu.Unlock()
		h.registry.Register(ev.DoctorID, p)

	case model.EventAcceptCall:
		h.join(p, ev.RoomID)
		h.relay(ev.RoomID, p, model.Event{Kind: model.EventDoctorJoined, RoomID: ev.RoomID})
		h.recorder.Start(ev.RoomID)
		if h.journal != nil {
			h.journal.CallAccepted(ev.RoomID)
		}

	case model.EventJoinRoom:
		h.join(p, ev.RoomID)

	case model.EventOffer:
		h.relayFromMember(p, model.Event{Kind: model.EventOffer, RoomID: ev.RoomID, SDP: ev.SDP})

	case model.EventAnswer:
		h.relayFromMember(p, model.Event{Kind: model.EventAnswer, RoomID: ev.RoomID, SDP: ev.SDP})

	case model.EventICECandidate:
		h.relayFromMember(p, model.Event{Kind: model.EventICECandidate, RoomID: ev.RoomID, Candidate: ev.Candidate})

	case model.EventStartRecording:
		h.recorder.Start(ev.RoomID)
		h.relay(ev.RoomID, p, model.Event{Kind: model.EventRecordingStarted, RoomID: ev.RoomID})

	case model.EventStopRecording:
		// Peers are notified before the file write so the only slow
		// operation in the path never delays signaling.
		h.relay(ev.RoomID, p, model.Event{Kind: model.EventRecordingStopped, RoomID: ev.RoomID})
		h.finalizeRecording(ev.RoomID)

	case model.EventRecordingData:
		h.recorder.AppendChunk(ev.RoomID, ev.Data, ev.Timestamp)

	case model.EventEndCall:
		h.relay(ev.RoomID, p, model.Event{Kind: model.EventCallEnded, RoomID: ev.RoomID})
		path := h.finalizeRecording(ev.RoomID)
		if h.journal != nil {
			h.journal.CallEnded(ev.RoomID, path)
		}
	}
}

// Disconnect removes the peer from its room and the doctor registry, and
// finalizes the room's recording when the last member drops out mid-call so
// already-received chunks are not lost.
func (h *Hub) Disconnect(p *Peer) {
	h.registry.Unregister(p)

	h.mu.Lock()
	roomID := p.RoomID
	roomEmpty := false
	if roomID != "" {
		h.removeFromRoomLocked(p)
		_, stillThere := h.rooms[roomID]
		roomEmpty = !stillThere
	}
	h.mu.Unlock()
	p.closeSend()

	if roomEmpty && h.recorder.IsActive(roomID) {
		path := h.finalizeRecording(roomID)
		if h.journal != nil {
			h.journal.CallEnded(roomID, path)
		}
	}
	h.log.Info("peer disconnected",
		zap.String("connection_id", p.ID),
		zap.String("room_id", roomID))
}

// RoomSize returns the number of members in a room (for diagnostics).
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) join(p *Peer, roomID string) {
	h.mu.Lock()
	if p.RoomID == roomID {
		h.mu.Unlock()
		return
	}
	if p.RoomID != "" {
		h.removeFromRoomLocked(p)
	}
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Peer]struct{})
	}
	h.rooms[roomID][p] = struct{}{}
	p.RoomID = roomID
	h.mu.Unlock()
	h.log.Info("peer joined room",
		zap.String("connection_id", p.ID),
		zap.String("room_id", roomID))
}

func (h *Hub) removeFromRoomLocked(p *Peer) {
	if m, ok := h.rooms[p.RoomID]; ok {
		delete(m, p)
		if len(m) == 0 {
			delete(h.rooms, p.RoomID)
		}
	}
	p.RoomID = ""
}

// relayFromMember relays ev to the other members of ev.RoomID, but only when
// the sender actually is a member of that room.
func (h *Hub) relayFromMember(sender *Peer, ev model.Event) {
	h.mu.RLock()
	member := sender.RoomID == ev.RoomID
	h.mu.RUnlock()
	if !member {
		h.log.Warn("relay refused, sender not in room",
			zap.String("connection_id", sender.ID),
			zap.String("room_id", ev.RoomID),
			zap.String("event", string(ev.Kind)))
		return
	}
	h.relay(ev.RoomID, sender, ev)
}

// relay sends ev to every member of the room except the sender. Echoing back
// to the sender is never correct in the two-party room model.
func (h *Hub) relay(roomID string, sender *Peer, ev model.Event) {
	raw, err := ev.Marshal()
	if err != nil {
		h.log.Error("marshal outbound event", zap.Error(err))
		return
	}

	h.mu.RLock()
	m := h.rooms[roomID]
	// Copy peers so we don't hold the lock while writing.
	peers := make([]*Peer, 0, len(m))
	for p := range m {
		if p != sender {
			peers = append(peers, p)
		}
	}
	h.mu.RUnlock()

	for _, p := range peers {
		if !p.Deliver(raw) {
			h.log.Warn("peer send buffer full, message dropped",
				zap.String("connection_id", p.ID),
				zap.String("room_id", roomID),
				zap.String("event", string(ev.Kind)))
		}
	}
}

func (h *Hub) finalizeRecording(roomID string) string {
	path, err := h.recorder.Stop(roomID)
	if err != nil {
		h.log.Error("recording finalize failed",
			zap.String("room_id", roomID),
			zap.Error(err))
		return ""
	}
	return path
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/model"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/service"
)

// SignalWSHandler handles WebSocket connections for /ws/signal.
type SignalWSHandler struct {
	hub    *service.Hub
	logger *zap.Logger
}

// NewSignalWSHandler creates the signaling WebSocket handler.
func NewSignalWSHandler(hub *service.Hub, logger *zap.Logger) *SignalWSHandler {
	return &SignalWSHandler{hub: hub, logger: logger}
}

// ServeWS upgrades the request to WebSocket and runs the signaling loop.
// Both doctors and patients connect here; a doctor becomes routable once it
// sends register-doctor over the connection.
func (h *SignalWSHandler) ServeWS(c *gin.Context) {
	conn, err := h.hub.Upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	peer, cleanup := h.hub.NewPeer(conn)
	defer cleanup()

	// Writer goroutine: send from peer.Send to connection
	go h.writePump(peer)

	// Reader: parse and dispatch events until the connection drops
	h.readPump(peer)
}

func (h *SignalWSHandler) readPump(p *service.Peer) {
	defer func() {
		_ = p.Conn.Close()
	}()
	for {
		_, data, err := p.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("read error", zap.Error(err))
			}
			break
		}
		ev, err := model.ParseEvent(data)
		if err != nil {
			// Malformed events are rejected per-event; the connection lives on.
			h.logger.Warn("event rejected",
				zap.String("connection_id", p.ID),
				zap.Error(err))
			continue
		}
		h.hub.HandleEvent(p, ev)
	}
}

func (h *SignalWSHandler) writePump(p *service.Peer) {
	defer func() {
		_ = p.Conn.Close()
	}()
	for data := range p.Send {
		if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
}

package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Client is the minimal surface the registry needs from a live connection:
// a stable connection identifier and a non-blocking push.
type Client interface {
	ConnectionID() string
	Deliver(data []byte) bool
}

// Registry maps online doctor ids to their current live connection.
// At most one connection per doctor; a new registration overwrites the old one.
type Registry struct {
	mu      sync.RWMutex
	doctors map[string]Client
	log     *zap.Logger
}

// New creates an empty registry.
func New(log *zap.Logger) *Registry {
	return &Registry{
		doctors: make(map[string]Client),
		log:     log,
	}
}

// Register maps a doctor to a connection, replacing any previous mapping.
func (r *Registry) Register(doctorID string, c Client) {
	r.mu.Lock()
	r.doctors[doctorID] = c
	r.mu.Unlock()
	r.log.Info("doctor registered",
		zap.String("doctor_id", doctorID),
		zap.String("connection_id", c.ConnectionID()))
}

// Lookup returns the doctor's current connection, if online.
func (r *Registry) Lookup(doctorID string) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.doctors[doctorID]
	return c, ok
}

// Unregister removes the entry whose connection matches c. Disconnect events
// carry the connection, not the doctor id, so this scans values; registry size
// is the count of concurrently online doctors, so the scan is fine.
// No-op if the connection was never registered.
func (r *Registry) Unregister(c Client) {
	id := c.ConnectionID()
	r.mu.Lock()
	defer r.mu.Unlock()
	for doctorID, existing := range r.doctors {
		if existing.ConnectionID() == id {
			delete(r.doctors, doctorID)
			r.log.Info("doctor unregistered",
				zap.String("doctor_id", doctorID),
				zap.String("connection_id", id))
			return
		}
	}
}

// List returns online doctor ids, sorted for stable responses.
func (r *Registry) List() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.doctors))
	for doctorID := range r.doctors {
		ids = append(ids, doctorID)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

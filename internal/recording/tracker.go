package recording

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// fileNameSafe substitutes characters that are unsafe in file names:
// ":" and "." from RFC 3339 timestamps, and path separators from the
// caller-supplied room id so the write cannot escape the recordings dir.
var fileNameSafe = strings.NewReplacer(":", "-", ".", "-", "/", "-", "\\", "-")

type activeRecording struct {
	fileName  string
	path      string
	startedAt time.Time
	chunks    [][]byte
}

// Tracker accumulates media chunks per room and writes one file per finished
// call. Chunk order is arrival order; concatenation order determines playback.
type Tracker struct {
	mu    sync.Mutex
	dir   string
	rooms map[string]*activeRecording
	log   *zap.Logger
}

// NewTracker creates a tracker writing finalized recordings under dir,
// creating the directory if absent.
func NewTracker(dir string, log *zap.Logger) (*Tracker, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("recordings dir: %w", err)
	}
	return &Tracker{
		dir:   dir,
		rooms: make(map[string]*activeRecording),
		log:   log,
	}, nil
}

// Start begins tracking a recording for the room, replacing any existing
// entry, and returns the file path the recording will be written to.
func (t *Tracker) Start(roomID string) string {
	started := time.Now()
	name := fileNameSafe.Replace(fmt.Sprintf("%s-%s", roomID, started.UTC().Format(time.RFC3339))) + ".webm"
	rec := &activeRecording{
		fileName:  name,
		path:      filepath.Join(t.dir, name),
		startedAt: started,
	}
	t.mu.Lock()
	t.rooms[roomID] = rec
	t.mu.Unlock()
	t.log.Info("recording started",
		zap.String("room_id", roomID),
		zap.String("file", name))
	return rec.path
}

// AppendChunk decodes a base64 payload and appends it to the room's chunk
// list. A chunk for a room with no active recording is dropped; that matches
// the client contract today but can hide a recording-data/start race, so it
// is logged at warn level.
func (t *Tracker) AppendChunk(roomID, payload string, arrivalTS int64) {
	// Browsers often ship chunks as data URLs; strip the media-type prefix.
	if i := strings.IndexByte(payload, ','); i >= 0 && strings.Contains(payload[:i], "base64") {
		payload = payload[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.log.Warn("recording chunk decode failed",
			zap.String("room_id", roomID),
			zap.Error(err))
		return
	}
	t.mu.Lock()
	rec, ok := t.rooms[roomID]
	if ok {
		rec.chunks = append(rec.chunks, raw)
	}
	t.mu.Unlock()
	if !ok {
		t.log.Warn("recording chunk dropped, no active recording",
			zap.String("room_id", roomID),
			zap.Int64("timestamp", arrivalTS))
	}
}

// Stop finalizes the room's recording: removes the tracker entry, and when at
// least one chunk was received, concatenates the chunks in arrival order and
// writes the file. Returns the written path, or "" when there was no entry or
// no chunks. Stop on a room with no active recording is a no-op.
func (t *Tracker) Stop(roomID string) (string, error) {
	t.mu.Lock()
	rec, ok := t.rooms[roomID]
	if ok {
		delete(t.rooms, roomID)
	}
	t.mu.Unlock()
	if !ok {
		return "", nil
	}

	durMS := time.Since(rec.startedAt).Milliseconds()
	t.log.Info("recording stopped",
		zap.String("room_id", roomID),
		zap.String("file", rec.fileName),
		zap.Int64("duration_sec", (durMS+500)/1000),
		zap.Int("chunks", len(rec.chunks)))

	if len(rec.chunks) == 0 {
		return "", nil
	}
	if err := os.WriteFile(rec.path, bytes.Join(rec.chunks, nil), 0o644); err != nil {
		return "", fmt.Errorf("write recording %s: %w", rec.fileName, err)
	}
	return rec.path, nil
}

// IsActive reports whether the room has an active recording.
func (t *Tracker) IsActive(roomID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.rooms[roomID]
	return ok
}

// ListActive returns room ids with active recordings, sorted.
func (t *Tracker) ListActive() []string {
	t.mu.Lock()
	rooms := make([]string, 0, len(t.rooms))
	for roomID := range t.rooms {
		rooms = append(rooms, roomID)
	}
	t.mu.Unlock()
	sort.Strings(rooms)
	return rooms
}

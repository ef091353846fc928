package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"neuroassess/internal/model"
	"neuroassess/internal/platform/logger"
)

// DefaultSnapshotMaxAge is how long after its start a session may be resumed
const DefaultSnapshotMaxAge = 24 * time.Hour

// PersistenceStore is a key-value store of string blobs
type PersistenceStore interface {
	Save(ctx context.Context, key, blob string) error
	// Load returns ok=false when the key is absent
	Load(ctx context.Context, key string) (blob string, ok bool, err error)
	Remove(ctx context.Context, key string) error
}

// Store persists session snapshots and enforces the restore window
type Store struct {
	backend PersistenceStore
	maxAge  time.Duration
	now     func() time.Time
	log     *logger.Logger
}

// NewStore creates a snapshot store. maxAge <= 0 selects DefaultSnapshotMaxAge.
func NewStore(backend PersistenceStore, maxAge time.Duration, log *logger.Logger) *Store {
	if maxAge <= 0 {
		maxAge = DefaultSnapshotMaxAge
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Store{backend: backend, maxAge: maxAge, now: time.Now, log: log}
}

// SetClock overrides the time source
func (st *Store) SetClock(now func() time.Time) {
	st.now = now
}

// MaxAge returns the restore window
func (st *Store) MaxAge() time.Duration {
	return st.maxAge
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("assessment:session:%s", sessionID)
}

// Save writes a snapshot under its session id
func (st *Store) Save(ctx context.Context, snap *model.SessionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return st.backend.Save(ctx, snapshotKey(snap.SessionID), string(data))
}

// Load reads a snapshot. Absent and stale snapshots both yield nil, nil;
// a stale one is also removed from the backend.
func (st *Store) Load(ctx context.Context, sessionID string) (*model.SessionSnapshot, error) {
	key := snapshotKey(sessionID)
	blob, ok, err := st.backend.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var snap model.SessionSnapshot
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if IsStale(&snap, st.now(), st.maxAge) {
		st.log.Warn("discarding stale session snapshot", "sessionId", sessionID, "startTime", snap.StartTime)
		if err := st.backend.Remove(ctx, key); err != nil {
			st.log.Warn("failed to remove stale snapshot", "sessionId", sessionID, "error", err)
		}
		return nil, nil
	}
	return &snap, nil
}

// Remove deletes a session's snapshot
func (st *Store) Remove(ctx context.Context, sessionID string) error {
	return st.backend.Remove(ctx, snapshotKey(sessionID))
}

// IsStale reports whether a snapshot started more than maxAge before now.
// Snapshots that never started are always stale.
func IsStale(snap *model.SessionSnapshot, now time.Time, maxAge time.Duration) bool {
	if snap == nil || snap.StartTime.IsZero() {
		return true
	}
	return now.Sub(snap.StartTime) > maxAge
}

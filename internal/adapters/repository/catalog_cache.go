package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/workspace"
)

// catalogSnapshot is the on-disk form of one event's catalog
type catalogSnapshot struct {
	EventID      int64                     `json:"eventId"`
	SavedAt      time.Time                 `json:"savedAt"`
	Requirements []domain.AssetRequirement `json:"requirements"`
}

// FileCatalogCache keeps the last fetched requirement catalog of each event as
// a JSON file in the workspace cache directory.
type FileCatalogCache struct {
	ws    *workspace.Workspace
	mu    sync.RWMutex
	cache map[int64]catalogSnapshot
}

func NewFileCatalogCache(ws *workspace.Workspace) *FileCatalogCache {
	return &FileCatalogCache{
		ws:    ws,
		cache: make(map[int64]catalogSnapshot),
	}
}

// load reads a snapshot from disk into memory
func (r *FileCatalogCache) load(eventID int64) (catalogSnapshot, error) {
	data, err := os.ReadFile(r.ws.CatalogSnapshotPath(eventID))
	if err != nil {
		return catalogSnapshot{}, err
	}
	var snap catalogSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return catalogSnapshot{}, fmt.Errorf("corrupt catalog snapshot for event %d: %w", eventID, err)
	}
	return snap, nil
}

// Get returns the cached catalog of an event, or os.ErrNotExist
func (r *FileCatalogCache) Get(ctx context.Context, eventID int64) ([]domain.AssetRequirement, error) {
	r.mu.RLock()
	snap, ok := r.cache[eventID]
	r.mu.RUnlock()

	if !ok {
		loaded, err := r.load(eventID)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[eventID] = loaded
		r.mu.Unlock()
		snap = loaded
	}

	out := make([]domain.AssetRequirement, len(snap.Requirements))
	copy(out, snap.Requirements)
	return out, nil
}

// SavedAt reports when the event's snapshot was written
func (r *FileCatalogCache) SavedAt(ctx context.Context, eventID int64) (time.Time, error) {
	if _, err := r.Get(ctx, eventID); err != nil {
		return time.Time{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cache[eventID].SavedAt, nil
}

// Save replaces the cached catalog of an event
func (r *FileCatalogCache) Save(ctx context.Context, eventID int64, reqs []domain.AssetRequirement) error {
	snap := catalogSnapshot{
		EventID:      eventID,
		SavedAt:      time.Now().UTC(),
		Requirements: append([]domain.AssetRequirement(nil), reqs...),
	}

	r.mu.Lock()
	r.cache[eventID] = snap
	r.mu.Unlock()

	return r.flush(snap)
}

// flush writes a snapshot through a temp file so readers never see a partial file
func (r *FileCatalogCache) flush(snap catalogSnapshot) error {
	path := r.ws.CatalogSnapshotPath(snap.EventID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// ReelTracker remembers which inbox reels were already analyzed so scheduled runs
// do not submit them again. It records submissions only, never reports.
type ReelTracker struct {
	filePath string
	analyzed map[string]time.Time
	mu       sync.RWMutex
	maxAge   time.Duration
}

// TrackedReel is one persisted entry
type TrackedReel struct {
	Key        string    `json:"key"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// NewReelTracker opens (or creates) the tracker file in dataDir
func NewReelTracker(dataDir string, maxAge time.Duration) (*ReelTracker, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	tracker := &ReelTracker{
		filePath: filepath.Join(dataDir, "analyzed_reels.json"),
		analyzed: make(map[string]time.Time),
		maxAge:   maxAge,
	}

	if err := tracker.load(); err != nil {
		return nil, fmt.Errorf("failed to load reel tracker data: %w", err)
	}

	tracker.cleanup()

	return tracker, nil
}

// ReelKey identifies one version of an inbox file; editing or replacing the file yields a new key
func ReelKey(name string, size int64, modTime time.Time) string {
	return fmt.Sprintf("%s:%d:%d", name, size, modTime.UnixNano())
}

// IsAnalyzed checks if a reel was analyzed within maxAge
func (rt *ReelTracker) IsAnalyzed(key string) bool {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	analyzedAt, exists := rt.analyzed[key]
	if !exists {
		return false
	}
	return time.Since(analyzedAt) < rt.maxAge
}

// MarkAnalyzed marks reels as analyzed in one write
func (rt *ReelTracker) MarkAnalyzed(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	now := time.Now()
	for _, key := range keys {
		rt.analyzed[key] = now
	}
	return rt.save()
}

// Count returns the number of tracked reels
func (rt *ReelTracker) Count() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return len(rt.analyzed)
}

func (rt *ReelTracker) cleanup() {
	cutoff := time.Now().Add(-rt.maxAge)

	for key, analyzedAt := range rt.analyzed {
		if analyzedAt.Before(cutoff) {
			delete(rt.analyzed, key)
		}
	}
}

func (rt *ReelTracker) load() error {
	file, err := os.Open(rt.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open tracker file: %w", err)
	}
	defer file.Close()

	var tracked []TrackedReel
	if err := json.NewDecoder(file).Decode(&tracked); err != nil {
		return fmt.Errorf("failed to decode tracker data: %w", err)
	}

	for _, tr := range tracked {
		rt.analyzed[tr.Key] = tr.AnalyzedAt
	}
	return nil
}

// save writes the tracker atomically via a temp file; rt.mu must be held
func (rt *ReelTracker) save() error {
	tracked := make([]TrackedReel, 0, len(rt.analyzed))
	for key, analyzedAt := range rt.analyzed {
		tracked = append(tracked, TrackedReel{Key: key, AnalyzedAt: analyzedAt})
	}
	sort.Slice(tracked, func(i, j int) bool { return tracked[i].Key < tracked[j].Key })

	tmp, err := os.CreateTemp(filepath.Dir(rt.filePath), ".analyzed_reels-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(tracked); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode tracker data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), rt.filePath); err != nil {
		return fmt.Errorf("failed to replace tracker file: %w", err)
	}
	return nil
}

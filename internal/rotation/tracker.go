package rotation

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"autoposter/internal/domain"
)

// Tracker selects assets for publishing and records when they were posted.
type Tracker struct {
	mu      sync.Mutex
	scanner *Scanner
	store   *FileStore
	logger  *slog.Logger
}

func NewTracker(scanner *Scanner, store *FileStore, logger *slog.Logger) *Tracker {
	return &Tracker{
		scanner: scanner,
		store:   store,
		logger:  logger.With("component", "rotation"),
	}
}

// Select returns up to n assets: never-posted ones first in scan order, then
// posted ones from the oldest timestamp. Equal timestamps keep scan order.
func (t *Tracker) Select(n int) ([]domain.Asset, error) {
	if n <= 0 {
		return []domain.Asset{}, nil
	}

	candidates, err := t.scanner.Scan()
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	state := t.store.Load()
	t.mu.Unlock()

	var unposted, posted []domain.Asset
	for _, a := range candidates {
		if ts, ok := state.LastPosted(a.Path); ok {
			a.LastPosted = &ts
			posted = append(posted, a)
		} else {
			unposted = append(unposted, a)
		}
	}

	sort.SliceStable(posted, func(i, j int) bool {
		return posted[i].LastPosted.Before(*posted[j].LastPosted)
	})

	selected := make([]domain.Asset, 0, min(n, len(candidates)))
	selected = append(selected, unposted[:min(n, len(unposted))]...)
	if rest := n - len(selected); rest > 0 {
		selected = append(selected, posted[:min(rest, len(posted))]...)
	}

	t.logger.Debug("assets selected",
		"requested", n,
		"candidates", len(candidates),
		"unposted", len(unposted),
		"selected", len(selected),
	)
	return selected, nil
}

// MarkPosted records at as the last-posted time of path. The state file is
// reloaded under the lock so concurrent callers in this process do not lose
// each other's updates.
func (t *Tracker) MarkPosted(path string, at time.Time) error {
	key := Normalize(t.scanner.Root(), path)

	t.mu.Lock()
	defer t.mu.Unlock()

	state := t.store.Load()
	state[key] = domain.FormatTimestamp(at)

	if err := t.store.Save(state); err != nil {
		return fmt.Errorf("mark %s posted: %w", key, err)
	}

	t.logger.Info("asset marked posted", "path", key, "at", state[key])
	return nil
}

// IsTracked reports whether path takes part in rotation: it already has a
// state entry or it is found by the scanner.
func (t *Tracker) IsTracked(path string) bool {
	key := Normalize(t.scanner.Root(), path)

	t.mu.Lock()
	state := t.store.Load()
	t.mu.Unlock()

	if _, ok := state[key]; ok {
		return true
	}

	candidates, err := t.scanner.Scan()
	if err != nil {
		t.logger.Warn("scan failed while checking tracked path", "path", key, "error", err)
		return false
	}
	for _, a := range candidates {
		if a.Path == key {
			return true
		}
	}
	return false
}

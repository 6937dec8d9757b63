// Package health keeps the last-known outcome per connector across all
// searches, independent of any one search record.
package health

import (
	"sort"
	"sync"
	"time"

	"github.com/mynztrip/faresearch/internal/models"
)

const StatusNeverRun = "never_run"

type entry struct {
	status    models.RunStatus
	latencyMS int64
	lastError string
	checkedAt time.Time
}

type Tracker struct {
	mu         sync.RWMutex
	entries    map[string]entry
	registered []string
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]entry)}
}

// RegisterSources declares the connectors that should appear in the
// health view even before their first run.
func (t *Tracker) RegisterSources(sources ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.registered = append(t.registered, sources...)
}

func (t *Tracker) Record(run models.ConnectorRun) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[run.Source] = entry{
		status:    run.Status,
		latencyMS: run.LatencyMS,
		lastError: run.ErrorMessage,
		checkedAt: time.Now().UTC(),
	}
}

// Snapshot returns one item per known source, sorted by source name.
func (t *Tracker) Snapshot() []models.ConnectorHealthItem {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sources := make(map[string]struct{}, len(t.entries)+len(t.registered))
	for _, s := range t.registered {
		sources[s] = struct{}{}
	}
	for s := range t.entries {
		sources[s] = struct{}{}
	}

	names := make([]string, 0, len(sources))
	for s := range sources {
		names = append(names, s)
	}
	sort.Strings(names)

	out := make([]models.ConnectorHealthItem, 0, len(names))
	for _, name := range names {
		e, ok := t.entries[name]
		if !ok {
			out = append(out, models.ConnectorHealthItem{
				Source: name,
				Status: StatusNeverRun,
			})
			continue
		}
		latency := e.latencyMS
		checked := e.checkedAt
		out = append(out, models.ConnectorHealthItem{
			Source:        name,
			Status:        string(e.status),
			LastLatencyMS: &latency,
			LastError:     e.lastError,
			LastCheckedAt: &checked,
		})
	}
	return out
}

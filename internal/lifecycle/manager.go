// Package lifecycle owns the search state machine: it creates records,
// drives the dispatch/rank/persist pipeline in a goroutine per search,
// coalesces identical in-flight queries through the cache claim, and
// answers poll and offer-detail lookups.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mynztrip/faresearch/internal/cache"
	"github.com/mynztrip/faresearch/internal/connectors"
	"github.com/mynztrip/faresearch/internal/dispatch"
	"github.com/mynztrip/faresearch/internal/health"
	"github.com/mynztrip/faresearch/internal/models"
	"github.com/mynztrip/faresearch/internal/query"
	"github.com/mynztrip/faresearch/internal/ranking"
	"github.com/mynztrip/faresearch/internal/store"
)

// ErrOfferNotFound is returned when a search exists but the offer id
// does not belong to it.
var ErrOfferNotFound = errors.New("offer not found")

// LinkValidator re-verifies booking deep links on completed offers.
type LinkValidator interface {
	Validate(ctx context.Context, url string) bool
}

type Config struct {
	// CacheTTL bounds how long a completed snapshot is served for
	// identical queries.
	CacheTTL time.Duration
	// ClaimTTL bounds the exclusive dispatch claim; it should exceed
	// the overall deadline so a crashed instance cannot pin a
	// fingerprint forever, but not by much.
	ClaimTTL time.Duration
	// OverallDeadline bounds one search end to end.
	OverallDeadline time.Duration
	// DetailTimeout bounds one connector detail fetch.
	DetailTimeout time.Duration
	// AttachPollEvery is how often a coalesced follower polls for the
	// leader's cached result.
	AttachPollEvery time.Duration
}

type Manager struct {
	store      store.Store
	cache      cache.Coordinator
	dispatcher *dispatch.Dispatcher
	registry   *connectors.Registry
	engine     *ranking.Engine
	links      LinkValidator
	health     *health.Tracker
	logger     *zap.Logger
	cfg        Config

	wg sync.WaitGroup
}

func NewManager(
	st store.Store,
	c cache.Coordinator,
	d *dispatch.Dispatcher,
	reg *connectors.Registry,
	engine *ranking.Engine,
	links LinkValidator,
	tracker *health.Tracker,
	logger *zap.Logger,
	cfg Config,
) *Manager {
	if cfg.AttachPollEvery <= 0 {
		cfg.AttachPollEvery = 100 * time.Millisecond
	}
	return &Manager{
		store:      st,
		cache:      c,
		dispatcher: d,
		registry:   reg,
		engine:     engine,
		links:      links,
		health:     tracker,
		logger:     logger,
		cfg:        cfg,
	}
}

// Create validates the query, persists the queued record synchronously
// so the caller can poll immediately, and launches the search
// goroutine.
func (m *Manager) Create(ctx context.Context, raw models.SearchQuery) (*models.SearchRecord, error) {
	q, err := query.Normalize(raw)
	if err != nil {
		return nil, err
	}

	record := &models.SearchRecord{
		ID:            uuid.NewString(),
		Query:         q,
		Status:        models.StatusQueued,
		CreatedAt:     time.Now().UTC(),
		Alternatives:  []models.Offer{},
		ConnectorRuns: []models.ConnectorRun{},
		Failures:      []models.ConnectorFailure{},
	}
	if err := m.store.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("persist queued search: %w", err)
	}

	fingerprint := query.Fingerprint(q)
	m.wg.Add(1)
	go m.run(record.Clone(), fingerprint)

	return record, nil
}

// Get returns the latest persisted snapshot in whatever state it is.
func (m *Manager) Get(ctx context.Context, searchID string) (*models.SearchRecord, error) {
	return m.store.Get(ctx, searchID)
}

// Shutdown waits for in-flight search goroutines to finish.
func (m *Manager) Shutdown() {
	m.wg.Wait()
}

func (m *Manager) run(record *models.SearchRecord, fingerprint string) {
	defer m.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 2*m.cfg.OverallDeadline)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("search panicked", zap.String("search_id", record.ID), zap.Any("panic", r))
			m.markFailed(ctx, record.ID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := m.transition(ctx, record, models.StatusRunning); err != nil {
		m.logger.Error("failed to mark search running", zap.String("search_id", record.ID), zap.Error(err))
		m.markFailed(ctx, record.ID, err.Error())
		return
	}

	holder, acquired := m.cache.Claim(ctx, fingerprint, record.ID, m.cfg.ClaimTTL)
	if !acquired {
		m.logger.Info("attaching to in-flight search",
			zap.String("search_id", record.ID),
			zap.String("leader_search_id", holder),
			zap.String("fingerprint", fingerprint))
		switch m.attach(ctx, record, fingerprint) {
		case attachCompleted:
			return
		case attachClaimed:
			// Leader released without caching (empty result or fault);
			// the claim is ours now, fall through and dispatch.
		default:
			// Leader never finished within our window; dispatch
			// uncoalesced rather than keep the caller waiting.
			m.execute(ctx, record, fingerprint, false)
			return
		}
	}
	defer m.cache.Release(ctx, fingerprint)

	if snapshot, ok := m.cache.Lookup(ctx, fingerprint); ok {
		m.logger.Info("search served from cache", zap.String("search_id", record.ID))
		m.completeFromSnapshot(ctx, record, snapshot)
		return
	}

	m.execute(ctx, record, fingerprint, true)
}

// execute runs the dispatch/rank/persist pipeline. Connector-side
// failure never fails the search: all-failed completes with zero
// offers and full diagnostics.
func (m *Manager) execute(ctx context.Context, record *models.SearchRecord, fingerprint string, cacheResult bool) {
	conns := m.registry.Build(record.Query.Sources)
	if len(conns) == 0 {
		m.markFailed(ctx, record.ID, "no connectors available for requested sources")
		return
	}

	results := m.dispatcher.Dispatch(ctx, record.Query, conns)

	var raws []connectors.RawOffer
	runs := make([]models.ConnectorRun, 0, len(results))
	failures := make([]models.ConnectorFailure, 0)
	for _, res := range results {
		runs = append(runs, res.Run)
		m.health.Record(res.Run)
		if res.Run.Status == models.RunOK {
			raws = append(raws, res.Offers...)
			continue
		}
		message := res.Run.ErrorMessage
		if message == "" {
			message = "connector failed"
		}
		failures = append(failures, models.ConnectorFailure{
			Source:  res.Run.Source,
			Status:  string(res.Run.Status),
			Message: message,
		})
	}

	offers := m.engine.Build(ctx, raws, record.Query)
	m.verifyLinks(ctx, offers)

	now := time.Now().UTC()
	record.PriceLastCheckedAt = &now
	record.ConnectorRuns = runs
	record.Failures = failures
	record.Alternatives = []models.Offer{}
	record.CheapestFlight = nil
	if len(offers) > 0 {
		record.CheapestFlight = &offers[0]
		record.Alternatives = offers[1:]
	}

	if err := m.transition(ctx, record, models.StatusCompleted); err != nil {
		m.markFailed(ctx, record.ID, "persist completed search: "+err.Error())
		return
	}

	m.logger.Info("search completed",
		zap.String("search_id", record.ID),
		zap.Int("offers", len(offers)),
		zap.Int("connectors", len(conns)))

	// Empty results are not cached so a transient outage does not pin
	// "no fares" for a full TTL.
	if cacheResult && len(offers) > 0 {
		if err := m.cache.Store(ctx, fingerprint, record, m.cfg.CacheTTL); err != nil {
			m.logger.Warn("failed to cache search result", zap.String("search_id", record.ID), zap.Error(err))
		}
	}
}

type attachResult int

const (
	attachTimedOut attachResult = iota
	attachCompleted
	attachClaimed
)

// attach polls until the leader's cached snapshot appears or the
// leader's claim frees up, bounded by the overall deadline. A freed
// claim means the leader finished without caching anything, so the
// follower takes over the slot instead of waiting out the deadline.
func (m *Manager) attach(ctx context.Context, record *models.SearchRecord, fingerprint string) attachResult {
	deadline := time.Now().Add(m.cfg.OverallDeadline)
	ticker := time.NewTicker(m.cfg.AttachPollEvery)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		if snapshot, ok := m.cache.Lookup(ctx, fingerprint); ok {
			m.completeFromSnapshot(ctx, record, snapshot)
			return attachCompleted
		}
		if _, acquired := m.cache.Claim(ctx, fingerprint, record.ID, m.cfg.ClaimTTL); acquired {
			return attachClaimed
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return attachTimedOut
		}
	}
	return attachTimedOut
}

// completeFromSnapshot copies a cached result onto this search record.
// Offer ids are preserved so detail lookups resolve identically for
// every coalesced caller.
func (m *Manager) completeFromSnapshot(ctx context.Context, record *models.SearchRecord, snapshot *models.SearchRecord) {
	record.CheapestFlight = snapshot.CheapestFlight
	record.Alternatives = snapshot.Alternatives
	record.ConnectorRuns = snapshot.ConnectorRuns
	record.Failures = snapshot.Failures
	record.PriceLastCheckedAt = snapshot.PriceLastCheckedAt
	if record.Alternatives == nil {
		record.Alternatives = []models.Offer{}
	}

	if err := m.transition(ctx, record, models.StatusCompleted); err != nil {
		m.markFailed(ctx, record.ID, "persist cached search: "+err.Error())
	}
}

func (m *Manager) verifyLinks(ctx context.Context, offers []models.Offer) {
	if len(offers) == 0 {
		return
	}
	var wg sync.WaitGroup
	for i := range offers {
		wg.Add(1)
		go func(offer *models.Offer) {
			defer wg.Done()
			offer.DeepLinkValid = m.links.Validate(ctx, offer.BookingURL)
		}(&offers[i])
	}
	wg.Wait()
}

// transition enforces the one-way state machine. Re-persisting the
// same terminal state is a no-op, not an error.
func (m *Manager) transition(ctx context.Context, record *models.SearchRecord, next models.SearchStatus) error {
	if record.Status == next && next.Terminal() {
		return nil
	}
	if !validTransition(record.Status, next) {
		return fmt.Errorf("invalid transition %s -> %s", record.Status, next)
	}
	record.Status = next
	return m.store.Upsert(ctx, record)
}

func validTransition(from, to models.SearchStatus) bool {
	switch from {
	case models.StatusQueued:
		return to == models.StatusRunning || to == models.StatusFailed
	case models.StatusRunning:
		return to.Terminal()
	default:
		return false
	}
}

// markFailed records an orchestration-level fault. Connector failures
// never reach this path.
func (m *Manager) markFailed(ctx context.Context, searchID, message string) {
	record, err := m.store.Get(ctx, searchID)
	if err != nil {
		m.logger.Error("cannot mark search failed", zap.String("search_id", searchID), zap.Error(err))
		return
	}
	if record.Status.Terminal() {
		return
	}
	record.Status = models.StatusFailed
	record.ErrorMessage = message
	if err := m.store.Upsert(ctx, record); err != nil {
		m.logger.Error("failed to persist failed search", zap.String("search_id", searchID), zap.Error(err))
	}
}

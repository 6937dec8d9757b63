package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mynztrip/faresearch/internal/connectors"
	"github.com/mynztrip/faresearch/internal/models"
)

type stubConnector struct {
	name     string
	delay    time.Duration
	offers   []connectors.RawOffer
	err      error
	failures int32 // fail this many calls before succeeding
	calls    int32
}

func (s *stubConnector) Name() string { return s.name }

func (s *stubConnector) Search(ctx context.Context, q models.SearchQuery) ([]connectors.RawOffer, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if atomic.LoadInt32(&s.failures) > 0 {
		atomic.AddInt32(&s.failures, -1)
		return nil, errors.New("transient failure")
	}
	return s.offers, nil
}

func testQuery() models.SearchQuery {
	return models.SearchQuery{
		Origin:        "KUL",
		Destination:   "BKK",
		DepartureDate: "2026-03-20",
		Sources:       []string{"a", "b"},
	}
}

func testConfig() Config {
	return Config{
		ConnectorTimeout: 100 * time.Millisecond,
		OverallDeadline:  time.Second,
		MaxAttempts:      1,
		MaxParallel:      4,
	}
}

func oneOffer(source string) []connectors.RawOffer {
	return []connectors.RawOffer{{
		Source:        source,
		Airline:       "AirAsia",
		FlightNumbers: []string{"AK 882"},
		TotalPrice:    312,
		Currency:      "MYR",
	}}
}

func TestDispatchAllSucceed(t *testing.T) {
	d := NewDispatcher(testConfig(), zap.NewNop())
	conns := []connectors.Connector{
		&stubConnector{name: "a", offers: oneOffer("a")},
		&stubConnector{name: "b", offers: oneOffer("b")},
	}

	results := d.Dispatch(context.Background(), testQuery(), conns)

	require.Len(t, results, 2)
	for i, res := range results {
		assert.Equal(t, conns[i].Name(), res.Run.Source)
		assert.Equal(t, models.RunOK, res.Run.Status)
		assert.Equal(t, 1, res.Run.OfferCount)
		assert.Len(t, res.Offers, 1)
	}
}

func TestDispatchPartialFailure(t *testing.T) {
	d := NewDispatcher(testConfig(), zap.NewNop())
	conns := []connectors.Connector{
		&stubConnector{name: "ok", offers: oneOffer("ok")},
		&stubConnector{name: "broken", err: errors.New("selector drift")},
	}

	results := d.Dispatch(context.Background(), testQuery(), conns)

	require.Len(t, results, 2)
	assert.Equal(t, models.RunOK, results[0].Run.Status)
	assert.Equal(t, models.RunError, results[1].Run.Status)
	assert.Contains(t, results[1].Run.ErrorMessage, "selector drift")
	assert.Empty(t, results[1].Offers)
}

func TestDispatchConnectorTimeout(t *testing.T) {
	d := NewDispatcher(testConfig(), zap.NewNop())
	conns := []connectors.Connector{
		&stubConnector{name: "slow", delay: 500 * time.Millisecond, offers: oneOffer("slow")},
		&stubConnector{name: "fast", offers: oneOffer("fast")},
	}

	results := d.Dispatch(context.Background(), testQuery(), conns)

	require.Len(t, results, 2)
	assert.Equal(t, models.RunTimeout, results[0].Run.Status)
	assert.Contains(t, results[0].Run.ErrorMessage, "timed out after 100ms")
	assert.Empty(t, results[0].Offers)
	assert.Equal(t, models.RunOK, results[1].Run.Status)
}

func TestDispatchOverallDeadline(t *testing.T) {
	cfg := testConfig()
	cfg.OverallDeadline = 50 * time.Millisecond
	cfg.ConnectorTimeout = time.Second
	d := NewDispatcher(cfg, zap.NewNop())

	conns := []connectors.Connector{
		&stubConnector{name: "outstanding", delay: 500 * time.Millisecond, offers: oneOffer("outstanding")},
	}

	started := time.Now()
	results := d.Dispatch(context.Background(), testQuery(), conns)

	assert.Less(t, time.Since(started), 300*time.Millisecond)
	require.Len(t, results, 1)
	assert.Equal(t, models.RunTimeout, results[0].Run.Status)
	assert.Contains(t, results[0].Run.ErrorMessage, "overall search deadline reached")
}

func TestDispatchRetriesTransientFailure(t *testing.T) {
	cfg := testConfig()
	cfg.MaxAttempts = 2
	d := NewDispatcher(cfg, zap.NewNop())

	conn := &stubConnector{name: "flaky", offers: oneOffer("flaky"), failures: 1}
	results := d.Dispatch(context.Background(), testQuery(), []connectors.Connector{conn})

	require.Len(t, results, 1)
	assert.Equal(t, models.RunOK, results[0].Run.Status)
	assert.Equal(t, int32(2), atomic.LoadInt32(&conn.calls))
}

func TestDispatchAllFail(t *testing.T) {
	d := NewDispatcher(testConfig(), zap.NewNop())
	conns := []connectors.Connector{
		&stubConnector{name: "a", err: errors.New("down")},
		&stubConnector{name: "b", delay: 500 * time.Millisecond},
	}

	results := d.Dispatch(context.Background(), testQuery(), conns)

	require.Len(t, results, 2)
	assert.Equal(t, models.RunError, results[0].Run.Status)
	assert.Equal(t, models.RunTimeout, results[1].Run.Status)
}

func TestDispatchResultsFollowInputOrder(t *testing.T) {
	d := NewDispatcher(testConfig(), zap.NewNop())
	conns := []connectors.Connector{
		&stubConnector{name: "slowest", delay: 60 * time.Millisecond, offers: oneOffer("slowest")},
		&stubConnector{name: "middle", delay: 30 * time.Millisecond, offers: oneOffer("middle")},
		&stubConnector{name: "fastest", offers: oneOffer("fastest")},
	}

	results := d.Dispatch(context.Background(), testQuery(), conns)

	require.Len(t, results, 3)
	assert.Equal(t, "slowest", results[0].Run.Source)
	assert.Equal(t, "middle", results[1].Run.Source)
	assert.Equal(t, "fastest", results[2].Run.Source)
}

func TestDispatchBoundedParallelism(t *testing.T) {
	cfg := testConfig()
	cfg.MaxParallel = 1
	d := NewDispatcher(cfg, zap.NewNop())

	var running, peak int32
	mk := func(name string) connectors.Connector {
		return &gaugeConnector{name: name, running: &running, peak: &peak}
	}

	results := d.Dispatch(context.Background(), testQuery(), []connectors.Connector{mk("a"), mk("b"), mk("c")})

	require.Len(t, results, 3)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(1))
}

type gaugeConnector struct {
	name    string
	running *int32
	peak    *int32
}

func (g *gaugeConnector) Name() string { return g.name }

func (g *gaugeConnector) Search(ctx context.Context, q models.SearchQuery) ([]connectors.RawOffer, error) {
	n := atomic.AddInt32(g.running, 1)
	for {
		p := atomic.LoadInt32(g.peak)
		if n <= p || atomic.CompareAndSwapInt32(g.peak, p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	atomic.AddInt32(g.running, -1)
	return nil, nil
}

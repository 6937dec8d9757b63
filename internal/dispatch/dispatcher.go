// Package dispatch fans a canonical query out to the selected
// connectors concurrently, isolating per-connector failure and
// timeouts behind a single overall search deadline.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mynztrip/faresearch/internal/connectors"
	"github.com/mynztrip/faresearch/internal/models"
	"github.com/mynztrip/faresearch/internal/ratelimit"
)

type Config struct {
	// ConnectorTimeout bounds one connector attempt.
	ConnectorTimeout time.Duration
	// OverallDeadline bounds the whole fan-out; connectors still
	// outstanding when it expires are recorded as timeout.
	OverallDeadline time.Duration
	// MaxAttempts is the total tries per connector (>= 1).
	MaxAttempts int
	// MaxParallel caps concurrent connector calls. Zero means one
	// goroutine per connector with no cap.
	MaxParallel int
	RateLimiter *ratelimit.SourceLimiter
}

// RunResult pairs one connector's diagnostic run with the raw offers it
// produced. Offers are empty unless the run status is ok.
type RunResult struct {
	Run    models.ConnectorRun
	Offers []connectors.RawOffer
}

type Dispatcher struct {
	config Config
	logger *zap.Logger
}

func NewDispatcher(config Config, logger *zap.Logger) *Dispatcher {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &Dispatcher{config: config, logger: logger}
}

// Dispatch invokes every connector concurrently and waits for the full
// batch or the overall deadline, whichever comes first. Results are
// ordered by the input connector order regardless of completion order,
// and a connector failure never aborts the batch.
func (d *Dispatcher) Dispatch(ctx context.Context, q models.SearchQuery, conns []connectors.Connector) []RunResult {
	searchCtx, cancel := context.WithTimeout(ctx, d.config.OverallDeadline)
	defer cancel()

	results := make([]RunResult, len(conns))

	var sem chan struct{}
	if d.config.MaxParallel > 0 {
		sem = make(chan struct{}, d.config.MaxParallel)
	}

	var wg sync.WaitGroup
	for i, c := range conns {
		wg.Add(1)
		go func(idx int, conn connectors.Connector) {
			defer wg.Done()

			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-searchCtx.Done():
					results[idx] = RunResult{Run: models.ConnectorRun{
						Source:       conn.Name(),
						Status:       models.RunTimeout,
						ErrorMessage: "overall search deadline reached before dispatch",
					}}
					return
				}
			}

			results[idx] = d.runOne(searchCtx, conn, q)
		}(i, c)
	}
	wg.Wait()

	return results
}

func (d *Dispatcher) runOne(ctx context.Context, conn connectors.Connector, q models.SearchQuery) RunResult {
	started := time.Now()

	if d.config.RateLimiter != nil {
		if err := d.config.RateLimiter.Wait(ctx, conn.Name()); err != nil {
			return d.failedRun(ctx, conn.Name(), started, err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < d.config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}

		attemptCtx, cancel := context.WithTimeout(ctx, d.config.ConnectorTimeout)
		offers, err := conn.Search(attemptCtx, q)
		cancel()

		if err == nil {
			return RunResult{
				Run: models.ConnectorRun{
					Source:     conn.Name(),
					Status:     models.RunOK,
					LatencyMS:  time.Since(started).Milliseconds(),
					OfferCount: len(offers),
				},
				Offers: offers,
			}
		}

		lastErr = err
		d.logger.Warn("connector attempt failed",
			zap.String("source", conn.Name()),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}

	return d.failedRun(ctx, conn.Name(), started, lastErr)
}

// failedRun classifies a terminal connector error. Partial output from
// a timed-out attempt is discarded. A deadline error is attributed to
// the overall search deadline when the search context itself expired,
// and to the per-connector timeout otherwise.
func (d *Dispatcher) failedRun(ctx context.Context, source string, started time.Time, err error) RunResult {
	status := models.RunError
	message := "connector failed"
	if err != nil {
		message = err.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		status = models.RunTimeout
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			message = "overall search deadline reached"
		} else {
			message = "timed out after " + d.config.ConnectorTimeout.String()
		}
	}

	return RunResult{Run: models.ConnectorRun{
		Source:       source,
		Status:       status,
		LatencyMS:    time.Since(started).Milliseconds(),
		ErrorMessage: message,
	}}
}

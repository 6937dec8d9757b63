// Package fx resolves exchange rates so offer prices can be compared
// and served in the query currency. Rates are fetched per currency pair
// and cached with a TTL.
package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const DefaultEndpoint = "https://api.frankfurter.app/latest"

type Config struct {
	Endpoint string
	// TTL bounds how long a fetched rate is reused.
	TTL     time.Duration
	Timeout time.Duration
}

type cachedRate struct {
	rate      float64
	expiresAt time.Time
}

type Service struct {
	endpoint string
	ttl      time.Duration
	client   *http.Client

	mu    sync.Mutex
	rates map[string]cachedRate
}

func NewService(cfg Config) *Service {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Service{
		endpoint: cfg.Endpoint,
		ttl:      cfg.TTL,
		client:   &http.Client{Timeout: cfg.Timeout},
		rates:    make(map[string]cachedRate),
	}
}

// Rate returns the multiplier that converts one unit of from into to.
func (s *Service) Rate(ctx context.Context, from, to string) (float64, error) {
	source := strings.ToUpper(from)
	target := strings.ToUpper(to)
	if source == target {
		return 1, nil
	}

	key := source + "/" + target
	s.mu.Lock()
	cached, ok := s.rates[key]
	s.mu.Unlock()
	if ok && time.Now().Before(cached.expiresAt) {
		return cached.rate, nil
	}

	rate, err := s.fetchRate(ctx, source, target)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.rates[key] = cachedRate{rate: rate, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return rate, nil
}

// Convert converts an amount into the target currency, rounded to
// cents.
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	source := strings.ToUpper(from)
	target := strings.ToUpper(to)
	if source == target {
		return roundCents(amount), nil
	}

	rate, err := s.Rate(ctx, source, target)
	if err != nil {
		return 0, err
	}
	return roundCents(amount * rate), nil
}

func (s *Service) fetchRate(ctx context.Context, source, target string) (float64, error) {
	query := url.Values{"from": {source}, "to": {target}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch fx rate %s to %s: %w", source, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch fx rate %s to %s: status %d", source, target, resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode fx rate payload: %w", err)
	}

	rate, ok := payload.Rates[target]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("fx rate unavailable from %s to %s", source, target)
	}
	return rate, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

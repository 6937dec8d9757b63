package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"

	"github.com/mynztrip/faresearch/internal/models"
	"github.com/mynztrip/faresearch/internal/timezone"
)

var ErrMynztripUnavailable = errors.New("temporary service unavailable")

type mynztripResponse struct {
	Results []mynztripResult `json:"results"`
}

type mynztripResult struct {
	Ref            string        `json:"ref"`
	Airline        string        `json:"airline"`
	Flights        []string      `json:"flights"`
	Route          mynztripRoute `json:"route"`
	DepartureLocal string        `json:"departure_local"`
	ArrivalLocal   string        `json:"arrival_local"`
	StopCount      int           `json:"stop_count"`
	Cabin          string        `json:"cabin"`
	FareRules      string        `json:"fare_rules"`
	Price          mynztripPrice `json:"price"`
	Link           string        `json:"link"`
}

type mynztripRoute struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type mynztripPrice struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// MynztripConnector serves fares from the bundled mynztrip dataset.
// The source reports zone-less local timestamps, so departure and
// arrival are resolved against the airport's timezone. It is the flaky
// source: a small fraction of calls fail outright.
type MynztripConnector struct {
	results     []mynztripResult
	failureRate float64
}

func NewMynztripConnector(dataset []byte) (*MynztripConnector, error) {
	var resp mynztripResponse
	if err := json.Unmarshal(dataset, &resp); err != nil {
		return nil, NewConnectorError("mynztrip", err)
	}
	return &MynztripConnector{results: resp.Results, failureRate: 0.05}, nil
}

func (c *MynztripConnector) Name() string {
	return "mynztrip"
}

func (c *MynztripConnector) Search(ctx context.Context, q models.SearchQuery) ([]RawOffer, error) {
	if err := simulateLatency(ctx, 15, 40); err != nil {
		return nil, err
	}

	if rand.Float64() < c.failureRate {
		return nil, NewConnectorError(c.Name(), ErrMynztripUnavailable)
	}

	var results []RawOffer
	for _, r := range c.results {
		if !strings.EqualFold(r.Route.From, q.Origin) || !strings.EqualFold(r.Route.To, q.Destination) {
			continue
		}
		if !strings.EqualFold(r.Cabin, string(q.Cabin)) {
			continue
		}
		dep, err := timezone.ParseLocalAtAirport(r.DepartureLocal, r.Route.From)
		if err != nil || dep.Format("2006-01-02") != q.DepartureDate {
			continue
		}
		arr, err := timezone.ParseLocalAtAirport(r.ArrivalLocal, r.Route.To)
		if err != nil {
			continue
		}

		results = append(results, RawOffer{
			Source:          c.Name(),
			Airline:         r.Airline,
			FlightNumbers:   append([]string(nil), r.Flights...),
			Origin:          r.Route.From,
			Destination:     r.Route.To,
			DepartureAt:     dep,
			ArrivalAt:       arr,
			Stops:           r.StopCount,
			DurationMinutes: int(arr.Sub(dep).Minutes()),
			Cabin:           r.Cabin,
			FareRules:       r.FareRules,
			TotalPrice:      r.Price.Amount,
			Currency:        r.Price.Currency,
			BookingURL:      r.Link,
			RawPayload:      map[string]any{"ref": r.Ref},
		})
	}
	return results, nil
}

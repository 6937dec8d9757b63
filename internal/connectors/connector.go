// Package connectors defines the capability contract every fare source
// implements and the fixture-backed connectors bundled with the server.
package connectors

import (
	"context"
	"time"

	"github.com/mynztrip/faresearch/internal/models"
)

// RawOffer is a source-reported fare before normalization. Optional
// fields are left zero when the source does not report them.
type RawOffer struct {
	Source          string
	Airline         string
	FlightNumbers   []string
	Origin          string
	Destination     string
	DepartureAt     time.Time
	ArrivalAt       time.Time
	Stops           int
	DurationMinutes int
	Cabin           string
	FareBrand       string
	Baggage         string
	FareRules       string
	BasePrice       *float64
	Taxes           *float64
	Fees            *float64
	TotalPrice      float64
	Currency        string
	BookingURL      string
	RawPayload      map[string]any
}

// Connector retrieves fares from one source. Implementations must honor
// the caller's context deadline and never block indefinitely.
type Connector interface {
	Name() string
	Search(ctx context.Context, q models.SearchQuery) ([]RawOffer, error)
}

// OfferDetail carries the lazily fetched fields a source can resolve
// for a single offer after the initial search only produced a summary.
type OfferDetail struct {
	FareBrand  string
	FareRules  string
	BasePrice  *float64
	Taxes      *float64
	Fees       *float64
	RawPayload map[string]any
}

// DetailFetcher is the optional detail capability of a connector.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, offer models.Offer) (*OfferDetail, error)
}

type ConnectorError struct {
	Source string
	Err    error
}

func (e *ConnectorError) Error() string {
	return e.Source + ": " + e.Err.Error()
}

func (e *ConnectorError) Unwrap() error {
	return e.Err
}

func NewConnectorError(source string, err error) *ConnectorError {
	return &ConnectorError{Source: source, Err: err}
}

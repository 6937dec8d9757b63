package models

import "time"

// Offer is the canonical fare offer shape every connector result is
// translated into. Optional fields (cabin, baggage, fare rules, fare
// brand, price breakdown) stay unset when a source does not report
// them; the API layer decides how to render the gaps.
type Offer struct {
	ID              string    `json:"offer_id"`
	Source          string    `json:"source"`
	Airline         string    `json:"airline"`
	FlightNumbers   []string  `json:"flight_numbers"`
	DepartureAt     time.Time `json:"departure_at"`
	ArrivalAt       time.Time `json:"arrival_at"`
	Stops           int       `json:"stops"`
	DurationMinutes int       `json:"duration_minutes"`
	Cabin           string    `json:"cabin,omitempty"`
	Baggage         string    `json:"baggage,omitempty"`
	FareRules       string    `json:"fare_rules,omitempty"`
	FareBrand       string    `json:"fare_brand,omitempty"`
	BasePrice       *float64  `json:"base_price,omitempty"`
	Taxes           *float64  `json:"taxes,omitempty"`
	Fees            *float64  `json:"fees,omitempty"`
	TotalPrice      float64   `json:"total_price"`
	PriceFormatted  string    `json:"price_formatted"`
	Currency        string    `json:"currency"`
	BookingURL      string    `json:"booking_url"`
	DeepLinkValid   bool      `json:"deep_link_valid"`
}

// OfferDetail is the richer per-offer view served by the offer detail
// endpoint. Detail resolution may augment it with lazily fetched fields
// from the originating connector; the stored record is never mutated.
type OfferDetail struct {
	Offer
	RawPayload map[string]any `json:"raw_payload,omitempty"`
}

type RunStatus string

const (
	RunOK      RunStatus = "ok"
	RunError   RunStatus = "error"
	RunTimeout RunStatus = "timeout"
)

// ConnectorRun is the diagnostic record for one connector within one
// search. Exactly one is produced per dispatched connector.
type ConnectorRun struct {
	Source       string    `json:"source"`
	Status       RunStatus `json:"status"`
	LatencyMS    int64     `json:"latency_ms"`
	OfferCount   int       `json:"offer_count"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

type ConnectorFailure struct {
	Source  string `json:"source"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

package models

import "time"

type SearchStatus string

const (
	StatusQueued    SearchStatus = "queued"
	StatusRunning   SearchStatus = "running"
	StatusCompleted SearchStatus = "completed"
	StatusFailed    SearchStatus = "failed"
)

// Terminal reports whether the status ends the search lifecycle.
func (s SearchStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// SearchRecord is the full state of one search. It is owned by the
// lifecycle manager and only changes through its state transitions;
// records are superseded by new search ids, never deleted.
type SearchRecord struct {
	ID                 string             `json:"search_id"`
	Query              SearchQuery        `json:"query"`
	Status             SearchStatus       `json:"status"`
	CreatedAt          time.Time          `json:"created_at"`
	PriceLastCheckedAt *time.Time         `json:"price_last_checked_at,omitempty"`
	CheapestFlight     *Offer             `json:"cheapest_flight,omitempty"`
	Alternatives       []Offer            `json:"alternatives"`
	ConnectorRuns      []ConnectorRun     `json:"connector_runs"`
	Failures           []ConnectorFailure `json:"failures"`
	ErrorMessage       string             `json:"error_message,omitempty"`
}

// Clone returns a deep copy so callers can hand out snapshots without
// racing the search goroutine that still owns the record.
func (r *SearchRecord) Clone() *SearchRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Query.Sources = append([]string(nil), r.Query.Sources...)
	if r.PriceLastCheckedAt != nil {
		t := *r.PriceLastCheckedAt
		out.PriceLastCheckedAt = &t
	}
	if r.CheapestFlight != nil {
		c := r.CheapestFlight.clone()
		out.CheapestFlight = &c
	}
	out.Alternatives = make([]Offer, len(r.Alternatives))
	for i, o := range r.Alternatives {
		out.Alternatives[i] = o.clone()
	}
	out.ConnectorRuns = append([]ConnectorRun(nil), r.ConnectorRuns...)
	out.Failures = append([]ConnectorFailure(nil), r.Failures...)
	return &out
}

// Offers returns the ranked offers, cheapest first.
func (r *SearchRecord) Offers() []Offer {
	if r.CheapestFlight == nil {
		return nil
	}
	out := make([]Offer, 0, 1+len(r.Alternatives))
	out = append(out, *r.CheapestFlight)
	out = append(out, r.Alternatives...)
	return out
}

func (o Offer) clone() Offer {
	out := o
	out.FlightNumbers = append([]string(nil), o.FlightNumbers...)
	out.BasePrice = cloneFloat(o.BasePrice)
	out.Taxes = cloneFloat(o.Taxes)
	out.Fees = cloneFloat(o.Fees)
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

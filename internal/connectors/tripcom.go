package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/mynztrip/faresearch/internal/models"
)

var ErrTripComOfferGone = errors.New("itinerary no longer available")

type tripcomResponse struct {
	Itineraries []tripcomItinerary `json:"itineraries"`
}

type tripcomItinerary struct {
	ItineraryID    string           `json:"itinerary_id"`
	Carrier        tripcomCarrier   `json:"carrier"`
	Segments       []tripcomSegment `json:"segments"`
	StopCount      int              `json:"stop_count"`
	CabinClass     string           `json:"cabin_class"`
	Fare           tripcomFare      `json:"fare"`
	Baggage        string           `json:"baggage_allowance"`
	FareConditions string           `json:"fare_conditions"`
	Deeplink       string           `json:"deeplink"`
}

type tripcomCarrier struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type tripcomSegment struct {
	FlightNo string `json:"flight_no"`
	From     string `json:"from"`
	To       string `json:"to"`
	Depart   string `json:"depart"`
	Arrive   string `json:"arrive"`
}

type tripcomFare struct {
	Brand    string  `json:"brand"`
	Base     float64 `json:"base"`
	Taxes    float64 `json:"taxes"`
	Fees     float64 `json:"fees"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// TripComConnector serves fares from the bundled trip_com dataset. It
// reports a full price breakdown and fare brand, and implements the
// detail capability.
type TripComConnector struct {
	itineraries []tripcomItinerary
}

func NewTripComConnector(dataset []byte) (*TripComConnector, error) {
	var resp tripcomResponse
	if err := json.Unmarshal(dataset, &resp); err != nil {
		return nil, NewConnectorError("trip_com", err)
	}
	return &TripComConnector{itineraries: resp.Itineraries}, nil
}

func (c *TripComConnector) Name() string {
	return "trip_com"
}

func (c *TripComConnector) Search(ctx context.Context, q models.SearchQuery) ([]RawOffer, error) {
	if err := simulateLatency(ctx, 10, 30); err != nil {
		return nil, err
	}

	var results []RawOffer
	for _, it := range c.itineraries {
		if !itineraryMatches(it, q) {
			continue
		}
		offer, err := c.normalize(it)
		if err != nil {
			continue
		}
		results = append(results, offer)
	}
	return results, nil
}

// FetchDetail re-derives the fare breakdown for one previously returned
// offer, as the live site would on the itinerary detail page.
func (c *TripComConnector) FetchDetail(ctx context.Context, offer models.Offer) (*OfferDetail, error) {
	if err := simulateLatency(ctx, 5, 15); err != nil {
		return nil, err
	}

	for _, it := range c.itineraries {
		if !sameFlights(flightNumbers(it.Segments), offer.FlightNumbers) {
			continue
		}
		dep, err := parseOfferTime(it.Segments[0].Depart)
		if err != nil || !dep.Equal(offer.DepartureAt) {
			continue
		}
		base, taxes, fees := it.Fare.Base, it.Fare.Taxes, it.Fare.Fees
		return &OfferDetail{
			FareBrand: it.Fare.Brand,
			FareRules: it.FareConditions,
			BasePrice: &base,
			Taxes:     &taxes,
			Fees:      &fees,
			RawPayload: map[string]any{
				"itinerary_id":    it.ItineraryID,
				"fare_brand":      it.Fare.Brand,
				"fare_conditions": it.FareConditions,
			},
		}, nil
	}
	return nil, NewConnectorError("trip_com", ErrTripComOfferGone)
}

func (c *TripComConnector) normalize(it tripcomItinerary) (RawOffer, error) {
	if len(it.Segments) == 0 {
		return RawOffer{}, errors.New("itinerary without segments")
	}
	first := it.Segments[0]
	last := it.Segments[len(it.Segments)-1]

	dep, err := parseOfferTime(first.Depart)
	if err != nil {
		return RawOffer{}, err
	}
	arr, err := parseOfferTime(last.Arrive)
	if err != nil {
		return RawOffer{}, err
	}

	base, taxes, fees := it.Fare.Base, it.Fare.Taxes, it.Fare.Fees
	return RawOffer{
		Source:          c.Name(),
		Airline:         it.Carrier.Name,
		FlightNumbers:   flightNumbers(it.Segments),
		Origin:          first.From,
		Destination:     last.To,
		DepartureAt:     dep,
		ArrivalAt:       arr,
		Stops:           it.StopCount,
		DurationMinutes: int(arr.Sub(dep).Minutes()),
		Cabin:           it.CabinClass,
		FareBrand:       it.Fare.Brand,
		Baggage:         it.Baggage,
		FareRules:       it.FareConditions,
		BasePrice:       &base,
		Taxes:           &taxes,
		Fees:            &fees,
		TotalPrice:      it.Fare.Total,
		Currency:        it.Fare.Currency,
		BookingURL:      it.Deeplink,
		RawPayload: map[string]any{
			"itinerary_id": it.ItineraryID,
			"carrier_code": it.Carrier.Code,
		},
	}, nil
}

func itineraryMatches(it tripcomItinerary, q models.SearchQuery) bool {
	if len(it.Segments) == 0 {
		return false
	}
	first := it.Segments[0]
	last := it.Segments[len(it.Segments)-1]
	if !strings.EqualFold(first.From, q.Origin) || !strings.EqualFold(last.To, q.Destination) {
		return false
	}
	if !strings.EqualFold(it.CabinClass, string(q.Cabin)) {
		return false
	}
	dep, err := parseOfferTime(first.Depart)
	if err != nil {
		return false
	}
	return dep.Format("2006-01-02") == q.DepartureDate
}

func flightNumbers(segments []tripcomSegment) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = s.FlightNo
	}
	return out
}

func parseOfferTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func simulateLatency(ctx context.Context, minMS, maxMS int) error {
	delay := time.Duration(minMS+rand.Intn(maxMS-minMS)) * time.Millisecond
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func sameFlights(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

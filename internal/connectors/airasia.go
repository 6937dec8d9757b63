package connectors

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mynztrip/faresearch/internal/models"
)

type airasiaResponse struct {
	Flights []airasiaFlight `json:"flights"`
}

type airasiaFlight struct {
	FlightID      string   `json:"flight_id"`
	AirlineCode   string   `json:"airline_code"`
	AirlineName   string   `json:"airline_name"`
	FlightNumbers []string `json:"flight_numbers"`
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	DepartTime    string   `json:"depart_time"`
	ArriveTime    string   `json:"arrive_time"`
	Stops         int      `json:"stops"`
	TravelClass   string   `json:"travel_class"`
	PriceTotal    float64  `json:"price_total"`
	CurrencyCode  string   `json:"currency_code"`
	BaggageInfo   string   `json:"baggage_info"`
	BookingLink   string   `json:"booking_link"`
}

// AirAsiaConnector serves fares from the bundled airasia dataset. The
// source reports a single total price with no breakdown and no fare
// brand, so those fields stay unset on its offers.
type AirAsiaConnector struct {
	flights []airasiaFlight
}

func NewAirAsiaConnector(dataset []byte) (*AirAsiaConnector, error) {
	var resp airasiaResponse
	if err := json.Unmarshal(dataset, &resp); err != nil {
		return nil, NewConnectorError("airasia", err)
	}
	return &AirAsiaConnector{flights: resp.Flights}, nil
}

func (c *AirAsiaConnector) Name() string {
	return "airasia"
}

func (c *AirAsiaConnector) Search(ctx context.Context, q models.SearchQuery) ([]RawOffer, error) {
	if err := simulateLatency(ctx, 10, 30); err != nil {
		return nil, err
	}

	var results []RawOffer
	for _, f := range c.flights {
		if !strings.EqualFold(f.Origin, q.Origin) || !strings.EqualFold(f.Destination, q.Destination) {
			continue
		}
		if !strings.EqualFold(f.TravelClass, string(q.Cabin)) {
			continue
		}
		dep, err := parseOfferTime(f.DepartTime)
		if err != nil || dep.Format("2006-01-02") != q.DepartureDate {
			continue
		}
		arr, err := parseOfferTime(f.ArriveTime)
		if err != nil {
			continue
		}

		results = append(results, RawOffer{
			Source:          c.Name(),
			Airline:         f.AirlineName,
			FlightNumbers:   append([]string(nil), f.FlightNumbers...),
			Origin:          f.Origin,
			Destination:     f.Destination,
			DepartureAt:     dep,
			ArrivalAt:       arr,
			Stops:           f.Stops,
			DurationMinutes: int(arr.Sub(dep).Minutes()),
			Cabin:           f.TravelClass,
			Baggage:         f.BaggageInfo,
			TotalPrice:      f.PriceTotal,
			Currency:        f.CurrencyCode,
			BookingURL:      f.BookingLink,
			RawPayload: map[string]any{
				"flight_id":    f.FlightID,
				"airline_code": f.AirlineCode,
			},
		})
	}
	return results, nil
}

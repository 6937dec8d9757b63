package models

type TripType string

const (
	TripOneWay    TripType = "one_way"
	TripRoundTrip TripType = "round_trip"
)

type CabinClass string

const (
	CabinEconomy        CabinClass = "economy"
	CabinPremiumEconomy CabinClass = "premium_economy"
	CabinBusiness       CabinClass = "business"
	CabinFirst          CabinClass = "first"
)

type StopPreference string

const (
	StopsAny     StopPreference = "any"
	StopsNonStop StopPreference = "non_stop"
	StopsWith    StopPreference = "with_stops"
)

// SearchQuery is the canonical form of a fare search request. The zero
// values of the optional fields are filled in by query.Normalize before
// a fingerprint is derived.
type SearchQuery struct {
	Origin         string         `json:"origin"`
	Destination    string         `json:"destination"`
	DepartureDate  string         `json:"departure_date"`
	ReturnDate     string         `json:"return_date,omitempty"`
	TripType       TripType       `json:"trip_type"`
	Adults         int            `json:"adults"`
	Cabin          CabinClass     `json:"cabin"`
	Currency       string         `json:"currency"`
	StopPreference StopPreference `json:"stop_preference"`
	Sources        []string       `json:"sources"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrBadOrigin         ValidationError = "origin must be a 3-letter location code"
	ErrBadDestination    ValidationError = "destination must be a 3-letter location code"
	ErrMissingDeparture  ValidationError = "departure_date is required"
	ErrBadDepartureDate  ValidationError = "departure_date must be formatted as YYYY-MM-DD"
	ErrBadReturnDate     ValidationError = "return_date must be formatted as YYYY-MM-DD"
	ErrMissingReturnDate ValidationError = "return_date is required for round_trip searches"
	ErrReturnNotAfter    ValidationError = "return_date must be after departure_date"
	ErrBadAdults         ValidationError = "adults must be at least 1"
	ErrEmptySources      ValidationError = "at least one source is required"
	ErrBadCurrency       ValidationError = "currency must be a 3-letter code"
	ErrBadCabin          ValidationError = "unknown cabin class"
	ErrBadStopPreference ValidationError = "unknown stop preference"
	ErrBadTripType       ValidationError = "unknown trip type"
)

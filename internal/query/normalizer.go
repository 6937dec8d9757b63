// Package query canonicalizes raw search requests and derives the
// deterministic fingerprint used as the cache key.
package query

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/mynztrip/faresearch/internal/models"
)

const DateLayout = "2006-01-02"

// Cache key version. Bump when the canonical form changes so stale
// entries from older deployments are never read back.
const fingerprintVersion = "v3"

const (
	DefaultCurrency       = "MYR"
	DefaultAdults         = 1
	defaultCabin          = models.CabinEconomy
	defaultStopPreference = models.StopsAny
)

// Normalize validates a raw query and returns its canonical form:
// uppercased location and currency codes, defaulted optional fields,
// and a lowercased, sorted source set so request order never matters.
func Normalize(raw models.SearchQuery) (models.SearchQuery, error) {
	q := raw

	q.Origin = strings.ToUpper(strings.TrimSpace(q.Origin))
	q.Destination = strings.ToUpper(strings.TrimSpace(q.Destination))
	if !validLocationCode(q.Origin) {
		return models.SearchQuery{}, models.ErrBadOrigin
	}
	if !validLocationCode(q.Destination) {
		return models.SearchQuery{}, models.ErrBadDestination
	}

	q.Currency = strings.ToUpper(strings.TrimSpace(q.Currency))
	if q.Currency == "" {
		q.Currency = DefaultCurrency
	}
	if len(q.Currency) != 3 {
		return models.SearchQuery{}, models.ErrBadCurrency
	}

	if q.Adults == 0 {
		q.Adults = DefaultAdults
	}
	if q.Adults < 1 {
		return models.SearchQuery{}, models.ErrBadAdults
	}

	if q.Cabin == "" {
		q.Cabin = defaultCabin
	}
	switch q.Cabin {
	case models.CabinEconomy, models.CabinPremiumEconomy, models.CabinBusiness, models.CabinFirst:
	default:
		return models.SearchQuery{}, models.ErrBadCabin
	}

	if q.StopPreference == "" {
		q.StopPreference = defaultStopPreference
	}
	switch q.StopPreference {
	case models.StopsAny, models.StopsNonStop, models.StopsWith:
	default:
		return models.SearchQuery{}, models.ErrBadStopPreference
	}

	if q.DepartureDate == "" {
		return models.SearchQuery{}, models.ErrMissingDeparture
	}
	departure, err := time.Parse(DateLayout, q.DepartureDate)
	if err != nil {
		return models.SearchQuery{}, models.ErrBadDepartureDate
	}
	q.DepartureDate = departure.Format(DateLayout)

	if q.TripType == "" {
		if q.ReturnDate != "" {
			q.TripType = models.TripRoundTrip
		} else {
			q.TripType = models.TripOneWay
		}
	}
	switch q.TripType {
	case models.TripOneWay, models.TripRoundTrip:
	default:
		return models.SearchQuery{}, models.ErrBadTripType
	}

	if q.TripType == models.TripRoundTrip && q.ReturnDate == "" {
		return models.SearchQuery{}, models.ErrMissingReturnDate
	}
	if q.ReturnDate != "" {
		ret, err := time.Parse(DateLayout, q.ReturnDate)
		if err != nil {
			return models.SearchQuery{}, models.ErrBadReturnDate
		}
		if !ret.After(departure) {
			return models.SearchQuery{}, models.ErrReturnNotAfter
		}
		q.ReturnDate = ret.Format(DateLayout)
	}

	sources := make([]string, 0, len(q.Sources))
	for _, s := range q.Sources {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			sources = append(sources, s)
		}
	}
	sort.Strings(sources)
	sources = dedupeSorted(sources)
	if len(sources) == 0 {
		return models.SearchQuery{}, models.ErrEmptySources
	}
	q.Sources = sources

	return q, nil
}

// Fingerprint hashes every canonical query field. Callers must pass a
// query that already went through Normalize; two requests differing
// only in source order or code casing hash identically.
func Fingerprint(q models.SearchQuery) string {
	payload, _ := json.Marshal(q)
	sum := sha256.Sum256(payload)
	return fingerprintVersion + ":" + hex.EncodeToString(sum[:])
}

func validLocationCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func dedupeSorted(s []string) []string {
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}

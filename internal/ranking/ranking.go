// Package ranking turns raw connector offers into the canonical offer
// list: stop-preference filtering, currency conversion, normalization,
// dedup, and a deterministic price-first ordering.
package ranking

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mynztrip/faresearch/internal/connectors"
	"github.com/mynztrip/faresearch/internal/linkcheck"
	"github.com/mynztrip/faresearch/internal/models"
	"github.com/mynztrip/faresearch/pkg/currency"
)

// CurrencyConverter converts an amount between currencies. Prices are
// compared only after conversion into the query currency.
type CurrencyConverter interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

var errNoConverter = errors.New("no currency converter configured")

type Engine struct {
	maxOffers int
	converter CurrencyConverter
	validate  func(string) bool
	logger    *zap.Logger
}

// NewEngine builds an engine that keeps at most maxOffers ranked offers
// (zero means unlimited). Link validity used by the dedup tie-break is
// the structural check; the lifecycle layer may re-verify later.
func NewEngine(maxOffers int, converter CurrencyConverter, logger *zap.Logger) *Engine {
	return &Engine{
		maxOffers: maxOffers,
		converter: converter,
		validate:  linkcheck.StructurallyValid,
		logger:    logger,
	}
}

// Build produces the ranked canonical offers for one search, priced in
// the query currency. Output is deterministic for identical input sets
// regardless of connector completion order. An offer whose price cannot
// be converted is dropped: an incomparable price would corrupt both
// dedup and ranking.
func (e *Engine) Build(ctx context.Context, raws []connectors.RawOffer, q models.SearchQuery) []models.Offer {
	offers := make([]models.Offer, 0, len(raws))
	for _, raw := range raws {
		if !matchesStopPreference(raw.Stops, q.StopPreference) {
			continue
		}
		offer, err := e.Normalize(ctx, raw, q.Currency)
		if err != nil {
			e.logger.Warn("dropping offer with unconvertible price",
				zap.String("source", raw.Source),
				zap.String("currency", raw.Currency),
				zap.Error(err))
			continue
		}
		offers = append(offers, offer)
	}

	offers = dedupe(offers)
	sortOffers(offers)

	if e.maxOffers > 0 && len(offers) > e.maxOffers {
		offers = offers[:e.maxOffers]
	}
	return offers
}

// Normalize maps one raw connector offer onto the canonical schema,
// converting every price field into the target currency. Missing
// optional fields stay unset so the API layer can render
// source-specific fallbacks.
func (e *Engine) Normalize(ctx context.Context, raw connectors.RawOffer, targetCurrency string) (models.Offer, error) {
	total := raw.TotalPrice
	if raw.BasePrice != nil {
		total = *raw.BasePrice + deref(raw.Taxes) + deref(raw.Fees)
	}

	cur := strings.ToUpper(raw.Currency)
	target := strings.ToUpper(targetCurrency)
	base, taxes, fees := raw.BasePrice, raw.Taxes, raw.Fees
	if target != "" && cur != "" && cur != target {
		if e.converter == nil {
			return models.Offer{}, errNoConverter
		}
		var err error
		if total, err = e.converter.Convert(ctx, total, cur, target); err != nil {
			return models.Offer{}, err
		}
		if base, err = e.convertPtr(ctx, base, cur, target); err != nil {
			return models.Offer{}, err
		}
		if taxes, err = e.convertPtr(ctx, taxes, cur, target); err != nil {
			return models.Offer{}, err
		}
		if fees, err = e.convertPtr(ctx, fees, cur, target); err != nil {
			return models.Offer{}, err
		}
		cur = target
	}

	return models.Offer{
		ID:              uuid.NewString(),
		Source:          strings.ToLower(raw.Source),
		Airline:         raw.Airline,
		FlightNumbers:   append([]string(nil), raw.FlightNumbers...),
		DepartureAt:     raw.DepartureAt,
		ArrivalAt:       raw.ArrivalAt,
		Stops:           raw.Stops,
		DurationMinutes: raw.DurationMinutes,
		Cabin:           raw.Cabin,
		Baggage:         raw.Baggage,
		FareRules:       raw.FareRules,
		FareBrand:       raw.FareBrand,
		BasePrice:       base,
		Taxes:           taxes,
		Fees:            fees,
		TotalPrice:      total,
		PriceFormatted:  currency.Format(cur, total),
		Currency:        cur,
		BookingURL:      raw.BookingURL,
		DeepLinkValid:   e.validate(raw.BookingURL),
	}, nil
}

func (e *Engine) convertPtr(ctx context.Context, v *float64, from, to string) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	converted, err := e.converter.Convert(ctx, *v, from, to)
	if err != nil {
		return nil, err
	}
	return &converted, nil
}

// DedupKey identifies offers that are the same flight: the ordered
// flight-number sequence, the departure instant at minute precision,
// and the cabin.
func DedupKey(o models.Offer) string {
	parts := make([]string, 0, len(o.FlightNumbers)+2)
	for _, fn := range o.FlightNumbers {
		parts = append(parts, strings.ToUpper(fn))
	}
	parts = append(parts, o.DepartureAt.UTC().Format("2006-01-02T15:04"))
	parts = append(parts, strings.ToUpper(o.Cabin))
	return strings.Join(parts, "|")
}

// dedupe keeps the better of any two offers sharing a dedup key: lower
// total price, then a verified booking link, then source name so the
// outcome never depends on arrival order.
func dedupe(offers []models.Offer) []models.Offer {
	selected := make(map[string]models.Offer, len(offers))
	order := make([]string, 0, len(offers))

	for _, offer := range offers {
		key := DedupKey(offer)
		current, ok := selected[key]
		if !ok {
			selected[key] = offer
			order = append(order, key)
			continue
		}
		if better(offer, current) {
			selected[key] = offer
		}
	}

	out := make([]models.Offer, 0, len(order))
	for _, key := range order {
		out = append(out, selected[key])
	}
	return out
}

func better(a, b models.Offer) bool {
	if a.TotalPrice != b.TotalPrice {
		return a.TotalPrice < b.TotalPrice
	}
	if a.DeepLinkValid != b.DeepLinkValid {
		return a.DeepLinkValid
	}
	return a.Source < b.Source
}

// sortOffers orders ascending by total price, then shorter duration,
// fewer stops, and source name.
func sortOffers(offers []models.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		if a.TotalPrice != b.TotalPrice {
			return a.TotalPrice < b.TotalPrice
		}
		if a.DurationMinutes != b.DurationMinutes {
			return a.DurationMinutes < b.DurationMinutes
		}
		if a.Stops != b.Stops {
			return a.Stops < b.Stops
		}
		return a.Source < b.Source
	})
}

func matchesStopPreference(stops int, pref models.StopPreference) bool {
	switch pref {
	case models.StopsNonStop:
		return stops == 0
	case models.StopsWith:
		return stops >= 1
	default:
		return true
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

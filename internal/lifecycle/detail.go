package lifecycle

import (
	"context"

	"go.uber.org/zap"

	"github.com/mynztrip/faresearch/internal/connectors"
	"github.com/mynztrip/faresearch/internal/models"
)

// GetOffer resolves the detailed view of one offer. When the
// originating connector exposes a detail capability, missing fields
// (fare brand, price breakdown, fare rules) are fetched under a short
// timeout; a detail failure is scoped to this offer and the stored
// record's ranking is never touched.
func (m *Manager) GetOffer(ctx context.Context, searchID, offerID string) (*models.OfferDetail, error) {
	record, err := m.store.Get(ctx, searchID)
	if err != nil {
		return nil, err
	}

	var found *models.Offer
	for _, offer := range record.Offers() {
		if offer.ID == offerID {
			o := offer
			found = &o
			break
		}
	}
	if found == nil {
		return nil, ErrOfferNotFound
	}

	detail := &models.OfferDetail{Offer: *found}
	m.augmentDetail(ctx, detail)
	detail.DeepLinkValid = m.links.Validate(ctx, detail.BookingURL)
	return detail, nil
}

func (m *Manager) augmentDetail(ctx context.Context, detail *models.OfferDetail) {
	conn, ok := m.registry.Get(detail.Source)
	if !ok {
		return
	}
	fetcher, ok := conn.(connectors.DetailFetcher)
	if !ok {
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, m.cfg.DetailTimeout)
	defer cancel()

	fetched, err := fetcher.FetchDetail(fetchCtx, detail.Offer)
	if err != nil {
		m.logger.Warn("offer detail fetch failed",
			zap.String("source", detail.Source),
			zap.String("offer_id", detail.ID),
			zap.Error(err))
		return
	}

	if detail.FareBrand == "" {
		detail.FareBrand = fetched.FareBrand
	}
	if detail.FareRules == "" {
		detail.FareRules = fetched.FareRules
	}
	if detail.BasePrice == nil {
		detail.BasePrice = fetched.BasePrice
	}
	if detail.Taxes == nil {
		detail.Taxes = fetched.Taxes
	}
	if detail.Fees == nil {
		detail.Fees = fetched.Fees
	}
	detail.RawPayload = fetched.RawPayload
}

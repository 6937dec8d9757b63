package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mynztrip/faresearch/internal/cache"
	"github.com/mynztrip/faresearch/internal/connectors"
	"github.com/mynztrip/faresearch/internal/connectors/data"
	"github.com/mynztrip/faresearch/internal/dispatch"
	"github.com/mynztrip/faresearch/internal/fx"
	"github.com/mynztrip/faresearch/internal/health"
	"github.com/mynztrip/faresearch/internal/lifecycle"
	"github.com/mynztrip/faresearch/internal/linkcheck"
	"github.com/mynztrip/faresearch/internal/models"
	"github.com/mynztrip/faresearch/internal/ranking"
	"github.com/mynztrip/faresearch/internal/store/memory"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	tripcom, err := connectors.NewTripComConnector(data.TripComData)
	require.NoError(t, err)
	airasia, err := connectors.NewAirAsiaConnector(data.AirAsiaData)
	require.NoError(t, err)
	registry := connectors.NewRegistry(tripcom, airasia)

	dispatcher := dispatch.NewDispatcher(dispatch.Config{
		ConnectorTimeout: time.Second,
		OverallDeadline:  2 * time.Second,
		MaxAttempts:      1,
		MaxParallel:      4,
	}, zap.NewNop())

	tracker := health.NewTracker()
	tracker.RegisterSources("trip_com", "airasia")

	manager := lifecycle.NewManager(
		memory.New(),
		cache.NewNoopCache(),
		dispatcher,
		registry,
		ranking.NewEngine(0, fx.NewService(fx.Config{}), zap.NewNop()),
		linkcheck.NewValidator(time.Second, false),
		tracker,
		zap.NewNop(),
		lifecycle.Config{
			CacheTTL:        time.Minute,
			ClaimTTL:        3 * time.Second,
			OverallDeadline: 2 * time.Second,
			DetailTimeout:   time.Second,
			AttachPollEvery: 10 * time.Millisecond,
		},
	)
	t.Cleanup(manager.Shutdown)

	h := NewSearchHandler(manager, tracker, []string{"trip_com", "airasia"})

	e := echo.New()
	e.POST("/api/v1/search", h.Create)
	e.GET("/api/v1/search/:search_id", h.Get)
	e.GET("/api/v1/search/:search_id/offers/:offer_id", h.GetOffer)
	e.GET("/health/connectors", h.ConnectorHealth)
	e.GET("/health", HealthHandler)
	return e
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const searchBody = `{
	"origin": "KUL",
	"destination": "BKK",
	"departure_date": "2026-03-20",
	"return_date": "2026-03-25",
	"trip_type": "round_trip",
	"adults": 1,
	"currency": "MYR",
	"sources": ["trip_com", "airasia"]
}`

func createSearch(t *testing.T, e *echo.Echo, body string) models.SearchCreateResponse {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/api/v1/search", body)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var created models.SearchCreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.SearchID)
	return created
}

func pollCompleted(t *testing.T, e *echo.Echo, searchID string) models.SearchRecord {
	t.Helper()

	var record models.SearchRecord
	require.Eventually(t, func() bool {
		rec := doJSON(e, http.MethodGet, "/api/v1/search/"+searchID, "")
		if rec.Code != http.StatusOK {
			return false
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
			return false
		}
		return record.Status.Terminal()
	}, 5*time.Second, 20*time.Millisecond)
	return record
}

func TestCreateAndPollSearch(t *testing.T) {
	e := newTestServer(t)

	created := createSearch(t, e, searchBody)
	assert.Equal(t, models.StatusQueued, created.Status)

	record := pollCompleted(t, e, created.SearchID)
	assert.Equal(t, models.StatusCompleted, record.Status)
	require.NotNil(t, record.CheapestFlight)

	// AK 890 at 275 beats everything once FD 311 is deduped to the
	// cheaper airasia listing.
	assert.Equal(t, 275.0, record.CheapestFlight.TotalPrice)
	assert.Equal(t, "airasia", record.CheapestFlight.Source)
	assert.Equal(t, "MYR 275.00", record.CheapestFlight.PriceFormatted)
	assert.NotEmpty(t, record.Alternatives)
	assert.NotNil(t, record.PriceLastCheckedAt)

	require.Len(t, record.ConnectorRuns, 2)
	for _, run := range record.ConnectorRuns {
		assert.Equal(t, models.RunOK, run.Status)
		assert.Greater(t, run.OfferCount, 0)
	}
	assert.Empty(t, record.Failures)

	// Dedup never leaves two copies of the same flight on the board.
	seen := map[string]bool{}
	for _, offer := range append([]models.Offer{*record.CheapestFlight}, record.Alternatives...) {
		key := strings.Join(offer.FlightNumbers, "|") + offer.DepartureAt.UTC().Format(time.RFC3339) + offer.Cabin
		assert.False(t, seen[key], "duplicate offer %v", offer.FlightNumbers)
		seen[key] = true
	}
}

func TestCreateAppliesDefaultSources(t *testing.T) {
	e := newTestServer(t)

	body := `{"origin":"KUL","destination":"BKK","departure_date":"2026-03-20"}`
	created := createSearch(t, e, body)

	record := pollCompleted(t, e, created.SearchID)
	assert.Equal(t, models.StatusCompleted, record.Status)
	assert.ElementsMatch(t, []string{"airasia", "trip_com"}, record.Query.Sources)
}

func TestCreateValidationError(t *testing.T) {
	e := newTestServer(t)

	body := `{"origin":"K","destination":"BKK","departure_date":"2026-03-20"}`
	rec := doJSON(e, http.MethodPost, "/api/v1/search", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "validation_error", errResp.Error)
	assert.Contains(t, errResp.Message, "origin")
}

func TestCreateMalformedBody(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/search", `{"origin": `)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "invalid_request", errResp.Error)
}

func TestGetUnknownSearch(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/search/does-not-exist", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "not_found", errResp.Error)
	assert.Equal(t, "search_id not found", errResp.Message)
}

func TestGetOfferDetail(t *testing.T) {
	e := newTestServer(t)

	created := createSearch(t, e, searchBody)
	record := pollCompleted(t, e, created.SearchID)
	require.NotNil(t, record.CheapestFlight)

	// The cheapest trip_com offer carries a breakdown; find one of its
	// offers so the detail fetch has something to augment.
	var tripcomOffer *models.Offer
	for _, offer := range append([]models.Offer{*record.CheapestFlight}, record.Alternatives...) {
		if offer.Source == "trip_com" {
			o := offer
			tripcomOffer = &o
			break
		}
	}
	require.NotNil(t, tripcomOffer)

	rec := doJSON(e, http.MethodGet, "/api/v1/search/"+created.SearchID+"/offers/"+tripcomOffer.ID, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var detail models.OfferDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, tripcomOffer.ID, detail.ID)
	assert.Equal(t, tripcomOffer.TotalPrice, detail.TotalPrice)
	assert.NotEmpty(t, detail.FareBrand)
	assert.NotNil(t, detail.BasePrice)
	assert.NotEmpty(t, detail.RawPayload)
}

func TestGetOfferNotFound(t *testing.T) {
	e := newTestServer(t)

	created := createSearch(t, e, searchBody)
	pollCompleted(t, e, created.SearchID)

	rec := doJSON(e, http.MethodGet, "/api/v1/search/"+created.SearchID+"/offers/no-such-offer", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "offer_id not found for search_id", errResp.Message)

	rec = doJSON(e, http.MethodGet, "/api/v1/search/no-such-search/offers/whatever", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "search_id not found", errResp.Message)
}

func TestConnectorHealthEndpoint(t *testing.T) {
	e := newTestServer(t)

	// Before any search both connectors are registered but never run.
	rec := doJSON(e, http.MethodGet, "/health/connectors", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var before models.ConnectorHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &before))
	require.Len(t, before.Connectors, 2)
	for _, item := range before.Connectors {
		assert.Equal(t, health.StatusNeverRun, item.Status)
	}

	created := createSearch(t, e, searchBody)
	pollCompleted(t, e, created.SearchID)

	rec = doJSON(e, http.MethodGet, "/health/connectors", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var after models.ConnectorHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	require.Len(t, after.Connectors, 2)
	assert.Equal(t, "airasia", after.Connectors[0].Source)
	assert.Equal(t, "trip_com", after.Connectors[1].Source)
	for _, item := range after.Connectors {
		assert.Equal(t, "ok", item.Status)
		require.NotNil(t, item.LastLatencyMS)
		assert.NotNil(t, item.LastCheckedAt)
	}
}

func TestLivenessEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

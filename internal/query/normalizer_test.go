package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mynztrip/faresearch/internal/models"
)

func validQuery() models.SearchQuery {
	return models.SearchQuery{
		Origin:        "kul",
		Destination:   "BKK",
		DepartureDate: "2026-03-20",
		ReturnDate:    "2026-03-25",
		TripType:      models.TripRoundTrip,
		Adults:        1,
		Currency:      "myr",
		Sources:       []string{"trip_com", "airasia"},
	}
}

func TestNormalizeCanonicalizes(t *testing.T) {
	q, err := Normalize(validQuery())
	require.NoError(t, err)

	assert.Equal(t, "KUL", q.Origin)
	assert.Equal(t, "BKK", q.Destination)
	assert.Equal(t, "MYR", q.Currency)
	assert.Equal(t, models.CabinEconomy, q.Cabin)
	assert.Equal(t, models.StopsAny, q.StopPreference)
	assert.Equal(t, 1, q.Adults)
	assert.Equal(t, []string{"airasia", "trip_com"}, q.Sources)
}

func TestNormalizeDefaults(t *testing.T) {
	raw := models.SearchQuery{
		Origin:        "KUL",
		Destination:   "SIN",
		DepartureDate: "2026-04-02",
		Sources:       []string{"trip_com"},
	}
	q, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, models.TripOneWay, q.TripType)
	assert.Equal(t, DefaultCurrency, q.Currency)
	assert.Equal(t, DefaultAdults, q.Adults)
	assert.Equal(t, models.CabinEconomy, q.Cabin)
}

func TestNormalizeValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SearchQuery)
		want   models.ValidationError
	}{
		{"short origin", func(q *models.SearchQuery) { q.Origin = "KU" }, models.ErrBadOrigin},
		{"numeric destination", func(q *models.SearchQuery) { q.Destination = "B2K" }, models.ErrBadDestination},
		{"missing departure", func(q *models.SearchQuery) { q.DepartureDate = "" }, models.ErrMissingDeparture},
		{"bad departure format", func(q *models.SearchQuery) { q.DepartureDate = "20/03/2026" }, models.ErrBadDepartureDate},
		{"round trip without return", func(q *models.SearchQuery) { q.ReturnDate = "" }, models.ErrMissingReturnDate},
		{"return before departure", func(q *models.SearchQuery) { q.ReturnDate = "2026-03-19" }, models.ErrReturnNotAfter},
		{"return equals departure", func(q *models.SearchQuery) { q.ReturnDate = "2026-03-20" }, models.ErrReturnNotAfter},
		{"negative adults", func(q *models.SearchQuery) { q.Adults = -1 }, models.ErrBadAdults},
		{"empty sources", func(q *models.SearchQuery) { q.Sources = nil }, models.ErrEmptySources},
		{"blank sources", func(q *models.SearchQuery) { q.Sources = []string{"  ", ""} }, models.ErrEmptySources},
		{"bad currency", func(q *models.SearchQuery) { q.Currency = "RINGGIT" }, models.ErrBadCurrency},
		{"bad cabin", func(q *models.SearchQuery) { q.Cabin = "steerage" }, models.ErrBadCabin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validQuery()
			tt.mutate(&raw)
			_, err := Normalize(raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFingerprintIgnoresSourceOrderAndCasing(t *testing.T) {
	a := validQuery()
	b := validQuery()
	b.Origin = "KUL"
	b.Currency = "MYR"
	b.Sources = []string{"AIRASIA", "Trip_Com"}

	qa, err := Normalize(a)
	require.NoError(t, err)
	qb, err := Normalize(b)
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(qa), Fingerprint(qb))
}

func TestFingerprintDistinguishesQueries(t *testing.T) {
	a := validQuery()
	b := validQuery()
	b.DepartureDate = "2026-03-21"
	b.ReturnDate = "2026-03-26"

	qa, err := Normalize(a)
	require.NoError(t, err)
	qb, err := Normalize(b)
	require.NoError(t, err)

	assert.NotEqual(t, Fingerprint(qa), Fingerprint(qb))
}

func TestFingerprintIsStable(t *testing.T) {
	q, err := Normalize(validQuery())
	require.NoError(t, err)

	first := Fingerprint(q)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Fingerprint(q))
	}
}

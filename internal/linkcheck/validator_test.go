package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStructurallyValid(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"https link", "https://www.airasia.com/book/ak-890", true},
		{"http link", "http://example.com/deeplink", true},
		{"javascript pseudo-link", "javascript:void(0)", false},
		{"empty", "", false},
		{"relative path", "/flights/kul-bkk", false},
		{"scheme without host", "https://", false},
		{"mailto", "mailto:sales@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StructurallyValid(tt.url))
		})
	}
}

func TestValidateWithoutProbe(t *testing.T) {
	v := NewValidator(time.Second, false)

	assert.True(t, v.Validate(context.Background(), "https://www.trip.com/flights/kul-bkk/fd-311"))
	assert.False(t, v.Validate(context.Background(), "javascript:void(0)"))
}

func TestValidateProbeFollowsStatus(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()

	gone := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer gone.Close()

	v := NewValidator(time.Second, true)
	assert.True(t, v.Validate(context.Background(), ok.URL))
	assert.False(t, v.Validate(context.Background(), gone.URL))
}

func TestValidateProbeRetriesHeadWithGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := NewValidator(time.Second, true)
	assert.True(t, v.Validate(context.Background(), srv.URL))
}

func TestValidateProbeUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	v := NewValidator(200*time.Millisecond, true)
	assert.False(t, v.Validate(context.Background(), url))
}

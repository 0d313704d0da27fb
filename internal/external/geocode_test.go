package external

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Public_AR_Current", r.URL.Query().Get("benchmark"))
		assert.Equal(t, "350 5th Ave, New York, NY", r.URL.Query().Get("address"))
		fmt.Fprint(w, `{
			"result": {
				"addressMatches": [{
					"matchedAddress": "350 5TH AVE, NEW YORK, NY, 10118",
					"coordinates": {"x": -73.985428, "y": 40.748817}
				}]
			}
		}`)
	}))
	defer srv.Close()

	loc, err := NewGeocodeServiceWithBaseURL(srv.URL).Geocode(context.Background(), "350 5th Ave, New York, NY")
	require.NoError(t, err)
	assert.InDelta(t, 40.748817, loc.Lat, 1e-9)
	assert.InDelta(t, -73.985428, loc.Lng, 1e-9)
	assert.Equal(t, "350 5TH AVE, NEW YORK, NY, 10118", loc.Matched)
}

func TestGeocodeNoMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": {"addressMatches": []}}`)
	}))
	defer srv.Close()

	_, err := NewGeocodeServiceWithBaseURL(srv.URL).Geocode(context.Background(), "nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matches")
}

func TestGeocodeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewGeocodeServiceWithBaseURL(srv.URL).Geocode(context.Background(), "anywhere")
	assert.Error(t, err)
}

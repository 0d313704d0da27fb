// Package external provides clients for third-party APIs that sit outside
// the sync pipeline (geocoding).
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	geocodeBaseURL = "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress"
	geocodeTimeout = 15 * time.Second
)

// Location is a geocoded point.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Matched string  `json:"matched_address"`
}

// GeocodeService resolves free-text addresses via the Census geocoder.
// No API key is required.
type GeocodeService struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeocodeService creates a geocode service.
func NewGeocodeService() *GeocodeService {
	return &GeocodeService{
		baseURL:    geocodeBaseURL,
		httpClient: &http.Client{Timeout: geocodeTimeout},
	}
}

// NewGeocodeServiceWithBaseURL is NewGeocodeService with an overridable
// endpoint for tests.
func NewGeocodeServiceWithBaseURL(baseURL string) *GeocodeService {
	s := NewGeocodeService()
	s.baseURL = baseURL
	return s
}

type geocodeResponse struct {
	Result struct {
		AddressMatches []struct {
			MatchedAddress string `json:"matchedAddress"`
			Coordinates    struct {
				X float64 `json:"x"` // longitude
				Y float64 `json:"y"` // latitude
			} `json:"coordinates"`
		} `json:"addressMatches"`
	} `json:"result"`
}

// Geocode resolves an address to a point. An address with no matches is an
// error the caller reports to the user, distinct from transport failures.
func (s *GeocodeService) Geocode(ctx context.Context, address string) (Location, error) {
	params := url.Values{
		"address":   {address},
		"benchmark": {"Public_AR_Current"},
		"format":    {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Location{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Location{}, fmt.Errorf("read geocode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geocoder returned %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Location{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded.Result.AddressMatches) == 0 {
		return Location{}, fmt.Errorf("no matches for address %q", address)
	}

	match := decoded.Result.AddressMatches[0]
	return Location{
		Lat:     match.Coordinates.Y,
		Lng:     match.Coordinates.X,
		Matched: match.MatchedAddress,
	}, nil
}

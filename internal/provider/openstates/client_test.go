package openstates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return NewClientWithBaseURL(baseURL, "test-key", 6000, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func pageBody(page, maxPage int, names ...string) string {
	results := make([]map[string]any, len(names))
	for i, name := range names {
		results[i] = map[string]any{"id": fmt.Sprintf("ocd-person/%s", name), "name": name}
	}
	body, _ := json.Marshal(map[string]any{
		"results": results,
		"pagination": map[string]int{
			"page": page, "max_page": maxPage, "per_page": 50, "total_items": maxPage * 50,
		},
	})
	return string(body)
}

func TestPeoplePaginatesToMaxPage(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		require.Equal(t, "50", r.URL.Query().Get("per_page"))

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)
		fmt.Fprint(w, pageBody(page, 3, fmt.Sprintf("p%d", page)))
	}))
	defer srv.Close()

	people := testClient(srv.URL).People(context.Background(), "New York")

	assert.Equal(t, 3, requests)
	require.Len(t, people, 3)
	// Concatenated in request order.
	assert.Equal(t, "p1", people[0].Name)
	assert.Equal(t, "p2", people[1].Name)
	assert.Equal(t, "p3", people[2].Name)
}

func TestPeopleSinglePage(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, pageBody(1, 1, "solo"))
	}))
	defer srv.Close()

	people := testClient(srv.URL).People(context.Background(), "New York")
	assert.Equal(t, 1, requests)
	assert.Len(t, people, 1)
}

func TestPeopleSwallowsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	// Failures come back as an empty slice, never an error, so an outage
	// reads as "no data available" to the merge policy.
	people := testClient(srv.URL).People(context.Background(), "New York")
	assert.NotNil(t, people)
	assert.Empty(t, people)
}

func TestPeopleByLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/people.geo", r.URL.Path)
		assert.Equal(t, "40.750000", r.URL.Query().Get("lat"))
		assert.Equal(t, "-73.990000", r.URL.Query().Get("lng"))
		fmt.Fprint(w, pageBody(1, 1, "found"))
	}))
	defer srv.Close()

	people, err := testClient(srv.URL).PeopleByLocation(context.Background(), 40.75, -73.99)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "found", people[0].Name)
}

func TestPeopleByLocationSurfacesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).PeopleByLocation(context.Background(), 40.75, -73.99)
	assert.Error(t, err)
}

func TestPersonDecodesOtherIdentifiers(t *testing.T) {
	var p Person
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "ocd-person/abc",
		"other_identifiers": [
			{"identifier": "N000001", "scheme": "bioguide"},
			{"identifier": "120012", "scheme": "votesmart"}
		]
	}`), &p))

	require.Len(t, p.OtherIDs, 2)
	assert.Equal(t, Identifier{Identifier: "N000001", Scheme: "bioguide"}, p.OtherIDs[0])
	assert.Equal(t, Identifier{Identifier: "120012", Scheme: "votesmart"}, p.OtherIDs[1])
}

func TestFlexStringDecode(t *testing.T) {
	var role Role

	require.NoError(t, json.Unmarshal([]byte(`{"district":"28"}`), &role))
	assert.Equal(t, "28", role.District.String())

	require.NoError(t, json.Unmarshal([]byte(`{"district":28}`), &role))
	assert.Equal(t, "28", role.District.String())

	require.NoError(t, json.Unmarshal([]byte(`{"district":null}`), &role))
	assert.Equal(t, "", role.District.String())
}

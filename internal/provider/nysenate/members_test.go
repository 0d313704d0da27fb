package nysenate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLegislators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/members/2025", r.URL.Path)
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		assert.Equal(t, "true", r.URL.Query().Get("full"))
		fmt.Fprint(w, `{
			"success": true,
			"result": {
				"items": [
					{
						"memberId": 917, "shortName": "KRUEGER", "fullName": "Liz Krueger",
						"districtCode": 28, "chamber": "SENATE",
						"person": {
							"fullName": "Liz Krueger", "firstName": "Liz", "lastName": "Krueger",
							"email": "krueger@nysenate.gov", "imgName": "917_liz_krueger.jpg"
						}
					},
					{
						"memberId": 424, "shortName": "HEASTIE", "fullName": "Carl Heastie",
						"districtCode": 83, "chamber": "ASSEMBLY",
						"person": {"firstName": "Carl", "lastName": "Heastie", "prefix": "Speaker"}
					}
				],
				"total": 2
			}
		}`)
	}))
	defer srv.Close()

	legislators, err := testAdapter(srv.URL).GetLegislators(context.Background())
	require.NoError(t, err)
	require.Len(t, legislators, 2)

	senator := legislators[0]
	assert.Equal(t, "Liz Krueger", senator.Name)
	assert.Equal(t, "Senate", senator.Chamber)
	assert.Equal(t, "28", senator.District)
	// Missing person prefix falls back to the chamber honorific, which is
	// what the national source uses as a role title.
	assert.Equal(t, "Senator", senator.Prefix)
	assert.Equal(t, imageBaseURL+"917_liz_krueger.jpg", senator.Image)
	require.Len(t, senator.OtherIDs, 1)
	assert.Equal(t, "917", senator.OtherIDs[0].ID)
	assert.Equal(t, "memberId", senator.OtherIDs[0].Scheme)

	member := legislators[1]
	// Person fullName missing: the top-level name fills in.
	assert.Equal(t, "Carl Heastie", member.Name)
	assert.Equal(t, "Assembly", member.Chamber)
	// An explicit prefix survives untouched.
	assert.Equal(t, "Speaker", member.Prefix)
	assert.Empty(t, member.Image)
}

func TestGetLegislatorsEnvelopeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false, "message": "Invalid API key"}`)
	}))
	defer srv.Close()

	_, err := testAdapter(srv.URL).GetLegislators(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestTitleForChamber(t *testing.T) {
	assert.Equal(t, "Senator", titleForChamber("Senate"))
	assert.Equal(t, "Assembly Member", titleForChamber("Assembly"))
}

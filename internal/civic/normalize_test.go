package civic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Liz Krueger", "lizkrueger"},
		{"José M. Serrano", "josmserrano"},
		{"O'Mara, Thomas F.", "omarathomasf"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.name), "Slug(%q)", tt.name)
	}
}

func TestChamberName(t *testing.T) {
	assert.Equal(t, "Senate", ChamberName("state", "upper"))
	assert.Equal(t, "Assembly", ChamberName("state", "lower"))
	assert.Equal(t, "Senate", ChamberName("country", "upper"))
	assert.Equal(t, "House", ChamberName("country", "lower"))

	// Unknown classification falls back to the state vocabulary.
	assert.Equal(t, "Assembly", ChamberName("municipality", "lower"))

	// Already-named chambers round-trip.
	assert.Equal(t, "Senate", ChamberName("state", "Senate"))
}

func TestNormalizeVersionKeys(t *testing.T) {
	in := map[string][]Cosponsor{
		"":  {{ID: "1", Name: "A"}},
		"A": {{ID: "2", Name: "B"}},
	}

	out := NormalizeVersionKeys(in)

	assert.Len(t, out, 2)
	assert.Contains(t, out, OriginalVersion)
	assert.Contains(t, out, "A")
	assert.NotContains(t, out, "")
	assert.Equal(t, "1", out[OriginalVersion][0].ID)
	assert.Equal(t, "2", out["A"][0].ID)
}

func TestNormalizeVersionKeysNil(t *testing.T) {
	assert.Nil(t, NormalizeVersionKeys(nil))
}

func TestActiveCosponsors(t *testing.T) {
	bill := Bill{
		ActiveVersion: "B",
		Cosponsors: map[string][]Cosponsor{
			OriginalVersion: {{ID: "1"}},
			"B":             {{ID: "2"}, {ID: "3"}},
		},
	}
	assert.Len(t, bill.ActiveCosponsors(), 2)

	// Empty active version falls back to the Original key.
	bill.ActiveVersion = ""
	got := bill.ActiveCosponsors()
	assert.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestCosponsorKey(t *testing.T) {
	assert.Equal(t, "Senate-5", CosponsorKey("Senate", "5"))
}

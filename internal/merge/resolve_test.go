package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiclens/civiclens-data/internal/civic"
	"github.com/civiclens/civiclens-data/internal/provider/openstates"
)

func person(id, title, district string) openstates.Person {
	return openstates.Person{
		ID: id,
		CurrentRole: openstates.Role{
			Title:    title,
			District: openstates.FlexString(district),
		},
	}
}

func TestMatchLegislator(t *testing.T) {
	candidates := []openstates.Person{
		person("a", "Senator", "5"),
		person("b", "Senator", "28"),
		person("c", "Assembly Member", "28"),
	}

	state := civic.Legislator{Name: "Liz Krueger", Prefix: "Senator", Chamber: "Senate", District: "28"}

	got, ok := MatchLegislator(state, candidates)
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)
}

func TestMatchLegislatorConjunctive(t *testing.T) {
	candidates := []openstates.Person{
		person("a", "Senator", "5"),
		person("c", "Assembly Member", "28"),
	}

	// District matches but title does not: no match.
	_, ok := MatchLegislator(civic.Legislator{Prefix: "Senator", District: "28"}, candidates)
	assert.False(t, ok)

	// Title matches but district does not: no match.
	_, ok = MatchLegislator(civic.Legislator{Prefix: "Senator", District: "6"}, candidates)
	assert.False(t, ok)

	_, ok = MatchLegislator(civic.Legislator{Prefix: "Senator", District: "5"}, nil)
	assert.False(t, ok)
}

func TestNoMatchWarning(t *testing.T) {
	leg := civic.Legislator{Name: "Liz Krueger", Chamber: "Senate", District: "28"}
	assert.Equal(t, "No match for Liz Krueger (Senate-28)", NoMatchWarning(leg))
}

func TestLegislatorIndex(t *testing.T) {
	known := map[string]civic.Legislator{
		"lizkrueger":   {Name: "Liz Krueger", Chamber: "Senate", District: "28"},
		"carlheastie":  {Name: "Carl Heastie", Chamber: "Assembly", District: "83"},
		"tobystavisky": {Name: "Toby Ann Stavisky", Chamber: "Senate", District: "11"},
	}

	index := LegislatorIndex(known)

	assert.Len(t, index, 3)
	assert.Equal(t, "lizkrueger", index["Senate-28"])
	assert.Equal(t, "carlheastie", index["Assembly-83"])
	assert.Equal(t, "tobystavisky", index["Senate-11"])
}

// Package merge matches legislator records across the state and national
// sources and decides, field by field, which source's value survives into
// the stored document. No shared primary key exists between the sources;
// identity is resolved on chamber+district after chamber vocabulary
// normalization.
package merge

import (
	"fmt"

	"github.com/civiclens/civiclens-data/internal/civic"
	"github.com/civiclens/civiclens-data/internal/provider/openstates"
)

// MatchLegislator finds the national-source record for a state-source
// legislator. The match is conjunctive: the national role title must equal
// the state honorific prefix AND the districts must be equal. There is no
// fuzzy fallback; a near-miss is a no-match.
func MatchLegislator(state civic.Legislator, candidates []openstates.Person) (openstates.Person, bool) {
	for _, p := range candidates {
		if p.CurrentRole.Title == state.Prefix && p.CurrentRole.District.String() == state.District {
			return p, true
		}
	}
	return openstates.Person{}, false
}

// NoMatchWarning renders the warning recorded when a state legislator has
// no national counterpart. A missing match is routine, not an error.
func NoMatchWarning(state civic.Legislator) string {
	return fmt.Sprintf("No match for %s (%s-%s)", state.Name, state.Chamber, state.District)
}

// LegislatorIndex maps composite chamber-district keys to document ids for
// the currently known legislator set. Cosponsor stubs are linked to
// legislator documents through this index.
func LegislatorIndex(known map[string]civic.Legislator) map[string]string {
	index := make(map[string]string, len(known))
	for id, leg := range known {
		index[civic.CosponsorKey(leg.Chamber, leg.District)] = id
	}
	return index
}

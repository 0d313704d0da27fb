package civic

import "strings"

// Chamber vocabulary differs by source: the national aggregator reports
// upper/lower plus a jurisdiction classification, the state APIs report
// Senate/Assembly. Everything is normalized to the named scheme before
// comparison.
var chamberNames = map[string]map[string]string{
	"country": {"upper": "Senate", "lower": "House"},
	"state":   {"upper": "Senate", "lower": "Assembly"},
}

// ChamberName maps an upper/lower classification to the chamber name used
// throughout the store. Unknown inputs pass through unchanged so a source
// that already uses the named scheme round-trips.
func ChamberName(jurisdictionClass, chamber string) string {
	byClass, ok := chamberNames[strings.ToLower(jurisdictionClass)]
	if !ok {
		byClass = chamberNames["state"]
	}
	if name, ok := byClass[strings.ToLower(chamber)]; ok {
		return name
	}
	return chamber
}

// CosponsorKey builds the composite lookup key used to match a cosponsor
// stub to a known legislator. Chamber+district is the only identity the
// two sources agree on.
func CosponsorKey(chamber, district string) string {
	return chamber + "-" + district
}

// Slug derives a document key from a legislator name by stripping spaces
// and punctuation. Known limitation: two legislators whose names normalize
// identically collide; neither source carries a stable shared id that
// could disambiguate them.
func Slug(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// NormalizeVersionKeys rewrites the empty-string version key to
// OriginalVersion and leaves every other key untouched.
func NormalizeVersionKeys(cosponsors map[string][]Cosponsor) map[string][]Cosponsor {
	if cosponsors == nil {
		return nil
	}
	out := make(map[string][]Cosponsor, len(cosponsors))
	for version, list := range cosponsors {
		if version == "" {
			version = OriginalVersion
		}
		out[version] = list
	}
	return out
}

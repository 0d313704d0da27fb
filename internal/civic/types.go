// Package civic defines canonical entity types that all source adapters
// normalize into. These structs are the contract between adapters and the
// sync layer — adapters output these, the syncer merges and writes them.
//
// Adding a new state adapter means implementing functions that return these
// types. The sync layer and store schema never change.
package civic

import "time"

// OriginalVersion is the version tag used in place of the empty string.
// The document store disallows empty map keys, so adapters rewrite ""
// before a record leaves them.
const OriginalVersion = "Original"

// OtherID is a scheme-tagged external identifier. Identifiers accumulate
// across sources; the scheme disambiguates, so duplicates are tolerated.
type OtherID struct {
	ID     string `json:"id"`
	Scheme string `json:"scheme"`
}

// Link is a labeled URL attached to a legislator.
type Link struct {
	URL  string `json:"url"`
	Note string `json:"note,omitempty"`
}

// Office is a contact listing for a legislator.
type Office struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Fax     string `json:"fax,omitempty"`
}

// Legislator is the canonical person shape written to the legislators
// collection. The document key is Slug(Name); chamber+district identifies
// a legislator within one jurisdiction and one source.
type Legislator struct {
	Name        string    `json:"name"`
	GivenName   string    `json:"given_name,omitempty"`
	FamilyName  string    `json:"family_name,omitempty"`
	SortName    string    `json:"sort_name,omitempty"`
	Prefix      string    `json:"honorific_prefix,omitempty"`
	Suffix      string    `json:"honorific_suffix,omitempty"`
	Chamber     string    `json:"chamber,omitempty"`
	District    string    `json:"district,omitempty"`
	Party       string    `json:"party,omitempty"`
	Email       string    `json:"email,omitempty"`
	Image       string    `json:"image,omitempty"`
	OtherIDs    []OtherID `json:"other_identifiers,omitempty"`
	Links       []Link    `json:"links,omitempty"`
	Offices     []Office  `json:"offices,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// Cosponsor is the stub stored in a bill's per-version cosponsor lists.
type Cosponsor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Chamber  string `json:"chamber,omitempty"`
	District string `json:"district,omitempty"`
}

// Sponsorship is the denormalized back-reference written onto a
// legislator's sponsorships subcollection, keyed by bill id.
type Sponsorship struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Title   string `json:"title"`
}

// Bill is the canonical legislation shape written to the legislation
// collection, keyed by the state-assigned print number (e.g. "S1234-2025").
type Bill struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title,omitempty"`
	ActiveVersion  string                 `json:"active_version,omitempty"`
	Summary        string                 `json:"summary,omitempty"`
	Classification string                 `json:"classification,omitempty"`
	PublishedAt    string                 `json:"published_at,omitempty"`
	LastActionAt   string                 `json:"last_action_at,omitempty"`
	LastAction     string                 `json:"last_action,omitempty"`
	Sponsorships   []Cosponsor            `json:"sponsorships,omitempty"`
	Cosponsors     map[string][]Cosponsor `json:"cosponsors,omitempty"`
	UpdatedAt      time.Time              `json:"updated_at,omitzero"`
}

// ActiveCosponsors returns the cosponsor list for the bill's active
// version, falling back to the Original key when the tag is empty.
func (b *Bill) ActiveCosponsors() []Cosponsor {
	v := b.ActiveVersion
	if v == "" {
		v = OriginalVersion
	}
	return b.Cosponsors[v]
}

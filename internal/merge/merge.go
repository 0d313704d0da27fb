package merge

import (
	"strings"
	"time"

	"github.com/civiclens/civiclens-data/internal/civic"
	"github.com/civiclens/civiclens-data/internal/provider/openstates"
)

// ValidEmail reports whether an incoming email may overwrite the stored
// value. A value that fails the gate is omitted from the payload entirely,
// which preserves whatever the store already holds.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && strings.Contains(email, "@")
}

// ValidImage reports whether an incoming image URL may overwrite the
// stored value. Upstream placeholder portraits carry a no_image marker.
func ValidImage(image string) bool {
	image = strings.TrimSpace(image)
	return image != "" && !strings.Contains(image, "no_image")
}

// BuildLegislatorUpdate produces the partial-update payload for one
// legislator from the state record and its matched national record
// (national may be nil when the resolver found no match).
//
// Per-field precedence: state value when present, national fallback;
// fields unique to one source pass through. Email and image must pass
// their validity gates or they are left out. Scheme-tagged identifiers
// concatenate state-then-national rather than overwrite — each carries a
// distinct scheme, so cross-source duplicates are tolerated.
func BuildLegislatorUpdate(state civic.Legislator, national *openstates.Person, now time.Time) map[string]any {
	payload := map[string]any{
		"updated_at": now.UTC().Format(time.RFC3339),
	}

	setIf(payload, "name", state.Name)
	setIf(payload, "sort_name", state.SortName)
	setIf(payload, "honorific_prefix", state.Prefix)
	setIf(payload, "honorific_suffix", state.Suffix)
	setIf(payload, "chamber", state.Chamber)
	setIf(payload, "district", state.District)

	given, family := state.GivenName, state.FamilyName
	email := state.Email
	image := state.Image
	ids := append([]civic.OtherID{}, state.OtherIDs...)

	if national != nil {
		if given == "" {
			given = national.GivenName
		}
		if family == "" {
			family = national.FamilyName
		}
		if !ValidEmail(email) {
			email = national.Email
		}
		if !ValidImage(image) {
			image = national.Image
		}

		// National-only fields.
		setIf(payload, "party", national.Party)
		if national.ID != "" {
			ids = append(ids, civic.OtherID{ID: national.ID, Scheme: "openstatesId"})
		}
		for _, other := range national.OtherIDs {
			ids = append(ids, civic.OtherID{ID: other.Identifier, Scheme: other.Scheme})
		}
		if len(national.Links) > 0 {
			links := make([]civic.Link, len(national.Links))
			for i, l := range national.Links {
				links[i] = civic.Link{URL: l.URL, Note: l.Note}
			}
			payload["links"] = links
		}
		if len(national.Offices) > 0 {
			offices := make([]civic.Office, len(national.Offices))
			for i, o := range national.Offices {
				offices[i] = civic.Office{Name: o.Name, Address: o.Address, Phone: o.Voice, Fax: o.Fax}
			}
			payload["offices"] = offices
		}
	}

	setIf(payload, "given_name", given)
	setIf(payload, "family_name", family)
	if ValidEmail(email) {
		payload["email"] = strings.TrimSpace(email)
	}
	if ValidImage(image) {
		payload["image"] = strings.TrimSpace(image)
	}
	if len(ids) > 0 {
		payload["other_identifiers"] = ids
	}

	return payload
}

// BuildBillUpdate produces the partial-update payload for one bill fetched
// from the state source. The cosponsor map is written as-is; the store's
// merge keeps entries for versions this fetch did not carry.
func BuildBillUpdate(bill civic.Bill, now time.Time) map[string]any {
	payload := map[string]any{
		"id":         bill.ID,
		"updated_at": now.UTC().Format(time.RFC3339),
	}

	setIf(payload, "title", bill.Title)
	setIf(payload, "active_version", bill.ActiveVersion)
	setIf(payload, "summary", bill.Summary)
	setIf(payload, "classification", bill.Classification)
	setIf(payload, "published_at", bill.PublishedAt)
	setIf(payload, "last_action_at", bill.LastActionAt)
	setIf(payload, "last_action", bill.LastAction)
	if len(bill.Sponsorships) > 0 {
		payload["sponsorships"] = bill.Sponsorships
	}
	if len(bill.Cosponsors) > 0 {
		payload["cosponsors"] = bill.Cosponsors
	}

	return payload
}

// setIf adds a key only when the value is non-empty, keeping the payload a
// partial update.
func setIf(payload map[string]any, key, value string) {
	if value != "" {
		payload[key] = value
	}
}

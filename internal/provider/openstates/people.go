package openstates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Person is an OpenStates person record, kept in the aggregator's own
// shape. The identity resolver decides which of these fields survive a
// merge; the adapter does not pre-judge that.
type Person struct {
	ID          string       `json:"id"` // ocd-person UUID
	Name        string       `json:"name"`
	GivenName   string       `json:"given_name"`
	FamilyName  string       `json:"family_name"`
	Party       string       `json:"party"`
	Email       string       `json:"email"`
	Image       string       `json:"image"`
	CurrentRole Role         `json:"current_role"`
	Juris       Juris        `json:"jurisdiction"`
	Links       []Link       `json:"links"`
	Offices     []Place      `json:"offices"`
	OtherIDs    []Identifier `json:"other_identifiers"`
}

// Identifier is a scheme-tagged id from another system (bioguide, votesmart
// and the like) carried on a person record.
type Identifier struct {
	Identifier string `json:"identifier"`
	Scheme     string `json:"scheme"`
}

// Juris identifies the jurisdiction a person serves in.
type Juris struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Classification string `json:"classification"` // "state" | "country" | ...
}

// Role is a person's current legislative role.
type Role struct {
	Title             string     `json:"title"`
	OrgClassification string     `json:"org_classification"` // "upper" | "lower"
	District          FlexString `json:"district"`
	DivisionID        string     `json:"division_id"`
}

// Link is a labeled URL on a person record.
type Link struct {
	URL  string `json:"url"`
	Note string `json:"note"`
}

// Place is a contact office on a person record.
type Place struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Voice   string `json:"voice"`
	Fax     string `json:"fax"`
}

// FlexString decodes a JSON value that may arrive as a string or a number.
// OpenStates reports districts both ways depending on jurisdiction.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// People fetches every person for a jurisdiction, transparently paginating.
//
// On any failure it logs and returns an empty slice instead of an error.
// Callers must treat an empty result as "no data available", never as an
// authoritative zero — paired with the merge policy this means an outage
// can never erase previously stored values.
func (c *Client) People(ctx context.Context, jurisdiction string) []Person {
	params := url.Values{
		"jurisdiction": {jurisdiction},
		"include":      {"links", "offices", "other_identifiers"},
	}

	raw, err := c.getAllPages(ctx, "/people", params)
	if err != nil {
		c.logger.Error("OpenStates people fetch failed",
			"endpoint", "/people", "jurisdiction", jurisdiction, "error", err)
		return []Person{}
	}

	people, err := decodePeople(raw)
	if err != nil {
		c.logger.Error("OpenStates people decode failed",
			"endpoint", "/people", "jurisdiction", jurisdiction, "error", err)
		return []Person{}
	}
	return people
}

// PeopleByLocation fetches the people whose districts contain a point.
// Unlike People, failures surface as errors: the representative lookup
// endpoint reports them to its caller instead of merging around them.
func (c *Client) PeopleByLocation(ctx context.Context, lat, lng float64) ([]Person, error) {
	params := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lng": {strconv.FormatFloat(lng, 'f', 6, 64)},
	}

	resp, err := c.get(ctx, "/people.geo", params)
	if err != nil {
		return nil, fmt.Errorf("people by location: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(resp.Results, &items); err != nil {
		return nil, fmt.Errorf("decode people.geo results: %w", err)
	}
	return decodePeople(items)
}

func decodePeople(raw []json.RawMessage) ([]Person, error) {
	people := make([]Person, 0, len(raw))
	for _, item := range raw {
		var p Person
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, fmt.Errorf("decode person: %w", err)
		}
		people = append(people, p)
	}
	return people, nil
}

package nysenate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/civiclens/civiclens-data/internal/civic"
)

// imageBaseURL is where Open Legislation hosts member portraits. Members
// without a portrait get the literal no_image placeholder, which the merge
// policy filters out downstream.
const imageBaseURL = "https://legislation.nysenate.gov/static/img/business_assets/members/mini/"

// Adapter is the New York state source, bound to one session year.
type Adapter struct {
	client      *Client
	code        string
	sessionYear int
	logger      *slog.Logger
}

// New creates the New York adapter.
func New(code, baseURL, apiKey string, sessionYear int, logger *slog.Logger) *Adapter {
	return &Adapter{
		client:      NewClient(baseURL, apiKey, 600, logger),
		code:        code,
		sessionYear: sessionYear,
		logger:      logger,
	}
}

// Jurisdiction returns the legislature code the adapter is bound to.
func (a *Adapter) Jurisdiction() string { return a.code }

// --------------------------------------------------------------------------
// Members
// --------------------------------------------------------------------------

type memberRaw struct {
	MemberID     int    `json:"memberId"`
	ShortName    string `json:"shortName"`
	FullName     string `json:"fullName"`
	DistrictCode int    `json:"districtCode"`
	Chamber      string `json:"chamber"` // "SENATE" | "ASSEMBLY"
	Person       struct {
		FullName  string `json:"fullName"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Prefix    string `json:"prefix"`
		Suffix    string `json:"suffix"`
		Email     string `json:"email"`
		ImgName   string `json:"imgName"`
	} `json:"person"`
}

type memberListRaw struct {
	Items []memberRaw `json:"items"`
	Total int         `json:"total"`
}

// GetLegislators fetches all sitting members for the bound session year in
// canonical form.
func (a *Adapter) GetLegislators(ctx context.Context) ([]civic.Legislator, error) {
	params := url.Values{
		"limit": {"1000"},
		"full":  {"true"},
	}
	result, err := a.client.get(ctx, "/members/"+strconv.Itoa(a.sessionYear), params)
	if err != nil {
		return nil, fmt.Errorf("fetch NY members: %w", err)
	}

	var raw memberListRaw
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("decode NY members: %w", err)
	}

	legislators := make([]civic.Legislator, len(raw.Items))
	for i, m := range raw.Items {
		legislators[i] = normalizeMember(m)
	}
	return legislators, nil
}

func normalizeMember(raw memberRaw) civic.Legislator {
	name := raw.Person.FullName
	if name == "" {
		name = raw.FullName
	}

	chamber := chamberName(raw.Chamber)

	prefix := raw.Person.Prefix
	if prefix == "" {
		prefix = titleForChamber(chamber)
	}

	var image string
	if raw.Person.ImgName != "" {
		image = imageBaseURL + raw.Person.ImgName
	}

	return civic.Legislator{
		Name:       name,
		GivenName:  raw.Person.FirstName,
		FamilyName: raw.Person.LastName,
		SortName:   raw.ShortName,
		Prefix:     prefix,
		Suffix:     raw.Person.Suffix,
		Chamber:    chamber,
		District:   strconv.Itoa(raw.DistrictCode),
		Email:      raw.Person.Email,
		Image:      image,
		OtherIDs: []civic.OtherID{
			{ID: strconv.Itoa(raw.MemberID), Scheme: "memberId"},
		},
	}
}

// chamberName maps the upstream SENATE/ASSEMBLY vocabulary to the named
// scheme used everywhere else.
func chamberName(chamber string) string {
	switch strings.ToUpper(chamber) {
	case "SENATE":
		return "Senate"
	case "ASSEMBLY":
		return "Assembly"
	default:
		return chamber
	}
}

// titleForChamber returns the honorific the national source uses as a role
// title, which is what the identity resolver matches on.
func titleForChamber(chamber string) string {
	if chamber == "Senate" {
		return "Senator"
	}
	return "Assembly Member"
}

func normalizeCosponsor(raw memberRaw) civic.Cosponsor {
	name := raw.Person.FullName
	if name == "" {
		name = raw.FullName
	}
	return civic.Cosponsor{
		ID:       strconv.Itoa(raw.MemberID),
		Name:     name,
		Chamber:  chamberName(raw.Chamber),
		District: strconv.Itoa(raw.DistrictCode),
	}
}

package nysenate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/civiclens/civiclens-data/internal/civic"
	"github.com/civiclens/civiclens-data/internal/provider"
)

// ParseBillID splits a composite bill id ("S1234-2025") into print number
// and session year. The split is taken from the right because the print
// number itself may contain hyphens.
func ParseBillID(id string) (printNo, session string, err error) {
	i := strings.LastIndex(id, "-")
	if i <= 0 || i == len(id)-1 {
		return "", "", fmt.Errorf("malformed bill id %q: want <printNo>-<sessionYear>", id)
	}
	return id[:i], id[i+1:], nil
}

// --------------------------------------------------------------------------
// Bills
// --------------------------------------------------------------------------

type billRaw struct {
	BasePrintNo       string `json:"basePrintNo"`
	Session           int    `json:"session"`
	Title             string `json:"title"`
	ActiveVersion     string `json:"activeVersion"`
	Summary           string `json:"summary"`
	PublishedDateTime string `json:"publishedDateTime"`
	BillType          struct {
		Desc       string `json:"desc"`
		Resolution bool   `json:"resolution"`
	} `json:"billType"`
	Status struct {
		StatusDesc string `json:"statusDesc"`
		ActionDate string `json:"actionDate"`
	} `json:"status"`
	Sponsor struct {
		Member *memberRaw `json:"member"`
	} `json:"sponsor"`
	Amendments struct {
		Items map[string]struct {
			CoSponsors struct {
				Items []memberRaw `json:"items"`
			} `json:"coSponsors"`
		} `json:"items"`
	} `json:"amendments"`
}

// GetBills fetches the given bill ids concurrently. Each entry of the
// returned slice carries its own error; a failed fetch never aborts the
// sibling fetches.
func (a *Adapter) GetBills(ctx context.Context, ids []string) []provider.BillResult {
	results := make([]provider.BillResult, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()
			bill, err := a.getBill(ctx, id)
			results[i] = provider.BillResult{ID: id, Bill: bill, Err: err}
		}()
	}
	wg.Wait()

	return results
}

func (a *Adapter) getBill(ctx context.Context, id string) (civic.Bill, error) {
	printNo, session, err := ParseBillID(id)
	if err != nil {
		return civic.Bill{}, err
	}

	result, err := a.client.get(ctx, "/bills/"+session+"/"+printNo, nil)
	if err != nil {
		return civic.Bill{}, fmt.Errorf("fetch bill %s: %w", id, err)
	}

	var raw billRaw
	if err := json.Unmarshal(result, &raw); err != nil {
		return civic.Bill{}, fmt.Errorf("decode bill %s: %w", id, err)
	}

	return normalizeBill(id, raw), nil
}

func normalizeBill(id string, raw billRaw) civic.Bill {
	cosponsors := make(map[string][]civic.Cosponsor, len(raw.Amendments.Items))
	for version, amendment := range raw.Amendments.Items {
		list := make([]civic.Cosponsor, len(amendment.CoSponsors.Items))
		for i, m := range amendment.CoSponsors.Items {
			list[i] = normalizeCosponsor(m)
		}
		cosponsors[version] = list
	}

	var sponsorships []civic.Cosponsor
	if raw.Sponsor.Member != nil {
		sponsorships = []civic.Cosponsor{normalizeCosponsor(*raw.Sponsor.Member)}
	}

	classification := raw.BillType.Desc
	if raw.BillType.Resolution {
		classification = "resolution"
	}

	return civic.Bill{
		ID:             id,
		Title:          raw.Title,
		ActiveVersion:  raw.ActiveVersion,
		Summary:        raw.Summary,
		Classification: classification,
		PublishedAt:    raw.PublishedDateTime,
		LastActionAt:   raw.Status.ActionDate,
		LastAction:     raw.Status.StatusDesc,
		Sponsorships:   sponsorships,
		Cosponsors:     civic.NormalizeVersionKeys(cosponsors),
	}
}

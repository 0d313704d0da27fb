package syncer

import (
	"context"
	"fmt"

	"github.com/civiclens/civiclens-data/internal/civic"
	"github.com/civiclens/civiclens-data/internal/merge"
)

// SponsorshipUpsert is one derived merge-write: a sponsorship record
// destined for a legislator's sponsorships subcollection, keyed by bill id.
type SponsorshipUpsert struct {
	LegislatorID string
	BillID       string
	Record       civic.Sponsorship
}

// DeriveSponsorships walks a bill's active-version cosponsor list and
// produces the per-legislator sponsorship upserts. The primary sponsor is
// always included even when the upstream cosponsor collection omits them.
// Cosponsors with no matching legislator document are warnings, not
// errors.
//
// The derivation is idempotent: the same bill and version produce the same
// records, so the merge-write is a no-op on a re-run. When the bill
// advances to a new version the stored version field is overwritten —
// last-known version wins.
func DeriveSponsorships(bill civic.Bill, index map[string]string) ([]SponsorshipUpsert, []string) {
	version := bill.ActiveVersion
	if version == "" {
		version = civic.OriginalVersion
	}

	cosponsors := bill.ActiveCosponsors()
	for _, sponsor := range bill.Sponsorships {
		if !containsCosponsor(cosponsors, sponsor.ID) {
			cosponsors = append(cosponsors, sponsor)
		}
	}

	record := civic.Sponsorship{ID: bill.ID, Version: version, Title: bill.Title}

	var upserts []SponsorshipUpsert
	var warnings []string
	for _, c := range cosponsors {
		legislatorID, ok := index[civic.CosponsorKey(c.Chamber, c.District)]
		if !ok {
			warnings = append(warnings,
				fmt.Sprintf("No match for %s (%s-%s)", c.Name, c.Chamber, c.District))
			continue
		}
		upserts = append(upserts, SponsorshipUpsert{
			LegislatorID: legislatorID,
			BillID:       bill.ID,
			Record:       record,
		})
	}
	return upserts, warnings
}

func containsCosponsor(list []civic.Cosponsor, id string) bool {
	for _, c := range list {
		if c.ID == id {
			return true
		}
	}
	return false
}

// syncSponsorships runs the derivation pass for one jurisdiction over the
// bill documents already in the store.
func (s *Syncer) syncSponsorships(ctx context.Context, code string) JurisdictionResult {
	result := JurisdictionResult{Jurisdiction: code}

	known, err := s.store.ListLegislators(ctx, code)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	index := merge.LegislatorIndex(known)

	bills, err := s.store.ListBills(ctx, code)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	batch := s.store.NewBatch()
	for _, bill := range bills {
		upserts, warnings := DeriveSponsorships(bill, index)
		result.Warnings = append(result.Warnings, warnings...)

		for _, up := range upserts {
			if err := batch.MergeSponsorship(code, up.LegislatorID, up.BillID, up.Record); err != nil {
				result.Warnings = append(result.Warnings, err.Error())
				continue
			}
			result.Matched++
		}
	}

	if err := batch.Commit(ctx); err != nil {
		result.Error = err.Error()
		return result
	}

	s.logger.Info("Sponsorship sync complete", "jurisdiction", code,
		"bills", len(bills), "sponsorships", result.Matched,
		"warnings", len(result.Warnings))
	return result
}

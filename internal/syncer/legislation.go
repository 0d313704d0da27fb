package syncer

import (
	"context"
	"fmt"

	"github.com/civiclens/civiclens-data/internal/merge"
)

// syncLegislation runs the bill pass for one jurisdiction: enumerate the
// tracked bill ids from the store, re-fetch each from the state source,
// and merge-write metadata and cosponsor maps. A single bill's fetch
// failure is a warning; the sibling bills still land.
func (s *Syncer) syncLegislation(ctx context.Context, code string) JurisdictionResult {
	result := JurisdictionResult{Jurisdiction: code}

	source, ok := s.sources[code]
	if !ok {
		result.Error = fmt.Sprintf("no adapter registered for %s", code)
		return result
	}

	ids, err := s.store.ListBillIDs(ctx, code)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if len(ids) == 0 {
		return result
	}

	batch := s.store.NewBatch()
	now := s.now()

	for _, fetched := range source.GetBills(ctx, ids) {
		if fetched.Err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("bill %s: %v", fetched.ID, fetched.Err))
			continue
		}

		payload := merge.BuildBillUpdate(fetched.Bill, now)
		if err := batch.MergeBill(code, fetched.ID, payload); err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			continue
		}
		result.Matched++
	}

	if err := batch.Commit(ctx); err != nil {
		result.Error = err.Error()
		return result
	}

	s.logger.Info("Legislation sync complete", "jurisdiction", code,
		"tracked", len(ids), "updated", result.Matched,
		"warnings", len(result.Warnings))
	return result
}

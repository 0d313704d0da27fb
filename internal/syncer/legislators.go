package syncer

import (
	"context"
	"fmt"

	"github.com/civiclens/civiclens-data/internal/civic"
	"github.com/civiclens/civiclens-data/internal/merge"
	"github.com/civiclens/civiclens-data/internal/provider/openstates"
)

// syncLegislators runs the legislator pass for one jurisdiction: fetch the
// state and national rosters concurrently, resolve each state legislator
// against the national candidates, and merge-write the winners.
func (s *Syncer) syncLegislators(ctx context.Context, code string) JurisdictionResult {
	result := JurisdictionResult{Jurisdiction: code}

	source, ok := s.sources[code]
	if !ok {
		result.Error = fmt.Sprintf("no adapter registered for %s", code)
		return result
	}

	// Both rosters fetch concurrently; the national fetch never errors
	// (empty slice means "no data available", and the merge policy treats
	// it that way).
	var (
		legislators []civic.Legislator
		stateErr    error
		people      []openstates.Person
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		people = s.national.People(ctx, s.jurisdictionName(code))
	}()
	legislators, stateErr = source.GetLegislators(ctx)
	<-done

	if stateErr != nil {
		result.Error = stateErr.Error()
		return result
	}

	batch := s.store.NewBatch()
	now := s.now()

	for _, leg := range legislators {
		national, found := merge.MatchLegislator(leg, people)
		var matched *openstates.Person
		if found {
			matched = &national
			result.Matched++
		} else {
			result.Warnings = append(result.Warnings, merge.NoMatchWarning(leg))
		}

		payload := merge.BuildLegislatorUpdate(leg, matched, now)
		if err := batch.MergeLegislator(code, civic.Slug(leg.Name), payload); err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		}
	}

	if err := batch.Commit(ctx); err != nil {
		result.Error = err.Error()
		return result
	}

	s.logger.Info("Legislator sync complete", "jurisdiction", code,
		"legislators", len(legislators), "matched", result.Matched,
		"warnings", len(result.Warnings))
	return result
}

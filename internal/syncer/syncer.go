// Package syncer drives full reconciliation passes: enumerate tracked
// jurisdictions from the store, fetch from the state and national sources,
// resolve identities, merge fields, and batch-write the results. Failures
// are caught at the smallest unit that can fail independently — one
// cosponsor, one bill, one jurisdiction — so nothing short of the
// jurisdiction enumeration itself can abort a run.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/civiclens/civiclens-data/internal/civic"
	"github.com/civiclens/civiclens-data/internal/config"
	"github.com/civiclens/civiclens-data/internal/provider"
	"github.com/civiclens/civiclens-data/internal/provider/nysenate"
	"github.com/civiclens/civiclens-data/internal/provider/openstates"
	"github.com/civiclens/civiclens-data/internal/store"
)

// BatchWriter queues merge-writes for one jurisdiction and commits them
// together. Satisfied by *store.Batch.
type BatchWriter interface {
	MergeLegislator(legislature, id string, payload any) error
	MergeBill(legislature, id string, payload any) error
	MergeSponsorship(legislature, legislatorID, billID string, payload any) error
	Len() int
	Commit(ctx context.Context) error
}

// Store is the document-store surface the syncer needs.
type Store interface {
	ListLegislatures(ctx context.Context) ([]string, error)
	ListLegislators(ctx context.Context, legislature string) (map[string]civic.Legislator, error)
	ListBillIDs(ctx context.Context, legislature string) ([]string, error)
	ListBills(ctx context.Context, legislature string) ([]civic.Bill, error)
	NewBatch() BatchWriter
}

// storeAdapter bridges *store.Store to the Store interface; the concrete
// NewBatch returns *store.Batch rather than the interface type.
type storeAdapter struct{ *store.Store }

func (a storeAdapter) NewBatch() BatchWriter { return a.Store.NewBatch() }

// WrapStore adapts the Postgres-backed store for use by the syncer.
func WrapStore(st *store.Store) Store { return storeAdapter{st} }

// NationalSource is the aggregator surface the syncer needs. Satisfied by
// *openstates.Client.
type NationalSource interface {
	People(ctx context.Context, jurisdiction string) []openstates.Person
}

// Syncer orchestrates reconciliation passes over an injected, immutable
// registry of jurisdiction adapters.
type Syncer struct {
	store    Store
	national NationalSource
	sources  map[string]provider.StateSource
	names    map[string]string // legislature code -> national jurisdiction name
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Syncer.
func New(st Store, national NationalSource, sources []provider.StateSource, registry []config.Jurisdiction, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	byCode := make(map[string]provider.StateSource, len(sources))
	for _, s := range sources {
		byCode[s.Jurisdiction()] = s
	}
	names := make(map[string]string, len(registry))
	for _, j := range registry {
		names[j.Code] = j.Name
	}
	return &Syncer{
		store:    st,
		national: national,
		sources:  byCode,
		names:    names,
		logger:   logger,
		now:      time.Now,
	}
}

// BuildSources constructs the state adapters for a registry.
func BuildSources(registry []config.Jurisdiction, logger *slog.Logger) []provider.StateSource {
	sources := make([]provider.StateSource, 0, len(registry))
	for _, j := range registry {
		sources = append(sources, nysenate.New(j.Code, j.BaseURL, j.APIKey, j.SessionYear, logger))
	}
	return sources
}

// RegisteredJurisdictions returns the codes the syncer has adapters for.
func (s *Syncer) RegisteredJurisdictions() []string {
	codes := make([]string, 0, len(s.sources))
	for code := range s.sources {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Run executes one full pass: legislators, then legislation, then
// sponsorship derivation. Only jurisdiction enumeration can fail the run.
func (s *Syncer) Run(ctx context.Context) (RunReport, error) {
	start := s.now()

	codes, err := s.store.ListLegislatures(ctx)
	if err != nil {
		return RunReport{}, err
	}

	report := RunReport{StartedAt: start.UTC()}
	report.Legislators = s.forEachJurisdiction(ctx, codes, s.syncLegislators)
	report.Legislation = s.forEachJurisdiction(ctx, codes, s.syncLegislation)
	report.Sponsorships = s.forEachJurisdiction(ctx, codes, s.syncSponsorships)
	report.Duration = s.now().Sub(start).Round(time.Millisecond).String()

	s.logger.Info("Sync run complete", "summary", report.Summary())
	return report, nil
}

// SyncLegislators runs the legislator pass alone.
func (s *Syncer) SyncLegislators(ctx context.Context) ([]JurisdictionResult, error) {
	codes, err := s.store.ListLegislatures(ctx)
	if err != nil {
		return nil, err
	}
	return s.forEachJurisdiction(ctx, codes, s.syncLegislators), nil
}

// SyncLegislation runs the bill pass alone.
func (s *Syncer) SyncLegislation(ctx context.Context) ([]JurisdictionResult, error) {
	codes, err := s.store.ListLegislatures(ctx)
	if err != nil {
		return nil, err
	}
	return s.forEachJurisdiction(ctx, codes, s.syncLegislation), nil
}

// SyncSponsorships runs the sponsorship derivation pass alone.
func (s *Syncer) SyncSponsorships(ctx context.Context) ([]JurisdictionResult, error) {
	codes, err := s.store.ListLegislatures(ctx)
	if err != nil {
		return nil, err
	}
	return s.forEachJurisdiction(ctx, codes, s.syncSponsorships), nil
}

// forEachJurisdiction fans out one goroutine per jurisdiction and collects
// results in jurisdiction order. An error inside one jurisdiction is
// recorded on its result and never reaches a sibling.
func (s *Syncer) forEachJurisdiction(
	ctx context.Context,
	codes []string,
	fn func(ctx context.Context, code string) JurisdictionResult,
) []JurisdictionResult {
	results := make([]JurisdictionResult, len(codes))

	var wg sync.WaitGroup
	for i, code := range codes {
		i, code := i, code
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Jurisdiction sync panicked", "jurisdiction", code, "panic", r)
					results[i] = JurisdictionResult{
						Jurisdiction: code,
						Error:        fmt.Sprintf("panic: %v", r),
					}
				}
			}()
			results[i] = fn(ctx, code)
		}()
	}
	wg.Wait()

	return results
}

// jurisdictionName resolves the national-source jurisdiction name for a
// legislature code. Codes without a registry entry fall back to the code
// itself, which OpenStates also accepts for ocd-division lookups.
func (s *Syncer) jurisdictionName(code string) string {
	if name, ok := s.names[code]; ok {
		return name
	}
	return code
}

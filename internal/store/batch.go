package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Batch queues many merge-writes and commits them in one round trip.
// Each jurisdiction's sync obtains its own Batch, so a failing commit is
// attributed to that jurisdiction and never blocks another's writes.
type Batch struct {
	store *Store
	batch *pgx.Batch
	keys  []string // document paths, index-aligned with queued writes
}

// NewBatch creates an empty write batch.
func (s *Store) NewBatch() *Batch {
	return &Batch{store: s, batch: &pgx.Batch{}}
}

// Len returns the number of queued writes.
func (b *Batch) Len() int { return b.batch.Len() }

// MergeLegislator queues a merge-write of a partial legislator payload.
func (b *Batch) MergeLegislator(legislature, id string, payload any) error {
	doc, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode legislator %s: %w", id, err)
	}
	b.batch.Queue(mergeLegislatorSQL, legislature, id, doc)
	b.keys = append(b.keys, fmt.Sprintf("legislatures/%s/legislators/%s", legislature, id))
	return nil
}

// MergeBill queues a merge-write of a partial bill payload.
func (b *Batch) MergeBill(legislature, id string, payload any) error {
	doc, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode bill %s: %w", id, err)
	}
	b.batch.Queue(mergeBillSQL, legislature, id, doc)
	b.keys = append(b.keys, fmt.Sprintf("legislatures/%s/legislation/%s", legislature, id))
	return nil
}

// MergeSponsorship queues a merge-write of a sponsorship record keyed by
// bill id under a legislator. Re-queueing an identical record is a no-op
// on commit, which is what lets the deriver run on every sync pass.
func (b *Batch) MergeSponsorship(legislature, legislatorID, billID string, payload any) error {
	doc, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode sponsorship %s: %w", billID, err)
	}
	b.batch.Queue(mergeSponsorshipSQL, legislature, legislatorID, billID, doc)
	b.keys = append(b.keys,
		fmt.Sprintf("legislatures/%s/legislators/%s/sponsorships/%s", legislature, legislatorID, billID))
	return nil
}

// Commit sends the batch and drains every queued result. Item failures are
// collected and returned as one joined error naming the failed document
// paths; the batch itself still completes its round trip.
func (b *Batch) Commit(ctx context.Context) error {
	if b.batch.Len() == 0 {
		return nil
	}

	br := b.store.pool.SendBatch(ctx, b.batch)
	defer br.Close()

	var failures []string
	for i := 0; i < b.batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", b.keys[i], err))
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("batch commit: %d/%d writes failed: %v",
			len(failures), b.batch.Len(), failures)
	}
	return nil
}

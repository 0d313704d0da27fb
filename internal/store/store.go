// Package store is the document layer over Postgres. Each collection is a
// table holding one JSONB doc per row; writes are merge-style (`doc ||
// incoming`), so a partial payload never erases fields it does not name.
// This mirrors the merge-set semantics the UI's document store exposes and
// is what allows the sync layer to write only the fields that passed the
// merge policy.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civiclens/civiclens-data/internal/civic"
	"github.com/civiclens/civiclens-data/internal/config"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

const (
	mergeLegislatorSQL = `INSERT INTO ` + config.LegislatorsTable + ` (legislature, id, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (legislature, id) DO UPDATE SET
			doc = ` + config.LegislatorsTable + `.doc || EXCLUDED.doc,
			updated_at = NOW()`

	// The cosponsor map merges one level deep so a sync that only saw the
	// current version cannot drop earlier versions' cosponsor entries.
	mergeBillSQL = `INSERT INTO ` + config.LegislationTable + ` (legislature, id, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (legislature, id) DO UPDATE SET
			doc = ` + config.LegislationTable + `.doc || EXCLUDED.doc || jsonb_build_object(
				'cosponsors',
				COALESCE(` + config.LegislationTable + `.doc->'cosponsors', '{}'::jsonb) ||
				COALESCE(EXCLUDED.doc->'cosponsors', '{}'::jsonb)),
			updated_at = NOW()`

	mergeSponsorshipSQL = `INSERT INTO ` + config.SponsorshipsTable + ` (legislature, legislator_id, bill_id, doc)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (legislature, legislator_id, bill_id) DO UPDATE SET
			doc = ` + config.SponsorshipsTable + `.doc || EXCLUDED.doc,
			updated_at = NOW()`
)

// Store provides collection/document access for the sync and API layers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store on an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ListLegislatures returns the codes of all tracked legislatures. The
// orchestrator's jurisdiction set is this list, not a hard-coded one.
func (s *Store) ListLegislatures(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "list_legislatures")
	if err != nil {
		return nil, fmt.Errorf("list legislatures: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan legislatures: %w", err)
	}
	return codes, nil
}

// ListLegislators returns all legislator docs for a legislature, keyed by
// document id.
func (s *Store) ListLegislators(ctx context.Context, legislature string) (map[string]civic.Legislator, error) {
	rows, err := s.pool.Query(ctx, "list_legislators", legislature)
	if err != nil {
		return nil, fmt.Errorf("list legislators %s: %w", legislature, err)
	}
	defer rows.Close()

	out := make(map[string]civic.Legislator)
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan legislator: %w", err)
		}
		var leg civic.Legislator
		if err := json.Unmarshal(doc, &leg); err != nil {
			return nil, fmt.Errorf("decode legislator %s: %w", id, err)
		}
		out[id] = leg
	}
	return out, rows.Err()
}

// ListBillIDs returns the ids of all tracked bills for a legislature.
func (s *Store) ListBillIDs(ctx context.Context, legislature string) ([]string, error) {
	rows, err := s.pool.Query(ctx, "list_bill_ids", legislature)
	if err != nil {
		return nil, fmt.Errorf("list bill ids %s: %w", legislature, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan bill ids: %w", err)
	}
	return ids, nil
}

// ListBills returns all bill docs for a legislature.
func (s *Store) ListBills(ctx context.Context, legislature string) ([]civic.Bill, error) {
	rows, err := s.pool.Query(ctx, "list_bills", legislature)
	if err != nil {
		return nil, fmt.Errorf("list bills %s: %w", legislature, err)
	}
	defer rows.Close()

	var bills []civic.Bill
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		var b civic.Bill
		if err := json.Unmarshal(doc, &b); err != nil {
			return nil, fmt.Errorf("decode bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// GetBill fetches a single bill doc.
func (s *Store) GetBill(ctx context.Context, legislature, id string) (civic.Bill, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, "get_bill", legislature, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return civic.Bill{}, ErrNotFound
	}
	if err != nil {
		return civic.Bill{}, fmt.Errorf("get bill %s/%s: %w", legislature, id, err)
	}
	var b civic.Bill
	if err := json.Unmarshal(doc, &b); err != nil {
		return civic.Bill{}, fmt.Errorf("decode bill %s: %w", id, err)
	}
	return b, nil
}

// MergeBill merge-writes a single bill doc outside a batch.
func (s *Store) MergeBill(ctx context.Context, legislature, id string, payload any) error {
	doc, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode bill %s: %w", id, err)
	}
	if _, err := s.pool.Exec(ctx, mergeBillSQL, legislature, id, doc); err != nil {
		return fmt.Errorf("merge bill %s/%s: %w", legislature, id, err)
	}
	return nil
}

// DeleteBill removes a bill document. Deleting a missing bill is not an
// error.
func (s *Store) DeleteBill(ctx context.Context, legislature, id string) error {
	if _, err := s.pool.Exec(ctx, "delete_bill", legislature, id); err != nil {
		return fmt.Errorf("delete bill %s/%s: %w", legislature, id, err)
	}
	return nil
}

// IsAdmin reports whether the user holds the admin claim. Unknown users
// are not admins.
func (s *Store) IsAdmin(ctx context.Context, email string) (bool, error) {
	var admin bool
	if err := s.pool.QueryRow(ctx, "user_is_admin", email).Scan(&admin); err != nil {
		return false, fmt.Errorf("admin lookup %s: %w", email, err)
	}
	return admin, nil
}

// SetAdminRole grants or revokes the admin claim for a user.
func (s *Store) SetAdminRole(ctx context.Context, email string, admin bool) error {
	if _, err := s.pool.Exec(ctx, "set_admin_role", email, admin); err != nil {
		return fmt.Errorf("set admin role %s: %w", email, err)
	}
	return nil
}

// Package provider defines the contract a state legislature adapter must
// satisfy. Each upstream API gets its own subpackage that normalizes into
// the canonical civic types; adapters are selected by jurisdiction code
// from an explicit registry built at startup, never from ambient globals.
package provider

import (
	"context"

	"github.com/civiclens/civiclens-data/internal/civic"
)

// BillResult carries one bill fetch outcome. Bills are fetched
// concurrently and each failure is surfaced independently, so one bad
// print number cannot abort its siblings.
type BillResult struct {
	ID   string
	Bill civic.Bill
	Err  error
}

// StateSource is a jurisdiction-bound adapter for a state legislative API.
type StateSource interface {
	// Jurisdiction returns the legislature code the adapter is bound to.
	Jurisdiction() string

	// GetLegislators returns every sitting legislator in canonical form.
	GetLegislators(ctx context.Context) ([]civic.Legislator, error)

	// GetBills fetches the given bill ids concurrently. The result slice
	// has one entry per requested id, in request order.
	GetBills(ctx context.Context, ids []string) []BillResult
}

package syncer

import (
	"fmt"
	"strings"
	"time"
)

// JurisdictionResult is the outcome of one jurisdiction's pass. Either
// Error is set (the whole jurisdiction failed) or Matched/Warnings carry
// the per-entity outcome.
type JurisdictionResult struct {
	Jurisdiction string   `json:"jurisdiction"`
	Matched      int      `json:"matched"`
	Warnings     []string `json:"warnings,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// RunReport is the full result of one orchestrator pass. The manual HTTP
// trigger returns it verbatim so operators can diagnose partial failures
// without consulting logs.
type RunReport struct {
	StartedAt    time.Time            `json:"started_at"`
	Duration     string               `json:"duration"`
	Legislators  []JurisdictionResult `json:"legislators"`
	Legislation  []JurisdictionResult `json:"legislation"`
	Sponsorships []JurisdictionResult `json:"sponsorships"`
}

// Summary renders a one-line overview for logs.
func (r RunReport) Summary() string {
	return fmt.Sprintf("legislators[%s] legislation[%s] sponsorships[%s] in %s",
		summarize(r.Legislators), summarize(r.Legislation), summarize(r.Sponsorships), r.Duration)
}

func summarize(results []JurisdictionResult) string {
	matched, warnings, errors := 0, 0, 0
	for _, res := range results {
		matched += res.Matched
		warnings += len(res.Warnings)
		if res.Error != "" {
			errors++
		}
	}
	parts := []string{fmt.Sprintf("%d matched", matched)}
	if warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", warnings))
	}
	if errors > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", errors))
	}
	return strings.Join(parts, ", ")
}

package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// StartSchedule registers the recurring sync trigger and starts the cron
// runner. The default schedule fires every Monday at 05:00 America/New_York
// and the job gates itself to the first Monday of the month, since cron
// ORs a day-of-month field with a weekday field instead of ANDing them.
// The scheduled trigger only logs; operators use the manual HTTP trigger
// when they need the result payload.
func StartSchedule(ctx context.Context, s *Syncer, spec string, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(spec, func() {
		now := time.Now().In(scheduleLocation())
		if now.Day() > 7 {
			logger.Info("Scheduled sync skipped", "reason", "not the first Monday of the month")
			return
		}

		report, err := s.Run(ctx)
		if err != nil {
			logger.Error("Scheduled sync failed", "error", err)
			return
		}
		logger.Info("Scheduled sync finished", "summary", report.Summary())
	})
	if err != nil {
		return nil, fmt.Errorf("parse sync schedule %q: %w", spec, err)
	}

	c.Start()
	logger.Info("Sync schedule started", "spec", spec)
	return c, nil
}

func scheduleLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.Local
	}
	return loc
}

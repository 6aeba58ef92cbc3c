// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"
	"time"

	"github.com/alphadesk/compass/internal/engine"
	"github.com/alphadesk/compass/pkg/logger"
)

// ScoringJob runs the daily composite scoring cycle after market close.
type ScoringJob struct {
	engine   *engine.Engine
	schedule string
	logger   *logger.Logger
}

// NewScoringJob creates a new scoring job with the configured schedule
func NewScoringJob(eng *engine.Engine, schedule string, log *logger.Logger) *ScoringJob {
	return &ScoringJob{
		engine:   eng,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ScoringJob) Name() string {
	return "daily_scoring"
}

// Schedule returns the cron schedule expression
func (j *ScoringJob) Schedule() string {
	return j.schedule
}

// Run executes one scoring cycle for today
func (j *ScoringJob) Run(ctx context.Context) error {
	date := truncateToDay(time.Now().UTC())

	result, err := j.engine.Run(ctx, date)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":   result.RunID,
		"scored":   result.Scored(),
		"excluded": len(result.Excluded),
	}).Info("Scheduled scoring cycle finished")

	return nil
}

// truncateToDay drops the time-of-day so every cycle for a calendar
// date writes to the same snapshot.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

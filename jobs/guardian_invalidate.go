package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/horizonapply/horizon/internal/guardian"
	jobmetrics "github.com/horizonapply/horizon/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// GuardianInvalidateJob drops cached guardianship answers when links change.
type GuardianInvalidateJob struct {
	cache   *guardian.Cache
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewGuardianInvalidateJob constructs the job. A nil metrics falls back to the
// default registerer.
func NewGuardianInvalidateJob(cache *guardian.Cache, logger *slog.Logger, metrics *jobmetrics.Metrics) *GuardianInvalidateJob {
	if metrics == nil {
		metrics = defaultJobMetrics
	}
	return &GuardianInvalidateJob{cache: cache, logger: logger, metrics: metrics}
}

// Handle processes TaskGuardianInvalidate tasks.
func (j *GuardianInvalidateJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload GuardianInvalidatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.ParentID == "" || payload.StudentID == "" {
		return asynq.SkipRetry
	}

	tracker := j.metrics.Track(TaskGuardianInvalidate)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	if resultErr = j.cache.Invalidate(ctx, payload.ParentID, payload.StudentID); resultErr != nil {
		return resultErr
	}
	if j.logger != nil {
		j.logger.Info("guardian cache invalidated",
			slog.String("parent", payload.ParentID),
			slog.String("student", payload.StudentID),
		)
	}
	return nil
}

// HandleSweep processes TaskGuardianCacheSweep tasks.
func (j *GuardianInvalidateJob) HandleSweep(ctx context.Context, _ *asynq.Task) error {
	tracker := j.metrics.Track(TaskGuardianCacheSweep)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	if resultErr = j.cache.Sweep(ctx); resultErr != nil {
		return resultErr
	}
	if j.logger != nil {
		j.logger.Info("guardian cache swept")
	}
	return nil
}

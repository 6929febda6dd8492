// Package worker drains the rating queue: lease a job, run the rating pass,
// store the outcome on the job record
package worker

import (
	"context"
	"encoding/json"
	"time"

	"screenrate/internal/platform/logger"
	"screenrate/internal/platform/queue"
	scriptsdom "screenrate/internal/services/scripts/domain"
)

// Rater is the slice of the scripts service the worker drives
type Rater interface {
	ProcessRating(ctx context.Context, id string) (scriptsdom.RateOutcome, error)
}

const (
	leaseWait  = 5 * time.Second
	retryPause = time.Second
)

// Worker consumes rating jobs until its context is canceled
type Worker struct {
	q       *queue.Queue
	scripts Rater
	log     logger.Logger
}

// New builds a worker over a queue and the scripts service
func New(q *queue.Queue, scripts Rater) *Worker {
	return &Worker{q: q, scripts: scripts, log: *logger.Named("worker")}
}

// Run blocks until ctx is done, processing jobs one at a time
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().Msg("worker started")
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		job, err := w.q.Lease(ctx, leaseWait)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Warn().Err(err).Msg("lease failed, backing off")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryPause):
			}
			continue
		}
		if job == nil {
			continue
		}
		w.Process(ctx, job)
	}
}

// Process runs one job to completion and records the outcome
func (w *Worker) Process(ctx context.Context, job *queue.Job) {
	w.log.Info().Str("job_id", job.ID).Str("script_id", job.ScriptID).Msg("job started")

	out, err := w.scripts.ProcessRating(ctx, job.ScriptID)
	if err != nil {
		w.log.Error().Str("job_id", job.ID).Err(err).Msg("job failed")
		if e := w.q.Fail(ctx, job.ID, err.Error()); e != nil {
			w.log.Error().Str("job_id", job.ID).Err(e).Msg("recording failure failed")
		}
		return
	}

	payload, err := json.Marshal(out)
	if err != nil {
		// outcome types are all JSON-safe, this indicates a bug
		w.log.Error().Str("job_id", job.ID).Err(err).Msg("outcome marshal failed")
		_ = w.q.Fail(ctx, job.ID, "internal: outcome not serializable")
		return
	}
	if err := w.q.Complete(ctx, job.ID, string(payload)); err != nil {
		w.log.Error().Str("job_id", job.ID).Err(err).Msg("recording completion failed")
		return
	}
	w.log.Info().Str("job_id", job.ID).Str("rating", out.PredictedRating).Msg("job completed")
}

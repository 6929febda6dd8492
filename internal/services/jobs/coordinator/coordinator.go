// Package coordinator guards the rating queue with per-script single-flight.
// The Redis active marker prevents duplicate jobs across processes; the
// singleflight group collapses concurrent enqueues inside one process
package coordinator

import (
	"context"

	"golang.org/x/sync/singleflight"

	"screenrate/internal/platform/logger"
	"screenrate/internal/platform/queue"
)

// Coordinator wraps the queue with the single-flight rule
type Coordinator struct {
	q   *queue.Queue
	sf  singleflight.Group
	log logger.Logger
}

// New binds a coordinator to a queue
func New(q *queue.Queue) *Coordinator {
	return &Coordinator{q: q, log: *logger.Named("coordinator")}
}

// Enqueue queues a rating job for scriptID. Concurrent callers for the same
// script get the same job id back
func (c *Coordinator) Enqueue(ctx context.Context, scriptID string) (string, error) {
	v, err, shared := c.sf.Do(scriptID, func() (any, error) {
		id, existing, err := c.q.Enqueue(ctx, scriptID)
		if err != nil {
			return "", err
		}
		if existing {
			c.log.Debug().Str("script_id", scriptID).Str("job_id", id).
				Msg("active job reused")
		}
		return id, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.log.Debug().Str("script_id", scriptID).Msg("concurrent enqueue collapsed")
	}
	return v.(string), nil
}

// Status looks up a job record
func (c *Coordinator) Status(ctx context.Context, jobID string) (queue.Job, error) {
	return c.q.Info(ctx, jobID)
}

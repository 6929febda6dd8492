// Package queue is a small Redis-backed job queue for rating work. Jobs live
// in a pending list plus a per-job hash; a per-script active marker backs the
// coordinator's single-flight guarantee across processes
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	perr "screenrate/internal/platform/errors"
	"screenrate/internal/platform/logger"
)

// Status is the job status vocabulary surfaced to callers
type Status string

const (
	StatusQueued     Status = "queued"
	StatusDeferred   Status = "deferred"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusNotFound   Status = "not_found"
)

// JobTimeout bounds how long a job may stay active before its single-flight
// marker expires and a new enqueue is allowed through
const JobTimeout = 10 * time.Minute

// Job is one unit of rating work
type Job struct {
	ID       string `json:"job_id"`
	ScriptID string `json:"script_id"`
	Status   Status `json:"status"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Queue wraps one named Redis queue
type Queue struct {
	rd   *redis.Client
	name string
	log  logger.Logger
}

// New binds a queue to a Redis client. Name namespaces all keys
func New(rd *redis.Client, name string) *Queue {
	return &Queue{rd: rd, name: name, log: *logger.Named("queue")}
}

func (q *Queue) pendingKey() string        { return "q:" + q.name + ":pending" }
func (q *Queue) jobKey(id string) string   { return "q:" + q.name + ":job:" + id }
func (q *Queue) activeKey(sid string) string { return "q:" + q.name + ":active:" + sid }

// Enqueue adds a rating job for scriptID. If an active (queued or
// in-progress) job already exists for the script, its id comes back with
// existing=true and no second job is created
func (q *Queue) Enqueue(ctx context.Context, scriptID string) (jobID string, existing bool, err error) {
	if scriptID == "" {
		return "", false, perr.InvalidArgf("queue: empty script id")
	}

	if cur, err := q.rd.Get(ctx, q.activeKey(scriptID)).Result(); err == nil && cur != "" {
		job, err := q.Info(ctx, cur)
		if err == nil && (job.Status == StatusQueued || job.Status == StatusInProgress) {
			return cur, true, nil
		}
	} else if err != nil && err != redis.Nil {
		return "", false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "queue: read active marker")
	}

	jobID = uuid.NewString()
	pipe := q.rd.TxPipeline()
	pipe.HSet(ctx, q.jobKey(jobID), map[string]any{
		"script_id": scriptID,
		"status":    string(StatusQueued),
	})
	pipe.Expire(ctx, q.jobKey(jobID), 24*time.Hour)
	pipe.Set(ctx, q.activeKey(scriptID), jobID, JobTimeout)
	pipe.LPush(ctx, q.pendingKey(), jobID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "queue: enqueue")
	}

	q.log.Debug().Str("job_id", jobID).Str("script_id", scriptID).Msg("job enqueued")
	return jobID, false, nil
}

// Info returns the job record; unknown ids read as StatusNotFound
func (q *Queue) Info(ctx context.Context, jobID string) (Job, error) {
	fields, err := q.rd.HGetAll(ctx, q.jobKey(jobID)).Result()
	if err != nil {
		return Job{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "queue: job info")
	}
	if len(fields) == 0 {
		return Job{ID: jobID, Status: StatusNotFound}, nil
	}
	return Job{
		ID:       jobID,
		ScriptID: fields["script_id"],
		Status:   Status(fields["status"]),
		Result:   fields["result"],
		Error:    fields["error"],
	}, nil
}

// Lease blocks up to wait for the next pending job and marks it in progress.
// A zero wait blocks indefinitely; redis.Nil maps to a nil job
func (q *Queue) Lease(ctx context.Context, wait time.Duration) (*Job, error) {
	res, err := q.rd.BRPop(ctx, wait, q.pendingKey()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "queue: lease")
	}
	jobID := res[1]

	if err := q.rd.HSet(ctx, q.jobKey(jobID), "status", string(StatusInProgress)).Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "queue: mark in progress")
	}
	job, err := q.Info(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Complete stores the result, marks the job completed and clears the
// script's active marker
func (q *Queue) Complete(ctx context.Context, jobID, result string) error {
	return q.finish(ctx, jobID, StatusCompleted, "result", result)
}

// Fail records the error, marks the job failed and clears the script's
// active marker
func (q *Queue) Fail(ctx context.Context, jobID, errMsg string) error {
	return q.finish(ctx, jobID, StatusFailed, "error", errMsg)
}

func (q *Queue) finish(ctx context.Context, jobID string, st Status, field, val string) error {
	job, err := q.Info(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status == StatusNotFound {
		return perr.NotFoundf("queue: job %s not found", jobID)
	}

	pipe := q.rd.TxPipeline()
	pipe.HSet(ctx, q.jobKey(jobID), "status", string(st), field, val)
	if job.ScriptID != "" {
		pipe.Del(ctx, q.activeKey(job.ScriptID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "queue: finish job")
	}
	return nil
}

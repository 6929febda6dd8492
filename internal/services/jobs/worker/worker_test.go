package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	perr "screenrate/internal/platform/errors"
	"screenrate/internal/platform/queue"
	scriptsdom "screenrate/internal/services/scripts/domain"
)

type stubRater struct {
	out scriptsdom.RateOutcome
	err error
}

func (s stubRater) ProcessRating(context.Context, string) (scriptsdom.RateOutcome, error) {
	return s.out, s.err
}

func newTestQueue(t *testing.T) *queue.Queue {
	t.Helper()
	mr := miniredis.RunT(t)
	rd := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rd.Close() })
	return queue.New(rd, "rate")
}

func TestProcessCompletesJob(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	id, _, err := q.Enqueue(ctx, "s1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	job, err := q.Lease(ctx, time.Second)
	if err != nil || job == nil {
		t.Fatalf("Lease: job=%v err=%v", job, err)
	}

	w := New(q, stubRater{out: scriptsdom.RateOutcome{
		ScriptID:        "s1",
		PredictedRating: "16+",
		TotalScenes:     2,
	}})
	w.Process(ctx, job)

	done, err := q.Info(ctx, id)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if done.Status != queue.StatusCompleted {
		t.Fatalf("status = %s", done.Status)
	}

	var out scriptsdom.RateOutcome
	if err := json.Unmarshal([]byte(done.Result), &out); err != nil {
		t.Fatalf("result not JSON: %v", err)
	}
	if out.PredictedRating != "16+" || out.ScriptID != "s1" {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestProcessRecordsFailure(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	_, _, err := q.Enqueue(ctx, "s1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	job, err := q.Lease(ctx, time.Second)
	if err != nil || job == nil {
		t.Fatalf("Lease: job=%v err=%v", job, err)
	}

	w := New(q, stubRater{err: perr.MLUnavailablef("scoring service down")})
	w.Process(ctx, job)

	failed, err := q.Info(ctx, job.ID)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if failed.Status != queue.StatusFailed || failed.Error == "" {
		t.Fatalf("job = %+v", failed)
	}
}

func TestFailureClearsActiveMarker(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	first, _, err := q.Enqueue(ctx, "s1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	job, _ := q.Lease(ctx, time.Second)

	New(q, stubRater{err: perr.MLUnavailablef("down")}).Process(ctx, job)

	// the script can be re-queued once the failure is recorded
	second, existing, err := q.Enqueue(ctx, "s1")
	if err != nil {
		t.Fatalf("re-enqueue: %v", err)
	}
	if existing || second == first {
		t.Fatalf("marker not cleared: existing=%v first=%s second=%s", existing, first, second)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	q := newTestQueue(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(q, stubRater{}).Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("worker did not stop")
	}
}

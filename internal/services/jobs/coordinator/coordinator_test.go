package coordinator

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"screenrate/internal/platform/queue"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	mr := miniredis.RunT(t)
	rd := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rd.Close() })
	return New(queue.New(rd, "rate"))
}

func TestEnqueueReturnsJobID(t *testing.T) {
	c := newTestCoordinator(t)

	id, err := c.Enqueue(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if id == "" {
		t.Fatalf("empty job id")
	}

	job, err := c.Status(context.Background(), id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if job.Status != queue.StatusQueued || job.ScriptID != "s1" {
		t.Fatalf("job = %+v", job)
	}
}

func TestConcurrentEnqueueCollapses(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	const callers = 16
	ids := make([]string, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			id, err := c.Enqueue(ctx, "s1")
			if err != nil {
				t.Errorf("Enqueue %d: %v", i, err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("job ids diverge: %q vs %q", ids[0], ids[i])
		}
	}
}

func TestSequentialEnqueueReusesActiveJob(t *testing.T) {
	c := newTestCoordinator(t)
	ctx := context.Background()

	first, err := c.Enqueue(ctx, "s1")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	second, err := c.Enqueue(ctx, "s1")
	if err != nil {
		t.Fatalf("second Enqueue: %v", err)
	}
	if second != first {
		t.Fatalf("active job not reused: %q vs %q", first, second)
	}

	// a different script does not share the job
	other, err := c.Enqueue(ctx, "s2")
	if err != nil {
		t.Fatalf("Enqueue other: %v", err)
	}
	if other == first {
		t.Fatalf("scripts share a job id")
	}
}

func TestStatusUnknownJob(t *testing.T) {
	c := newTestCoordinator(t)

	job, err := c.Status(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if job.Status != queue.StatusNotFound {
		t.Fatalf("status = %s", job.Status)
	}
}

package schedule_test

import (
	"sync/atomic"
	"testing"
	"time"

	"folio/internal/platform/schedule"
)

func TestManualFiresOnlyLiveTasks(t *testing.T) {
	t.Parallel()
	m := schedule.NewManual()
	var ticks, flushes int
	tick := m.Every(time.Second, func() { ticks++ })
	m.Every(15*time.Second, func() { flushes++ })

	m.Fire(time.Second)
	m.Fire(time.Second)
	tick.Stop()
	m.Fire(time.Second)
	m.Fire(15 * time.Second)

	if ticks != 2 || flushes != 1 {
		t.Fatalf("unexpected counts ticks=%d flushes=%d", ticks, flushes)
	}
	if m.Live() != 1 {
		t.Fatalf("expected one live task, got %d", m.Live())
	}
}

func TestCronSchedulerRunsUntilStopped(t *testing.T) {
	t.Parallel()
	var runs atomic.Int32
	h := schedule.CronScheduler{}.Every(time.Second, func() { runs.Add(1) })
	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	h.Stop()
	h.Stop()
	after := runs.Load()
	if after == 0 {
		t.Fatalf("expected the task to run at least once")
	}
	time.Sleep(1200 * time.Millisecond)
	if runs.Load() != after {
		t.Fatalf("task kept running after stop")
	}
}

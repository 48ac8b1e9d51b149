// Package schedule runs periodic tasks whose lifetime is owned by the caller.
// Every task is started with Every and released with the returned Handle.
package schedule

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type Handle interface {
	Stop()
}

type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
}

// CronScheduler gives every task its own cron runner so stopping one task
// never affects another.
type CronScheduler struct{}

func (CronScheduler) Every(interval time.Duration, fn func()) Handle {
	c := cron.New()
	c.Schedule(cron.Every(interval), cron.FuncJob(fn))
	c.Start()
	return &cronHandle{c: c}
}

type cronHandle struct {
	once sync.Once
	c    *cron.Cron
}

// Stop blocks until a running invocation of the task has returned.
func (h *cronHandle) Stop() {
	h.once.Do(func() {
		<-h.c.Stop().Done()
	})
}

// Manual is a Scheduler whose tasks only run when Fire is called.
type Manual struct {
	mu    sync.Mutex
	next  int
	tasks map[int]manualTask
}

type manualTask struct {
	interval time.Duration
	fn       func()
}

func NewManual() *Manual {
	return &Manual{tasks: map[int]manualTask{}}
}

func (m *Manual) Every(interval time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	key := m.next
	m.tasks[key] = manualTask{interval: interval, fn: fn}
	return manualHandle{m: m, key: key}
}

// Fire runs every live task registered with the given interval once.
func (m *Manual) Fire(interval time.Duration) {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.tasks))
	for key := 1; key <= m.next; key++ {
		if task, ok := m.tasks[key]; ok && task.interval == interval {
			fns = append(fns, task.fn)
		}
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Live reports how many tasks have not been stopped.
func (m *Manual) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

type manualHandle struct {
	m   *Manual
	key int
}

func (h manualHandle) Stop() {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	delete(h.m.tasks, h.key)
}

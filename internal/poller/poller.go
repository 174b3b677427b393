// Package poller runs keyed, cancellable polling tasks.
package poller

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/n0roo/kb-console/internal/logger"
)

// Func is one poll. done stops the task; an error is logged and polling continues.
type Func func(ctx context.Context) (done bool, err error)

type task struct {
	cancel context.CancelFunc
	gen    uint64
}

// Poller holds at most one task per key
type Poller struct {
	mu    sync.Mutex
	tasks map[string]task
	gen   uint64
	wg    sync.WaitGroup
	log   *logger.Logger
}

// New creates a poller. A nil logger discards output.
func New(log *logger.Logger) *Poller {
	if log == nil {
		log = logger.Nop()
	}
	return &Poller{tasks: make(map[string]task), log: log}
}

// Watch starts polling fn every interval under key, replacing any task
// already running for the key. The first poll runs after one interval.
func (p *Poller) Watch(ctx context.Context, key string, interval time.Duration, fn Func) {
	if interval <= 0 {
		interval = time.Second
	}

	p.mu.Lock()
	if old, ok := p.tasks[key]; ok {
		old.cancel()
	}
	p.gen++
	gen := p.gen
	tctx, cancel := context.WithCancel(ctx)
	p.tasks[key] = task{cancel: cancel, gen: gen}
	p.wg.Add(1)
	p.mu.Unlock()

	p.log.Debug("poll started", "key", key, "interval", interval.String())

	go func() {
		defer p.wg.Done()
		defer p.remove(key, gen)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-tctx.Done():
				return
			case <-ticker.C:
				done, err := fn(tctx)
				if err != nil {
					p.log.Warn("poll failed", "key", key, "error", err)
				}
				if done {
					p.log.Debug("poll finished", "key", key)
					return
				}
			}
		}
	}()
}

// remove drops the task unless a newer Watch already replaced it
func (p *Poller) remove(key string, gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.tasks[key]; ok && t.gen == gen {
		t.cancel()
		delete(p.tasks, key)
	}
}

// Stop cancels the task for key, if any
func (p *Poller) Stop(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.tasks[key]; ok {
		t.cancel()
		delete(p.tasks, key)
	}
}

// StopAll cancels every task and waits for them to return
func (p *Poller) StopAll() {
	p.mu.Lock()
	for key, t := range p.tasks {
		t.cancel()
		delete(p.tasks, key)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Active lists the keys being polled, sorted
func (p *Poller) Active() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.tasks))
	for k := range p.tasks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Watching reports whether key has a running task
func (p *Poller) Watching(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.tasks[key]
	return ok
}

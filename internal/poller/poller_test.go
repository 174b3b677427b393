package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestWatch_StopsWhenDone(t *testing.T) {
	p := New(nil)
	var calls int32

	p.Watch(context.Background(), "doc-1", 5*time.Millisecond, func(ctx context.Context) (bool, error) {
		return atomic.AddInt32(&calls, 1) >= 3, nil
	})

	waitFor(t, func() bool { return !p.Watching("doc-1") })

	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
	time.Sleep(20 * time.Millisecond)
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("task kept running after done: calls = %d", n)
	}
}

func TestWatch_ContinuesOnError(t *testing.T) {
	p := New(nil)
	var calls int32

	p.Watch(context.Background(), "doc-1", 5*time.Millisecond, func(ctx context.Context) (bool, error) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			return false, errors.New("temporary")
		}
		return true, nil
	})

	waitFor(t, func() bool { return !p.Watching("doc-1") })
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestStopAll(t *testing.T) {
	p := New(nil)
	never := func(ctx context.Context) (bool, error) { return false, nil }

	p.Watch(context.Background(), "a", 5*time.Millisecond, never)
	p.Watch(context.Background(), "b", 5*time.Millisecond, never)

	if got := p.Active(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Active = %v, want [a b]", got)
	}

	p.StopAll()

	if got := p.Active(); len(got) != 0 {
		t.Errorf("Active after StopAll = %v", got)
	}
}

func TestWatch_ReplacesSameKey(t *testing.T) {
	p := New(nil)
	var first, second int32

	p.Watch(context.Background(), "doc-1", 5*time.Millisecond, func(ctx context.Context) (bool, error) {
		atomic.AddInt32(&first, 1)
		return false, nil
	})
	p.Watch(context.Background(), "doc-1", 5*time.Millisecond, func(ctx context.Context) (bool, error) {
		atomic.AddInt32(&second, 1)
		return false, nil
	})

	waitFor(t, func() bool { return atomic.LoadInt32(&second) >= 2 })
	before := atomic.LoadInt32(&first)
	time.Sleep(20 * time.Millisecond)
	if after := atomic.LoadInt32(&first); after != before {
		t.Errorf("replaced task still running: %d -> %d", before, after)
	}
	if got := p.Active(); len(got) != 1 {
		t.Errorf("Active = %v, want one task", got)
	}

	p.StopAll()
}

func TestStop(t *testing.T) {
	p := New(nil)
	p.Watch(context.Background(), "doc-1", time.Hour, func(ctx context.Context) (bool, error) {
		return false, nil
	})
	p.Stop("doc-1")
	if p.Watching("doc-1") {
		t.Error("task should be stopped")
	}
	p.Stop("unknown")
	p.StopAll()
}

func TestWatch_ParentCancel(t *testing.T) {
	p := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	p.Watch(ctx, "doc-1", time.Hour, func(ctx context.Context) (bool, error) {
		return false, nil
	})
	cancel()
	waitFor(t, func() bool { return !p.Watching("doc-1") })
}

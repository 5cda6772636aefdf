package remote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/dicomquery/internal/pacstest"
)

func TestNewSessionLimiter_Unlimited(t *testing.T) {
	l := NewSessionLimiter(0)
	if l != nil {
		t.Fatalf("expected nil limiter for max 0")
	}
	if err := l.Acquire(context.Background()); err != nil {
		t.Errorf("nil limiter Acquire: %v", err)
	}
	l.Release()
	if l.Stats() != (LimiterStats{}) {
		t.Errorf("nil limiter stats = %+v", l.Stats())
	}
}

func TestSessionLimiter_AcquireRelease(t *testing.T) {
	l := NewSessionLimiter(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
	}
	stats := l.Stats()
	if stats.Active != 2 || stats.MaxActive != 2 || stats.Capacity != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	l.Release()
	l.Release()
	l.Release() // extra release is ignored
	if got := l.Stats().Active; got != 0 {
		t.Errorf("Active = %d, want 0", got)
	}
}

func TestSessionLimiter_WaitHonorsContext(t *testing.T) {
	l := NewSessionLimiter(1)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
	if l.Stats().Waited != 1 {
		t.Errorf("Waited = %d, want 1", l.Stats().Waited)
	}
}

func TestInvoker_MaxSessions(t *testing.T) {
	inv, srv := newTestInvoker(t, WithMaxSessions(1))
	release := srv.Hold()
	defer release()

	params := map[string]any{"query_level": "patients", "query_params": map[string]any{}}
	var wg sync.WaitGroup
	call := func() {
		defer wg.Done()
		if res := inv.Invoke(context.Background(), pacstest.QueryTool, params); !res.OK() {
			t.Errorf("call failed: %+v", res)
		}
	}

	wg.Add(1)
	go call()
	select {
	case <-srv.Entered():
	case <-time.After(5 * time.Second):
		t.Fatal("first call never reached the server")
	}

	wg.Add(1)
	go call()
	deadline := time.Now().Add(5 * time.Second)
	for inv.SessionStats().Waited == 0 {
		if time.Now().After(deadline) {
			t.Fatal("second call never waited for a slot")
		}
		time.Sleep(time.Millisecond)
	}
	if got := srv.Calls(pacstest.QueryTool); got != 1 {
		t.Errorf("server saw %d calls while capped, want 1", got)
	}

	release()
	wg.Wait()

	stats := inv.SessionStats()
	if stats.MaxActive != 1 || stats.Active != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if got := srv.Calls(pacstest.QueryTool); got != 2 {
		t.Errorf("server saw %d calls, want 2", got)
	}
}

func TestInvoker_MaxSessionsCanceledWait(t *testing.T) {
	inv, srv := newTestInvoker(t, WithMaxSessions(1))
	release := srv.Hold()
	defer release()

	params := map[string]any{"query_level": "patients", "query_params": map[string]any{}}
	done := make(chan struct{})
	go func() {
		defer close(done)
		inv.Invoke(context.Background(), pacstest.QueryTool, params)
	}()
	select {
	case <-srv.Entered():
	case <-time.After(5 * time.Second):
		t.Fatal("first call never reached the server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := inv.Invoke(ctx, pacstest.QueryTool, params)
	if res.OK() {
		t.Fatal("expected transport error for canceled wait")
	}

	release()
	<-done
}

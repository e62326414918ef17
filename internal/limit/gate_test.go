package limit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tilebound/geomux/internal/types"
)

func TestGateDo(t *testing.T) {
	t.Run("runs the function", func(t *testing.T) {
		g := New(10, 100*time.Millisecond)

		var executed bool
		err := g.Do(context.Background(), func(ctx context.Context) error {
			executed = true
			return nil
		})

		if err != nil {
			t.Errorf("Do() error = %v, want nil", err)
		}
		if !executed {
			t.Error("function was not executed")
		}
	})

	t.Run("propagates function error", func(t *testing.T) {
		g := New(10, 100*time.Millisecond)
		testErr := errors.New("test error")

		err := g.Do(context.Background(), func(ctx context.Context) error {
			return testErr
		})

		if !errors.Is(err, testErr) {
			t.Errorf("Do() error = %v, want %v", err, testErr)
		}
	})
}

func TestGateCapacityOne(t *testing.T) {
	// Nominatim's politeness limit: one request at a time, the rest wait.
	g := New(1, 500*time.Millisecond)

	var active atomic.Int32
	var maxActive atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := g.Do(context.Background(), func(ctx context.Context) error {
				current := active.Add(1)
				for {
					old := maxActive.Load()
					if current <= old || maxActive.CompareAndSwap(old, current) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				active.Add(-1)
				return nil
			})
			if err != nil {
				t.Errorf("Do() error = %v, want nil", err)
			}
		}()
	}

	wg.Wait()

	if max := maxActive.Load(); max != 1 {
		t.Errorf("max concurrent = %v, want 1", max)
	}
	if stats := g.Stats(); stats.Admitted != 5 {
		t.Errorf("Admitted = %v, want 5", stats.Admitted)
	}
}

func TestGateTimeout(t *testing.T) {
	g := New(1, 50*time.Millisecond)

	// Occupy the only slot.
	blocking := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = g.Do(context.Background(), func(ctx context.Context) error {
			close(started)
			<-blocking
			return nil
		})
	}()
	<-started

	start := time.Now()
	err := g.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})
	elapsed := time.Since(start)

	close(blocking)

	if !errors.Is(err, types.ErrGateTimeout) {
		t.Errorf("Do() error = %v, want ErrGateTimeout", err)
	}
	if elapsed < 40*time.Millisecond || elapsed > 200*time.Millisecond {
		t.Errorf("elapsed = %v, expected ~50ms", elapsed)
	}
}

func TestGateFullWithoutWaitBudget(t *testing.T) {
	g := New(1, 0)

	blocking := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = g.Do(context.Background(), func(ctx context.Context) error {
			close(started)
			<-blocking
			return nil
		})
	}()
	<-started

	err := g.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})

	close(blocking)

	if !errors.Is(err, types.ErrGateFull) {
		t.Errorf("Do() error = %v, want ErrGateFull", err)
	}
	if rejected := g.Stats().Rejected; rejected != 1 {
		t.Errorf("Rejected = %v, want 1", rejected)
	}
}

func TestGateContextCancellation(t *testing.T) {
	g := New(1, 1*time.Second)

	blocking := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = g.Do(context.Background(), func(ctx context.Context) error {
			close(started)
			<-blocking
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := g.Do(ctx, func(ctx context.Context) error {
		return nil
	})

	close(blocking)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}

func TestGateUnlimited(t *testing.T) {
	g := New(0, 0)

	var wg sync.WaitGroup
	var count atomic.Int32

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := g.Do(context.Background(), func(ctx context.Context) error {
				count.Add(1)
				return nil
			})
			if err != nil {
				t.Errorf("Do() error = %v, want nil", err)
			}
		}()
	}

	wg.Wait()

	if c := count.Load(); c != 100 {
		t.Errorf("count = %v, want 100", c)
	}
	if stats := g.Stats(); stats.Rejected != 0 {
		t.Errorf("Rejected = %v, want 0", stats.Rejected)
	}
}

func TestGateStats(t *testing.T) {
	g := New(5, 10*time.Millisecond)

	for i := 0; i < 10; i++ {
		_ = g.Do(context.Background(), func(ctx context.Context) error { return nil })
	}

	stats := g.Stats()

	if stats.MaxConcurrent != 5 {
		t.Errorf("MaxConcurrent = %v, want 5", stats.MaxConcurrent)
	}
	if stats.Admitted != 10 {
		t.Errorf("Admitted = %v, want 10", stats.Admitted)
	}
	if stats.Active != 0 {
		t.Errorf("Active = %v, want 0", stats.Active)
	}
	if stats.Waiting != 0 {
		t.Errorf("Waiting = %v, want 0", stats.Waiting)
	}
}

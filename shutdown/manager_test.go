package shutdown

import (
	"context"
	"errors"
	"strings"
	"syscall"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRegistry_RunsInPriorityOrder(t *testing.T) {
	registry := NewRegistry()
	var order []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}

	registry.Register("logger", PriorityLogger, record("logger"))
	registry.Register("http server", PriorityServer, record("http server"))
	registry.Register("second at same priority", PriorityServer, record("second at same priority"))

	want := []string{"http server", "second at same priority", "logger"}
	if got := registry.Names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if err := registry.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("ran %v, want %v", order, want)
	}
}

func TestRegistry_CollectsErrorsAndContinues(t *testing.T) {
	registry := NewRegistry()
	boom := errors.New("boom")
	var ranLast bool

	registry.Register("server", 1, func(context.Context) error { return boom })
	registry.Register("logger", 2, func(context.Context) error {
		ranLast = true
		return nil
	})

	err := registry.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want to wrap boom", err)
	}
	if err == nil || !strings.Contains(err.Error(), "server: boom") {
		t.Errorf("error should name the failing handler, got %v", err)
	}
	if !ranLast {
		t.Error("later handlers should still run")
	}
}

func TestRegistry_RunOnce(t *testing.T) {
	registry := NewRegistry()
	calls := 0
	registry.Register("x", 1, func(context.Context) error {
		calls++
		return nil
	})

	registry.Run(context.Background())
	registry.Run(context.Background())
	registry.Register("late", 1, func(context.Context) error {
		calls++
		return nil
	})

	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
	if !registry.IsClosed() {
		t.Error("registry should be closed after Run")
	}
}

func TestSignalCounter_ForcesAtThreshold(t *testing.T) {
	forced := 0
	counter := NewSignalCounter(2, func() { forced++ })

	if got := counter.Increment(); got != 1 || forced != 0 {
		t.Fatalf("first signal: count %d, forced %d", got, forced)
	}
	counter.Increment()
	counter.Increment()
	if forced != 2 {
		t.Errorf("forced %d times, want 2", forced)
	}
	if counter.Count() != 3 {
		t.Errorf("Count() = %d, want 3", counter.Count())
	}
}

func TestManager_FirstSignalCancelsSecondForces(t *testing.T) {
	forced := false
	m := NewManager(context.Background(), nil, WithForceFunc(func() { forced = true }))

	m.handleSignal(syscall.SIGTERM)
	select {
	case <-m.Context().Done():
	default:
		t.Fatal("first signal should cancel the context")
	}
	if forced {
		t.Fatal("first signal should not force")
	}

	m.handleSignal(syscall.SIGINT)
	if !forced {
		t.Error("second signal should force")
	}
}

func TestManager_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewManager(parent, nil)
	cancel()

	select {
	case <-m.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("manager context should follow its parent")
	}
}

func TestManager_ShutdownHonoursTimeout(t *testing.T) {
	m := NewManager(context.Background(), nil, WithTimeout(20*time.Millisecond))
	m.Register("slow", PriorityServer, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	start := time.Now()
	err := m.Shutdown()
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() error = %v, want deadline exceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Shutdown should stop waiting at the timeout")
	}
	if m.Context().Err() == nil {
		t.Error("Shutdown should cancel the context")
	}
	if err := m.Shutdown(); err != nil {
		t.Errorf("second Shutdown() = %v, want nil", err)
	}
}

func TestManager_ShutdownStopsSignalHandling(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewManager(context.Background(), nil)
	m.Start()
	m.Start()

	ran := false
	m.Register("server", PriorityServer, func(context.Context) error {
		ran = true
		return nil
	})
	if err := m.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !ran {
		t.Error("registered handler should run")
	}
}

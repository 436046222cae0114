package license

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (mockLogger) Info(ctx context.Context, args ...any)                   {}
func (mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (mockLogger) Error(ctx context.Context, args ...any)                  {}
func (mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type stubChecker struct {
	mu       sync.Mutex
	calls    int
	licensed bool
	err      error
}

func (c *stubChecker) Check(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.licensed, c.err
}

func (c *stubChecker) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestVerifyCachesSuccessfulCheck(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	checker := &stubChecker{licensed: true}
	gate := NewGate(checker, mockLogger{}, clock.Now)

	for i := 0; i < 5; i++ {
		if !gate.Verify(context.Background()) {
			t.Fatalf("Verify() call %d = false, want true", i)
		}
	}
	if checker.callCount() != 1 {
		t.Errorf("backing checks = %d, want 1 within the TTL", checker.callCount())
	}

	clock.Advance(cacheTTL + staleWindow)
	if !gate.Verify(context.Background()) {
		t.Fatal("Verify() after expiry = false, want true")
	}
	if checker.callCount() != 2 {
		t.Errorf("backing checks = %d, want 2 after expiry", checker.callCount())
	}
}

func TestVerifyCachesNegativeAnswer(t *testing.T) {
	checker := &stubChecker{licensed: false}
	gate := NewGate(checker, mockLogger{}, nil)

	if gate.Verify(context.Background()) {
		t.Fatal("Verify() = true for an unlicensed deployment")
	}
	if gate.Verify(context.Background()) {
		t.Fatal("Verify() = true on a cached negative answer")
	}
	if checker.callCount() != 1 {
		t.Errorf("backing checks = %d, want 1 (false is cached too)", checker.callCount())
	}
}

func TestVerifyErrorNeverPopulatesCache(t *testing.T) {
	checker := &stubChecker{err: errors.New("rpc unavailable")}
	gate := NewGate(checker, mockLogger{}, nil)

	if gate.Verify(context.Background()) {
		t.Fatal("Verify() = true on an erroring check, want fail-closed false")
	}
	if gate.Verify(context.Background()) {
		t.Fatal("Verify() = true on a repeated erroring check")
	}
	if checker.callCount() != 2 {
		t.Errorf("backing checks = %d, want 2 (errors are never cached)", checker.callCount())
	}

	// Recovery on the very next call once the backing service is healthy.
	checker.mu.Lock()
	checker.err = nil
	checker.licensed = true
	checker.mu.Unlock()
	if !gate.Verify(context.Background()) {
		t.Fatal("Verify() = false after the backing service recovered")
	}
}

func TestVerifyServesStaleValueDuringRevalidation(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	release := make(chan struct{})
	entered := make(chan struct{})
	first := true
	var mu sync.Mutex

	slow := checkerFunc(func(ctx context.Context) (bool, error) {
		mu.Lock()
		wasFirst := first
		first = false
		mu.Unlock()
		if wasFirst {
			return true, nil
		}
		close(entered)
		<-release
		return false, nil
	})
	gate := NewGate(slow, mockLogger{}, clock.Now)

	if !gate.Verify(context.Background()) {
		t.Fatal("initial Verify() = false, want true")
	}
	clock.Advance(cacheTTL + time.Second)

	done := make(chan bool)
	go func() { done <- gate.Verify(context.Background()) }()
	<-entered

	// Revalidation is in flight; a concurrent caller gets the previous value
	// without blocking.
	if !gate.Verify(context.Background()) {
		t.Error("concurrent Verify() during revalidation = false, want previous true")
	}

	close(release)
	if got := <-done; got {
		t.Error("revalidating Verify() = true, want the freshly loaded false")
	}
}

type checkerFunc func(ctx context.Context) (bool, error)

func (f checkerFunc) Check(ctx context.Context) (bool, error) { return f(ctx) }

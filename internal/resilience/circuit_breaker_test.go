package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)
	boom := errors.New("backend down")

	for i := 0; i < 3; i++ {
		if err := cb.Call(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("Expected backend error on call %d, got %v", i, err)
		}
	}

	if cb.State() != StateOpen {
		t.Errorf("Expected StateOpen after 3 failures, got %v", cb.State())
	}
	if err := cb.Call(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_RecoversAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)

	cb.Call(func() error { return errors.New("fail") })
	if cb.State() != StateOpen {
		t.Fatalf("Expected StateOpen, got %v", cb.State())
	}

	time.Sleep(20 * time.Millisecond)

	if err := cb.Call(func() error { return nil }); err != nil {
		t.Errorf("Expected probe call to pass through, got %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("Expected StateClosed after successful probe, got %v", cb.State())
	}
}

func TestCircuitBreaker_ResetsCountOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Minute)

	cb.Call(func() error { return errors.New("fail") })
	cb.Call(func() error { return nil })
	cb.Call(func() error { return errors.New("fail") })

	if cb.State() != StateClosed {
		t.Errorf("Expected StateClosed with non-consecutive failures, got %v", cb.State())
	}
}

func TestRestartScheduler_Idempotent(t *testing.T) {
	s := NewRestartScheduler(20 * time.Millisecond)
	fired := make(chan struct{}, 2)

	if !s.Schedule(func() { fired <- struct{}{} }) {
		t.Fatal("Expected first Schedule to succeed")
	}
	if s.Schedule(func() { fired <- struct{}{} }) {
		t.Error("Expected second Schedule to report already pending")
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("Restart never fired")
	}

	select {
	case <-fired:
		t.Error("Restart fired more than once")
	case <-time.After(50 * time.Millisecond):
	}

	if s.Pending() {
		t.Error("Expected no pending restart after firing")
	}
}

func TestRestartScheduler_Cancel(t *testing.T) {
	s := NewRestartScheduler(10 * time.Millisecond)
	fired := make(chan struct{}, 1)

	s.Schedule(func() { fired <- struct{}{} })
	s.Cancel()

	select {
	case <-fired:
		t.Error("Canceled restart still fired")
	case <-time.After(30 * time.Millisecond):
	}
	if s.Pending() {
		t.Error("Expected no pending restart after cancel")
	}
}

func TestIsRetryableRecognitionError(t *testing.T) {
	for _, code := range []string{"no-speech", "audio-capture", "network", "aborted", " Network "} {
		if !IsRetryableRecognitionError(code) {
			t.Errorf("Expected %q to be retryable", code)
		}
	}
	for _, code := range []string{"not-allowed", "service-not-allowed", "bad-grammar", ""} {
		if IsRetryableRecognitionError(code) {
			t.Errorf("Expected %q to be fatal", code)
		}
	}
}

func TestIsRetryableNetworkError(t *testing.T) {
	if !IsRetryableNetworkError(errors.New("dial tcp: connection refused")) {
		t.Error("Expected connection refused to be retryable")
	}
	if IsRetryableNetworkError(errors.New("invalid api key")) {
		t.Error("Expected auth error to be non-retryable")
	}
	if IsRetryableNetworkError(nil) {
		t.Error("Expected nil to be non-retryable")
	}
}

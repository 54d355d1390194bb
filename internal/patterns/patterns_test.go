package patterns

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ashendes/delivery-client/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkhead_ZeroWaitRejectsWhileBusy(t *testing.T) {
	b := NewBulkhead(1, 0, "submit", "test")

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = b.Execute(func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.Equal(t, 1, b.InFlight())
	err := b.Execute(func() error {
		t.Fatal("second call must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrBulkheadFull)

	close(release)
	wg.Wait()

	assert.Equal(t, 0, b.InFlight())
	assert.NoError(t, b.Execute(func() error { return nil }))
}

func TestBulkhead_PropagatesError(t *testing.T) {
	b := NewBulkhead(2, 10*time.Millisecond, "api", "test")
	boom := errors.New("boom")

	assert.ErrorIs(t, b.Execute(func() error { return boom }), boom)
	assert.Equal(t, "api", b.GetName())
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker("backend-test", "test", CircuitSettings{Timeout: time.Minute})
	failure := errors.New("upstream down")

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, failure })
		require.ErrorIs(t, err, failure)
	}

	assert.Equal(t, "open", cb.GetState())
	assert.Equal(t, 1, cb.GetStateValue())

	_, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_IgnoresSuccessfulErrors(t *testing.T) {
	rejected := errors.New("rejected by backend")
	cb := NewCircuitBreaker("backend-client-errors", "test", CircuitSettings{
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, rejected) },
	})

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, rejected })
		require.ErrorIs(t, err, rejected)
	}
	assert.Equal(t, "closed", cb.GetState())
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 40*time.Millisecond)

	parent, parentCancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer parentCancel()
	child, childCancel := WithTimeout(parent, time.Hour)
	defer childCancel()
	childDeadline, _ := child.Deadline()
	parentDeadline, _ := parent.Deadline()
	assert.Equal(t, parentDeadline, childDeadline)
}

func TestCircuitBreaker_FailureMetricSkipsAcceptedErrors(t *testing.T) {
	rejected := errors.New("rejected by backend")
	upstream := errors.New("upstream down")
	cb := NewCircuitBreaker("backend-failure-metric", "test", CircuitSettings{
		Timeout:      time.Minute,
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, rejected) },
	})
	failures := metrics.CircuitBreakerFailures.WithLabelValues("test", "backend-failure-metric")

	tests := []struct {
		name string
		err  error
		want float64
	}{
		{name: "success", err: nil, want: 0},
		{name: "client error", err: rejected, want: 0},
		{name: "another client error", err: rejected, want: 0},
		{name: "server error", err: upstream, want: 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, _ = cb.Execute(func() (interface{}, error) { return nil, testCase.err })
			assert.Equal(t, testCase.want, testutil.ToFloat64(failures))
		})
	}
}

func TestCircuitBreaker_FailureMetricSkipsRejectedCalls(t *testing.T) {
	cb := NewCircuitBreaker("backend-open-metric", "test", CircuitSettings{Timeout: time.Minute})
	failures := metrics.CircuitBreakerFailures.WithLabelValues("test", "backend-open-metric")

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, errors.New("upstream down") })
	}
	require.Equal(t, "open", cb.GetState())

	_, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, float64(3), testutil.ToFloat64(failures))
}

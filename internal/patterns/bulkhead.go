package patterns

import (
	"errors"
	"fmt"
	"time"

	"github.com/ashendes/delivery-client/internal/metrics"
)

// ErrBulkheadFull is returned when no slot could be acquired
var ErrBulkheadFull = errors.New("bulkhead full")

// Bulkhead implements the bulkhead pattern for resource isolation
type Bulkhead struct {
	semaphore chan struct{}
	wait      time.Duration
	name      string
	service   string
}

// NewBulkhead creates a new bulkhead with specified capacity. Execute waits up to wait
// for a slot; a zero wait rejects immediately when every slot is taken.
func NewBulkhead(size int, wait time.Duration, name, service string) *Bulkhead {
	return &Bulkhead{
		semaphore: make(chan struct{}, size),
		wait:      wait,
		name:      name,
		service:   service,
	}
}

// Execute runs a function within the bulkhead's resource limits
func (b *Bulkhead) Execute(fn func() error) error {
	if !b.acquire() {
		metrics.BulkheadRejectedRequests.WithLabelValues(b.service, b.name).Inc()
		return fmt.Errorf("%w: %s", ErrBulkheadFull, b.name)
	}

	metrics.BulkheadActiveRequests.WithLabelValues(b.service, b.name).Inc()
	defer func() {
		<-b.semaphore
		metrics.BulkheadActiveRequests.WithLabelValues(b.service, b.name).Dec()
	}()

	return fn()
}

func (b *Bulkhead) acquire() bool {
	if b.wait <= 0 {
		select {
		case b.semaphore <- struct{}{}:
			return true
		default:
			return false
		}
	}

	timer := time.NewTimer(b.wait)
	defer timer.Stop()

	select {
	case b.semaphore <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

// InFlight returns how many calls currently hold a slot
func (b *Bulkhead) InFlight() int {
	return len(b.semaphore)
}

// GetName returns the bulkhead name
func (b *Bulkhead) GetName() string {
	return b.name
}

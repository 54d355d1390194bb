package patterns

import (
	"context"
	"time"
)

// DefaultTimeout bounds every call to the delivery backend
const DefaultTimeout = 10 * time.Second

// WithTimeout derives a context bounded by d, unless parent already ends sooner
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	if deadline, ok := parent.Deadline(); ok && time.Until(deadline) < d {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

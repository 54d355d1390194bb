package orders

import "sync"

// View names a client screen
type View string

const (
	ViewCheckout     View = "checkout"
	ViewActiveOrders View = "active_orders"
)

// ViewState tracks which screen the client should show
type ViewState struct {
	mu      sync.RWMutex
	current View
}

// NewViewState starts on the checkout screen
func NewViewState() *ViewState {
	return &ViewState{current: ViewCheckout}
}

// Current is the screen to show
func (v *ViewState) Current() View {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set switches the screen
func (v *ViewState) Set(view View) {
	v.mu.Lock()
	v.current = view
	v.mu.Unlock()
}

// Package cart holds the single active, not-yet-submitted order basket.
package cart

import (
	"sync"

	"github.com/ashendes/delivery-client/internal/models"
	"github.com/shopspring/decimal"
)

// Outcome tags the result of an add attempt
type Outcome string

// Outcome constants
const (
	OutcomeAdded             Outcome = "added"
	OutcomeNeedsConfirmation Outcome = "needs_confirmation"
)

// Replacement describes the cart swap the caller has to confirm
type Replacement struct {
	Product               models.Product `json:"product"`
	RestaurantName        string         `json:"restaurantName"`
	CurrentRestaurantID   string         `json:"currentRestaurantId"`
	CurrentRestaurantName string         `json:"currentRestaurantName,omitempty"`
}

// Decision is the pure result of evaluating an add against the current items
type Decision struct {
	Outcome Outcome
	Items   []models.CartItem
	Pending *Replacement
}

// Decide evaluates adding product to items without mutating them. Products from another
// restaurant are never merged: the decision asks for confirmation instead.
func Decide(items []models.CartItem, product models.Product, restaurantName string) Decision {
	if len(items) > 0 && items[0].RestaurantID != product.RestaurantID {
		return Decision{
			Outcome: OutcomeNeedsConfirmation,
			Items:   items,
			Pending: &Replacement{
				Product:               product,
				RestaurantName:        restaurantName,
				CurrentRestaurantID:   items[0].RestaurantID,
				CurrentRestaurantName: items[0].RestaurantName,
			},
		}
	}

	next := make([]models.CartItem, len(items), len(items)+1)
	copy(next, items)
	for i := range next {
		if next[i].ID == product.ID {
			next[i].Quantity++
			return Decision{Outcome: OutcomeAdded, Items: next}
		}
	}

	return Decision{
		Outcome: OutcomeAdded,
		Items:   append(next, models.NewCartItem(product, restaurantName)),
	}
}

// AddResult is returned by Store.Add
type AddResult struct {
	Outcome Outcome      `json:"type"`
	Pending *Replacement `json:"pendingReplacement,omitempty"`
}

// Store is the application-scoped cart container
type Store struct {
	mu    sync.RWMutex
	items []models.CartItem
}

// NewStore creates an empty cart
func NewStore() *Store {
	return &Store{}
}

// Add adds one unit of product, or reports that the cart belongs to another restaurant
func (s *Store) Add(product models.Product, restaurantName string) AddResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	decision := Decide(s.items, product, restaurantName)
	if decision.Outcome == OutcomeAdded {
		s.items = decision.Items
	}
	return AddResult{Outcome: decision.Outcome, Pending: decision.Pending}
}

// ConfirmReplace replaces the whole cart with a single unit of the pending product
func (s *Store) ConfirmReplace(r Replacement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []models.CartItem{models.NewCartItem(r.Product, r.RestaurantName)}
}

// Remove drops every entry with id, whatever its quantity
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

// Clear empties the cart
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// RemoveSubmitted takes the quantities of a submitted snapshot out of the cart.
// Units added while the submission was in flight stay in the cart.
func (s *Store) RemoveSubmitted(submitted []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type itemKey struct{ id, restaurantID string }
	sent := make(map[itemKey]int, len(submitted))
	for _, item := range submitted {
		sent[itemKey{item.ID, item.RestaurantID}] += item.Quantity
	}

	var kept []models.CartItem
	for _, item := range s.items {
		item.Quantity -= sent[itemKey{item.ID, item.RestaurantID}]
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

// Items returns a copy of the entries in insertion order
func (s *Store) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Total returns the sum of price times quantity, zero when empty
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Total(s.items)
}

// Len returns the number of distinct entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// RestaurantID returns the restaurant every entry belongs to, or "" when empty
func (s *Store) RestaurantID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.items) == 0 {
		return ""
	}
	return s.items[0].RestaurantID
}

// Snapshot returns items and their total under one lock
func (s *Store) Snapshot() ([]models.CartItem, decimal.Decimal) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)
	return items, Total(s.items)
}

// Total sums price times quantity over items
func Total(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

package engine

import (
	"fmt"
	"sort"
	"sync"
)

// CargoSet tracks held quantities per commodity. Quantities are mutated by
// signed adjustments; a line whose quantity falls to zero or below is
// removed, never stored as zero or negative.
type CargoSet struct {
	mu    sync.RWMutex
	items map[string]float64
}

// NewCargoSet creates an empty cargo set.
func NewCargoSet() *CargoSet {
	return &CargoSet{items: make(map[string]float64)}
}

// Adjust applies a signed SCU delta to a commodity. A line is created on
// the first positive delta and removed when its quantity reaches <= 0.
// Subtracting from a commodity that is not held returns
// ErrSubtractBeyondHeld and leaves the set unchanged. Returns the resulting
// quantity (0 when the line was removed).
func (s *CargoSet) Adjust(commodityID string, deltaSCU float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	held, ok := s.items[commodityID]
	if !ok {
		if deltaSCU < 0 {
			return 0, fmt.Errorf("%w: %s", ErrSubtractBeyondHeld, commodityID)
		}
		if deltaSCU == 0 {
			return 0, nil
		}
		s.items[commodityID] = deltaSCU
		return deltaSCU, nil
	}

	held += deltaSCU
	if held <= 0 {
		delete(s.items, commodityID)
		return 0, nil
	}
	s.items[commodityID] = held
	return held, nil
}

// Quantity reports the held SCU for a commodity.
func (s *CargoSet) Quantity(commodityID string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.items[commodityID]
	return q, ok
}

// Clear removes one line explicitly. Reports whether it existed.
func (s *CargoSet) Clear(commodityID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[commodityID]
	delete(s.items, commodityID)
	return ok
}

// ClearAll empties the cargo set.
func (s *CargoSet) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]float64)
}

// Items returns the current lines sorted by commodity ID for deterministic
// rendering and ranking passes.
func (s *CargoSet) Items() []CargoItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CargoItem, 0, len(s.items))
	for id, q := range s.items {
		out = append(out, CargoItem{CommodityID: id, QuantitySCU: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CommodityID < out[j].CommodityID })
	return out
}

// CommodityIDs returns the held commodity IDs, sorted.
func (s *CargoSet) CommodityIDs() []string {
	items := s.Items()
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.CommodityID
	}
	return ids
}

// Load bulk-restores persisted lines, skipping non-positive quantities.
func (s *CargoSet) Load(items []CargoItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		if it.QuantitySCU > 0 {
			s.items[it.CommodityID] = it.QuantitySCU
		}
	}
}

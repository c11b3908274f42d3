// Package store holds the session-scoped pinned-location store. Pins live in
// memory only and are not persisted across sessions.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skywatch/stargazing-api/internal/conditions"
	"github.com/skywatch/stargazing-api/internal/geo"
)

// ErrNotFound is returned when no pin exists for a given id.
var ErrNotFound = errors.New("no pin with that id")

// Pin is one user-pinned location with its cached condition bundle.
type Pin struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	Point      geo.Point          `json:"point"`
	Conditions *conditions.Bundle `json:"conditions,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// PinStore is a concurrency-safe in-memory pin collection with a size cap.
type PinStore struct {
	mu sync.RWMutex

	pins  map[string]*Pin
	order []string // insertion order

	maxPins int
}

// NewPinStore creates a PinStore capped at maxPins entries; <= 0 means
// unlimited.
func NewPinStore(maxPins int) *PinStore {
	return &PinStore{
		pins:    make(map[string]*Pin),
		maxPins: maxPins,
	}
}

// Add creates a pin and enforces the size cap by evicting the oldest pin.
func (s *PinStore) Add(label string, pt geo.Point, bundle *conditions.Bundle) *Pin {
	pin := &Pin{
		ID:         uuid.NewString(),
		Label:      label,
		Point:      pt,
		Conditions: bundle,
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pins[pin.ID] = pin
	s.order = append(s.order, pin.ID)

	if s.maxPins > 0 && len(s.order) > s.maxPins {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.pins, oldest)
	}

	return pin
}

// Get returns the pin with the given id.
func (s *PinStore) Get(id string) (*Pin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pin, ok := s.pins[id]
	if !ok {
		return nil, ErrNotFound
	}
	return pin, nil
}

// List returns all pins in insertion order.
func (s *PinStore) List() []*Pin {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Pin, 0, len(s.order))
	for _, id := range s.order {
		if pin, ok := s.pins[id]; ok {
			out = append(out, pin)
		}
	}
	return out
}

// Remove deletes the pin with the given id.
func (s *PinStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pins[id]; !ok {
		return ErrNotFound
	}
	delete(s.pins, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Points returns the coordinates of every pin, for cache warming.
func (s *PinStore) Points() []geo.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]geo.Point, 0, len(s.order))
	for _, id := range s.order {
		if pin, ok := s.pins[id]; ok {
			out = append(out, pin.Point)
		}
	}
	return out
}

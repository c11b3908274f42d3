package store

import (
	"testing"

	"github.com/skywatch/stargazing-api/internal/geo"
)

func TestPinStoreAddAndGet(t *testing.T) {
	s := NewPinStore(10)

	pin := s.Add("dark site", geo.Point{Lat: 36.0, Lon: -112.0}, nil)
	if pin.ID == "" {
		t.Fatalf("expected pin to get an id")
	}

	got, err := s.Get(pin.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != "dark site" {
		t.Fatalf("label = %q", got.Label)
	}
}

func TestPinStoreListInsertionOrder(t *testing.T) {
	s := NewPinStore(10)
	a := s.Add("a", geo.Point{Lat: 1}, nil)
	b := s.Add("b", geo.Point{Lat: 2}, nil)

	pins := s.List()
	if len(pins) != 2 {
		t.Fatalf("len = %d, want 2", len(pins))
	}
	if pins[0].ID != a.ID || pins[1].ID != b.ID {
		t.Fatalf("pins out of insertion order")
	}
}

func TestPinStoreRemove(t *testing.T) {
	s := NewPinStore(10)
	pin := s.Add("a", geo.Point{Lat: 1}, nil)

	if err := s.Remove(pin.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Get(pin.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Remove(pin.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on double remove, got %v", err)
	}
}

func TestPinStoreCapEvictsOldest(t *testing.T) {
	s := NewPinStore(2)
	a := s.Add("a", geo.Point{Lat: 1}, nil)
	s.Add("b", geo.Point{Lat: 2}, nil)
	s.Add("c", geo.Point{Lat: 3}, nil)

	if len(s.List()) != 2 {
		t.Fatalf("len = %d, want 2", len(s.List()))
	}
	if _, err := s.Get(a.ID); err != ErrNotFound {
		t.Fatalf("expected oldest pin to be evicted")
	}
}

func TestPinStorePoints(t *testing.T) {
	s := NewPinStore(10)
	s.Add("a", geo.Point{Lat: 1, Lon: 2}, nil)
	s.Add("b", geo.Point{Lat: 3, Lon: 4}, nil)

	pts := s.Points()
	if len(pts) != 2 {
		t.Fatalf("len = %d, want 2", len(pts))
	}
	if pts[0].Lat != 1 || pts[1].Lat != 3 {
		t.Fatalf("points = %+v", pts)
	}
}

// Package memory is an in-process implementation of the domain repositories.
// It backs STORAGE_DRIVER=memory and the unit tests of the layers above it.
package memory

import (
	"maps"
	"slices"
	"sync"

	"hotel_booking/internal/domain"
)

type Store struct {
	mu sync.RWMutex
	// txMu serializes booking transactions, standing in for the room row lock.
	txMu sync.Mutex

	nextID map[string]int64

	users    map[int64]domain.User
	groups   map[string]bool
	profiles map[int64]domain.Profile
	types    map[domain.Kind]map[int64]domain.Type
	hotels   map[int64]domain.Hotel
	rooms    map[int64]domain.Room
	images   map[domain.Kind]map[int64]domain.Image
	bookings map[int64]domain.Booking
}

// New returns an empty store with the default groups.
func New() *Store {
	return &Store{
		nextID:   map[string]int64{},
		users:    map[int64]domain.User{},
		groups:   map[string]bool{domain.GroupUser: true, domain.GroupTenant: true},
		profiles: map[int64]domain.Profile{},
		types: map[domain.Kind]map[int64]domain.Type{
			domain.HotelKind: {},
			domain.RoomKind:  {},
		},
		hotels: map[int64]domain.Hotel{},
		rooms:  map[int64]domain.Room{},
		images: map[domain.Kind]map[int64]domain.Image{
			domain.HotelKind: {},
			domain.RoomKind:  {},
		},
		bookings: map[int64]domain.Booking{},
	}
}

// AddGroup registers an extra group name.
func (s *Store) AddGroup(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[name] = true
}

// id hands out auto-increment ids per table. Callers hold mu.
func (s *Store) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// sortedValues returns the map values ordered by key.
func sortedValues[V any](m map[int64]V) []V {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

package domain

import (
	"strings"
	"time"
)

// HotelFilter holds case-insensitive substring filters; empty fields match everything.
type HotelFilter struct {
	Name     string
	TypeName string
	Country  string
	City     string
}

type DateWindow struct {
	Start time.Time
	End   time.Time
}

type RoomFilter struct {
	Hotel    HotelFilter // rooms must belong to hotels matching this
	Name     string
	TypeName string
	PriceMin *float64
	PriceMax *float64
	Window   *DateWindow
	// BlockingStatuses restricts which bookings hide a room inside Window.
	// Empty means every booking does.
	BlockingStatuses []string
	Sort             *RoomSort
}

type RoomSort struct {
	Field string
	Desc  bool
}

// RoomSortFields are the room attributes search results can be ordered by.
var RoomSortFields = []string{"id", "name", "price_per_night", "is_available", "total_bookings", "hotel", "type"}

// ParseRoomSort accepts a field name with an optional leading '-' for descending order.
func ParseRoomSort(s string) (*RoomSort, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	rs := &RoomSort{Field: s}
	if strings.HasPrefix(s, "-") {
		rs.Field, rs.Desc = s[1:], true
	}
	for _, f := range RoomSortFields {
		if f == rs.Field {
			return rs, nil
		}
	}
	return nil, Invalid("sort", "invalid_sort", "cannot sort rooms by '"+rs.Field+"'")
}

type SearchResult struct {
	Hotels    []Hotel
	Rooms     []Room
	RoomsOnly bool
}

// ContainsFold is the substring test every search text filter uses.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

package domain_test

import (
	"errors"
	"testing"

	"hotel_booking/internal/domain"
)

func TestParseRoomSort(t *testing.T) {
	s, err := domain.ParseRoomSort("")
	if err != nil || s != nil {
		t.Fatalf("empty sort: %v %v", s, err)
	}

	s, err = domain.ParseRoomSort("price_per_night")
	if err != nil || s.Field != "price_per_night" || s.Desc {
		t.Fatalf("ascending: %+v %v", s, err)
	}

	s, err = domain.ParseRoomSort("-total_bookings")
	if err != nil || s.Field != "total_bookings" || !s.Desc {
		t.Fatalf("descending: %+v %v", s, err)
	}

	_, err = domain.ParseRoomSort("password")
	var re *domain.RuleError
	if !errors.As(err, &re) || re.Code != "invalid_sort" {
		t.Fatalf("expected invalid_sort, got %v", err)
	}
}

func TestContainsFold(t *testing.T) {
	if !domain.ContainsFold("Paris", "par") {
		t.Fatal("expected case-insensitive match")
	}
	if domain.ContainsFold("Rome", "Par") {
		t.Fatal("unexpected match")
	}
	if !domain.ContainsFold("anything", "") {
		t.Fatal("empty needle must match")
	}
}

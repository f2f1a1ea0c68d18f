package app

import (
	"context"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"hotel_booking/internal/domain"
)

// SearchQuery holds the raw search parameters as they arrive on the query string.
type SearchQuery struct {
	Hotel         string
	HotelType     string
	Country       string
	City          string
	Room          string
	RoomType      string
	PriceMin      string
	PriceMax      string
	StartDate     string
	EndDate       string
	Sort          string
	ShowRoomsOnly bool
}

type SearchService struct {
	repo domain.CatalogRepository
	// anyStatusBlocks makes every booking hide a room in the availability
	// window, not only active/confirmed ones.
	anyStatusBlocks bool
}

func NewSearchService(r domain.CatalogRepository, anyStatusBlocks bool) *SearchService {
	return &SearchService{repo: r, anyStatusBlocks: anyStatusBlocks}
}

func (s *SearchService) Search(ctx context.Context, q SearchQuery) (domain.SearchResult, error) {
	f, err := s.roomFilter(q)
	if err != nil {
		return domain.SearchResult{}, err
	}

	out := domain.SearchResult{RoomsOnly: q.ShowRoomsOnly}
	g, gctx := errgroup.WithContext(ctx)
	if !q.ShowRoomsOnly {
		g.Go(func() error {
			hs, err := s.repo.SearchHotels(gctx, f.Hotel)
			out.Hotels = hs
			return err
		})
	}
	g.Go(func() error {
		rs, err := s.repo.SearchRooms(gctx, f)
		out.Rooms = rs
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.SearchResult{}, err
	}
	return out, nil
}

func (s *SearchService) roomFilter(q SearchQuery) (domain.RoomFilter, error) {
	f := domain.RoomFilter{
		Hotel: domain.HotelFilter{
			Name:     strings.TrimSpace(q.Hotel),
			TypeName: strings.TrimSpace(q.HotelType),
			Country:  strings.TrimSpace(q.Country),
			City:     strings.TrimSpace(q.City),
		},
		Name:     strings.TrimSpace(q.Room),
		TypeName: strings.TrimSpace(q.RoomType),
	}

	var err error
	if f.PriceMin, err = parsePrice("priceMin", q.PriceMin); err != nil {
		return f, err
	}
	if f.PriceMax, err = parsePrice("priceMax", q.PriceMax); err != nil {
		return f, err
	}

	// The window only applies when both ends are given.
	if strings.TrimSpace(q.StartDate) != "" && strings.TrimSpace(q.EndDate) != "" {
		start, err := domain.ParseDate("startDate", q.StartDate)
		if err != nil {
			return f, err
		}
		end, err := domain.ParseDate("endDate", q.EndDate)
		if err != nil {
			return f, err
		}
		f.Window = &domain.DateWindow{Start: start, End: end}
		if !s.anyStatusBlocks {
			f.BlockingStatuses = domain.BlockingStatuses
		}
	}

	if f.Sort, err = domain.ParseRoomSort(q.Sort); err != nil {
		return f, err
	}
	return f, nil
}

func parsePrice(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.Invalid(field, "invalid_price", field+" must be a number")
	}
	return &v, nil
}

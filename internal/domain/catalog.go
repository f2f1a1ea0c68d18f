package domain

import (
	"strings"
	"time"
)

// Kind selects the hotel or room side of a catalog table pair
// (hotel_types/room_types, hotel_images/room_images).
type Kind string

const (
	HotelKind Kind = "hotel"
	RoomKind  Kind = "room"
)

// Type is a hotel type or a room type.
type Type struct {
	ID          int64
	Name        string
	Description *string
}

type Image struct {
	ID         int64
	ParentID   int64 // hotel or room id
	Path       string
	UploadedAt time.Time
}

type Hotel struct {
	ID           int64
	OwnerID      int64
	Name         string
	Address      string
	City         string
	Country      string
	Description  *string
	Rating       *int
	TypeID       *int64
	TypeName     *string
	PreviewImage *string
	Rooms        []Room
	Images       []Image
}

type Room struct {
	ID            int64
	HotelID       int64
	TypeID        *int64
	TypeName      *string
	Name          string
	PricePerNight float64
	IsAvailable   bool
	PreviewImage  *string
	TotalBookings int64
	Images        []Image

	// denormalized from the owning hotel
	HotelName    string
	HotelType    *string
	HotelAddress string
	HotelCity    string
	HotelCountry string
}

type TypeFields struct {
	Name        *string
	Description *string
}

// HotelFields carries hotel attributes for create (required ones must be set)
// and partial update (nil means unchanged). Type is resolved by name.
type HotelFields struct {
	Name         *string
	Address      *string
	City         *string
	Country      *string
	Description  *string
	Rating       *int
	Type         *string
	PreviewImage *string
}

type RoomFields struct {
	HotelID       *int64
	Type          *string
	Name          *string
	PricePerNight *float64
	IsAvailable   *bool
	PreviewImage  *string
}

func (f TypeFields) Validate(create bool) error {
	if create && f.Name == nil {
		return Invalid("name", "name_required", "name is required")
	}
	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		return Invalid("name", "name_blank", "name may not be blank")
	}
	if f.Name != nil && len(*f.Name) > 100 {
		return Invalid("name", "name_too_long", "name must be at most 100 characters")
	}
	return nil
}

func (f TypeFields) Apply(t *Type) {
	if f.Name != nil {
		t.Name = strings.TrimSpace(*f.Name)
	}
	if f.Description != nil {
		t.Description = f.Description
	}
}

func (f HotelFields) Validate(create bool) error {
	required := []struct {
		field string
		v     *string
	}{{"name", f.Name}, {"address", f.Address}, {"city", f.City}, {"country", f.Country}}
	for _, r := range required {
		if r.v == nil {
			if create {
				return Invalid(r.field, r.field+"_required", r.field+" is required")
			}
			continue
		}
		if strings.TrimSpace(*r.v) == "" {
			return Invalid(r.field, r.field+"_blank", r.field+" may not be blank")
		}
	}
	if f.Rating != nil && (*f.Rating < 1 || *f.Rating > 5) {
		return Invalid("rating", "rating_out_of_range", "rating must be between 1 and 5")
	}
	return nil
}

// Apply copies the set fields onto h. The type is resolved by the caller.
func (f HotelFields) Apply(h *Hotel) {
	if f.Name != nil {
		h.Name = strings.TrimSpace(*f.Name)
	}
	if f.Address != nil {
		h.Address = *f.Address
	}
	if f.City != nil {
		h.City = strings.TrimSpace(*f.City)
	}
	if f.Country != nil {
		h.Country = strings.TrimSpace(*f.Country)
	}
	if f.Description != nil {
		h.Description = f.Description
	}
	if f.Rating != nil {
		h.Rating = f.Rating
	}
	if f.PreviewImage != nil {
		h.PreviewImage = f.PreviewImage
	}
}

func (f RoomFields) Validate(create bool) error {
	if create {
		switch {
		case f.HotelID == nil:
			return Invalid("hotel", "hotel_required", "hotel is required")
		case f.Name == nil:
			return Invalid("name", "name_required", "name is required")
		case f.PricePerNight == nil:
			return Invalid("price_per_night", "price_required", "price_per_night is required")
		}
	}
	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		return Invalid("name", "name_blank", "name may not be blank")
	}
	if f.PricePerNight != nil && (*f.PricePerNight < 0 || *f.PricePerNight >= 1e8) {
		return Invalid("price_per_night", "price_out_of_range", "price_per_night must be between 0 and 99999999.99")
	}
	return nil
}

func (f RoomFields) Apply(r *Room) {
	if f.HotelID != nil {
		r.HotelID = *f.HotelID
	}
	if f.Name != nil {
		r.Name = strings.TrimSpace(*f.Name)
	}
	if f.PricePerNight != nil {
		r.PricePerNight = *f.PricePerNight
	}
	if f.IsAvailable != nil {
		r.IsAvailable = *f.IsAvailable
	}
	if f.PreviewImage != nil {
		r.PreviewImage = f.PreviewImage
	}
}

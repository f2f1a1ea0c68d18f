package httpserver

import (
	"bytes"
	"strconv"
	"time"

	"hotel_booking/internal/domain"
)

// ---- response bodies ----

type userDTO struct {
	ID     int64    `json:"id"`
	Email  string   `json:"email"`
	Phone  *string  `json:"phone"`
	Groups []string `json:"groups"`
}

type profileDTO struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	Username       string  `json:"username"`
	Bio            *string `json:"bio"`
	BirthDate      *string `json:"birth_date"`
	Location       *string `json:"location"`
	TotalBookings  int64   `json:"total_bookings"`
	ProfilePicture *string `json:"profile_picture"`
}

type typeDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type imageDTO struct {
	ID         int64     `json:"id"`
	Image      string    `json:"image"`
	UploadedAt time.Time `json:"uploaded_at"`
	Hotel      *int64    `json:"hotel,omitempty"`
	Room       *int64    `json:"room,omitempty"`
}

type roomDTO struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	PricePerNight string     `json:"price_per_night"`
	IsAvailable   bool       `json:"is_available"`
	Type          *string    `json:"type"`
	Hotel         int64      `json:"hotel"`
	HotelName     string     `json:"hotel_name"`
	HotelType     *string    `json:"hotel_type"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	Country       string     `json:"country"`
	Images        []imageDTO `json:"images"`
	PreviewImage  *string    `json:"preview_image"`
	TotalBookings int64      `json:"total_bookings"`
}

type hotelDTO struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Owner        int64      `json:"owner"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	Country      string     `json:"country"`
	Description  *string    `json:"description"`
	Rating       *int       `json:"rating"`
	Type         *string    `json:"type"`
	Rooms        []roomDTO  `json:"rooms,omitempty"`
	Images       []imageDTO `json:"images,omitempty"`
	PreviewImage *string    `json:"preview_image"`
}

type bookingDTO struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	RoomID    int64     `json:"room_id"`
	Room      *roomDTO  `json:"room,omitempty"`
	User      *userDTO  `json:"user,omitempty"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Status    string    `json:"status"`
}

func toUser(u domain.User) userDTO {
	groups := u.Groups
	if groups == nil {
		groups = []string{}
	}
	return userDTO{ID: u.ID, Email: u.Email, Phone: u.Phone, Groups: groups}
}

func toProfile(p domain.Profile) profileDTO {
	out := profileDTO{
		ID: p.ID, UserID: p.UserID, Username: p.Username, Bio: p.Bio,
		Location: p.Location, TotalBookings: p.TotalBookings, ProfilePicture: p.ProfilePicture,
	}
	if p.BirthDate != nil {
		s := p.BirthDate.Format(domain.DateLayout)
		out.BirthDate = &s
	}
	return out
}

func toType(t domain.Type) typeDTO { return typeDTO{ID: t.ID, Name: t.Name, Description: t.Description} }

func toImage(k domain.Kind, img domain.Image) imageDTO {
	out := imageDTO{ID: img.ID, Image: img.Path, UploadedAt: img.UploadedAt}
	parent := img.ParentID
	if k == domain.RoomKind {
		out.Room = &parent
	} else {
		out.Hotel = &parent
	}
	return out
}

func toImages(k domain.Kind, imgs []domain.Image) []imageDTO {
	out := make([]imageDTO, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, toImage(k, img))
	}
	return out
}

// formatPrice renders a price with two decimals, as the DECIMAL(10,2) column stores it.
func formatPrice(p float64) string { return strconv.FormatFloat(p, 'f', 2, 64) }

func toRoom(r domain.Room) roomDTO {
	return roomDTO{
		ID: r.ID, Name: r.Name, PricePerNight: formatPrice(r.PricePerNight), IsAvailable: r.IsAvailable,
		Type: r.TypeName, Hotel: r.HotelID, HotelName: r.HotelName, HotelType: r.HotelType,
		Address: r.HotelAddress, City: r.HotelCity, Country: r.HotelCountry,
		Images: toImages(domain.RoomKind, r.Images), PreviewImage: r.PreviewImage, TotalBookings: r.TotalBookings,
	}
}

func toRooms(rs []domain.Room) []roomDTO {
	out := make([]roomDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRoom(r))
	}
	return out
}

func toHotel(h domain.Hotel) hotelDTO {
	out := hotelDTO{
		ID: h.ID, Name: h.Name, Owner: h.OwnerID, Address: h.Address, City: h.City, Country: h.Country,
		Description: h.Description, Rating: h.Rating, Type: h.TypeName, PreviewImage: h.PreviewImage,
	}
	if h.Rooms != nil {
		out.Rooms = toRooms(h.Rooms)
	}
	if h.Images != nil {
		out.Images = toImages(domain.HotelKind, h.Images)
	}
	return out
}

func toHotels(hs []domain.Hotel) []hotelDTO {
	out := make([]hotelDTO, 0, len(hs))
	for _, h := range hs {
		out = append(out, toHotel(h))
	}
	return out
}

func toBooking(b domain.Booking) bookingDTO {
	out := bookingDTO{
		ID: b.ID, UserID: b.UserID, RoomID: b.RoomID,
		StartDate: b.StartDate.Format(domain.DateLayout), EndDate: b.EndDate.Format(domain.DateLayout),
		CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt, Status: b.Status,
	}
	if b.Room != nil {
		r := toRoom(*b.Room)
		out.Room = &r
	}
	if b.User != nil {
		u := toUser(*b.User)
		out.User = &u
	}
	return out
}

func toBookings(bs []domain.Booking) []bookingDTO {
	out := make([]bookingDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBooking(b))
	}
	return out
}

// ---- request bodies ----

// flexNumber accepts a JSON number or a numeric string, as decimal fields arrive both ways.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*n = flexNumber(v)
	return nil
}

func (n *flexNumber) float() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}

// dateField parses an optional YYYY-MM-DD string.
func dateField(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type userBody struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Phone     *string `json:"phone"`
	GroupName *string `json:"group_name"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileBody struct {
	Username       *string `json:"username"`
	Bio            *string `json:"bio"`
	BirthDate      *string `json:"birth_date"`
	Location       *string `json:"location"`
	ProfilePicture *string `json:"profile_picture"`
}

func (b profileBody) fields() (domain.ProfileFields, error) {
	birth, err := dateField("birth_date", b.BirthDate)
	if err != nil {
		return domain.ProfileFields{}, err
	}
	return domain.ProfileFields{
		Username: b.Username, Bio: b.Bio, BirthDate: birth, Location: b.Location, ProfilePicture: b.ProfilePicture,
	}, nil
}

type typeBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type hotelBody struct {
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	Country      *string `json:"country"`
	Description  *string `json:"description"`
	Rating       *int    `json:"rating"`
	Type         *string `json:"type"`
	PreviewImage *string `json:"preview_image"`
}

func (b hotelBody) fields() domain.HotelFields {
	return domain.HotelFields{
		Name: b.Name, Address: b.Address, City: b.City, Country: b.Country,
		Description: b.Description, Rating: b.Rating, Type: b.Type, PreviewImage: b.PreviewImage,
	}
}

type roomBody struct {
	Hotel         *int64      `json:"hotel"`
	Type          *string     `json:"type"`
	Name          *string     `json:"name"`
	PricePerNight *flexNumber `json:"price_per_night"`
	IsAvailable   *bool       `json:"is_available"`
	PreviewImage  *string     `json:"preview_image"`
}

func (b roomBody) fields() domain.RoomFields {
	return domain.RoomFields{
		HotelID: b.Hotel, Type: b.Type, Name: b.Name, PricePerNight: b.PricePerNight.float(),
		IsAvailable: b.IsAvailable, PreviewImage: b.PreviewImage,
	}
}

type imageBody struct {
	Image string `json:"image"`
	Hotel *int64 `json:"hotel"`
	Room  *int64 `json:"room"`
}

type bookingBody struct {
	UserID    *int64  `json:"user_id"`
	RoomID    *int64  `json:"room_id"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    *string `json:"status"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

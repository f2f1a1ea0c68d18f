package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	// CreateUser inserts the user and its membership in group atomically.
	CreateUser(ctx context.Context, u *User, group string) error
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, u User) error
	DeleteUser(ctx context.Context, id int64) error
	EmailTaken(ctx context.Context, email string) (bool, error)
	GroupExists(ctx context.Context, name string) (bool, error)
}

type ProfileRepository interface {
	CreateProfile(ctx context.Context, p *Profile) error
	GetProfile(ctx context.Context, id int64) (Profile, error)
	GetProfileByUser(ctx context.Context, userID int64) (Profile, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
	UpdateProfile(ctx context.Context, p Profile) error
	DeleteProfile(ctx context.Context, id int64) error
}

type CatalogRepository interface {
	ListTypes(ctx context.Context, k Kind) ([]Type, error)
	GetType(ctx context.Context, k Kind, id int64) (Type, error)
	GetTypeByName(ctx context.Context, k Kind, name string) (Type, error)
	CreateType(ctx context.Context, k Kind, t *Type) error
	UpdateType(ctx context.Context, k Kind, t Type) error
	DeleteType(ctx context.Context, k Kind, id int64) error

	CreateHotel(ctx context.Context, h *Hotel) error
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListHotels(ctx context.Context, ownerID *int64) ([]Hotel, error)
	UpdateHotel(ctx context.Context, h Hotel) error
	DeleteHotel(ctx context.Context, id int64) error

	CreateRoom(ctx context.Context, r *Room) error
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	UpdateRoom(ctx context.Context, r Room) error
	DeleteRoom(ctx context.Context, id int64) error

	AddImage(ctx context.Context, k Kind, img *Image) error
	ListImages(ctx context.Context, k Kind) ([]Image, error)
	DeleteImage(ctx context.Context, k Kind, id int64) error

	// Search paths
	SearchHotels(ctx context.Context, f HotelFilter) ([]Hotel, error)
	SearchRooms(ctx context.Context, f RoomFilter) ([]Room, error)
}

// BookingTx is the unit of work a booking write runs in.
type BookingTx interface {
	// LockRoom loads the room and holds it until the transaction ends,
	// serializing concurrent bookings for the same room.
	LockRoom(ctx context.Context, roomID int64) (Room, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	HasOverlap(ctx context.Context, q OverlapQuery) (bool, error)
	InsertBooking(ctx context.Context, b *Booking) error
	UpdateBooking(ctx context.Context, b Booking) error
	// Increment* bump a counter in place and report whether the row existed.
	IncrementRoomBookings(ctx context.Context, roomID int64) (bool, error)
	IncrementProfileBookings(ctx context.Context, userID int64) (bool, error)
}

type BookingRepository interface {
	WithinTx(ctx context.Context, fn func(tx BookingTx) error) error
	GetBooking(ctx context.Context, id int64) (Booking, error)
	ListBookings(ctx context.Context, q BookingQuery) ([]Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type SessionStore interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	// Lookup returns ErrUnauthorized for unknown or expired tokens.
	Lookup(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

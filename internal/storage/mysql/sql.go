package mysql

// -----------------------------------------------------------------------------
// USERS & PROFILES
// -----------------------------------------------------------------------------

const insertUserSQL = `
INSERT INTO users (email, phone, password_hash)
VALUES (?, ?, ?)
`

// Membership is written by group name; zero rows affected means no such group.
const insertMembershipSQL = `
INSERT INTO user_group_members (user_id, group_id)
SELECT ?, g.id FROM user_groups g WHERE g.name = ?
`

const selectUserSQL = `
SELECT id, email, phone, password_hash, created_at
FROM users
`

const updateUserSQL = `
UPDATE users SET email = ?, phone = ?, password_hash = ?
WHERE id = ?
`

const selectGroupsSQL = `
SELECT m.user_id, g.name
FROM user_group_members m
JOIN user_groups g ON g.id = m.group_id
WHERE m.user_id IN (%s)
ORDER BY g.name
`

const selectProfileSQL = `
SELECT id, user_id, username, bio, birth_date, location, profile_picture, total_bookings
FROM profiles
`

const insertProfileSQL = `
INSERT INTO profiles (user_id, username, bio, birth_date, location, profile_picture)
VALUES (?, ?, ?, ?, ?, ?)
`

// total_bookings is deliberately absent: only the booking engine moves it.
const updateProfileSQL = `
UPDATE profiles
SET username = ?, bio = ?, birth_date = ?, location = ?, profile_picture = ?
WHERE id = ?
`

// -----------------------------------------------------------------------------
// CATALOG
// -----------------------------------------------------------------------------

const hotelSelectSQL = `
SELECT
  h.id, h.owner_id, h.name, h.address, h.city, h.country,
  h.description, h.rating, h.type_id, ht.name, h.preview_image
FROM hotels h
LEFT JOIN hotel_types ht ON ht.id = h.type_id
`

const insertHotelSQL = `
INSERT INTO hotels (owner_id, name, address, city, country, description, rating, type_id, preview_image)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels
SET name = ?, address = ?, city = ?, country = ?, description = ?,
    rating = ?, type_id = ?, preview_image = ?
WHERE id = ?
`

// Rooms always come back with their hotel's display fields.
const roomSelectSQL = `
SELECT
  r.id, r.hotel_id, r.type_id, rt.name, r.name, r.price_per_night,
  r.is_available, r.preview_image, r.total_bookings,
  h.name, ht.name, h.address, h.city, h.country
FROM rooms r
JOIN hotels h ON h.id = r.hotel_id
LEFT JOIN room_types rt ON rt.id = r.type_id
LEFT JOIN hotel_types ht ON ht.id = h.type_id
`

const insertRoomSQL = `
INSERT INTO rooms (hotel_id, type_id, name, price_per_night, is_available, preview_image)
VALUES (?, ?, ?, ?, ?, ?)
`

const updateRoomSQL = `
UPDATE rooms
SET hotel_id = ?, type_id = ?, name = ?, price_per_night = ?, is_available = ?, preview_image = ?
WHERE id = ?
`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

// Locks only the rooms row so bookings on sibling rooms are not serialized.
const lockRoomSQL = `
SELECT id, hotel_id, type_id, name, price_per_night, is_available, preview_image, total_bookings
FROM rooms
WHERE id = ?
FOR UPDATE
`

const bookingSelectSQL = `
SELECT id, user_id, room_id, start_date, end_date, status, created_at, updated_at
FROM bookings
`

// Half-open overlap: existing.start < new.end AND existing.end > new.start.
const overlapSQL = `
SELECT EXISTS (
  SELECT 1 FROM bookings
  WHERE room_id = ? AND start_date < ? AND end_date > ? AND id <> ?%s
)
`

const insertBookingSQL = `
INSERT INTO bookings (user_id, room_id, start_date, end_date, status)
VALUES (?, ?, ?, ?, ?)
`

const updateBookingSQL = `
UPDATE bookings SET start_date = ?, end_date = ?, status = ?
WHERE id = ?
`

const incRoomBookingsSQL = `UPDATE rooms SET total_bookings = total_bookings + 1 WHERE id = ?`

const incProfileBookingsSQL = `UPDATE profiles SET total_bookings = total_bookings + 1 WHERE user_id = ?`

// Booking list rows carry the room (with hotel fields) and the booker.
const bookingListSQL = `
SELECT
  b.id, b.user_id, b.room_id, b.start_date, b.end_date, b.status, b.created_at, b.updated_at,
  r.id, r.hotel_id, r.type_id, rt.name, r.name, r.price_per_night,
  r.is_available, r.preview_image, r.total_bookings,
  h.name, ht.name, h.address, h.city, h.country,
  u.id, u.email, u.phone, u.password_hash, u.created_at
FROM bookings b
JOIN rooms r ON r.id = b.room_id
JOIN hotels h ON h.id = r.hotel_id
JOIN users u ON u.id = b.user_id
LEFT JOIN room_types rt ON rt.id = r.type_id
LEFT JOIN hotel_types ht ON ht.id = h.type_id
`

package mysql

const upsertRoomSQL = `
INSERT INTO rooms
  (id, type, price, availability)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  type         = VALUES(type),
  price        = VALUES(price),
  availability = VALUES(availability),
  updated_at   = CURRENT_TIMESTAMP
`

// Guarded state flips: zero rows affected means the room was not in the
// expected state (somebody else won it, or it was never booked).
const bookRoomSQL = `
UPDATE rooms
SET availability = 'Booked', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND availability = 'Available'
`

const releaseRoomSQL = `
UPDATE rooms
SET availability = 'Available', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND availability = 'Booked'
`

const insertBookingSQL = `
INSERT INTO bookings
  (code, room_id, room_type, price, guest_session, status)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const setBookingStatusSQL = `
UPDATE bookings
SET status = ?, updated_at = CURRENT_TIMESTAMP
WHERE code = ?
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const availabilitySummarySQL = `
SELECT type, price, COUNT(*) AS available_rooms
FROM rooms
WHERE availability = 'Available'
GROUP BY type, price
ORDER BY price
`

const availableByTypeSQL = `
SELECT id, type, price
FROM rooms
WHERE type = ? AND availability = 'Available'
ORDER BY price, id
`

const priceRangeSQL = `
SELECT type, price, COUNT(*) AS room_count
FROM rooms
WHERE availability = 'Available'
  AND price BETWEEN ? AND ?
GROUP BY type, price
ORDER BY price
`

const cheapestAvailableSQL = `
SELECT id, type, price
FROM rooms
WHERE availability = 'Available'
ORDER BY price ASC, id ASC
LIMIT 1
`

const getBookingByCodeSQL = `
SELECT id, code, room_id, room_type, price, guest_session, status, created_at
FROM bookings
WHERE code = ?
`

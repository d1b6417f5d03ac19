package readmodel

import (
	"time"

	"github.com/google/uuid"
)

// BookingRM is the full booking view: the booked window, status, and the
// embedded item/booker summaries the wire contract exposes. ItemOwnerID and
// CreatedAt are carried for access checks and entity reconstruction, never
// serialized.
type BookingRM struct {
	ID          uuid.UUID
	Start       time.Time
	End         time.Time
	Status      string
	CreatedAt   time.Time
	ItemID      uuid.UUID
	ItemName    string
	ItemOwnerID uuid.UUID
	BookerID    uuid.UUID
	BookerName  string
}

// BookingShortRM is the last/next summary shown on owner item views.
type BookingShortRM struct {
	ID       uuid.UUID
	BookerID uuid.UUID
	Start    time.Time
	End      time.Time
}

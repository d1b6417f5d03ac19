package booking

import (
	"time"

	"shareit/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrNotWaiting = errs.New("booking is not in WAITING state")
)

// Booking is a reservation of an item for a period, authored by the booker.
// Item and booker references are immutable after creation; only the status
// changes, exactly once, through Decide.
type Booking struct {
	id        uuid.UUID
	period    Period
	itemID    uuid.UUID
	bookerID  uuid.UUID
	status    Status
	createdAt time.Time
}

func NewBooking(itemID, bookerID uuid.UUID, period Period, now time.Time) *Booking {
	return &Booking{
		id:        uuid.New(),
		period:    period,
		itemID:    itemID,
		bookerID:  bookerID,
		status:    StatusWaiting,
		createdAt: now,
	}
}

func ReconstructBooking(id, itemID, bookerID uuid.UUID, period Period, status Status, createdAt time.Time) *Booking {
	return &Booking{
		id:        id,
		period:    period,
		itemID:    itemID,
		bookerID:  bookerID,
		status:    status,
		createdAt: createdAt,
	}
}

// Decide moves the booking out of WAITING. Terminal states never change
// again; a second decision fails regardless of its value.
func (b *Booking) Decide(approved bool) error {
	if b.status.IsTerminal() {
		return ErrNotWaiting
	}
	if approved {
		b.status = StatusApproved
	} else {
		b.status = StatusRejected
	}
	return nil
}

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) Period() Period       { return b.period }
func (b *Booking) ItemID() uuid.UUID    { return b.itemID }
func (b *Booking) BookerID() uuid.UUID  { return b.bookerID }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

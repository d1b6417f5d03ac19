//go:build unit || e2e

package builder

import (
	"time"

	"shareit/internal/domain/booking"
	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ItemID   uuid.UUID
	BookerID uuid.UUID
	Start    time.Time
	End      time.Time
	Now      time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ItemID:   uuid.New(),
		BookerID: uuid.New(),
		Start:    now.Add(24 * time.Hour),
		End:      now.Add(48 * time.Hour),
		Now:      now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithItem(itemID uuid.UUID) *BookingBuilder {
	b.ItemID = itemID
	return b
}

func (b *BookingBuilder) WithBooker(bookerID uuid.UUID) *BookingBuilder {
	b.BookerID = bookerID
	return b
}

func (b *BookingBuilder) WithPeriod(start, end time.Time) *BookingBuilder {
	b.Start = start
	b.End = end
	return b
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	period, err := booking.NewPeriod(b.Start, b.End)
	if err != nil {
		return nil, err
	}
	return booking.NewBooking(b.ItemID, b.BookerID, period, b.Now), nil
}

func (b *BookingBuilder) BuildReadModel(status booking.Status) *readmodel.BookingRM {
	return &readmodel.BookingRM{
		ID:          uuid.New(),
		Start:       b.Start,
		End:         b.End,
		Status:      status.String(),
		CreatedAt:   b.Now,
		ItemID:      b.ItemID,
		ItemName:    "Cordless Drill",
		ItemOwnerID: uuid.New(),
		BookerID:    b.BookerID,
		BookerName:  "Test User",
	}
}

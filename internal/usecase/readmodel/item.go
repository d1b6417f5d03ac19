package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type ItemRM struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Available   bool
}

// ItemDetailRM is the item view with comments and, for the owner only,
// the last/next approved booking summaries.
type ItemDetailRM struct {
	ItemRM
	LastBooking *BookingShortRM
	NextBooking *BookingShortRM
	Comments    []*CommentRM
}

type CommentRM struct {
	ID         uuid.UUID
	Text       string
	AuthorID   uuid.UUID
	AuthorName string
	CreatedAt  time.Time
}

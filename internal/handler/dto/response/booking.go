package response

import (
	"time"

	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID     uuid.UUID          `json:"id"`
	Start  time.Time          `json:"start"`
	End    time.Time          `json:"end"`
	Status string             `json:"status"`
	Item   BookingItemSummary `json:"item"`
	Booker BookingUserSummary `json:"booker"`
}

type BookingItemSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type BookingUserSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type BookingShortResponse struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func FromBookingRM(rm *readmodel.BookingRM) *BookingResponse {
	return &BookingResponse{
		ID:     rm.ID,
		Start:  rm.Start,
		End:    rm.End,
		Status: rm.Status,
		Item: BookingItemSummary{
			ID:   rm.ItemID,
			Name: rm.ItemName,
		},
		Booker: BookingUserSummary{
			ID:   rm.BookerID,
			Name: rm.BookerName,
		},
	}
}

func FromBookingRMs(rms []*readmodel.BookingRM) []*BookingResponse {
	result := make([]*BookingResponse, 0, len(rms))
	for _, rm := range rms {
		result = append(result, FromBookingRM(rm))
	}
	return result
}

func FromBookingShortRM(rm *readmodel.BookingShortRM) *BookingShortResponse {
	if rm == nil {
		return nil
	}
	return &BookingShortResponse{
		ID:       rm.ID,
		BookerID: rm.BookerID,
		Start:    rm.Start,
		End:      rm.End,
	}
}

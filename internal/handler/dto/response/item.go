package response

import (
	"time"

	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
}

type ItemDetailResponse struct {
	ItemResponse
	LastBooking *BookingShortResponse `json:"lastBooking"`
	NextBooking *BookingShortResponse `json:"nextBooking"`
	Comments    []*CommentResponse    `json:"comments"`
}

type CommentResponse struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromItemRM(rm *readmodel.ItemRM) *ItemResponse {
	return &ItemResponse{
		ID:          rm.ID,
		Name:        rm.Name,
		Description: rm.Description,
		Available:   rm.Available,
	}
}

func FromItemDetailRM(rm *readmodel.ItemDetailRM) *ItemDetailResponse {
	return &ItemDetailResponse{
		ItemResponse: *FromItemRM(&rm.ItemRM),
		LastBooking:  FromBookingShortRM(rm.LastBooking),
		NextBooking:  FromBookingShortRM(rm.NextBooking),
		Comments:     FromCommentRMs(rm.Comments),
	}
}

func FromItemDetailRMs(rms []*readmodel.ItemDetailRM) []*ItemDetailResponse {
	result := make([]*ItemDetailResponse, 0, len(rms))
	for _, rm := range rms {
		result = append(result, FromItemDetailRM(rm))
	}
	return result
}

func FromItemRMs(rms []*readmodel.ItemRM) []*ItemResponse {
	result := make([]*ItemResponse, 0, len(rms))
	for _, rm := range rms {
		result = append(result, FromItemRM(rm))
	}
	return result
}

func FromCommentRM(rm *readmodel.CommentRM) *CommentResponse {
	return &CommentResponse{
		ID:         rm.ID,
		Text:       rm.Text,
		AuthorName: rm.AuthorName,
		CreatedAt:  rm.CreatedAt,
	}
}

func FromCommentRMs(rms []*readmodel.CommentRM) []*CommentResponse {
	result := make([]*CommentResponse, 0, len(rms))
	for _, rm := range rms {
		result = append(result, FromCommentRM(rm))
	}
	return result
}

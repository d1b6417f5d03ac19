package response

import (
	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func FromUserRM(rm *readmodel.UserRM) *UserResponse {
	return &UserResponse{
		ID:    rm.ID,
		Name:  rm.Name,
		Email: rm.Email,
	}
}

func FromUserRMs(rms []*readmodel.UserRM) []*UserResponse {
	result := make([]*UserResponse, 0, len(rms))
	for _, rm := range rms {
		result = append(result, FromUserRM(rm))
	}
	return result
}

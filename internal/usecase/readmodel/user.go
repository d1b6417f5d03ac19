package readmodel

import "github.com/google/uuid"

// UserRM is the read-side representation of a user.
type UserRM struct {
	ID    uuid.UUID
	Name  string
	Email string
}

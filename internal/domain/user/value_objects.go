package user

import (
	"net/mail"
	"strings"
)

type Email struct {
	value string
}

func NewEmail(value string) (Email, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Email{}, ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: strings.ToLower(value)}, nil
}

// ReconstructEmail rehydrates a stored address without re-validating it.
func ReconstructEmail(value string) Email {
	return Email{value: value}
}

func (e Email) String() string {
	return e.value
}

func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

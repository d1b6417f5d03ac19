package user

import (
	"strings"
	"time"

	"shareit/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyName    = errs.New("user name must not be empty")
	ErrInvalidEmail = errs.New("invalid email address")
)

type User struct {
	id        uuid.UUID
	name      string
	email     Email
	createdAt time.Time
}

func NewUser(name, email string, now time.Time) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	addr, err := NewEmail(email)
	if err != nil {
		return nil, err
	}

	return &User{
		id:        uuid.New(),
		name:      name,
		email:     addr,
		createdAt: now,
	}, nil
}

func ReconstructUser(id uuid.UUID, name string, email Email, createdAt time.Time) *User {
	return &User{
		id:        id,
		name:      name,
		email:     email,
		createdAt: createdAt,
	}
}

func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	u.name = name
	return nil
}

func (u *User) ChangeEmail(email string) error {
	addr, err := NewEmail(email)
	if err != nil {
		return err
	}
	u.email = addr
	return nil
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() Email         { return u.email }
func (u *User) CreatedAt() time.Time { return u.createdAt }

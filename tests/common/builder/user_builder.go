//go:build unit || e2e

package builder

import (
	"time"

	"shareit/internal/domain/user"
	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type UserBuilder struct {
	Name  string
	Email string
	Now   time.Time
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Name:  "Test User",
		Email: "test@example.com",
		Now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(b)
	return b
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.Name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

func (b *UserBuilder) BuildDomain() (*user.User, error) {
	return user.NewUser(b.Name, b.Email, b.Now)
}

func (b *UserBuilder) BuildReadModel() *readmodel.UserRM {
	return &readmodel.UserRM{
		ID:    uuid.New(),
		Name:  b.Name,
		Email: b.Email,
	}
}

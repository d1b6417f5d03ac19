//go:build unit || e2e

package builder

import (
	"time"

	"shareit/internal/domain/item"
	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type ItemBuilder struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
	Available   bool
	Now         time.Time
}

func NewItemBuilder() *ItemBuilder {
	return &ItemBuilder{
		OwnerID:     uuid.New(),
		Name:        "Cordless Drill",
		Description: "18V drill with two batteries",
		Available:   true,
		Now:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *ItemBuilder) With(mutate func(*ItemBuilder)) *ItemBuilder {
	mutate(b)
	return b
}

func (b *ItemBuilder) WithOwner(ownerID uuid.UUID) *ItemBuilder {
	b.OwnerID = ownerID
	return b
}

func (b *ItemBuilder) WithName(name string) *ItemBuilder {
	b.Name = name
	return b
}

func (b *ItemBuilder) WithDescription(description string) *ItemBuilder {
	b.Description = description
	return b
}

func (b *ItemBuilder) WithAvailable(available bool) *ItemBuilder {
	b.Available = available
	return b
}

func (b *ItemBuilder) BuildDomain() (*item.Item, error) {
	return item.NewItem(b.OwnerID, b.Name, b.Description, b.Available, b.Now)
}

func (b *ItemBuilder) BuildReadModel() *readmodel.ItemRM {
	return &readmodel.ItemRM{
		ID:          uuid.New(),
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Description: b.Description,
		Available:   b.Available,
	}
}

func (b *ItemBuilder) BuildDetailReadModel() *readmodel.ItemDetailRM {
	return &readmodel.ItemDetailRM{
		ItemRM: *b.BuildReadModel(),
	}
}

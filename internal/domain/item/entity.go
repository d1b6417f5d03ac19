package item

import (
	"strings"
	"time"

	"shareit/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyName        = errs.New("item name must not be empty")
	ErrEmptyDescription = errs.New("item description must not be empty")
)

// Item is a shareable thing listed by its owner. The availability flag
// gates booking creation; it never changes as a side effect of bookings,
// only through an explicit owner update.
type Item struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	name        string
	description string
	available   bool
	createdAt   time.Time
}

func NewItem(ownerID uuid.UUID, name, description string, available bool, now time.Time) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	return &Item{
		id:          uuid.New(),
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		createdAt:   now,
	}, nil
}

func ReconstructItem(id, ownerID uuid.UUID, name, description string, available bool, createdAt time.Time) *Item {
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		createdAt:   createdAt,
	}
}

// Patch applies the non-nil fields of an owner update.
func (i *Item) Patch(name, description *string, available *bool) error {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return ErrEmptyName
		}
		i.name = trimmed
	}
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if trimmed == "" {
			return ErrEmptyDescription
		}
		i.description = trimmed
	}
	if available != nil {
		i.available = *available
	}
	return nil
}

func (i *Item) IsOwnedBy(userID uuid.UUID) bool {
	return i.ownerID == userID
}

func (i *Item) ID() uuid.UUID        { return i.id }
func (i *Item) OwnerID() uuid.UUID   { return i.ownerID }
func (i *Item) Name() string         { return i.name }
func (i *Item) Description() string  { return i.description }
func (i *Item) Available() bool      { return i.available }
func (i *Item) CreatedAt() time.Time { return i.createdAt }

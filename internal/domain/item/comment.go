package item

import (
	"strings"
	"time"

	"shareit/internal/pkg/errs"

	"github.com/google/uuid"
)

const MaxCommentLength = 2000

var (
	ErrEmptyComment   = errs.New("comment text must not be empty")
	ErrCommentTooLong = errs.New("comment text exceeds maximum length")
)

// Comment is post-rental feedback on an item. The creation instant is
// assigned by the server, never taken from the client.
type Comment struct {
	id        uuid.UUID
	itemID    uuid.UUID
	authorID  uuid.UUID
	text      string
	createdAt time.Time
}

func NewComment(itemID, authorID uuid.UUID, text string, now time.Time) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	if len(text) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	return &Comment{
		id:        uuid.New(),
		itemID:    itemID,
		authorID:  authorID,
		text:      text,
		createdAt: now,
	}, nil
}

func ReconstructComment(id, itemID, authorID uuid.UUID, text string, createdAt time.Time) *Comment {
	return &Comment{
		id:        id,
		itemID:    itemID,
		authorID:  authorID,
		text:      text,
		createdAt: createdAt,
	}
}

func (c *Comment) ID() uuid.UUID        { return c.id }
func (c *Comment) ItemID() uuid.UUID    { return c.itemID }
func (c *Comment) AuthorID() uuid.UUID  { return c.authorID }
func (c *Comment) Text() string         { return c.text }
func (c *Comment) CreatedAt() time.Time { return c.createdAt }

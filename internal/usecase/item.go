package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"shareit/internal/domain/item"
	"shareit/internal/infra"
	"shareit/internal/pkg/clock"
	"shareit/internal/pkg/errs"
	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var (
	ErrInvalidItem    = errors.New("invalid item")
	ErrInvalidComment = errors.New("invalid comment")

	// Rental must be APPROVED and finished before commenting is allowed.
	ErrRentalNotCompleted = errors.New("user has not rented this item or the rental is not finished")
)

type ItemRepository interface {
	Create(ctx context.Context, it *item.Item) error
	Update(ctx context.Context, it *item.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*readmodel.ItemRM, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*readmodel.ItemRM, error)
	Search(ctx context.Context, text string) ([]*readmodel.ItemRM, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *item.Comment) error
	FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*readmodel.CommentRM, error)
}

type CreateItemParams struct {
	Name        string
	Description string
	Available   bool
}

type UpdateItemParams struct {
	Name        *string
	Description *string
	Available   *bool
}

type ItemUseCase interface {
	Create(ctx context.Context, params CreateItemParams, ownerID uuid.UUID) (*readmodel.ItemRM, error)
	Update(ctx context.Context, itemID uuid.UUID, params UpdateItemParams, userID uuid.UUID) (*readmodel.ItemRM, error)
	GetByID(ctx context.Context, itemID uuid.UUID, userID *uuid.UUID) (*readmodel.ItemDetailRM, error)
	GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*readmodel.ItemDetailRM, error)
	Search(ctx context.Context, text string) ([]*readmodel.ItemRM, error)
	AddComment(ctx context.Context, itemID, userID uuid.UUID, text string) (*readmodel.CommentRM, error)
}

type itemUseCaseImpl struct {
	itemRepo    ItemRepository
	userRepo    UserRepository
	bookingRepo BookingRepository
	commentRepo CommentRepository
	clock       clock.Clock
}

func NewItemUseCase(
	itemRepo ItemRepository,
	userRepo UserRepository,
	bookingRepo BookingRepository,
	commentRepo CommentRepository,
	clk clock.Clock,
) ItemUseCase {
	return &itemUseCaseImpl{
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		commentRepo: commentRepo,
		clock:       clk,
	}
}

func (u *itemUseCaseImpl) Create(ctx context.Context, params CreateItemParams, ownerID uuid.UUID) (*readmodel.ItemRM, error) {
	if _, err := u.userRepo.FindByID(ctx, ownerID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrUserNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	it, err := item.NewItem(ownerID, params.Name, params.Description, params.Available, u.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidItem)
	}

	if err := u.itemRepo.Create(ctx, it); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return toItemRM(it), nil
}

func (u *itemUseCaseImpl) Update(ctx context.Context, itemID uuid.UUID, params UpdateItemParams, userID uuid.UUID) (*readmodel.ItemRM, error) {
	rm, err := u.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrItemNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	// A non-owner update gets not-found, the same disguise as self-booking.
	if rm.OwnerID != userID {
		return nil, ErrItemNotFound
	}

	it := item.ReconstructItem(rm.ID, rm.OwnerID, rm.Name, rm.Description, rm.Available, u.clock.Now())
	if err := it.Patch(params.Name, params.Description, params.Available); err != nil {
		return nil, errs.Mark(err, ErrInvalidItem)
	}

	if err := u.itemRepo.Update(ctx, it); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return toItemRM(it), nil
}

func (u *itemUseCaseImpl) GetByID(ctx context.Context, itemID uuid.UUID, userID *uuid.UUID) (*readmodel.ItemDetailRM, error) {
	rm, err := u.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrItemNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	comments, err := u.commentRepo.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	detail := &readmodel.ItemDetailRM{ItemRM: *rm, Comments: comments}

	// Last/next summaries are owner-only; the check is a plain identity
	// comparison, the caller is not re-resolved through the directory.
	if userID != nil && *userID == rm.OwnerID {
		if err := u.attachBookingSummaries(ctx, detail, u.clock.Now()); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (u *itemUseCaseImpl) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*readmodel.ItemDetailRM, error) {
	if _, err := u.userRepo.FindByID(ctx, ownerID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrUserNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	items, err := u.itemRepo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	// One clock sample for the whole listing keeps every item's last/next
	// classified against the same instant.
	now := u.clock.Now()

	result := make([]*readmodel.ItemDetailRM, 0, len(items))
	for _, rm := range items {
		detail := &readmodel.ItemDetailRM{ItemRM: *rm}
		if err := u.attachBookingSummaries(ctx, detail, now); err != nil {
			return nil, err
		}
		result = append(result, detail)
	}
	return result, nil
}

func (u *itemUseCaseImpl) Search(ctx context.Context, text string) ([]*readmodel.ItemRM, error) {
	// Blank search text returns an empty set, not an error.
	if strings.TrimSpace(text) == "" {
		return []*readmodel.ItemRM{}, nil
	}

	result, err := u.itemRepo.Search(ctx, text)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return result, nil
}

func (u *itemUseCaseImpl) AddComment(ctx context.Context, itemID, userID uuid.UUID, text string) (*readmodel.CommentRM, error) {
	if _, err := u.itemRepo.FindByID(ctx, itemID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrItemNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	author, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrUserNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	now := u.clock.Now()

	completed, err := u.bookingRepo.ExistsCompleted(ctx, itemID, userID, now)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	if !completed {
		return nil, ErrRentalNotCompleted
	}

	c, err := item.NewComment(itemID, userID, text, now)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidComment)
	}

	if err := u.commentRepo.Create(ctx, c); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	return &readmodel.CommentRM{
		ID:         c.ID(),
		Text:       c.Text(),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		CreatedAt:  c.CreatedAt(),
	}, nil
}

func (u *itemUseCaseImpl) attachBookingSummaries(ctx context.Context, detail *readmodel.ItemDetailRM, now time.Time) error {
	last, err := u.bookingRepo.FindLastForItem(ctx, detail.ID, now)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperation)
	}
	next, err := u.bookingRepo.FindNextForItem(ctx, detail.ID, now)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperation)
	}

	detail.LastBooking = last
	detail.NextBooking = next
	return nil
}

func toItemRM(it *item.Item) *readmodel.ItemRM {
	return &readmodel.ItemRM{
		ID:          it.ID(),
		OwnerID:     it.OwnerID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
	}
}

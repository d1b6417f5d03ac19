package usecase

import (
	"context"
	"errors"
	"time"

	"shareit/internal/domain/booking"
	"shareit/internal/infra"
	"shareit/internal/pkg/clock"
	"shareit/internal/pkg/errs"
	"shareit/internal/pkg/metrics"
	"shareit/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrItemNotFound    = errors.New("item not found")

	ErrInvalidPeriod     = errors.New("start date must be before end date")
	ErrItemUnavailable   = errors.New("item is not available for booking")
	ErrNotItemOwner      = errors.New("only owner can approve/reject booking")
	ErrBookingNotWaiting = errors.New("booking is not in WAITING state")
	ErrUnsupportedState  = errors.New("unsupported state")
	ErrDatabaseOperation = errors.New("database operation failed")

	// The owner booking their own item is reported as not-found on purpose:
	// the response must not reveal that the rule exists.
	ErrOwnItemBooking = errors.New("owner cannot book own item")
)

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*readmodel.BookingRM, error)
	UpdateStatusIfWaiting(ctx context.Context, id uuid.UUID, status booking.Status) (bool, error)

	FindByBookerID(ctx context.Context, bookerID uuid.UUID) ([]*readmodel.BookingRM, error)
	FindByBookerIDCurrent(ctx context.Context, bookerID uuid.UUID, now time.Time) ([]*readmodel.BookingRM, error)
	FindByBookerIDPast(ctx context.Context, bookerID uuid.UUID, now time.Time) ([]*readmodel.BookingRM, error)
	FindByBookerIDFuture(ctx context.Context, bookerID uuid.UUID, now time.Time) ([]*readmodel.BookingRM, error)
	FindByBookerIDStatus(ctx context.Context, bookerID uuid.UUID, status booking.Status) ([]*readmodel.BookingRM, error)

	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*readmodel.BookingRM, error)
	FindByOwnerIDCurrent(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]*readmodel.BookingRM, error)
	FindByOwnerIDPast(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]*readmodel.BookingRM, error)
	FindByOwnerIDFuture(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]*readmodel.BookingRM, error)
	FindByOwnerIDStatus(ctx context.Context, ownerID uuid.UUID, status booking.Status) ([]*readmodel.BookingRM, error)

	FindLastForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*readmodel.BookingShortRM, error)
	FindNextForItem(ctx context.Context, itemID uuid.UUID, now time.Time) (*readmodel.BookingShortRM, error)
	ExistsCompleted(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) (bool, error)
}

type CreateBookingParams struct {
	ItemID uuid.UUID
	Start  time.Time
	End    time.Time
}

type BookingUseCase interface {
	Create(ctx context.Context, params CreateBookingParams, bookerID uuid.UUID) (*readmodel.BookingRM, error)
	Approve(ctx context.Context, bookingID, userID uuid.UUID, approved bool) (*readmodel.BookingRM, error)
	GetByID(ctx context.Context, bookingID, userID uuid.UUID) (*readmodel.BookingRM, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, state booking.State) ([]*readmodel.BookingRM, error)
	GetOwnerBookings(ctx context.Context, ownerID uuid.UUID, state booking.State) ([]*readmodel.BookingRM, error)
}

type bookingUseCaseImpl struct {
	bookingRepo BookingRepository
	userRepo    UserRepository
	itemRepo    ItemRepository
	clock       clock.Clock
}

func NewBookingUseCase(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	itemRepo ItemRepository,
	clk clock.Clock,
) BookingUseCase {
	return &bookingUseCaseImpl{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		itemRepo:    itemRepo,
		clock:       clk,
	}
}

func (u *bookingUseCaseImpl) Create(ctx context.Context, params CreateBookingParams, bookerID uuid.UUID) (*readmodel.BookingRM, error) {
	period, err := booking.NewPeriod(params.Start, params.End)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPeriod)
	}

	if _, err := u.userRepo.FindByID(ctx, bookerID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrUserNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	itemRM, err := u.itemRepo.FindByID(ctx, params.ItemID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrItemNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	if !itemRM.Available {
		return nil, ErrItemUnavailable
	}
	if itemRM.OwnerID == bookerID {
		return nil, ErrOwnItemBooking
	}

	// No overlap check against existing bookings for the same item/interval:
	// the create contract is deliberately this narrow.
	b := booking.NewBooking(params.ItemID, bookerID, period, u.clock.Now())
	if err := u.bookingRepo.Create(ctx, b); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	metrics.IncBookingCreated()

	rm, err := u.bookingRepo.FindByID(ctx, b.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return rm, nil
}

func (u *bookingUseCaseImpl) Approve(ctx context.Context, bookingID, userID uuid.UUID, approved bool) (*readmodel.BookingRM, error) {
	rm, err := u.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	if rm.ItemOwnerID != userID {
		return nil, ErrNotItemOwner
	}

	b := booking.ReconstructBooking(rm.ID, rm.ItemID, rm.BookerID,
		booking.ReconstructPeriod(rm.Start, rm.End),
		booking.Status(rm.Status), rm.CreatedAt)
	if err := b.Decide(approved); err != nil {
		return nil, errs.Mark(err, ErrBookingNotWaiting)
	}
	next := b.Status()

	// Compare-and-set in the store: a concurrent decision that won the race
	// leaves zero rows for this one, which then fails like any re-approval.
	updated, err := u.bookingRepo.UpdateStatusIfWaiting(ctx, bookingID, next)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	if !updated {
		return nil, ErrBookingNotWaiting
	}

	metrics.IncBookingDecision(next.String())

	rm.Status = next.String()
	return rm, nil
}

func (u *bookingUseCaseImpl) GetByID(ctx context.Context, bookingID, userID uuid.UUID) (*readmodel.BookingRM, error) {
	rm, err := u.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	// Only the booker and the item owner may read a booking. Everyone else
	// gets not-found so the booking's existence is not disclosed.
	if rm.BookerID != userID && rm.ItemOwnerID != userID {
		return nil, ErrBookingNotFound
	}
	return rm, nil
}

func (u *bookingUseCaseImpl) GetUserBookings(ctx context.Context, userID uuid.UUID, state booking.State) ([]*readmodel.BookingRM, error) {
	if _, err := u.userRepo.FindByID(ctx, userID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrUserNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	now := u.clock.Now()

	var (
		result []*readmodel.BookingRM
		err    error
	)
	switch state {
	case booking.StateAll:
		result, err = u.bookingRepo.FindByBookerID(ctx, userID)
	case booking.StateCurrent:
		result, err = u.bookingRepo.FindByBookerIDCurrent(ctx, userID, now)
	case booking.StatePast:
		result, err = u.bookingRepo.FindByBookerIDPast(ctx, userID, now)
	case booking.StateFuture:
		result, err = u.bookingRepo.FindByBookerIDFuture(ctx, userID, now)
	case booking.StateWaiting:
		result, err = u.bookingRepo.FindByBookerIDStatus(ctx, userID, booking.StatusWaiting)
	case booking.StateRejected:
		result, err = u.bookingRepo.FindByBookerIDStatus(ctx, userID, booking.StatusRejected)
	default:
		// APPROVED is part of the vocabulary but has no dispatch branch.
		return nil, errs.Mark(errs.Newf("unsupported state: %s", state), ErrUnsupportedState)
	}
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return result, nil
}

func (u *bookingUseCaseImpl) GetOwnerBookings(ctx context.Context, ownerID uuid.UUID, state booking.State) ([]*readmodel.BookingRM, error) {
	if _, err := u.userRepo.FindByID(ctx, ownerID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrUserNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	now := u.clock.Now()

	var (
		result []*readmodel.BookingRM
		err    error
	)
	switch state {
	case booking.StateAll:
		result, err = u.bookingRepo.FindByOwnerID(ctx, ownerID)
	case booking.StateCurrent:
		result, err = u.bookingRepo.FindByOwnerIDCurrent(ctx, ownerID, now)
	case booking.StatePast:
		result, err = u.bookingRepo.FindByOwnerIDPast(ctx, ownerID, now)
	case booking.StateFuture:
		result, err = u.bookingRepo.FindByOwnerIDFuture(ctx, ownerID, now)
	case booking.StateWaiting:
		result, err = u.bookingRepo.FindByOwnerIDStatus(ctx, ownerID, booking.StatusWaiting)
	case booking.StateRejected:
		result, err = u.bookingRepo.FindByOwnerIDStatus(ctx, ownerID, booking.StatusRejected)
	default:
		return nil, errs.Mark(errs.Newf("unsupported state: %s", state), ErrUnsupportedState)
	}
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	return result, nil
}

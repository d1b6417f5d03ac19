//go:build unit

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shareit/internal/domain/booking"
	"shareit/internal/infra"
	"shareit/internal/pkg/clock"
	"shareit/internal/pkg/errs"
	"shareit/internal/usecase"
	"shareit/internal/usecase/readmodel"
	"shareit/tests/common/builder"
	usecasemock "shareit/tests/mock/usecase"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(msg, errors.New("no rows in result set"), infra.KindNotFound)
}

func dbErr(msg string) error {
	return infra.WrapRepoErr(msg, errors.New("connection refused"))
}

func duplicateKeyErr(msg string) error {
	return infra.WrapRepoErr(msg, errors.New("duplicate key value violates unique constraint"), infra.KindDuplicateKey)
}

// assertErrIs matches sentinels through errs.Is. Sentinels attached with
// errs.Mark ride outside the Unwrap chain, where the standard library's
// errors.Is never looks.
func assertErrIs(t *testing.T, err, want error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errs.Is(err, want), "error = %v, want %v", err, want)
}

type BookingUseCaseTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	bookingRepo *usecasemock.MockBookingRepository
	userRepo    *usecasemock.MockUserRepository
	itemRepo    *usecasemock.MockItemRepository
	clk         *clock.MockClock
	uc          usecase.BookingUseCase
}

func (s *BookingUseCaseTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.bookingRepo = usecasemock.NewMockBookingRepository(s.ctrl)
	s.userRepo = usecasemock.NewMockUserRepository(s.ctrl)
	s.itemRepo = usecasemock.NewMockItemRepository(s.ctrl)
	s.clk = clock.NewMockClock(testNow)
	s.uc = usecase.NewBookingUseCase(s.bookingRepo, s.userRepo, s.itemRepo, s.clk)
}

func (s *BookingUseCaseTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestBookingUseCaseSuite(t *testing.T) {
	suite.Run(t, new(BookingUseCaseTestSuite))
}

func (s *BookingUseCaseTestSuite) params() usecase.CreateBookingParams {
	return usecase.CreateBookingParams{
		ItemID: uuid.New(),
		Start:  testNow.Add(24 * time.Hour),
		End:    testNow.Add(48 * time.Hour),
	}
}

func (s *BookingUseCaseTestSuite) TestCreate() {
	ctx := context.Background()
	bookerID := uuid.New()
	booker := &readmodel.UserRM{ID: bookerID, Name: "Booker", Email: "booker@example.com"}

	s.Run("success: booking lands in WAITING", func() {
		params := s.params()
		itemRM := &readmodel.ItemRM{ID: params.ItemID, OwnerID: uuid.New(), Name: "Drill", Available: true}
		expected := &readmodel.BookingRM{
			Start: params.Start, End: params.End,
			Status: booking.StatusWaiting.String(),
			ItemID: params.ItemID, ItemName: itemRM.Name, ItemOwnerID: itemRM.OwnerID,
			BookerID: bookerID, BookerName: booker.Name,
		}

		s.userRepo.EXPECT().FindByID(ctx, bookerID).Return(booker, nil)
		s.itemRepo.EXPECT().FindByID(ctx, params.ItemID).Return(itemRM, nil)
		s.bookingRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, b *booking.Booking) error {
				s.Equal(booking.StatusWaiting, b.Status())
				s.Equal(params.ItemID, b.ItemID())
				s.Equal(bookerID, b.BookerID())
				s.Equal(testNow, b.CreatedAt())
				expected.ID = b.ID()
				return nil
			})
		s.bookingRepo.EXPECT().FindByID(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, id uuid.UUID) (*readmodel.BookingRM, error) {
				s.Equal(expected.ID, id)
				return expected, nil
			})

		rm, err := s.uc.Create(ctx, params, bookerID)
		s.Require().NoError(err)
		if diff := cmp.Diff(expected, rm); diff != "" {
			s.Failf("booking mismatch", "(-want +got):\n%s", diff)
		}
	})

	s.Run("error: reversed period", func() {
		params := s.params()
		params.Start, params.End = params.End, params.Start

		_, err := s.uc.Create(ctx, params, bookerID)
		assertErrIs(s.T(), err, usecase.ErrInvalidPeriod)
	})

	s.Run("error: equal start and end", func() {
		params := s.params()
		params.End = params.Start

		_, err := s.uc.Create(ctx, params, bookerID)
		assertErrIs(s.T(), err, usecase.ErrInvalidPeriod)
	})

	s.Run("error: unknown booker", func() {
		params := s.params()
		s.userRepo.EXPECT().FindByID(ctx, bookerID).Return(nil, notFoundErr("user not found"))

		_, err := s.uc.Create(ctx, params, bookerID)
		assertErrIs(s.T(), err, usecase.ErrUserNotFound)
	})

	s.Run("error: unknown item", func() {
		params := s.params()
		s.userRepo.EXPECT().FindByID(ctx, bookerID).Return(booker, nil)
		s.itemRepo.EXPECT().FindByID(ctx, params.ItemID).Return(nil, notFoundErr("item not found"))

		_, err := s.uc.Create(ctx, params, bookerID)
		assertErrIs(s.T(), err, usecase.ErrItemNotFound)
	})

	s.Run("error: unavailable item", func() {
		params := s.params()
		itemRM := &readmodel.ItemRM{ID: params.ItemID, OwnerID: uuid.New(), Available: false}
		s.userRepo.EXPECT().FindByID(ctx, bookerID).Return(booker, nil)
		s.itemRepo.EXPECT().FindByID(ctx, params.ItemID).Return(itemRM, nil)

		_, err := s.uc.Create(ctx, params, bookerID)
		assertErrIs(s.T(), err, usecase.ErrItemUnavailable)
	})

	s.Run("error: owner books own item", func() {
		params := s.params()
		itemRM := &readmodel.ItemRM{ID: params.ItemID, OwnerID: bookerID, Available: true}
		s.userRepo.EXPECT().FindByID(ctx, bookerID).Return(booker, nil)
		s.itemRepo.EXPECT().FindByID(ctx, params.ItemID).Return(itemRM, nil)

		_, err := s.uc.Create(ctx, params, bookerID)
		assertErrIs(s.T(), err, usecase.ErrOwnItemBooking)
	})
}

func (s *BookingUseCaseTestSuite) TestApprove() {
	ctx := context.Background()
	ownerID := uuid.New()
	bookingID := uuid.New()

	waiting := func() *readmodel.BookingRM {
		return &readmodel.BookingRM{
			ID:          bookingID,
			Status:      booking.StatusWaiting.String(),
			ItemOwnerID: ownerID,
			BookerID:    uuid.New(),
		}
	}

	s.Run("success: approval", func() {
		s.bookingRepo.EXPECT().FindByID(ctx, bookingID).Return(waiting(), nil)
		s.bookingRepo.EXPECT().UpdateStatusIfWaiting(ctx, bookingID, booking.StatusApproved).Return(true, nil)

		rm, err := s.uc.Approve(ctx, bookingID, ownerID, true)
		s.Require().NoError(err)
		s.Equal(booking.StatusApproved.String(), rm.Status)
	})

	s.Run("success: rejection", func() {
		s.bookingRepo.EXPECT().FindByID(ctx, bookingID).Return(waiting(), nil)
		s.bookingRepo.EXPECT().UpdateStatusIfWaiting(ctx, bookingID, booking.StatusRejected).Return(true, nil)

		rm, err := s.uc.Approve(ctx, bookingID, ownerID, false)
		s.Require().NoError(err)
		s.Equal(booking.StatusRejected.String(), rm.Status)
	})

	s.Run("error: unknown booking", func() {
		s.bookingRepo.EXPECT().FindByID(ctx, bookingID).Return(nil, notFoundErr("booking not found"))

		_, err := s.uc.Approve(ctx, bookingID, ownerID, true)
		assertErrIs(s.T(), err, usecase.ErrBookingNotFound)
	})

	s.Run("error: caller is not the owner", func() {
		s.bookingRepo.EXPECT().FindByID(ctx, bookingID).Return(waiting(), nil)

		_, err := s.uc.Approve(ctx, bookingID, uuid.New(), true)
		assertErrIs(s.T(), err, usecase.ErrNotItemOwner)
	})

	s.Run("error: already decided", func() {
		decided := waiting()
		decided.Status = booking.StatusApproved.String()
		s.bookingRepo.EXPECT().FindByID(ctx, bookingID).Return(decided, nil)

		_, err := s.uc.Approve(ctx, bookingID, ownerID, false)
		assertErrIs(s.T(), err, usecase.ErrBookingNotWaiting)
	})

	s.Run("error: concurrent decision wins the race", func() {
		// The read sees WAITING but the store-level compare-and-set loses.
		s.bookingRepo.EXPECT().FindByID(ctx, bookingID).Return(waiting(), nil)
		s.bookingRepo.EXPECT().UpdateStatusIfWaiting(ctx, bookingID, booking.StatusApproved).Return(false, nil)

		_, err := s.uc.Approve(ctx, bookingID, ownerID, true)
		assertErrIs(s.T(), err, usecase.ErrBookingNotWaiting)
	})
}

func (s *BookingUseCaseTestSuite) TestGetByID() {
	ctx := context.Background()
	bookingID := uuid.New()
	bookerID := uuid.New()
	ownerID := uuid.New()

	rm := &readmodel.BookingRM{ID: bookingID, BookerID: bookerID, ItemOwnerID: ownerID}

	s.Run("booker can read", func() {
		s.bookingRepo.EXPECT().FindByID(ctx, bookingID).Return(rm, nil)

		got, err := s.uc.GetByID(ctx, bookingID, bookerID)
		s.Require().NoError(err)
		s.Equal(rm, got)
	})

	s.Run("item owner can read", func() {
		s.bookingRepo.EXPECT().FindByID(ctx, bookingID).Return(rm, nil)

		got, err := s.uc.GetByID(ctx, bookingID, ownerID)
		s.Require().NoError(err)
		s.Equal(rm, got)
	})

	s.Run("anyone else gets not-found", func() {
		s.bookingRepo.EXPECT().FindByID(ctx, bookingID).Return(rm, nil)

		_, err := s.uc.GetByID(ctx, bookingID, uuid.New())
		assertErrIs(s.T(), err, usecase.ErrBookingNotFound)
	})
}

func (s *BookingUseCaseTestSuite) TestGetUserBookings() {
	ctx := context.Background()
	userID := uuid.New()
	userRM := &readmodel.UserRM{ID: userID}
	listing := []*readmodel.BookingRM{builder.NewBookingBuilder().BuildReadModel(booking.StatusWaiting)}

	s.Run("dispatch per state", func() {
		cases := []struct {
			state  booking.State
			expect func()
		}{
			{booking.StateAll, func() {
				s.bookingRepo.EXPECT().FindByBookerID(ctx, userID).Return(listing, nil)
			}},
			{booking.StateCurrent, func() {
				s.bookingRepo.EXPECT().FindByBookerIDCurrent(ctx, userID, testNow).Return(listing, nil)
			}},
			{booking.StatePast, func() {
				s.bookingRepo.EXPECT().FindByBookerIDPast(ctx, userID, testNow).Return(listing, nil)
			}},
			{booking.StateFuture, func() {
				s.bookingRepo.EXPECT().FindByBookerIDFuture(ctx, userID, testNow).Return(listing, nil)
			}},
			{booking.StateWaiting, func() {
				s.bookingRepo.EXPECT().FindByBookerIDStatus(ctx, userID, booking.StatusWaiting).Return(listing, nil)
			}},
			{booking.StateRejected, func() {
				s.bookingRepo.EXPECT().FindByBookerIDStatus(ctx, userID, booking.StatusRejected).Return(listing, nil)
			}},
		}
		for _, tc := range cases {
			s.Run(tc.state.String(), func() {
				s.userRepo.EXPECT().FindByID(ctx, userID).Return(userRM, nil)
				tc.expect()

				got, err := s.uc.GetUserBookings(ctx, userID, tc.state)
				s.Require().NoError(err)
				s.Equal(listing, got)
			})
		}
	})

	s.Run("error: APPROVED has no listing shape", func() {
		s.userRepo.EXPECT().FindByID(ctx, userID).Return(userRM, nil)

		_, err := s.uc.GetUserBookings(ctx, userID, booking.StateApproved)
		assertErrIs(s.T(), err, usecase.ErrUnsupportedState)
	})

	s.Run("error: unknown caller", func() {
		s.userRepo.EXPECT().FindByID(ctx, userID).Return(nil, notFoundErr("user not found"))

		_, err := s.uc.GetUserBookings(ctx, userID, booking.StateAll)
		assertErrIs(s.T(), err, usecase.ErrUserNotFound)
	})

	s.Run("error: repository failure", func() {
		s.userRepo.EXPECT().FindByID(ctx, userID).Return(userRM, nil)
		s.bookingRepo.EXPECT().FindByBookerID(ctx, userID).Return(nil, dbErr("query failed"))

		_, err := s.uc.GetUserBookings(ctx, userID, booking.StateAll)
		assertErrIs(s.T(), err, usecase.ErrDatabaseOperation)
	})
}

func (s *BookingUseCaseTestSuite) TestGetOwnerBookings() {
	ctx := context.Background()
	ownerID := uuid.New()
	ownerRM := &readmodel.UserRM{ID: ownerID}
	listing := []*readmodel.BookingRM{builder.NewBookingBuilder().BuildReadModel(booking.StatusApproved)}

	s.Run("dispatch per state", func() {
		cases := []struct {
			state  booking.State
			expect func()
		}{
			{booking.StateAll, func() {
				s.bookingRepo.EXPECT().FindByOwnerID(ctx, ownerID).Return(listing, nil)
			}},
			{booking.StateCurrent, func() {
				s.bookingRepo.EXPECT().FindByOwnerIDCurrent(ctx, ownerID, testNow).Return(listing, nil)
			}},
			{booking.StatePast, func() {
				s.bookingRepo.EXPECT().FindByOwnerIDPast(ctx, ownerID, testNow).Return(listing, nil)
			}},
			{booking.StateFuture, func() {
				s.bookingRepo.EXPECT().FindByOwnerIDFuture(ctx, ownerID, testNow).Return(listing, nil)
			}},
			{booking.StateWaiting, func() {
				s.bookingRepo.EXPECT().FindByOwnerIDStatus(ctx, ownerID, booking.StatusWaiting).Return(listing, nil)
			}},
			{booking.StateRejected, func() {
				s.bookingRepo.EXPECT().FindByOwnerIDStatus(ctx, ownerID, booking.StatusRejected).Return(listing, nil)
			}},
		}
		for _, tc := range cases {
			s.Run(tc.state.String(), func() {
				s.userRepo.EXPECT().FindByID(ctx, ownerID).Return(ownerRM, nil)
				tc.expect()

				got, err := s.uc.GetOwnerBookings(ctx, ownerID, tc.state)
				s.Require().NoError(err)
				s.Equal(listing, got)
			})
		}
	})

	s.Run("error: APPROVED has no listing shape", func() {
		s.userRepo.EXPECT().FindByID(ctx, ownerID).Return(ownerRM, nil)

		_, err := s.uc.GetOwnerBookings(ctx, ownerID, booking.StateApproved)
		assertErrIs(s.T(), err, usecase.ErrUnsupportedState)
	})
}
